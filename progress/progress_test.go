package progress

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventConstructors(t *testing.T) {
	assert.Equal(t, Event{Kind: EventStarted}, Started())
	assert.Equal(t, Event{Kind: EventFinished, Success: true}, Finished(true))

	e := ItemsInProgress("cal1", 2, 5, "fetching")
	assert.Equal(t, EventItemsInProgress, e.Kind)
	assert.Equal(t, "cal1", e.Calendar)
	assert.Equal(t, 2, e.Done)
	assert.Equal(t, 5, e.Total)

	msg := Message(SeverityWarn, "uh oh")
	assert.Equal(t, SeverityWarn, msg.Severity)
	assert.Equal(t, "uh oh", msg.Detail)
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "items[cal1] 2/5 fetching", ItemsInProgress("cal1", 2, 5, "fetching").String())
	assert.Equal(t, "finished success=true", Finished(true).String())
	assert.Equal(t, "started", Started().String())
}

func TestChannelReporterNonBlocking(t *testing.T) {
	r := NewChannelReporter(1)
	r.Report(Started())
	r.Report(Finished(true)) // channel full; must not block or panic

	got := <-r.C
	assert.Equal(t, EventStarted, got.Kind)
}

func TestMultiReporterFansOut(t *testing.T) {
	a := NewChannelReporter(1)
	b := NewChannelReporter(1)
	multi := MultiReporter{a, b}

	multi.Report(Started())

	assert.Equal(t, EventStarted, (<-a.C).Kind)
	assert.Equal(t, EventStarted, (<-b.C).Kind)
}

func TestSlogReporterDoesNotPanic(t *testing.T) {
	r := NewSlogReporter(slog.Default())
	r.Report(Started())
	r.Report(ItemsInProgress("cal1", 1, 2, "x"))
	r.Report(PropsInProgress("cal1", 1, 2, "x"))
	r.Report(Message(SeverityError, "bad"))
	r.Report(Finished(false))
}
