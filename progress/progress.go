// Package progress defines the SyncEvent stream the engine emits as it
// runs and a couple of stock Reporter implementations.
package progress

import (
	"context"
	"fmt"
	"log/slog"
)

// EventKind discriminates the members of the SyncEvent sum type.
type EventKind string

const (
	EventStarted         EventKind = "started"
	EventItemsInProgress  EventKind = "items_in_progress"
	EventPropsInProgress  EventKind = "props_in_progress"
	EventFinished         EventKind = "finished"
	EventMessage          EventKind = "message"
)

// Severity tags a Message event.
type Severity string

const (
	SeverityDebug Severity = "debug"
	SeverityInfo  Severity = "info"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// Event is one point in the sync pass's progress stream. Only the fields
// relevant to Kind are meaningful; the rest are zero.
type Event struct {
	Kind EventKind

	Calendar string // ItemsInProgress, PropsInProgress
	Done     int    // ItemsInProgress, PropsInProgress
	Total    int    // ItemsInProgress, PropsInProgress
	Detail   string // ItemsInProgress, PropsInProgress, Message

	Success bool // Finished

	Severity Severity // Message
}

func Started() Event { return Event{Kind: EventStarted} }

func ItemsInProgress(calendar string, done, total int, detail string) Event {
	return Event{Kind: EventItemsInProgress, Calendar: calendar, Done: done, Total: total, Detail: detail}
}

func PropsInProgress(calendar string, done, total int, detail string) Event {
	return Event{Kind: EventPropsInProgress, Calendar: calendar, Done: done, Total: total, Detail: detail}
}

func Finished(success bool) Event { return Event{Kind: EventFinished, Success: success} }

func Message(sev Severity, detail string) Event {
	return Event{Kind: EventMessage, Severity: sev, Detail: detail}
}

// Reporter is a sink for the sync pass's event stream. The engine resets
// its done/total counters at the start of each per-calendar reconciliation
// (§4.5); Reporter implementations don't need to track that themselves.
type Reporter interface {
	Report(Event)
}

// SlogReporter renders every event as a structured log line. It's the
// default Reporter when the caller doesn't supply one.
type SlogReporter struct {
	Logger *slog.Logger
}

func NewSlogReporter(logger *slog.Logger) *SlogReporter {
	return &SlogReporter{Logger: logger}
}

func (r *SlogReporter) Report(e Event) {
	switch e.Kind {
	case EventStarted:
		r.Logger.Info("sync pass started")
	case EventItemsInProgress:
		r.Logger.Debug("items in progress", "calendar", e.Calendar, "done", e.Done, "total", e.Total, "detail", e.Detail)
	case EventPropsInProgress:
		r.Logger.Debug("properties in progress", "calendar", e.Calendar, "done", e.Done, "total", e.Total, "detail", e.Detail)
	case EventFinished:
		r.Logger.Info("sync pass finished", "success", e.Success)
	case EventMessage:
		level := slog.LevelInfo
		switch e.Severity {
		case SeverityDebug:
			level = slog.LevelDebug
		case SeverityWarn:
			level = slog.LevelWarn
		case SeverityError:
			level = slog.LevelError
		}
		r.Logger.Log(context.Background(), level, e.Detail)
	}
}

// ChannelReporter forwards every event onto a channel, for callers that
// want to drive their own UI loop off the stream instead of logging it.
type ChannelReporter struct {
	C chan Event
}

// NewChannelReporter creates a Reporter backed by a buffered channel of
// the given size. The caller is responsible for draining C; Report drops
// the event rather than block if the channel is full and closed would
// panic, so callers should size the buffer generously or drain promptly.
func NewChannelReporter(buffer int) *ChannelReporter {
	return &ChannelReporter{C: make(chan Event, buffer)}
}

func (r *ChannelReporter) Report(e Event) {
	select {
	case r.C <- e:
	default:
	}
}

// MultiReporter fans one event stream out to several Reporters.
type MultiReporter []Reporter

func (m MultiReporter) Report(e Event) {
	for _, r := range m {
		r.Report(e)
	}
}

func (e Event) String() string {
	switch e.Kind {
	case EventItemsInProgress:
		return fmt.Sprintf("items[%s] %d/%d %s", e.Calendar, e.Done, e.Total, e.Detail)
	case EventPropsInProgress:
		return fmt.Sprintf("props[%s] %d/%d %s", e.Calendar, e.Done, e.Total, e.Detail)
	case EventFinished:
		return fmt.Sprintf("finished success=%v", e.Success)
	default:
		return string(e.Kind)
	}
}
