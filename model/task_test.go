package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskTouchMarksModified(t *testing.T) {
	task := NewTask("https://example.com/cal1/a1.ics", "Task A", false, "-//go-caldav//sync//EN")
	task.SetSyncStatus(Synced("v1"))

	task.SetName("Task A renamed")

	assert.Equal(t, "Task A renamed", task.Name)
	assert.Equal(t, LocallyModified(VersionTag("v1")), task.SyncStatus())
}

func TestTaskMarkCompletedAndUncompleted(t *testing.T) {
	task := NewTask("https://example.com/cal1/a1.ics", "Task A", false, "-//go-caldav//sync//EN")

	task.MarkCompleted(nil)
	assert.True(t, task.Completion.Completed)

	task.MarkUncompleted()
	assert.False(t, task.Completion.Completed)
	assert.Nil(t, task.Completion.CompletionDate)
}

func TestHasSameObservableContentAs(t *testing.T) {
	a := NewTask("u1", "Task A", false, "prod")
	a.UID = "uid-1"
	b := NewTask("u2", "Task A", false, "prod")
	b.UID = "uid-1"

	assert.True(t, a.HasSameObservableContentAs(b))

	b.Name = "Task A renamed"
	assert.False(t, a.HasSameObservableContentAs(b))

	assert.False(t, a.HasSameObservableContentAs(nil))
}
