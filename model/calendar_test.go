package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarTaskCRUD(t *testing.T) {
	cal := NewCalendar("https://example.com/cal1/", "Personal", SupportedComponents{Todo: true}, "#FF0000FF")

	task := NewTask("https://example.com/cal1/a1.ics", "Task A", false, "prod")
	cal.PutTask(task.URL, task)

	got, ok := cal.Task(task.URL)
	assert.True(t, ok)
	assert.Same(t, task, got)

	all := cal.Tasks()
	assert.Len(t, all, 1)

	cal.DeleteTask(task.URL)
	_, ok = cal.Task(task.URL)
	assert.False(t, ok)
}

func TestCalendarMarkItemForDeletion(t *testing.T) {
	cal := NewCalendar("https://example.com/cal1/", "Personal", SupportedComponents{Todo: true}, "")

	notSynced := NewTask("https://example.com/cal1/a1.ics", "A", false, "prod")
	cal.PutTask(notSynced.URL, notSynced)
	require.NoError(t, cal.MarkItemForDeletion(notSynced.URL))
	_, ok := cal.Task(notSynced.URL)
	assert.False(t, ok, "a NotSynced task is removed outright")

	synced := NewTask("https://example.com/cal1/a2.ics", "B", false, "prod")
	synced.SetSyncStatus(Synced("v1"))
	cal.PutTask(synced.URL, synced)
	require.NoError(t, cal.MarkItemForDeletion(synced.URL))
	got, ok := cal.Task(synced.URL)
	require.True(t, ok, "a Synced task is tombstoned, not removed")
	assert.Equal(t, LocallyDeleted(VersionTag("v1")), got.SyncStatus())

	err := cal.MarkItemForDeletion("https://example.com/cal1/missing.ics")
	assert.True(t, IsKind(err, KindNotFound))
}

func TestCalendarImmediatelyDeleteItem(t *testing.T) {
	cal := NewCalendar("https://example.com/cal1/", "Personal", SupportedComponents{Todo: true}, "")
	task := NewTask("https://example.com/cal1/a1.ics", "A", false, "prod")
	task.SetSyncStatus(LocallyDeleted("v1"))
	cal.PutTask(task.URL, task)

	require.NoError(t, cal.ImmediatelyDeleteItem(task.URL))
	_, ok := cal.Task(task.URL)
	assert.False(t, ok)

	err := cal.ImmediatelyDeleteItem(task.URL)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestCalendarPropertyCRUD(t *testing.T) {
	cal := NewCalendar("https://example.com/cal1/", "Personal", SupportedComponents{Todo: true}, "")
	name := NSN{XMLNS: "urn:x", Local: "p"}
	prop := NewProperty(name, "v1")
	cal.PutProperty(prop)

	got, ok := cal.Property(name)
	assert.True(t, ok)
	assert.Equal(t, "v1", got.Value)

	cal.DeleteProperty(name)
	_, ok = cal.Property(name)
	assert.False(t, ok)
}

func TestCalendarMarkPropForDeletion(t *testing.T) {
	cal := NewCalendar("https://example.com/cal1/", "Personal", SupportedComponents{Todo: true}, "")
	name := NSN{XMLNS: "urn:x", Local: "p"}
	prop := NewProperty(name, "v1")
	prop.SetSyncStatus(Synced("v1"))
	cal.PutProperty(prop)

	require.NoError(t, cal.MarkPropForDeletion(name))
	got, ok := cal.Property(name)
	require.True(t, ok, "a Synced property is tombstoned, not removed")
	assert.Equal(t, LocallyDeleted(VersionTag("v1")), got.SyncStatus())

	require.NoError(t, cal.ImmediatelyDeleteProp(name))
	_, ok = cal.Property(name)
	assert.False(t, ok)

	err := cal.MarkPropForDeletion(name)
	assert.True(t, IsKind(err, KindNotFound))
}
