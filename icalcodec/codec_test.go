package icalcodec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-caldav/sync/model"
)

func TestEncodeDecodeTaskRoundTrip(t *testing.T) {
	task := model.NewTask("https://example.com/cal1/a1.ics", "Buy milk", false, "-//go-caldav//sync//EN")
	task.UID = "uid-1"
	task.Relationships = []model.Relationship{{UID: "uid-parent", Type: model.RelTypeParent}}

	data, err := EncodeTask(task)
	require.NoError(t, err)
	assert.Contains(t, string(data), "BEGIN:VTODO")
	assert.Contains(t, string(data), "UID:uid-1")

	decoded, err := DecodeTask(data)
	require.NoError(t, err)

	assert.Equal(t, task.UID, decoded.UID)
	assert.Equal(t, task.Name, decoded.Name)
	assert.False(t, decoded.Completion.Completed)
	assert.Equal(t, model.NotSynced(), decoded.SyncStatus())
	assert.Len(t, decoded.Relationships, 1)
	assert.Equal(t, "uid-parent", decoded.Relationships[0].UID)
}

func TestEncodeCompletedTask(t *testing.T) {
	now, err := time.Parse(time.RFC3339, "2026-01-15T10:00:00Z")
	require.NoError(t, err)
	task := model.NewTask("https://example.com/cal1/a2.ics", "Done task", false, "prod")
	task.UID = "uid-2"
	task.MarkCompleted(&now)

	data, err := EncodeTask(task)
	require.NoError(t, err)

	decoded, err := DecodeTask(data)
	require.NoError(t, err)
	assert.True(t, decoded.Completion.Completed)
	require.NotNil(t, decoded.Completion.CompletionDate)
	assert.True(t, decoded.Completion.CompletionDate.Equal(now))
}

func TestDecodeTaskRejectsMultipleComponents(t *testing.T) {
	data := []byte("BEGIN:VCALENDAR\r\n" +
		"VERSION:2.0\r\n" +
		"BEGIN:VTODO\r\n" +
		"UID:a\r\n" +
		"SUMMARY:A\r\n" +
		"DTSTAMP:20260101T000000\r\n" +
		"END:VTODO\r\n" +
		"BEGIN:VTODO\r\n" +
		"UID:b\r\n" +
		"SUMMARY:B\r\n" +
		"DTSTAMP:20260101T000000\r\n" +
		"END:VTODO\r\n" +
		"END:VCALENDAR\r\n")

	_, err := DecodeTask(data)
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindParse))
}

func TestDecodeTaskMissingRequiredFields(t *testing.T) {
	data := []byte("BEGIN:VCALENDAR\r\n" +
		"VERSION:2.0\r\n" +
		"BEGIN:VTODO\r\n" +
		"SUMMARY:No UID\r\n" +
		"DTSTAMP:20260101T000000\r\n" +
		"END:VTODO\r\n" +
		"END:VCALENDAR\r\n")

	_, err := DecodeTask(data)
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindParse))
}

func TestEncodeDecodeEventPreservesRawBytes(t *testing.T) {
	data := []byte("BEGIN:VCALENDAR\r\n" +
		"VERSION:2.0\r\n" +
		"BEGIN:VEVENT\r\n" +
		"UID:evt-1\r\n" +
		"DTSTAMP:20260101T000000\r\n" +
		"LAST-MODIFIED:20260102T000000\r\n" +
		"SUMMARY:Meeting\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n")

	e, err := DecodeEvent(data)
	require.NoError(t, err)
	assert.Equal(t, "evt-1", e.UID)
	assert.Equal(t, data, e.RawICal)

	out, err := EncodeEvent(e)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestDecodeEventMissingUID(t *testing.T) {
	data := []byte("BEGIN:VCALENDAR\r\n" +
		"VERSION:2.0\r\n" +
		"BEGIN:VEVENT\r\n" +
		"DTSTAMP:20260101T000000\r\n" +
		"END:VEVENT\r\n" +
		"END:VCALENDAR\r\n")

	_, err := DecodeEvent(data)
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindParse))
}
