package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventSyncStatus(t *testing.T) {
	e := &Event{URL: "https://example.com/cal1/e1.ics", UID: "uid-1"}
	e.SetSyncStatus(NotSynced())
	assert.Equal(t, NotSynced(), e.SyncStatus())

	MarkSynced(e, "v1")
	assert.Equal(t, Synced(VersionTag("v1")), e.SyncStatus())
}
