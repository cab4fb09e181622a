package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPropertyTagIsItsValue(t *testing.T) {
	p := NewProperty(NSN{XMLNS: "DAV:", Local: "displayname"}, "Home")
	assert.Equal(t, VersionTag("Home"), p.Tag())
	assert.Equal(t, NotSynced(), p.SyncStatus())
}

func TestPropertySetValueMarksModified(t *testing.T) {
	p := NewProperty(NSN{XMLNS: "DAV:", Local: "displayname"}, "Home")
	p.SetSyncStatus(Synced("Home"))

	p.SetValue("Office")

	assert.Equal(t, "Office", p.Value)
	assert.Equal(t, VersionTag("Office"), p.Tag())
	assert.Equal(t, LocallyModified(VersionTag("Home")), p.SyncStatus())
}
