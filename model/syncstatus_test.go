package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeSyncable struct {
	status SyncStatus
}

func (f *fakeSyncable) SyncStatus() SyncStatus     { return f.status }
func (f *fakeSyncable) SetSyncStatus(s SyncStatus) { f.status = s }

func TestMarkModifiedSinceLastSync(t *testing.T) {
	tests := []struct {
		name   string
		start  SyncStatus
		expect SyncStatus
	}{
		{"synced becomes locally modified", Synced("v1"), LocallyModified("v1")},
		{"not synced stays not synced", NotSynced(), NotSynced()},
		{"locally modified stays locally modified", LocallyModified("v1"), LocallyModified("v1")},
		{"locally deleted stays locally deleted", LocallyDeleted("v1"), LocallyDeleted("v1")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeSyncable{status: tt.start}
			MarkModifiedSinceLastSync(f)
			assert.Equal(t, tt.expect, f.status)
		})
	}
}

func TestMarkForDeletion(t *testing.T) {
	f := &fakeSyncable{status: NotSynced()}
	assert.True(t, MarkForDeletion(f))

	f = &fakeSyncable{status: Synced("v1")}
	assert.False(t, MarkForDeletion(f))
	assert.Equal(t, LocallyDeleted(VersionTag("v1")), f.status)

	f = &fakeSyncable{status: LocallyModified("v1")}
	assert.False(t, MarkForDeletion(f))
	assert.Equal(t, LocallyDeleted(VersionTag("v1")), f.status)

	f = &fakeSyncable{status: LocallyDeleted("v1")}
	assert.False(t, MarkForDeletion(f))
	assert.Equal(t, LocallyDeleted(VersionTag("v1")), f.status)
}

func TestMarkSynced(t *testing.T) {
	for _, start := range []SyncStatus{NotSynced(), Synced("v1"), LocallyModified("v1"), LocallyDeleted("v1")} {
		f := &fakeSyncable{status: start}
		MarkSynced(f, "v2")
		assert.Equal(t, Synced(VersionTag("v2")), f.status)
	}
}
