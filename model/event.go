package model

import "time"

// Event is a VEVENT placeholder. Per the VEVENT non-goal, the engine never
// inspects its body: RawICal is fetched, stored and pushed back verbatim.
type Event struct {
	URL          string
	UID          string
	LastModified time.Time
	RawICal      []byte

	status SyncStatus
}

func (e *Event) SyncStatus() SyncStatus     { return e.status }
func (e *Event) SetSyncStatus(s SyncStatus) { e.status = s }
