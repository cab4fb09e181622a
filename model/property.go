package model

// Property is a WebDAV property on a calendar collection. Its VersionTag
// is defined to be its own value (see design notes): this avoids a second
// round trip to fetch an ETag-like marker that the protocol doesn't assign
// to properties in the first place.
type Property struct {
	Name  NSN
	Value string

	status SyncStatus
}

func NewProperty(name NSN, value string) *Property {
	return &Property{Name: name, Value: value, status: NotSynced()}
}

func (p *Property) SyncStatus() SyncStatus     { return p.status }
func (p *Property) SetSyncStatus(s SyncStatus) { p.status = s }

// SetValue changes the property's value and marks it modified.
func (p *Property) SetValue(value string) {
	p.Value = value
	MarkModifiedSinceLastSync(p)
}

// Tag returns the VersionTag implied by the property's current value.
func (p *Property) Tag() VersionTag { return VersionTag(p.Value) }
