package model

// VersionTag is an opaque server-assigned version marker: an ETag for
// items, or the property's own value for properties (see Property.Tag).
type VersionTag string

func (v VersionTag) String() string { return string(v) }
