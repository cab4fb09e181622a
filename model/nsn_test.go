package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNSNLess(t *testing.T) {
	a := NSN{XMLNS: "DAV:", Local: "displayname"}
	b := NSN{XMLNS: "DAV:", Local: "resourcetype"}
	c := NSN{XMLNS: "urn:ietf:params:xml:ns:caldav", Local: "displayname"}

	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.True(t, a.Less(c))
	assert.False(t, a.Less(a))
}

func TestNSNString(t *testing.T) {
	n := NSN{XMLNS: "DAV:", Local: "displayname"}
	assert.Equal(t, "DAV::displayname", n.String())
}
