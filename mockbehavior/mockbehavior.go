// Package mockbehavior provides test-only fault injection for a
// RemoteSource: each operation can be told to succeed m times then fail n
// times, or be suspended entirely so every call passes.
package mockbehavior

import (
	"fmt"
	"sync"

	"github.com/go-caldav/sync/model"
)

// Counter is a (remainingSuccesses, remainingFailures) pair. Once both
// reach zero, further calls succeed (nothing left to enforce).
type Counter struct {
	RemainingSuccesses uint32
	RemainingFailures  uint32
}

// Behaviour holds one fault-injection counter per RemoteSource operation.
// It mirrors the shape of the operations in remotesource.Source field for
// field.
type Behaviour struct {
	mu sync.Mutex

	Suspended bool

	GetCalendars         Counter
	CreateCalendar       Counter
	AddItem              Counter
	UpdateItem           Counter
	GetItemVersionTags   Counter
	GetItemsByURL        Counter
	DeleteItem           Counter
	SetProperty          Counter
	GetProperties        Counter
	GetProperty          Counter
	DeleteProperty       Counter
}

// New returns a Behaviour that always succeeds, the way a freshly injected
// mock should behave before a test tweaks it.
func New() *Behaviour {
	return &Behaviour{}
}

// FailNow returns a Behaviour whose every counter is (0, n): the next n
// calls to each operation fail, then every call after that succeeds.
func FailNow(n uint32) *Behaviour {
	c := Counter{RemainingFailures: n}
	return &Behaviour{
		GetCalendars: c, CreateCalendar: c,
		AddItem: c, UpdateItem: c, GetItemVersionTags: c, GetItemsByURL: c,
		DeleteItem: c, SetProperty: c, GetProperties: c, GetProperty: c,
		DeleteProperty: c,
	}
}

// Suspend makes every operation succeed regardless of its counter, until
// Resume is called. Useful to bracket setup code a test doesn't want to
// count against its failure budget.
func (b *Behaviour) Suspend() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Suspended = true
}

func (b *Behaviour) Resume() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Suspended = false
}

func (b *Behaviour) checkAndDecrement(c *Counter, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Suspended {
		return nil
	}
	switch {
	case c.RemainingSuccesses > 0:
		c.RemainingSuccesses--
		return nil
	case c.RemainingFailures > 0:
		c.RemainingFailures--
		return model.NewError(model.KindMock, fmt.Sprintf("mock behaviour forced %s to fail", name), nil)
	default:
		return nil
	}
}

func (b *Behaviour) CanAddItem() error            { return b.checkAndDecrement(&b.AddItem, "add_item") }
func (b *Behaviour) CanUpdateItem() error         { return b.checkAndDecrement(&b.UpdateItem, "update_item") }
func (b *Behaviour) CanGetItemVersionTags() error { return b.checkAndDecrement(&b.GetItemVersionTags, "get_item_version_tags") }
func (b *Behaviour) CanGetItemsByURL() error      { return b.checkAndDecrement(&b.GetItemsByURL, "get_items_by_url") }
func (b *Behaviour) CanDeleteItem() error         { return b.checkAndDecrement(&b.DeleteItem, "delete_item") }
func (b *Behaviour) CanSetProperty() error        { return b.checkAndDecrement(&b.SetProperty, "set_property") }
func (b *Behaviour) CanGetProperties() error      { return b.checkAndDecrement(&b.GetProperties, "get_properties") }
func (b *Behaviour) CanGetProperty() error        { return b.checkAndDecrement(&b.GetProperty, "get_property") }
func (b *Behaviour) CanDeleteProperty() error     { return b.checkAndDecrement(&b.DeleteProperty, "delete_property") }
func (b *Behaviour) CanCreateCalendar() error     { return b.checkAndDecrement(&b.CreateCalendar, "create_calendar") }
func (b *Behaviour) CanGetCalendars() error       { return b.checkAndDecrement(&b.GetCalendars, "get_calendars") }
