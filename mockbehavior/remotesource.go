package mockbehavior

import (
	"context"

	"github.com/go-caldav/sync/discovery"
	"github.com/go-caldav/sync/model"
	"github.com/go-caldav/sync/remotesource"
)

// remoteSource is the subset of syncengine.RemoteSource that RemoteSource
// wraps. Declared locally so mockbehavior, a low-level test utility, does
// not need to import syncengine.
type remoteSource interface {
	ListCalendars(ctx context.Context) ([]discovery.CalendarInfo, error)
	CreateCalendarCollection(ctx context.Context, calURL, displayName, color string, comps model.SupportedComponents) error
	DeleteCalendarCollection(ctx context.Context, calURL string) error

	GetItemVersionTags(ctx context.Context, calURL string, components []string) (map[string]model.VersionTag, error)
	ComponentOf(calURL, url string) string
	GetItemsByURL(ctx context.Context, calURL string, urls []string) ([]remotesource.ItemResult, error)
	AddItem(ctx context.Context, calURL string, t *model.Task) (model.SyncStatus, error)
	UpdateItem(ctx context.Context, t *model.Task) (model.SyncStatus, error)
	GetEventsByURL(ctx context.Context, calURL string, urls []string) ([]remotesource.EventResult, error)
	AddEvent(ctx context.Context, calURL string, e *model.Event) (model.SyncStatus, error)
	UpdateEvent(ctx context.Context, e *model.Event) (model.SyncStatus, error)
	DeleteItem(ctx context.Context, url string, tag model.VersionTag) error

	GetProperties(ctx context.Context, calURL string) ([]*model.Property, error)
	SetProperty(ctx context.Context, calURL string, p *model.Property) (model.SyncStatus, error)
	DeleteProperty(ctx context.Context, calURL string, name model.NSN) error
}

// RemoteSource wraps a remoteSource with a Behaviour, checking the matching
// Can* gate before delegating each call. It lets a test drive the engine
// against a real fake while injecting per-operation failures instead of
// hand-rolling a bespoke erroring double per test.
type RemoteSource struct {
	inner remoteSource
	b     *Behaviour
}

// Wrap returns a RemoteSource that delegates to inner, gated by b.
func Wrap(inner remoteSource, b *Behaviour) *RemoteSource {
	return &RemoteSource{inner: inner, b: b}
}

func (r *RemoteSource) ListCalendars(ctx context.Context) ([]discovery.CalendarInfo, error) {
	if err := r.b.CanGetCalendars(); err != nil {
		return nil, err
	}
	return r.inner.ListCalendars(ctx)
}

func (r *RemoteSource) CreateCalendarCollection(ctx context.Context, calURL, displayName, color string, comps model.SupportedComponents) error {
	if err := r.b.CanCreateCalendar(); err != nil {
		return err
	}
	return r.inner.CreateCalendarCollection(ctx, calURL, displayName, color, comps)
}

func (r *RemoteSource) DeleteCalendarCollection(ctx context.Context, calURL string) error {
	return r.inner.DeleteCalendarCollection(ctx, calURL)
}

func (r *RemoteSource) GetItemVersionTags(ctx context.Context, calURL string, components []string) (map[string]model.VersionTag, error) {
	if err := r.b.CanGetItemVersionTags(); err != nil {
		return nil, err
	}
	return r.inner.GetItemVersionTags(ctx, calURL, components)
}

func (r *RemoteSource) ComponentOf(calURL, url string) string {
	return r.inner.ComponentOf(calURL, url)
}

func (r *RemoteSource) GetItemsByURL(ctx context.Context, calURL string, urls []string) ([]remotesource.ItemResult, error) {
	if err := r.b.CanGetItemsByURL(); err != nil {
		return nil, err
	}
	return r.inner.GetItemsByURL(ctx, calURL, urls)
}

func (r *RemoteSource) AddItem(ctx context.Context, calURL string, t *model.Task) (model.SyncStatus, error) {
	if err := r.b.CanAddItem(); err != nil {
		return model.SyncStatus{}, err
	}
	return r.inner.AddItem(ctx, calURL, t)
}

func (r *RemoteSource) UpdateItem(ctx context.Context, t *model.Task) (model.SyncStatus, error) {
	if err := r.b.CanUpdateItem(); err != nil {
		return model.SyncStatus{}, err
	}
	return r.inner.UpdateItem(ctx, t)
}

// GetEventsByURL is gated by the same counter as GetItemsByURL: the
// original behaviour this mirrors predates the event/task split, so a test
// configuring "fetches fail" expects it to cover both.
func (r *RemoteSource) GetEventsByURL(ctx context.Context, calURL string, urls []string) ([]remotesource.EventResult, error) {
	if err := r.b.CanGetItemsByURL(); err != nil {
		return nil, err
	}
	return r.inner.GetEventsByURL(ctx, calURL, urls)
}

func (r *RemoteSource) AddEvent(ctx context.Context, calURL string, e *model.Event) (model.SyncStatus, error) {
	if err := r.b.CanAddItem(); err != nil {
		return model.SyncStatus{}, err
	}
	return r.inner.AddEvent(ctx, calURL, e)
}

func (r *RemoteSource) UpdateEvent(ctx context.Context, e *model.Event) (model.SyncStatus, error) {
	if err := r.b.CanUpdateItem(); err != nil {
		return model.SyncStatus{}, err
	}
	return r.inner.UpdateEvent(ctx, e)
}

func (r *RemoteSource) DeleteItem(ctx context.Context, url string, tag model.VersionTag) error {
	if err := r.b.CanDeleteItem(); err != nil {
		return err
	}
	return r.inner.DeleteItem(ctx, url, tag)
}

func (r *RemoteSource) GetProperties(ctx context.Context, calURL string) ([]*model.Property, error) {
	if err := r.b.CanGetProperties(); err != nil {
		return nil, err
	}
	return r.inner.GetProperties(ctx, calURL)
}

func (r *RemoteSource) SetProperty(ctx context.Context, calURL string, p *model.Property) (model.SyncStatus, error) {
	if err := r.b.CanSetProperty(); err != nil {
		return model.SyncStatus{}, err
	}
	return r.inner.SetProperty(ctx, calURL, p)
}

func (r *RemoteSource) DeleteProperty(ctx context.Context, calURL string, name model.NSN) error {
	if err := r.b.CanDeleteProperty(); err != nil {
		return err
	}
	return r.inner.DeleteProperty(ctx, calURL, name)
}
