package syncengine

import (
	"context"

	"github.com/go-caldav/sync/discovery"
	"github.com/go-caldav/sync/model"
	"github.com/go-caldav/sync/remotesource"
)

// RemoteSource is everything the engine needs from a CalDAV account: the
// calendar collection itself, plus item and property operations scoped to
// one calendar. remotesource.Source satisfies this; tests substitute a
// fake.
type RemoteSource interface {
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
