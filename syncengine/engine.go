// Package syncengine drives a bidirectional reconciliation pass between a
// local CalendarSet and a RemoteSource, following the six-phase commit
// order and server-supremacy conflict policy.
package syncengine

import (
	"context"
	"log/slog"

	"github.com/go-caldav/sync/model"
	"github.com/go-caldav/sync/progress"
)

// Engine runs one sync pass at a time over a LocalStore's CalendarSet and
// a RemoteSource. It holds no state across passes beyond what's in the
// CalendarSet itself — resuming after a crash is just running another
// pass.
type Engine struct {
	local     *model.CalendarSet
	remote    RemoteSource
	reporter  progress.Reporter
	logger    *slog.Logger
	batchSize int
}

// Option configures an Engine at construction time.
type Option func(*Engine)

func WithReporter(r progress.Reporter) Option { return func(e *Engine) { e.reporter = r } }
func WithLogger(l *slog.Logger) Option        { return func(e *Engine) { e.logger = l } }
func WithBatchSize(n int) Option              { return func(e *Engine) { e.batchSize = n } }

func New(local *model.CalendarSet, remote RemoteSource, opts ...Option) *Engine {
	e := &Engine{
		local:     local,
		remote:    remote,
		reporter:  progress.NewSlogReporter(slog.Default()),
		logger:    slog.Default(),
		batchSize: 30,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes one full sync pass (§4.4): remote calendars first, then
// unhandled local calendars, reporting Started/Finished around the whole
// pass. A per-calendar error is logged and that calendar skipped; the
// pass only returns success=false on an error enumerating calendars at
// all, since that leaves nothing to converge.
func (e *Engine) Run(ctx context.Context) bool {
	e.reporter.Report(progress.Started())

	remoteCalendars, err := e.remote.ListCalendars(ctx)
	if err != nil {
		e.warnf("list remote calendars: %v", err)
		e.reporter.Report(progress.Finished(false))
		return false
	}

	handled := make(map[string]bool, len(remoteCalendars))
	for _, rc := range remoteCalendars {
		cal, ok := e.local.Get(rc.URL)
		if !ok {
			cal = model.NewCalendar(rc.URL, rc.DisplayName, rc.SupportedComponents, rc.Color)
			if err := e.local.CreateCalendar(cal); err != nil {
				e.warnf("register newly discovered calendar %s: %v", rc.URL, err)
				continue
			}
		} else {
			cal.DisplayName = rc.DisplayName
			cal.SupportedComponents = rc.SupportedComponents
			cal.Color = rc.Color
		}
		handled[rc.URL] = true
		e.syncCalendarPair(ctx, cal)
	}

	for url, cal := range e.local.All() {
		if handled[url] {
			continue
		}
		if cal.MarkedForDeletion {
			if err := e.local.DeleteCalendar(url); err != nil {
				e.warnf("delete local calendar %s: %v", url, err)
			}
			continue
		}
		if err := e.remote.CreateCalendarCollection(ctx, cal.URL, cal.DisplayName, cal.Color, cal.SupportedComponents); err != nil {
			e.warnf("create remote calendar %s: %v", url, err)
			continue
		}
		e.syncCalendarPair(ctx, cal)
	}

	e.reporter.Report(progress.Finished(true))
	return true
}

// syncCalendarPair runs §4.4.1 for one calendar, holding its guard for the
// whole reconciliation.
func (e *Engine) syncCalendarPair(ctx context.Context, cal *model.Calendar) {
	cal.Lock()
	defer cal.Unlock()

	if cal.MarkedForDeletion {
		if err := e.remote.DeleteCalendarCollection(ctx, cal.URL); err != nil {
			e.warnf("delete remote calendar %s: %v", cal.URL, err)
			return
		}
		if err := e.local.DeleteCalendar(cal.URL); err != nil {
			e.warnf("delete local calendar %s: %v", cal.URL, err)
		}
		return
	}

	var components []string
	if cal.SupportedComponents.Todo {
		components = append(components, "VTODO")
	}
	if cal.SupportedComponents.Event {
		components = append(components, "VEVENT")
	}
	remoteTags, err := e.remote.GetItemVersionTags(ctx, cal.URL, components)
	if err != nil {
		e.warnf("get item version tags for %s: %v", cal.URL, err)
		return
	}
	localItems := make(map[string]model.Syncable, len(cal.Tasks())+len(cal.Events()))
	for url, t := range cal.Tasks() {
		localItems[url] = t
	}
	for url, ev := range cal.Events() {
		localItems[url] = ev
	}
	var itemReuse []string
	itemDeltas := computeItemDelta(localItems, remoteTags, &itemReuse)
	for _, url := range itemReuse {
		e.warnf("URL reuse detected for item %s in calendar %s, skipping", url, cal.URL)
	}
	e.commitItems(ctx, cal, itemDeltas)

	remoteProps, err := e.remote.GetProperties(ctx, cal.URL)
	if err != nil {
		e.warnf("get properties for %s: %v", cal.URL, err)
		return
	}
	remotePropMap := make(map[model.NSN]*model.Property, len(remoteProps))
	for _, p := range remoteProps {
		remotePropMap[p.Name] = p
	}
	var propReuse []model.NSN
	propDeltas := computePropertyDelta(cal.Properties(), remotePropMap, &propReuse)
	for _, name := range propReuse {
		e.warnf("NSN reuse detected for property %s in calendar %s, skipping", name, cal.URL)
	}
	e.commitProperties(ctx, cal, propDeltas)
}
