package syncengine

import (
	"context"
	"fmt"

	"github.com/go-caldav/sync/model"
	"github.com/go-caldav/sync/progress"
)

// commitItems applies an item delta in the six-phase order from §4.4.1
// (a..f), so a crash between any two phases leaves state a later pass can
// converge from.
func (e *Engine) commitItems(ctx context.Context, cal *model.Calendar, deltas []ItemDelta) {
	var localDeletions, remoteDeletions, remoteAdditions, remoteModifications, localAdditions, localModifications []string
	for _, d := range deltas {
		switch d.Kind {
		case ItemLocalDeletion:
			localDeletions = append(localDeletions, d.URL)
		case ItemRemoteDeletion:
			remoteDeletions = append(remoteDeletions, d.URL)
		case ItemRemoteAddition:
			remoteAdditions = append(remoteAdditions, d.URL)
		case ItemRemoteModification:
			remoteModifications = append(remoteModifications, d.URL)
		case ItemLocalAddition:
			localAdditions = append(localAdditions, d.URL)
		case ItemLocalModification:
			localModifications = append(localModifications, d.URL)
		}
	}

	total := len(deltas)
	done := 0
	report := func(detail string) {
		done++
		e.reporter.Report(progress.ItemsInProgress(cal.URL, done, total, detail))
	}

	// (a) push local deletions, drop tombstones on success.
	for _, url := range localDeletions {
		if t, ok := cal.Task(url); ok {
			if err := e.remote.DeleteItem(ctx, url, t.SyncStatus().Tag); err != nil {
				e.warnf("delete item %s: %v", url, err)
				continue
			}
			_ = cal.ImmediatelyDeleteItem(url)
			report("deleted " + url)
		} else if ev, ok := cal.Event(url); ok {
			if err := e.remote.DeleteItem(ctx, url, ev.SyncStatus().Tag); err != nil {
				e.warnf("delete item %s: %v", url, err)
				continue
			}
			_ = cal.ImmediatelyDeleteEvent(url)
			report("deleted " + url)
		}
	}

	// (b) apply remote deletions locally.
	for _, url := range remoteDeletions {
		if _, ok := cal.Task(url); ok {
			_ = cal.ImmediatelyDeleteItem(url)
		} else {
			_ = cal.ImmediatelyDeleteEvent(url)
		}
		report("removed locally " + url)
	}

	// (c) apply remote additions locally, batched.
	e.fetchAndApply(ctx, cal, remoteAdditions, report)

	// (d) apply remote modifications locally, batched.
	e.fetchAndApply(ctx, cal, remoteModifications, report)

	// (e) push local additions to remote.
	for _, url := range localAdditions {
		if t, ok := cal.Task(url); ok {
			status, err := e.remote.AddItem(ctx, cal.URL, t)
			if err != nil {
				e.warnf("add item %s: %v", url, err)
				continue
			}
			t.SetSyncStatus(status)
			report("pushed new " + url)
		} else if ev, ok := cal.Event(url); ok {
			status, err := e.remote.AddEvent(ctx, cal.URL, ev)
			if err != nil {
				e.warnf("add event %s: %v", url, err)
				continue
			}
			ev.SetSyncStatus(status)
			report("pushed new " + url)
		}
	}

	// (f) push local modifications to remote.
	for _, url := range localModifications {
		if t, ok := cal.Task(url); ok {
			status, err := e.remote.UpdateItem(ctx, t)
			if err != nil {
				e.warnf("update item %s: %v", url, err)
				continue
			}
			t.SetSyncStatus(status)
			report("pushed update " + url)
		} else if ev, ok := cal.Event(url); ok {
			status, err := e.remote.UpdateEvent(ctx, ev)
			if err != nil {
				e.warnf("update event %s: %v", url, err)
				continue
			}
			ev.SetSyncStatus(status)
			report("pushed update " + url)
		}
	}
}

// fetchAndApply downloads urls in chunks of e.batchSize and applies each
// successfully-decoded item to cal (§4.4.4). Each URL is routed to
// GetItemsByURL or GetEventsByURL by the component it was reported under
// during the version-tag REPORT, so a VEVENT is never run through the
// VTODO decoder. A chunk-level failure is logged and that chunk skipped;
// other chunks continue.
func (e *Engine) fetchAndApply(ctx context.Context, cal *model.Calendar, urls []string, report func(string)) {
	var taskURLs, eventURLs []string
	for _, url := range urls {
		if e.remote.ComponentOf(cal.URL, url) == "VEVENT" {
			eventURLs = append(eventURLs, url)
		} else {
			taskURLs = append(taskURLs, url)
		}
	}

	for start := 0; start < len(taskURLs); start += e.batchSize {
		end := start + e.batchSize
		if end > len(taskURLs) {
			end = len(taskURLs)
		}
		chunk := taskURLs[start:end]
		results, err := e.remote.GetItemsByURL(ctx, cal.URL, chunk)
		if err != nil {
			e.warnf("fetch chunk of %d items for %s: %v", len(chunk), cal.URL, err)
			continue
		}
		for i, res := range results {
			if res.IsError() {
				e.warnf("decode item %s: %v", chunk[i], res.Error())
				continue
			}
			t := res.MustGet()
			cal.PutTask(t.URL, t)
			report("fetched " + t.URL)
		}
	}

	for start := 0; start < len(eventURLs); start += e.batchSize {
		end := start + e.batchSize
		if end > len(eventURLs) {
			end = len(eventURLs)
		}
		chunk := eventURLs[start:end]
		results, err := e.remote.GetEventsByURL(ctx, cal.URL, chunk)
		if err != nil {
			e.warnf("fetch chunk of %d events for %s: %v", len(chunk), cal.URL, err)
			continue
		}
		for i, res := range results {
			if res.IsError() {
				e.warnf("decode event %s: %v", chunk[i], res.Error())
				continue
			}
			ev := res.MustGet()
			cal.PutEvent(ev.URL, ev)
			report("fetched " + ev.URL)
		}
	}
}

// commitProperties mirrors commitItems for properties; there is no
// batched fetch step because GetProperties already returned the full
// remote property set during delta computation.
func (e *Engine) commitProperties(ctx context.Context, cal *model.Calendar, deltas []PropDelta) {
	var localDeletions, remoteDeletions, remoteAdditions, remoteModifications, localAdditions, localModifications []PropDelta
	for _, d := range deltas {
		switch d.Kind {
		case PropLocalDeletion:
			localDeletions = append(localDeletions, d)
		case PropRemoteDeletion:
			remoteDeletions = append(remoteDeletions, d)
		case PropRemoteAddition:
			remoteAdditions = append(remoteAdditions, d)
		case PropRemoteModification:
			remoteModifications = append(remoteModifications, d)
		case PropLocalAddition:
			localAdditions = append(localAdditions, d)
		case PropLocalModification:
			localModifications = append(localModifications, d)
		}
	}

	total := len(deltas)
	done := 0
	report := func(detail string) {
		done++
		e.reporter.Report(progress.PropsInProgress(cal.URL, done, total, detail))
	}

	// (a) push local deletions.
	for _, d := range localDeletions {
		if err := e.remote.DeleteProperty(ctx, cal.URL, d.Name); err != nil {
			e.warnf("delete property %s: %v", d.Name, err)
			continue
		}
		cal.DeleteProperty(d.Name)
		report("deleted " + d.Name.String())
	}

	// (b) apply remote deletions locally.
	for _, d := range remoteDeletions {
		cal.DeleteProperty(d.Name)
		report("removed locally " + d.Name.String())
	}

	// (c) apply remote additions locally.
	for _, d := range remoteAdditions {
		p := model.NewProperty(d.Name, d.RemoteProp.Value)
		p.SetSyncStatus(model.Synced(p.Tag()))
		cal.PutProperty(p)
		report("fetched " + d.Name.String())
	}

	// (d) apply remote modifications locally.
	for _, d := range remoteModifications {
		p := model.NewProperty(d.Name, d.RemoteProp.Value)
		p.SetSyncStatus(model.Synced(p.Tag()))
		cal.PutProperty(p)
		report("fetched " + d.Name.String())
	}

	// (e) push local additions to remote.
	for _, d := range localAdditions {
		p, ok := cal.Property(d.Name)
		if !ok {
			continue
		}
		status, err := e.remote.SetProperty(ctx, cal.URL, p)
		if err != nil {
			e.warnf("set property %s: %v", d.Name, err)
			continue
		}
		p.SetSyncStatus(status)
		report("pushed new " + d.Name.String())
	}

	// (f) push local modifications to remote.
	for _, d := range localModifications {
		p, ok := cal.Property(d.Name)
		if !ok {
			continue
		}
		status, err := e.remote.SetProperty(ctx, cal.URL, p)
		if err != nil {
			e.warnf("set property %s: %v", d.Name, err)
			continue
		}
		p.SetSyncStatus(status)
		report("pushed update " + d.Name.String())
	}
}

func (e *Engine) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	e.logger.Warn(msg)
	e.reporter.Report(progress.Message(progress.SeverityWarn, msg))
}
