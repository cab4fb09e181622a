package model

import "sync"

// SupportedComponents records which iCalendar component types a calendar
// collection advertises support for.
type SupportedComponents struct {
	Event bool
	Todo  bool
}

// Calendar holds the items and properties for one calendar collection. Its
// item and property maps are guarded by an RWMutex that each accessor takes
// for the length of that one call. Lock/Unlock are a separate reconciliation
// guard: the engine holds it for the whole duration of a per-calendar
// reconciliation (§5), which excludes other holders of Lock but not
// individual accessor calls.
type Calendar struct {
	mu     sync.RWMutex
	syncMu sync.Mutex

	URL                 string
	DisplayName         string
	SupportedComponents SupportedComponents
	Color               string
	MarkedForDeletion   bool

	tasks      map[string]*Task
	events     map[string]*Event
	properties map[NSN]*Property
}

func NewCalendar(url, displayName string, comps SupportedComponents, color string) *Calendar {
	return &Calendar{
		URL:                 url,
		DisplayName:         displayName,
		SupportedComponents: comps,
		Color:               color,
		tasks:               make(map[string]*Task),
		events:              make(map[string]*Event),
		properties:          make(map[NSN]*Property),
	}
}

// Lock/Unlock expose the calendar's reconciliation guard to callers (the
// sync engine) that need to hold it across a whole reconciliation step. It
// is distinct from the accessors' own mutex, so the holder can still call
// Tasks, PutTask and the rest while holding it.
func (c *Calendar) Lock()    { c.syncMu.Lock() }
func (c *Calendar) Unlock()  { c.syncMu.Unlock() }

func (c *Calendar) Tasks() map[string]*Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]*Task, len(c.tasks))
	for k, v := range c.tasks {
		out[k] = v
	}
	return out
}

func (c *Calendar) Task(url string) (*Task, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tasks[url]
	return t, ok
}

// PutTask inserts or replaces a task. The invariant that t.URL == url is
// the caller's responsibility (the engine always passes the task's own
// URL as the key).
func (c *Calendar) PutTask(url string, t *Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks[url] = t
}

// DeleteTask removes a task outright, bypassing the sync-status state
// machine entirely. Callers that need the §4.1 create-then-delete-before-
// sync guarantee (no wire write for an item the remote never saw) should
// use MarkItemForDeletion instead.
func (c *Calendar) DeleteTask(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tasks, url)
}

// MarkItemForDeletion applies the local-delete transition (§3) to the task
// at url: removed outright if it was NotSynced (never reached the wire, so
// there is nothing to tell the remote about), tombstoned to LocallyDeleted
// otherwise so the next commit phase pushes a DELETE.
func (c *Calendar) MarkItemForDeletion(url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.tasks[url]
	if !ok {
		return NewError(KindNotFound, "task does not exist: "+url, nil)
	}
	if MarkForDeletion(t) {
		delete(c.tasks, url)
	}
	return nil
}

// ImmediatelyDeleteItem removes a task outright, for the commit phase to
// call once the remote side is known to already reflect the deletion
// (pushed successfully, or reported gone by the server).
func (c *Calendar) ImmediatelyDeleteItem(url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.tasks[url]; !ok {
		return NewError(KindNotFound, "task does not exist: "+url, nil)
	}
	delete(c.tasks, url)
	return nil
}

func (c *Calendar) Events() map[string]*Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]*Event, len(c.events))
	for k, v := range c.events {
		out[k] = v
	}
	return out
}

func (c *Calendar) Event(url string) (*Event, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.events[url]
	return e, ok
}

func (c *Calendar) PutEvent(url string, e *Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events[url] = e
}

// DeleteEvent is DeleteTask's Event counterpart.
func (c *Calendar) DeleteEvent(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.events, url)
}

// MarkEventForDeletion is MarkItemForDeletion's Event counterpart.
func (c *Calendar) MarkEventForDeletion(url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.events[url]
	if !ok {
		return NewError(KindNotFound, "event does not exist: "+url, nil)
	}
	if MarkForDeletion(e) {
		delete(c.events, url)
	}
	return nil
}

// ImmediatelyDeleteEvent is ImmediatelyDeleteItem's Event counterpart.
func (c *Calendar) ImmediatelyDeleteEvent(url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.events[url]; !ok {
		return NewError(KindNotFound, "event does not exist: "+url, nil)
	}
	delete(c.events, url)
	return nil
}

func (c *Calendar) Properties() map[NSN]*Property {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[NSN]*Property, len(c.properties))
	for k, v := range c.properties {
		out[k] = v
	}
	return out
}

func (c *Calendar) Property(name NSN) (*Property, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.properties[name]
	return p, ok
}

func (c *Calendar) PutProperty(p *Property) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.properties[p.Name] = p
}

// DeleteProperty removes a property outright, bypassing the sync-status
// state machine. Use MarkPropForDeletion for the tombstone-then-push path.
func (c *Calendar) DeleteProperty(name NSN) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.properties, name)
}

// MarkPropForDeletion is MarkItemForDeletion's property counterpart.
func (c *Calendar) MarkPropForDeletion(name NSN) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.properties[name]
	if !ok {
		return NewError(KindNotFound, "property does not exist: "+name.String(), nil)
	}
	if MarkForDeletion(p) {
		delete(c.properties, name)
	}
	return nil
}

// ImmediatelyDeleteProp is ImmediatelyDeleteItem's property counterpart.
func (c *Calendar) ImmediatelyDeleteProp(name NSN) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.properties[name]; !ok {
		return NewError(KindNotFound, "property does not exist: "+name.String(), nil)
	}
	delete(c.properties, name)
	return nil
}
