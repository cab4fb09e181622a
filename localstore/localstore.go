// Package localstore is the in-memory CalendarSet plus its explicit,
// caller-triggered persistence to a backing folder: one data.json holding
// calendar metadata and one <sanitized-url>.cal file per calendar holding
// its tasks, events and properties. Nothing here auto-saves.
package localstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/go-caldav/sync/model"
)

const mainFile = "data.json"

var sanitizeRe = regexp.MustCompile(`[^A-Za-z0-9]`)

// Store is a CalendarSet backed by an in-memory map, with Persist/Load to
// move its content to and from a folder on disk.
type Store struct {
	folder string
	set    *model.CalendarSet
}

// New creates an empty Store rooted at folder. Use Load to populate it
// from a previous Persist.
func New(folder string) *Store {
	return &Store{folder: folder, set: model.NewCalendarSet()}
}

// Calendars exposes the underlying CalendarSet for CRUD and reconciliation.
func (s *Store) Calendars() *model.CalendarSet {
	return s.set
}

// CreateCalendar adds a brand-new local calendar, failing with
// KindAlreadyExists if one is already registered under that URL (§4.1).
func (s *Store) CreateCalendar(cal *model.Calendar) error {
	return s.set.CreateCalendar(cal)
}

// DeleteCalendar removes a calendar from the set and, if it was ever
// persisted, its backing .cal file. Fails with KindNotFound if the
// calendar isn't registered.
func (s *Store) DeleteCalendar(url string) error {
	if err := s.set.DeleteCalendar(url); err != nil {
		return err
	}
	path := s.calendarPath(url)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return model.NewError(model.KindIO, "remove "+path, err)
	}
	return nil
}

type calendarMeta struct {
	URL                 string                   `json:"url"`
	DisplayName         string                   `json:"display_name"`
	SupportedComponents model.SupportedComponents `json:"supported_components"`
	Color               string                   `json:"color"`
	MarkedForDeletion   bool                     `json:"marked_for_deletion,omitempty"`
}

type mainData struct {
	Calendars []calendarMeta `json:"calendars"`
}

type taskRecord struct {
	URL             string                   `json:"url"`
	UID             string                   `json:"uid"`
	Name            string                   `json:"name"`
	CreationDate    *time.Time               `json:"creation_date,omitempty"`
	LastModified    time.Time                `json:"last_modified"`
	Completion      model.CompletionStatus   `json:"completion"`
	ProdID          string                   `json:"prod_id"`
	Relationships   []model.Relationship     `json:"relationships,omitempty"`
	ExtraProperties []model.ExtraProperty    `json:"extra_properties,omitempty"`
	Status          model.SyncStatus         `json:"sync_status"`
}

type eventRecord struct {
	URL          string           `json:"url"`
	UID          string           `json:"uid"`
	LastModified time.Time        `json:"last_modified"`
	RawICal      []byte           `json:"raw_ical"`
	Status       model.SyncStatus `json:"sync_status"`
}

type propertyRecord struct {
	Name   model.NSN        `json:"name"`
	Value  string           `json:"value"`
	Status model.SyncStatus `json:"sync_status"`
}

type calendarFile struct {
	Tasks      []taskRecord     `json:"tasks"`
	Events     []eventRecord    `json:"events,omitempty"`
	Properties []propertyRecord `json:"properties"`
}

// Persist writes the whole CalendarSet to the backing folder: data.json
// for calendar metadata, one <sanitized-url>.cal per calendar for its
// content. Call it explicitly after a sync pass; nothing here does it for
// you.
func (s *Store) Persist() error {
	if err := os.MkdirAll(s.folder, 0o755); err != nil {
		return model.NewError(model.KindIO, "create cache folder", err)
	}

	var md mainData
	for _, cal := range s.set.All() {
		md.Calendars = append(md.Calendars, calendarMeta{
			URL:                 cal.URL,
			DisplayName:         cal.DisplayName,
			SupportedComponents: cal.SupportedComponents,
			Color:               cal.Color,
			MarkedForDeletion:   cal.MarkedForDeletion,
		})

		cf := calendarFile{}
		for _, t := range cal.Tasks() {
			cf.Tasks = append(cf.Tasks, taskRecord{
				URL: t.URL, UID: t.UID, Name: t.Name,
				CreationDate: t.CreationDate, LastModified: t.LastModified,
				Completion: t.Completion, ProdID: t.ProdID,
				Relationships: t.Relationships, ExtraProperties: t.ExtraProperties,
				Status: t.SyncStatus(),
			})
		}
		for _, e := range cal.Events() {
			cf.Events = append(cf.Events, eventRecord{
				URL: e.URL, UID: e.UID, LastModified: e.LastModified,
				RawICal: e.RawICal, Status: e.SyncStatus(),
			})
		}
		for _, p := range cal.Properties() {
			cf.Properties = append(cf.Properties, propertyRecord{
				Name: p.Name, Value: p.Value, Status: p.SyncStatus(),
			})
		}
		if err := writeJSON(s.calendarPath(cal.URL), cf); err != nil {
			return err
		}
	}

	if err := writeJSON(filepath.Join(s.folder, mainFile), md); err != nil {
		return err
	}
	return nil
}

// Load reads a previously Persist-ed folder back into the CalendarSet,
// replacing any content currently held.
func (s *Store) Load() error {
	var md mainData
	if err := readJSON(filepath.Join(s.folder, mainFile), &md); err != nil {
		return err
	}

	fresh := model.NewCalendarSet()
	for _, cm := range md.Calendars {
		cal := model.NewCalendar(cm.URL, cm.DisplayName, cm.SupportedComponents, cm.Color)
		cal.MarkedForDeletion = cm.MarkedForDeletion

		var cf calendarFile
		if err := readJSON(s.calendarPath(cm.URL), &cf); err != nil {
			return err
		}
		for _, tr := range cf.Tasks {
			t := model.NewTask(tr.URL, tr.Name, tr.Completion.Completed, tr.ProdID)
			t.UID = tr.UID
			t.CreationDate = tr.CreationDate
			t.LastModified = tr.LastModified
			t.Completion = tr.Completion
			t.Relationships = tr.Relationships
			t.ExtraProperties = tr.ExtraProperties
			t.SetSyncStatus(tr.Status)
			cal.PutTask(t.URL, t)
		}
		for _, er := range cf.Events {
			e := &model.Event{URL: er.URL, UID: er.UID, LastModified: er.LastModified, RawICal: er.RawICal}
			e.SetSyncStatus(er.Status)
			cal.PutEvent(e.URL, e)
		}
		for _, pr := range cf.Properties {
			p := model.NewProperty(pr.Name, pr.Value)
			p.SetSyncStatus(pr.Status)
			cal.PutProperty(p)
		}
		fresh.Put(cal)
	}
	s.set = fresh
	return nil
}

func (s *Store) calendarPath(calURL string) string {
	return filepath.Join(s.folder, sanitizeRe.ReplaceAllString(calURL, "_")+".cal")
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return model.NewError(model.KindIO, "create "+path, err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return model.NewError(model.KindIO, "write "+path, err)
	}
	return nil
}

func readJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return model.NewError(model.KindIO, "open "+path, err)
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(v); err != nil {
		return model.NewError(model.KindParse, "decode "+path, err)
	}
	return nil
}
