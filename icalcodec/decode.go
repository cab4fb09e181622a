package icalcodec

import (
	"bytes"
	"strings"
	"time"

	ical "github.com/emersion/go-ical"

	"github.com/go-caldav/sync/model"
)

// DecodeTask parses a single VTODO out of a VCALENDAR document and returns
// a Task carrying its sync status as NotSynced; callers that fetched the
// item from the remote are expected to overwrite the status themselves
// with the version tag they already hold.
func DecodeTask(data []byte) (*model.Task, error) {
	cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
	if err != nil {
		return nil, model.NewError(model.KindParse, "decode VCALENDAR", err)
	}

	var todos []*ical.Component
	for _, child := range cal.Children {
		if child.Name == ical.CompToDo {
			todos = append(todos, child)
		} else if child.Name != ical.CompTimezone {
			return nil, model.NewError(model.KindParse, "unsupported component "+child.Name, nil)
		}
	}
	if len(todos) != 1 {
		return nil, model.NewError(model.KindParse, "expected exactly one VTODO", nil)
	}
	comp := todos[0]

	uid := comp.Props.Get(ical.PropUID)
	summary := comp.Props.Get(ical.PropSummary)
	dtstamp := comp.Props.Get(ical.PropDateTimeStamp)
	lastModified := comp.Props.Get(ical.PropLastModified)
	if uid == nil || summary == nil || (dtstamp == nil && lastModified == nil) {
		return nil, model.NewError(model.KindParse, "VTODO missing UID, SUMMARY or DTSTAMP/LAST-MODIFIED", nil)
	}

	t := &model.Task{
		UID:  uid.Value,
		Name: summary.Value,
	}
	t.SetSyncStatus(model.NotSynced())

	lmProp := lastModified
	if lmProp == nil {
		lmProp = dtstamp
	}
	lm, err := parseDateTime(lmProp.Value)
	if err != nil {
		return nil, model.NewError(model.KindParse, "parse LAST-MODIFIED", err)
	}
	t.LastModified = lm

	if created := comp.Props.Get(ical.PropCreated); created != nil {
		cd, err := parseDateTime(created.Value)
		if err != nil {
			return nil, model.NewError(model.KindParse, "parse CREATED", err)
		}
		t.CreationDate = &cd
	}

	statusCompleted := false
	if status := comp.Props.Get(ical.PropStatus); status != nil {
		statusCompleted = status.Value == "COMPLETED"
	}

	var completionDate *time.Time
	if completed := comp.Props.Get(ical.PropCompleted); completed != nil {
		cd, err := parseDateTime(completed.Value)
		if err != nil {
			return nil, model.NewError(model.KindParse, "parse COMPLETED", err)
		}
		completionDate = &cd
		statusCompleted = true
	}
	if statusCompleted {
		t.Completion = model.Completed(completionDate)
	} else {
		t.Completion = model.Uncompleted()
	}

	for _, prop := range comp.Props[ical.PropRelatedTo] {
		reltype := model.RelTypeParent
		if v := prop.Params.Get("RELTYPE"); v != "" {
			reltype = model.RelType(v)
		}
		t.Relationships = append(t.Relationships, model.Relationship{UID: prop.Value, Type: reltype})
	}

	handled := map[string]bool{
		ical.PropUID: true, ical.PropSummary: true, ical.PropDateTimeStamp: true,
		ical.PropLastModified: true, ical.PropCreated: true, ical.PropCompleted: true,
		ical.PropStatus: true, ical.PropPercentComplete: true, ical.PropRelatedTo: true,
	}
	for name, props := range comp.Props {
		if handled[name] {
			continue
		}
		for _, prop := range props {
			params := map[string][]string(nil)
			if len(prop.Params) > 0 {
				params = make(map[string][]string, len(prop.Params))
				for k, v := range prop.Params {
					params[k] = v
				}
			}
			t.ExtraProperties = append(t.ExtraProperties, model.ExtraProperty{
				Name: name, Value: prop.Value, Params: params,
			})
		}
	}

	return t, nil
}

func parseDateTime(s string) (time.Time, error) {
	s = strings.TrimSuffix(s, "Z")
	return time.ParseInLocation(dateTimeLayout, s, time.UTC)
}
