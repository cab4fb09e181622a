package icalcodec

import (
	"bytes"

	ical "github.com/emersion/go-ical"

	"github.com/go-caldav/sync/model"
)

// DecodeEvent extracts just enough from a VEVENT to support sync-state
// bookkeeping (UID, LAST-MODIFIED) while keeping the whole document
// verbatim in RawICal, per the VEVENT non-goal: the engine never inspects
// a VEVENT's body beyond what's needed to detect that it changed.
func DecodeEvent(data []byte) (*model.Event, error) {
	cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
	if err != nil {
		return nil, model.NewError(model.KindParse, "decode VCALENDAR", err)
	}

	var comp *ical.Component
	for _, child := range cal.Children {
		if child.Name == ical.CompEvent {
			comp = child
			break
		}
	}
	if comp == nil {
		return nil, model.NewError(model.KindParse, "expected a VEVENT component", nil)
	}

	uid := comp.Props.Get(ical.PropUID)
	if uid == nil {
		return nil, model.NewError(model.KindParse, "VEVENT missing UID", nil)
	}

	e := &model.Event{UID: uid.Value, RawICal: data}
	e.SetSyncStatus(model.NotSynced())

	if lm := comp.Props.Get(ical.PropLastModified); lm != nil {
		t, err := parseDateTime(lm.Value)
		if err != nil {
			return nil, model.NewError(model.KindParse, "parse LAST-MODIFIED", err)
		}
		e.LastModified = t
	} else if dtstamp := comp.Props.Get(ical.PropDateTimeStamp); dtstamp != nil {
		t, err := parseDateTime(dtstamp.Value)
		if err != nil {
			return nil, model.NewError(model.KindParse, "parse DTSTAMP", err)
		}
		e.LastModified = t
	}

	return e, nil
}

// EncodeEvent returns the event's stored document verbatim: per the
// VEVENT non-goal there's nothing to re-render, only to preserve.
func EncodeEvent(e *model.Event) ([]byte, error) {
	return e.RawICal, nil
}
