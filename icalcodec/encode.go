// Package icalcodec turns model.Task values into VTODO iCal bytes and back,
// against github.com/emersion/go-ical's Component/Prop API.
package icalcodec

import (
	"bytes"
	"time"

	ical "github.com/emersion/go-ical"

	"github.com/go-caldav/sync/model"
)

const dateTimeLayout = "20060102T150405"

// EncodeTask renders a Task as a VTODO wrapped in a VCALENDAR, following
// the field order and date format (no trailing Z on emit) the library's
// peers use on the wire.
func EncodeTask(t *model.Task) ([]byte, error) {
	todo := &ical.Component{
		Name:  ical.CompToDo,
		Props: make(ical.Props),
	}

	todo.Props.Set(&ical.Prop{Name: ical.PropUID, Value: t.UID})
	todo.Props.Set(&ical.Prop{Name: ical.PropDateTimeStamp, Value: formatDateTime(t.LastModified)})
	if t.CreationDate != nil {
		todo.Props.Set(&ical.Prop{Name: ical.PropCreated, Value: formatDateTime(*t.CreationDate)})
	}
	todo.Props.Set(&ical.Prop{Name: ical.PropLastModified, Value: formatDateTime(t.LastModified)})
	todo.Props.Set(&ical.Prop{Name: ical.PropSummary, Value: t.Name})

	for _, rel := range t.Relationships {
		prop := &ical.Prop{Name: ical.PropRelatedTo, Value: rel.UID}
		if rel.Type != "" && rel.Type != model.RelTypeParent {
			prop.Params = ical.Params{"RELTYPE": []string{string(rel.Type)}}
		}
		todo.Props.Add(prop)
	}

	if t.Completion.Completed {
		todo.Props.Set(&ical.Prop{Name: ical.PropPercentComplete, Value: "100"})
		if t.Completion.CompletionDate != nil {
			todo.Props.Set(&ical.Prop{Name: ical.PropCompleted, Value: formatDateTime(*t.Completion.CompletionDate)})
		}
		todo.Props.Set(&ical.Prop{Name: ical.PropStatus, Value: "COMPLETED"})
	} else {
		todo.Props.Set(&ical.Prop{Name: ical.PropStatus, Value: "NEEDS-ACTION"})
	}

	for _, extra := range t.ExtraProperties {
		prop := &ical.Prop{Name: extra.Name, Value: extra.Value}
		if len(extra.Params) > 0 {
			prop.Params = make(ical.Params, len(extra.Params))
			for k, v := range extra.Params {
				prop.Params[k] = v
			}
		}
		todo.Props.Add(prop)
	}

	cal := ical.NewCalendar()
	cal.Props.Set(&ical.Prop{Name: ical.PropVersion, Value: "2.0"})
	cal.Props.Set(&ical.Prop{Name: ical.PropProductID, Value: t.ProdID})
	cal.Children = append(cal.Children, todo)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, model.NewError(model.KindParse, "encode VTODO", err)
	}
	return buf.Bytes(), nil
}

func formatDateTime(t time.Time) string {
	return t.UTC().Format(dateTimeLayout)
}
