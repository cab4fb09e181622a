package wire

import (
	"context"
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/go-caldav/sync/model"
)

// DoMkcalendar issues MKCALENDAR at ref, advertising the given display
// name, color (already formatted as #RRGGBBFF) and supported components.
func (c *Client) DoMkcalendar(ctx context.Context, ref, displayName, color string, comps model.SupportedComponents) error {
	doc := etree.NewDocument()
	root := doc.CreateElement("C:mkcalendar")
	root.Space = "C"
	addStandardNamespaces(root)
	set := createElementNS(root, DAV, "set")
	prop := createElementNS(set, DAV, "prop")
	dn := createElementNS(prop, DAV, "displayname")
	dn.SetText(displayName)
	if color != "" {
		cc := createElementNS(prop, AppleICal, "calendar-color")
		cc.SetText(strings.ToUpper(color))
	}
	scs := createElementNS(prop, CalDAV, "supported-calendar-component-set")
	if comps.Event {
		comp := createElementNS(scs, CalDAV, "comp")
		comp.CreateAttr("name", "VEVENT")
	}
	if comps.Todo {
		comp := createElementNS(scs, CalDAV, "comp")
		comp.CreateAttr("name", "VTODO")
	}

	body, err := doc.WriteToBytes()
	if err != nil {
		return model.NewError(model.KindIO, "marshal MKCALENDAR body", err)
	}

	resp, err := c.do(ctx, "MKCALENDAR", ref, map[string]string{
		"Content-Type": "application/xml; charset=utf-8",
	}, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 201 {
		return model.NewError(model.KindTransport, fmt.Sprintf("MKCALENDAR %s: unexpected status %s", ref, resp.Status), nil)
	}
	return nil
}
