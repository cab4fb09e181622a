package wire

import (
	"context"
	"fmt"

	"github.com/beevik/etree"

	"github.com/go-caldav/sync/model"
)

// DoPropertySet issues a PROPPATCH set for one namespaced property.
func (c *Client) DoPropertySet(ctx context.Context, calRef string, name model.NSN, value string) error {
	return c.doPropPatch(ctx, calRef, name, &value)
}

// DoPropertyRemove issues a PROPPATCH remove for one namespaced property.
func (c *Client) DoPropertyRemove(ctx context.Context, calRef string, name model.NSN) error {
	return c.doPropPatch(ctx, calRef, name, nil)
}

func (c *Client) doPropPatch(ctx context.Context, calRef string, name model.NSN, value *string) error {
	doc := etree.NewDocument()
	root := doc.CreateElement("D:propertyupdate")
	addStandardNamespaces(root)

	var action *etree.Element
	if value != nil {
		action = createElementNS(root, DAV, "set")
	} else {
		action = createElementNS(root, DAV, "remove")
	}
	prop := createElementNS(action, DAV, "prop")
	el := createElementNS(prop, name.XMLNS, name.Local)
	if value != nil {
		el.SetText(*value)
	}

	body, err := doc.WriteToBytes()
	if err != nil {
		return model.NewError(model.KindIO, "marshal PROPPATCH body", err)
	}

	resp, err := c.do(ctx, "PROPPATCH", calRef, map[string]string{
		"Content-Type": "application/xml; charset=utf-8",
	}, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 207 && (resp.StatusCode < 200 || resp.StatusCode >= 300) {
		return model.NewError(model.KindTransport, fmt.Sprintf("PROPPATCH %s: unexpected status %s", calRef, resp.Status), nil)
	}
	return nil
}
