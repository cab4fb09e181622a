package wire

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/go-caldav/sync/model"
)

// XMLProperty is a generic WebDAV property value as extracted from a
// PROPFIND response: its namespaced name and its text content.
type XMLProperty struct {
	Name  model.NSN
	Value string
}

// PropfindResult holds, per href, the list of properties returned with a
// 2xx propstat plus whether the resourcetype child named "calendar" was
// present (used by discovery to filter collections).
type PropfindResult struct {
	Href         string
	IsCalendar   bool
	Properties   []XMLProperty
	SupportedComponents []string
}

// DoPropfind issues a PROPFIND for the given namespaced properties (or, if
// names is empty, <allprop/>) at ref with the given Depth header.
func (c *Client) DoPropfind(ctx context.Context, ref string, depth int, names []model.NSN) ([]PropfindResult, error) {
	doc := etree.NewDocument()
	root := doc.CreateElement("D:propfind")
	addStandardNamespaces(root)
	if len(names) == 0 {
		root.CreateElement("D:allprop")
	} else {
		propEl := root.CreateElement("D:prop")
		for _, n := range names {
			createElementNS(propEl, n.XMLNS, n.Local)
		}
	}
	body, err := doc.WriteToBytes()
	if err != nil {
		return nil, model.NewError(model.KindIO, "marshal PROPFIND body", err)
	}

	resp, err := c.do(ctx, "PROPFIND", ref, map[string]string{
		"Content-Type": "application/xml; charset=utf-8",
		"Depth":        fmt.Sprintf("%d", depth),
	}, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 207 {
		return nil, model.NewError(model.KindTransport, fmt.Sprintf("PROPFIND %s: unexpected status %s", ref, resp.Status), nil)
	}

	respDoc := etree.NewDocument()
	if _, err := respDoc.ReadFrom(resp.Body); err != nil {
		return nil, model.NewError(model.KindParse, "parse PROPFIND response", err)
	}
	if respDoc.Root() == nil {
		return nil, model.NewError(model.KindParse, "empty PROPFIND response", nil)
	}

	var results []PropfindResult
	for _, respEl := range selectAllNS(respDoc.Root(), DAV, "response") {
		var r PropfindResult
		if hrefEl := findChildNS(respEl, DAV, "href"); hrefEl != nil {
			r.Href = hrefEl.Text()
		}
		for _, propstat := range selectAllNS(respEl, DAV, "propstat") {
			status := ""
			if s := findChildNS(propstat, DAV, "status"); s != nil {
				status = s.Text()
			}
			if !is2xxStatusLine(status) {
				continue
			}
			prop := findChildNS(propstat, DAV, "prop")
			if prop == nil {
				continue
			}
			for _, child := range prop.ChildElements() {
				if child.Tag == "resourcetype" || (child.Space == "D" && child.Tag == "resourcetype") {
					if findChildNS(child, CalDAV, "calendar") != nil {
						r.IsCalendar = true
					}
				}
				if child.Tag == "supported-calendar-component-set" {
					for _, comp := range child.ChildElements() {
						if name := comp.SelectAttrValue("name", ""); name != "" {
							r.SupportedComponents = append(r.SupportedComponents, name)
						}
					}
				}
				value := child.Text()
				if value == "" {
					if href := findChildNS(child, DAV, "href"); href != nil {
						value = href.Text()
					}
				}
				r.Properties = append(r.Properties, XMLProperty{
					Name:  model.NSN{XMLNS: resolveElementNS(child), Local: child.Tag},
					Value: value,
				})
			}
		}
		results = append(results, r)
	}
	return results, nil
}

func selectAllNS(parent *etree.Element, ns, local string) []*etree.Element {
	var out []*etree.Element
	for _, child := range parent.ChildElements() {
		if matchesNS(child, ns, local) {
			out = append(out, child)
		}
	}
	return out
}

func is2xxStatusLine(status string) bool {
	fields := strings.Fields(status)
	if len(fields) < 2 {
		return false
	}
	code, err := strconv.Atoi(fields[1])
	if err != nil {
		return false
	}
	return code >= 200 && code < 300
}
