package wire

import (
	"context"
	"fmt"

	"github.com/beevik/etree"

	"github.com/go-caldav/sync/model"
)

// ItemTag is one (href, etag) pair returned by a calendar-query REPORT.
type ItemTag struct {
	Href string
	ETag string
}

// DoCalendarQueryTags issues a REPORT calendar-query filtered on the given
// component (VTODO or VEVENT), requesting only getetag, and returns one
// ItemTag per matched resource.
func (c *Client) DoCalendarQueryTags(ctx context.Context, calRef, component string) ([]ItemTag, error) {
	doc := etree.NewDocument()
	root := doc.CreateElement("calendar-query")
	root.Space = "C"
	addStandardNamespaces(root)
	prop := createElementNS(root, DAV, "prop")
	createElementNS(prop, DAV, "getetag")
	filter := createElementNS(root, CalDAV, "filter")
	compFilter := createElementNS(filter, CalDAV, "comp-filter")
	compFilter.CreateAttr("name", "VCALENDAR")
	compTypeFilter := createElementNS(compFilter, CalDAV, "comp-filter")
	compTypeFilter.CreateAttr("name", component)

	body, err := doc.WriteToBytes()
	if err != nil {
		return nil, model.NewError(model.KindIO, "marshal calendar-query", err)
	}

	resp, err := c.do(ctx, "REPORT", calRef, map[string]string{
		"Content-Type": "application/xml; charset=utf-8",
		"Depth":        "1",
	}, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 207 {
		return nil, model.NewError(model.KindTransport, fmt.Sprintf("REPORT %s: unexpected status %s", calRef, resp.Status), nil)
	}

	respDoc := etree.NewDocument()
	if _, err := respDoc.ReadFrom(resp.Body); err != nil {
		return nil, model.NewError(model.KindParse, "parse calendar-query response", err)
	}
	if respDoc.Root() == nil {
		return nil, model.NewError(model.KindParse, "empty calendar-query response", nil)
	}

	var tags []ItemTag
	for _, respEl := range selectAllNS(respDoc.Root(), DAV, "response") {
		href := ""
		if h := findChildNS(respEl, DAV, "href"); h != nil {
			href = h.Text()
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
			if etag := findChildNS(prop, DAV, "getetag"); etag != nil {
				tags = append(tags, ItemTag{Href: href, ETag: etag.Text()})
			}
		}
	}
	return tags, nil
}

// MultigetItem is one fetched item: its href, ETag and raw calendar-data.
type MultigetItem struct {
	Href         string
	ETag         string
	CalendarData []byte
}

// DoCalendarMultiget issues a REPORT calendar-multiget for the given hrefs,
// requesting calendar-data and getetag.
func (c *Client) DoCalendarMultiget(ctx context.Context, calRef string, hrefs []string) ([]MultigetItem, error) {
	doc := etree.NewDocument()
	root := doc.CreateElement("calendar-multiget")
	root.Space = "C"
	addStandardNamespaces(root)
	prop := createElementNS(root, DAV, "prop")
	createElementNS(prop, DAV, "getetag")
	createElementNS(prop, CalDAV, "calendar-data")
	for _, href := range hrefs {
		h := createElementNS(root, DAV, "href")
		h.SetText(href)
	}

	body, err := doc.WriteToBytes()
	if err != nil {
		return nil, model.NewError(model.KindIO, "marshal calendar-multiget", err)
	}

	resp, err := c.do(ctx, "REPORT", calRef, map[string]string{
		"Content-Type": "application/xml; charset=utf-8",
		"Depth":        "1",
	}, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 207 {
		return nil, model.NewError(model.KindTransport, fmt.Sprintf("REPORT %s: unexpected status %s", calRef, resp.Status), nil)
	}

	respDoc := etree.NewDocument()
	if _, err := respDoc.ReadFrom(resp.Body); err != nil {
		return nil, model.NewError(model.KindParse, "parse calendar-multiget response", err)
	}
	if respDoc.Root() == nil {
		return nil, model.NewError(model.KindParse, "empty calendar-multiget response", nil)
	}

	var items []MultigetItem
	for _, respEl := range selectAllNS(respDoc.Root(), DAV, "response") {
		href := ""
		if h := findChildNS(respEl, DAV, "href"); h != nil {
			href = h.Text()
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
			item := MultigetItem{Href: href}
			if etag := findChildNS(prop, DAV, "getetag"); etag != nil {
				item.ETag = etag.Text()
			}
			if data := findChildNS(prop, CalDAV, "calendar-data"); data != nil {
				item.CalendarData = []byte(data.Text())
			}
			items = append(items, item)
		}
	}
	return items, nil
}
