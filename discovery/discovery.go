// Package discovery resolves a CalDAV account's calendar list: principal
// URL, calendar-home-set, then the calendars themselves. It chains three
// PROPFIND calls the way a CalDAV client is expected to.
package discovery

import (
	"context"
	"net/url"
	"sort"

	"github.com/go-caldav/sync/model"
	"github.com/go-caldav/sync/wire"
)

var (
	propCurrentUserPrincipal = model.NSN{XMLNS: wire.DAV, Local: "current-user-principal"}
	propCalendarHomeSet      = model.NSN{XMLNS: wire.CalDAV, Local: "calendar-home-set"}
	propResourceType         = model.NSN{XMLNS: wire.DAV, Local: "resourcetype"}
	propDisplayName          = model.NSN{XMLNS: wire.DAV, Local: "displayname"}
	propCalendarColor        = model.NSN{XMLNS: wire.AppleICal, Local: "calendar-color"}
	propSupportedComponents  = model.NSN{XMLNS: wire.CalDAV, Local: "supported-calendar-component-set"}
)

// CalendarInfo is one calendar collection found under the account's
// calendar-home-set.
type CalendarInfo struct {
	URL                 string
	DisplayName         string
	Color               string
	SupportedComponents model.SupportedComponents
}

// FindCalendars discovers every calendar collection reachable from
// accountRoot by following current-user-principal then calendar-home-set.
// Unlike a full client, this assumes accountRoot is already a CalDAV entry
// point (no DNS SRV or .well-known bootstrapping, which the account setup
// UI this library backs is expected to have already resolved). Responses
// without an href, or advertising neither VEVENT nor VTODO, are skipped.
// Results are not cached: every call issues the three PROPFINDs again.
func FindCalendars(ctx context.Context, client *wire.Client, accountRoot string) ([]CalendarInfo, error) {
	principalResults, err := client.DoPropfind(ctx, accountRoot, 0, []model.NSN{propCurrentUserPrincipal})
	if err != nil {
		return nil, err
	}
	principalURL := firstPropertyValue(principalResults, propCurrentUserPrincipal)
	if principalURL == "" {
		return nil, model.NewError(model.KindProtocolInvariant, "server returned no current-user-principal", nil)
	}
	principalURL = resolveAgainst(accountRoot, principalURL)

	homeResults, err := client.DoPropfind(ctx, principalURL, 0, []model.NSN{propCalendarHomeSet})
	if err != nil {
		return nil, err
	}
	homeSet := firstPropertyValue(homeResults, propCalendarHomeSet)
	if homeSet == "" {
		return nil, model.NewError(model.KindProtocolInvariant, "server returned no calendar-home-set", nil)
	}
	homeSet = resolveAgainst(principalURL, homeSet)

	listResults, err := client.DoPropfind(ctx, homeSet, 1, []model.NSN{
		propResourceType, propDisplayName, propCalendarColor, propSupportedComponents,
	})
	if err != nil {
		return nil, err
	}

	var calendars []CalendarInfo
	for _, r := range listResults {
		if !r.IsCalendar || r.Href == "" {
			continue
		}
		info := CalendarInfo{
			URL: resolveAgainst(homeSet, r.Href),
		}
		for _, p := range r.Properties {
			switch p.Name {
			case propDisplayName:
				info.DisplayName = p.Value
			case propCalendarColor:
				info.Color = p.Value
			}
		}
		for _, comp := range r.SupportedComponents {
			switch comp {
			case "VEVENT":
				info.SupportedComponents.Event = true
			case "VTODO":
				info.SupportedComponents.Todo = true
			}
		}
		if !info.SupportedComponents.Event && !info.SupportedComponents.Todo {
			continue
		}
		calendars = append(calendars, info)
	}

	sort.Slice(calendars, func(i, j int) bool { return calendars[i].URL < calendars[j].URL })
	return calendars, nil
}

func firstPropertyValue(results []wire.PropfindResult, name model.NSN) string {
	for _, r := range results {
		for _, p := range r.Properties {
			if p.Name == name {
				return p.Value
			}
		}
	}
	return ""
}

// resolveAgainst turns a possibly-relative href returned by the server into
// an absolute URL resolved against base, the way a browser resolves a link.
func resolveAgainst(base, href string) string {
	if href == "" {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	refURL, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(refURL).String()
}
