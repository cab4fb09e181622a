package discovery

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-caldav/sync/wire"
)

func TestFindCalendarsChainsThreePropfinds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(207)
		switch r.URL.Path {
		case "/":
			fmt.Fprint(w, `<?xml version="1.0"?>
<D:multistatus xmlns:D="DAV:">
  <D:response>
    <D:href>/</D:href>
    <D:propstat>
      <D:prop><D:current-user-principal><D:href>/principals/alice/</D:href></D:current-user-principal></D:prop>
      <D:status>HTTP/1.1 200 OK</D:status>
    </D:propstat>
  </D:response>
</D:multistatus>`)
		case "/principals/alice/":
			fmt.Fprint(w, `<?xml version="1.0"?>
<D:multistatus xmlns:D="DAV:" xmlns:C="urn:ietf:params:xml:ns:caldav">
  <D:response>
    <D:href>/principals/alice/</D:href>
    <D:propstat>
      <D:prop><C:calendar-home-set><D:href>/calendars/alice/</D:href></C:calendar-home-set></D:prop>
      <D:status>HTTP/1.1 200 OK</D:status>
    </D:propstat>
  </D:response>
</D:multistatus>`)
		case "/calendars/alice/":
			fmt.Fprint(w, `<?xml version="1.0"?>
<D:multistatus xmlns:D="DAV:" xmlns:C="urn:ietf:params:xml:ns:caldav" xmlns:A="http://apple.com/ns/ical/">
  <D:response>
    <D:href>/calendars/alice/</D:href>
    <D:propstat>
      <D:prop><D:resourcetype><D:collection/></D:resourcetype></D:prop>
      <D:status>HTTP/1.1 200 OK</D:status>
    </D:propstat>
  </D:response>
  <D:response>
    <D:href>/calendars/alice/tasks/</D:href>
    <D:propstat>
      <D:prop>
        <D:resourcetype><D:collection/><C:calendar/></D:resourcetype>
        <D:displayname>Tasks</D:displayname>
        <A:calendar-color>#FF0000FF</A:calendar-color>
        <C:supported-calendar-component-set><C:comp name="VTODO"/></C:supported-calendar-component-set>
      </D:prop>
      <D:status>HTTP/1.1 200 OK</D:status>
    </D:propstat>
  </D:response>
</D:multistatus>`)
		default:
			t.Fatalf("unexpected PROPFIND path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	client := wire.NewClient(nil, base, "alice", "secret", nil)

	calendars, err := FindCalendars(context.Background(), client, "/")
	require.NoError(t, err)
	require.Len(t, calendars, 1)

	cal := calendars[0]
	assert.Equal(t, "Tasks", cal.DisplayName)
	assert.Equal(t, "#FF0000FF", cal.Color)
	assert.True(t, cal.SupportedComponents.Todo)
	assert.False(t, cal.SupportedComponents.Event)
	assert.Contains(t, cal.URL, "/calendars/alice/tasks/")
}

func TestFindCalendarsErrorsWithoutPrincipal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(207)
		fmt.Fprint(w, `<?xml version="1.0"?><D:multistatus xmlns:D="DAV:"></D:multistatus>`)
	}))
	defer srv.Close()

	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	client := wire.NewClient(nil, base, "alice", "secret", nil)

	_, err = FindCalendars(context.Background(), client, "/")
	require.Error(t, err)
}

func TestResolveAgainstRelativeAndAbsolute(t *testing.T) {
	assert.Equal(t, "https://example.com/calendars/alice/", resolveAgainst("https://example.com/principals/alice/", "/calendars/alice/"))
	assert.Equal(t, "https://other.example.com/x", resolveAgainst("https://example.com/", "https://other.example.com/x"))
	assert.Equal(t, "", resolveAgainst("https://example.com/", ""))
}
