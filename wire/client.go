// Package wire implements the CalDAV/WebDAV HTTP methods the sync engine
// needs: PROPFIND, PROPPATCH, REPORT (calendar-query, calendar-multiget),
// MKCALENDAR, PUT and DELETE, against github.com/beevik/etree XML trees.
package wire

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-caldav/sync/model"
)

// Client issues CalDAV requests against one base URL, authenticating with
// HTTP Basic credentials installed on the *http.Client's transport.
type Client struct {
	HTTP    *http.Client
	BaseURL *url.URL
	Logger  *slog.Logger
}

func NewClient(httpClient *http.Client, baseURL *url.URL, username, password string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	transport := httpClient.Transport
	httpClient = &http.Client{
		Transport:     &BasicAuthTransport{Username: username, Password: password, Transport: transport},
		CheckRedirect: httpClient.CheckRedirect,
		Jar:           httpClient.Jar,
		Timeout:       httpClient.Timeout,
	}
	return &Client{HTTP: httpClient, BaseURL: baseURL, Logger: logger}
}

func (c *Client) resolve(ref string) (*url.URL, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, model.NewError(model.KindTransport, "parse URL "+ref, err)
	}
	return c.BaseURL.ResolveReference(u), nil
}

func (c *Client) do(ctx context.Context, method, ref string, headers map[string]string, body []byte) (*http.Response, error) {
	resolved, err := c.resolve(ref)
	if err != nil {
		return nil, err
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, resolved.String(), reader)
	if err != nil {
		return nil, model.NewError(model.KindTransport, method+" "+resolved.String(), err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	c.Logger.Debug("caldav request", "method", method, "url", resolved.String())
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, model.NewError(model.KindTransport, method+" "+resolved.String(), err)
	}
	return resp, nil
}

func expect2xx(method, ref string, resp *http.Response) error {
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.NewError(model.KindTransport,
			fmt.Sprintf("%s %s: unexpected status %s", method, ref, resp.Status), nil)
	}
	return nil
}
