package wire

import (
	"context"

	"github.com/go-caldav/sync/model"
)

// DoPut creates or updates an item. When create is true it sends
// If-None-Match: * and rejects any existing resource; otherwise it sends
// If-Match: etag. It returns the new ETag from the response header, or a
// protocol-invariant error if the server's 2xx response carries none.
func (c *Client) DoPut(ctx context.Context, ref string, etag string, create bool, data []byte) (string, error) {
	headers := map[string]string{"Content-Type": "text/calendar; charset=utf-8"}
	if create {
		headers["If-None-Match"] = "*"
	} else if etag != "" {
		headers["If-Match"] = etag
	}

	resp, err := c.do(ctx, "PUT", ref, headers, data)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", model.NewError(model.KindTransport, "PUT "+ref+": unexpected status "+resp.Status, nil)
	}

	newEtag := resp.Header.Get("ETag")
	if newEtag == "" {
		return "", model.NewError(model.KindProtocolInvariant, "PUT "+ref+" succeeded without an ETag", nil)
	}
	return newEtag, nil
}
