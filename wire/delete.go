package wire

import (
	"context"

	"github.com/go-caldav/sync/model"
)

// DoDelete deletes a resource, conditioned on etag when non-empty.
func (c *Client) DoDelete(ctx context.Context, ref, etag string) error {
	headers := map[string]string{}
	if etag != "" {
		headers["If-Match"] = etag
	}
	resp, err := c.do(ctx, "DELETE", ref, headers, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 && resp.StatusCode != 204 {
		return model.NewError(model.KindTransport, "DELETE "+ref+": unexpected status "+resp.Status, nil)
	}
	return nil
}
