package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"

	"github.com/beeja-io/beeja-console/internal/inventory"
)

func (c *Client) ListDevices(ctx context.Context) ([]inventory.Device, error) {
	var devices []inventory.Device
	if err := c.doJSON(ctx, http.MethodGet, "/devices", nil, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// CreateDevice submits a new device as a multipart form. Fields are written
// in sorted order so the payload is stable.
func (c *Client) CreateDevice(ctx context.Context, fields map[string]string) (*inventory.Device, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := w.WriteField(name, fields[name]); err != nil {
			return nil, fmt.Errorf("write form field %q: %w", name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/devices", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var device inventory.Device
	if err := c.do(req, &device); err != nil {
		return nil, err
	}
	return &device, nil
}

// UpdateDevice sends a sparse JSON object of changed fields only.
func (c *Client) UpdateDevice(ctx context.Context, id string, changes map[string]any) (*inventory.Device, error) {
	var device inventory.Device
	path := "/devices/" + url.PathEscape(id)
	if err := c.doJSON(ctx, http.MethodPatch, path, changes, &device); err != nil {
		return nil, err
	}
	return &device, nil
}

func (c *Client) DeleteDevice(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/devices/"+url.PathEscape(id), nil, nil)
}
