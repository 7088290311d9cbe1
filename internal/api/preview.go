package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// FetchURLPreview asks the platform's metadata-extraction service for
// descriptive metadata about a candidate URL. May fail with a network or
// parse error; callers treat that as a recoverable, non-fatal condition.
func (c *Client) FetchURLPreview(ctx context.Context, target string) (*PreviewMetadata, error) {
	u := c.url("v1", "preview") + "?url=" + url.QueryEscape(target)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	// Separate short-timeout client — previews run per input change and
	// must not hold the form for the upload client's five minutes.
	resp, err := c.preview.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var meta PreviewMetadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, err
	}
	return &meta, nil
}
