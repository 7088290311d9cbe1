package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultBaseURL = "https://api.trove.dev"

// Client is an authenticated Trove platform API client.
type Client struct {
	token   string
	baseURL string
	http    *http.Client
	preview *http.Client
}

// New creates a Client with the given token and base URL.
// If baseURL is empty, the public Trove API is used.
func New(token, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	// Strip trailing slash for consistent URL building.
	baseURL = strings.TrimRight(baseURL, "/")

	return &Client{
		token:   token,
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 5 * time.Minute, // generous for large uploads
		},
		preview: &http.Client{
			Timeout: 15 * time.Second, // preview lookups fail fast
		},
	}
}

// do executes the request with standard Trove headers.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if req.Body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	switch req.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		req.Header.Set("Idempotency-Key", uuid.NewString())
	}
	return c.http.Do(req)
}

// doJSON sends a request and decodes the JSON response into out.
func (c *Client) doJSON(ctx context.Context, method, url string, body, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if err := checkStatus(resp); err != nil {
		return err
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// url builds an API URL from path segments.
func (c *Client) url(parts ...string) string {
	return c.baseURL + "/" + strings.Join(parts, "/")
}

// checkStatus returns a typed error for non-2xx responses. The server's
// structured error+detail pair wins over the generic status mapping when
// the body carries one.
func checkStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted, http.StatusNoContent:
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Code != "" {
		apiErr.Status = resp.StatusCode
		return &apiErr
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	default:
		return fmt.Errorf("trove API error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
}
