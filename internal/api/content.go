package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// CreateURLContent registers a new URL-sourced Content plus ContentProfile.
func (c *Client) CreateURLContent(ctx context.Context, req CreateURLContentRequest) (*ContentProfile, error) {
	var profile ContentProfile
	url := c.url("v1", "contents", "url")
	if err := c.doJSON(ctx, http.MethodPost, url, req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateURLContent updates an existing URL-sourced Content in place and
// returns the bound profile with refreshed display fields.
func (c *Client) UpdateURLContent(ctx context.Context, contentID uuid.UUID, req UpdateURLContentRequest) (*ContentProfile, error) {
	var profile ContentProfile
	url := c.url("v1", "contents", contentID.String())
	if err := c.doJSON(ctx, http.MethodPatch, url, req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// RelinkProfile rebinds a single ContentProfile to a different Content
// without touching the old Content.
func (c *Client) RelinkProfile(ctx context.Context, profileID, contentID uuid.UUID) error {
	body := struct {
		ContentID uuid.UUID `json:"content_id"`
	}{ContentID: contentID}
	url := c.url("v1", "profiles", profileID.String(), "content")
	return c.doJSON(ctx, http.MethodPut, url, body, nil)
}

// GetProfile fetches one ContentProfile by ID.
func (c *Client) GetProfile(ctx context.Context, profileID uuid.UUID) (*ContentProfile, error) {
	var profile ContentProfile
	url := c.url("v1", "profiles", profileID.String())
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetContent fetches one canonical Content by ID.
func (c *Client) GetContent(ctx context.Context, contentID uuid.UUID) (*Content, error) {
	var content Content
	url := c.url("v1", "contents", contentID.String())
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

// CheckModificationAllowed asks the server whether the given Content may be
// edited by the caller. Hosts call this before offering edit-mode file
// replacement; the submission pipeline does not re-derive it.
func (c *Client) CheckModificationAllowed(ctx context.Context, contentID uuid.UUID) (*ModificationCheck, error) {
	var check ModificationCheck
	url := c.url("v1", "contents", contentID.String(), "modifiable")
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &check); err != nil {
		return nil, err
	}
	return &check, nil
}
