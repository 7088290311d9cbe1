package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MediaKind classifies the media carried by a Content.
type MediaKind string

// Media kind constants (typed).
const (
	MediaKindImage MediaKind = "IMAGE"
	MediaKindVideo MediaKind = "VIDEO"
	MediaKindAudio MediaKind = "AUDIO"
	MediaKindText  MediaKind = "TEXT"
)

// MediaKinds lists every valid kind in display order.
var MediaKinds = []MediaKind{MediaKindVideo, MediaKindAudio, MediaKindText, MediaKindImage}

// Valid reports whether k is a member of the fixed enumeration.
func (k MediaKind) Valid() bool {
	switch k {
	case MediaKindImage, MediaKindVideo, MediaKindAudio, MediaKindText:
		return true
	}
	return false
}

// ParseMediaKind converts user input (any case) into a MediaKind.
func ParseMediaKind(s string) (MediaKind, error) {
	k := MediaKind(strings.ToUpper(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("invalid media kind %q — must be one of VIDEO, AUDIO, TEXT, IMAGE", s)
	}
	return k, nil
}

// Content is the canonical, potentially shared record for one piece of
// ingested media. The server deduplicates by source identity, so several
// users' profiles may reference the same row. The client never mutates a
// binary-sourced Content in place for that reason.
type Content struct {
	ID        uuid.UUID        `json:"id"`
	Kind      MediaKind        `json:"kind"`
	SourceURL string           `json:"source_url,omitempty"`
	AssetName string           `json:"asset_name,omitempty"`
	SizeBytes int64            `json:"size_bytes,omitempty"`
	Preview   *PreviewMetadata `json:"preview,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// ContentProfile is one user's private personalization of a Content.
// Owned by exactly one user, references exactly one Content.
type ContentProfile struct {
	ID            uuid.UUID `json:"id"`
	ContentID     uuid.UUID `json:"content_id"`
	Title         string    `json:"title"`
	Author        string    `json:"author,omitempty"`
	Note          string    `json:"note,omitempty"`
	Hidden        bool      `json:"hidden"`
	ProducerClaim bool      `json:"producer_claim"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PreviewMetadata is an ephemeral snapshot describing a candidate URL before
// submission. It is attached to the outgoing request at submission time and
// never stored by the client.
type PreviewMetadata struct {
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
	SiteName    string    `json:"site_name,omitempty"`
	Kind        MediaKind `json:"kind,omitempty"`
}

// DisplayFields carries the per-user presentation fields of a profile.
type DisplayFields struct {
	Title         string `json:"title"`
	Author        string `json:"author,omitempty"`
	Note          string `json:"note,omitempty"`
	Hidden        bool   `json:"hidden"`
	ProducerClaim bool   `json:"producer_claim"`
}

// ModificationCheck is the server's answer to "may this Content be edited".
type ModificationCheck struct {
	CanModify bool   `json:"can_modify"`
	Reason    string `json:"reason,omitempty"`
}

// UploadResult is returned by a binary upload: the new Content plus the new
// ContentProfile the server created for it.
type UploadResult struct {
	Content Content        `json:"content"`
	Profile ContentProfile `json:"profile"`
}

// CreateURLContentRequest registers a new URL-sourced Content and profile.
type CreateURLContentRequest struct {
	URL     string           `json:"url"`
	Kind    MediaKind        `json:"kind"`
	Preview *PreviewMetadata `json:"preview,omitempty"`
	DisplayFields
}

// UpdateURLContentRequest updates an existing URL-sourced Content in place
// and the bound profile's display fields.
type UpdateURLContentRequest struct {
	URL  string    `json:"url"`
	Kind MediaKind `json:"kind"`
	DisplayFields
}
