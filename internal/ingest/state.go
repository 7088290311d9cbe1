package ingest

import (
	"strings"

	"github.com/google/uuid"

	"github.com/trovelib/trovectl/internal/api"
)

// State is the pending upload state behind one form instance: acquisition
// and operation modes, the current source candidate, descriptive fields and
// the cached preview. All transitions go through methods so the clearing
// rules stay in one place; hosts read but never write fields directly.
type State struct {
	op  OperationMode
	acq AcquisitionMode

	// Edit-mode bindings; zero in create mode.
	profileID uuid.UUID
	contentID uuid.UUID

	file *Source
	url  string

	kind          api.MediaKind
	title         string
	author        string
	note          string
	hidden        bool
	producerClaim bool

	preview     *api.PreviewMetadata
	previewErr  error
	fetchingURL string // normalized URL of the in-flight lookup, "" when idle

	saved bool
}

// NewCreateState returns form state for ingesting new content.
func NewCreateState(acq AcquisitionMode) *State {
	return &State{op: OpCreate, acq: acq}
}

// NewEditState returns form state bound to an existing profile, seeded with
// its current display fields so unedited values survive the round trip.
func NewEditState(acq AcquisitionMode, profile *api.ContentProfile) *State {
	return &State{
		op:            OpEdit,
		acq:           acq,
		profileID:     profile.ID,
		contentID:     profile.ContentID,
		title:         profile.Title,
		author:        profile.Author,
		note:          profile.Note,
		hidden:        profile.Hidden,
		producerClaim: profile.ProducerClaim,
	}
}

// Operation returns the fixed operation mode of this form instance.
func (s *State) Operation() OperationMode { return s.op }

// Acquisition returns the active acquisition mode.
func (s *State) Acquisition() AcquisitionMode { return s.acq }

// SetAcquisition switches the acquisition mode. Switching clears the source
// candidate of the mode being left and any cached preview, preserves title,
// author and a previously chosen media kind, and revokes any prior saved
// acknowledgement. Setting the current mode again is a no-op.
func (s *State) SetAcquisition(next AcquisitionMode) {
	if next == s.acq {
		return
	}
	switch s.acq {
	case AcquireFile:
		s.file = nil
	case AcquireURL:
		s.url = ""
		s.preview = nil
		s.previewErr = nil
		s.fetchingURL = ""
	}
	s.acq = next
	s.saved = false
}

// File returns the selected file source, or nil.
func (s *State) File() *Source { return s.file }

// SetFile records the selected file and marks the form unsaved.
func (s *State) SetFile(src *Source) {
	s.file = src
	s.saved = false
}

// URL returns the current URL input string.
func (s *State) URL() string { return s.url }

// SetURL records a new URL input value. The cached preview belongs to the
// previous value, so it is dropped; an eventual response for it is discarded
// by the staleness check in ApplyPreview. If the normalized URL matches a
// known video host, the media kind flips to VIDEO synchronously, ahead of
// any network round trip.
func (s *State) SetURL(raw string) {
	if raw == s.url {
		return
	}
	s.url = raw
	s.preview = nil
	s.previewErr = nil
	s.saved = false
	if IsVideoHost(raw) {
		s.kind = api.MediaKindVideo
	}
}

// Kind returns the inferred or user-chosen media kind.
func (s *State) Kind() api.MediaKind { return s.kind }

// SetKind records a user-chosen media kind.
func (s *State) SetKind(k api.MediaKind) {
	s.kind = k
	s.saved = false
}

// Title returns the display title field.
func (s *State) Title() string { return s.title }

// SetTitle records the display title.
func (s *State) SetTitle(v string) {
	s.title = v
	s.saved = false
}

// Author returns the display author field.
func (s *State) Author() string { return s.author }

// SetAuthor records the display author.
func (s *State) SetAuthor(v string) {
	s.author = v
	s.saved = false
}

// Note returns the personal note field.
func (s *State) Note() string { return s.note }

// SetNote records the personal note.
func (s *State) SetNote(v string) {
	s.note = v
	s.saved = false
}

// Hidden returns the visibility flag.
func (s *State) Hidden() bool { return s.hidden }

// SetHidden records the visibility flag.
func (s *State) SetHidden(v bool) {
	s.hidden = v
	s.saved = false
}

// ProducerClaim returns the producer-claim flag.
func (s *State) ProducerClaim() bool { return s.producerClaim }

// SetProducerClaim records the producer-claim flag.
func (s *State) SetProducerClaim(v bool) {
	s.producerClaim = v
	s.saved = false
}

// DisplayFields assembles the profile personalization fields for submission.
func (s *State) DisplayFields() api.DisplayFields {
	return api.DisplayFields{
		Title:         s.title,
		Author:        s.author,
		Note:          s.note,
		Hidden:        s.hidden,
		ProducerClaim: s.producerClaim,
	}
}

// Preview returns the cached preview for the current URL, or nil.
func (s *State) Preview() *api.PreviewMetadata { return s.preview }

// PreviewErr returns the dismissible preview error, or nil.
func (s *State) PreviewErr() error { return s.previewErr }

// DismissPreviewErr clears a surfaced preview error.
func (s *State) DismissPreviewErr() { s.previewErr = nil }

// BeginPreview records that a lookup for the given raw URL is in flight.
func (s *State) BeginPreview(raw string) {
	s.fetchingURL = NormalizeURL(raw)
}

// PreviewLoading reports whether a non-superseded lookup is in flight for
// the URL currently in the input.
func (s *State) PreviewLoading() bool {
	return s.fetchingURL != "" && s.fetchingURL == NormalizeURL(s.url)
}

// ApplyPreview applies a resolved lookup. Last request wins: the result is
// discarded unless the URL it was issued for still equals the URL currently
// in the input. Superseded failures are dropped silently; a failure for the
// current URL surfaces as a dismissible preview error. A fetched title fills
// an empty title field but never overwrites a non-empty one.
func (s *State) ApplyPreview(res PreviewResult) {
	if res.URL != NormalizeURL(s.url) {
		return // stale — a newer input superseded this lookup
	}
	if s.fetchingURL == res.URL {
		s.fetchingURL = ""
	}
	if res.Err != nil {
		s.previewErr = res.Err
		return
	}
	s.preview = res.Meta
	s.previewErr = nil
	if res.Meta == nil {
		return
	}
	if s.title == "" && res.Meta.Title != "" {
		s.title = res.Meta.Title
	}
	if res.Meta.Kind.Valid() && s.kind == "" {
		s.kind = res.Meta.Kind
	}
}

// EditTargets returns the profile and content IDs bound in edit mode.
func (s *State) EditTargets() (profileID, contentID uuid.UUID) {
	return s.profileID, s.contentID
}

// Saved reports whether the current candidate source has been successfully
// submitted since it was set.
func (s *State) Saved() bool { return s.saved }

// Dirty reports whether unsaved ingestion input exists: a non-empty source
// candidate for the active mode that has not been saved. Hosts use this
// single boolean to warn about navigation loss or gate sibling actions; it
// is derived on every call, never cached.
func (s *State) Dirty() bool {
	if s.saved {
		return false
	}
	switch s.acq {
	case AcquireFile:
		return s.file != nil
	case AcquireURL:
		return strings.TrimSpace(s.url) != ""
	}
	return false
}

// markSaved flips the form to the saved state after a successful submission.
func (s *State) markSaved() { s.saved = true }

// rebindContent records the replacement Content after a successful file
// replacement, so any later edit through this form targets the new record
// and never the one it forked from.
func (s *State) rebindContent(contentID uuid.UUID) { s.contentID = contentID }
