package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/trovelib/trovectl/internal/api"
)

// Submission errors surfaced to hosts.
var (
	// ErrSubmissionInFlight rejects a second submit while one is pending.
	ErrSubmissionInFlight = errors.New("a submission is already in flight")
	// ErrAlreadySaved suppresses re-submission of an unchanged, saved form.
	ErrAlreadySaved = errors.New("already saved — change a field to submit again")
)

// Backend is the set of platform operations the submission pipeline
// consumes. *api.Client satisfies it; tests substitute fakes.
type Backend interface {
	UploadBinary(ctx context.Context, up api.UploadRequest) (*api.UploadResult, error)
	CreateURLContent(ctx context.Context, req api.CreateURLContentRequest) (*api.ContentProfile, error)
	UpdateURLContent(ctx context.Context, contentID uuid.UUID, req api.UpdateURLContentRequest) (*api.ContentProfile, error)
	RelinkProfile(ctx context.Context, profileID, contentID uuid.UUID) error
}

// plan is the tagged union over the four (operation × acquisition) branches.
// One case per combination keeps exhaustiveness checkable instead of burying
// the fork in nested conditionals.
type plan interface{ isPlan() }

type createFilePlan struct {
	src    *Source
	kind   api.MediaKind
	fields api.DisplayFields
}

type createURLPlan struct {
	url     string
	kind    api.MediaKind
	preview *api.PreviewMetadata
	fields  api.DisplayFields
}

type editURLPlan struct {
	contentID uuid.UUID
	url       string
	kind      api.MediaKind
	fields    api.DisplayFields
}

type editFilePlan struct {
	profileID uuid.UUID
	src       *Source
	kind      api.MediaKind
	fields    api.DisplayFields
}

func (createFilePlan) isPlan() {}
func (createURLPlan) isPlan()  {}
func (editURLPlan) isPlan()    {}
func (editFilePlan) isPlan()   {}

// buildPlan maps the validated state onto one of the four branches.
func buildPlan(s *State) (plan, error) {
	switch {
	case s.Operation() == OpCreate && s.Acquisition() == AcquireFile:
		return createFilePlan{src: s.File(), kind: s.Kind(), fields: s.DisplayFields()}, nil

	case s.Operation() == OpCreate && s.Acquisition() == AcquireURL:
		return createURLPlan{
			url:     NormalizeURL(s.URL()),
			kind:    s.Kind(),
			preview: s.Preview(),
			fields:  s.DisplayFields(),
		}, nil

	case s.Operation() == OpEdit && s.Acquisition() == AcquireURL:
		_, contentID := s.EditTargets()
		return editURLPlan{
			contentID: contentID,
			url:       NormalizeURL(s.URL()),
			kind:      s.Kind(),
			fields:    s.DisplayFields(),
		}, nil

	case s.Operation() == OpEdit && s.Acquisition() == AcquireFile:
		profileID, _ := s.EditTargets()
		return editFilePlan{profileID: profileID, src: s.File(), kind: s.Kind(), fields: s.DisplayFields()}, nil
	}
	return nil, fmt.Errorf("no submission plan for %s/%s", s.Operation(), s.Acquisition())
}

// Submitter executes validated form state against the platform. At most one
// submission per Submitter may be in flight; concurrent attempts are
// rejected, not queued.
type Submitter struct {
	backend  Backend
	inFlight atomic.Bool
}

// NewSubmitter returns a Submitter using backend.
func NewSubmitter(backend Backend) *Submitter {
	return &Submitter{backend: backend}
}

// InFlight reports whether a submission is currently pending.
func (sub *Submitter) InFlight() bool { return sub.inFlight.Load() }

// Submit validates s, dispatches the matching branch and returns the
// resulting ContentProfile. On success the state flips to saved. On failure
// state is left untouched so the user may retry. onProgress (optional)
// receives percentage updates for binary uploads.
func (sub *Submitter) Submit(ctx context.Context, s *State, onProgress ProgressFunc) (*api.ContentProfile, error) {
	if !sub.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer sub.inFlight.Store(false)

	if s.Saved() {
		return nil, ErrAlreadySaved
	}
	if v := Validate(s); !v.Valid {
		return nil, v.Err()
	}

	p, err := buildPlan(s)
	if err != nil {
		return nil, err
	}

	var profile *api.ContentProfile
	switch p := p.(type) {
	case createFilePlan:
		result, err := sub.uploadNew(ctx, p.src, p.kind, p.fields, onProgress)
		if err != nil {
			return nil, err
		}
		profile = &result.Profile

	case createURLPlan:
		profile, err = sub.backend.CreateURLContent(ctx, api.CreateURLContentRequest{
			URL:           p.url,
			Kind:          p.kind,
			Preview:       p.preview,
			DisplayFields: p.fields,
		})
		if err != nil {
			return nil, err
		}

	case editURLPlan:
		// URL-sourced content carries its identity in the URL itself, so a
		// direct in-place update is permitted here.
		profile, err = sub.backend.UpdateURLContent(ctx, p.contentID, api.UpdateURLContentRequest{
			URL:           p.url,
			Kind:          p.kind,
			DisplayFields: p.fields,
		})
		if err != nil {
			return nil, err
		}

	case editFilePlan:
		profile, err = sub.replaceFile(ctx, p, onProgress)
		if err != nil {
			return nil, err
		}
		s.rebindContent(profile.ContentID)
	}

	s.markSaved()
	return profile, nil
}

// uploadNew streams a file to the platform as a brand-new Content.
func (sub *Submitter) uploadNew(ctx context.Context, src *Source, kind api.MediaKind, fields api.DisplayFields, onProgress ProgressFunc) (*api.UploadResult, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("opening source: %w", err)
	}
	defer rc.Close()

	pr := NewProgressReader(rc, src.Size, onProgress)
	result, err := sub.backend.UploadBinary(ctx, api.UploadRequest{
		Filename: src.Name,
		Body:     pr,
		Size:     src.Size,
		Kind:     kind,
		Fields:   fields,
	})
	if err != nil {
		return nil, err
	}
	pr.Complete()
	return result, nil
}

// replaceFile performs conflict-aware source replacement: the new file is
// uploaded as a brand-new Content — never overwriting the Content the
// profile currently points to, which other users' profiles may share — and
// only the caller's profile is re-pointed at it.
func (sub *Submitter) replaceFile(ctx context.Context, p editFilePlan, onProgress ProgressFunc) (*api.ContentProfile, error) {
	result, err := sub.uploadNew(ctx, p.src, p.kind, p.fields, onProgress)
	if err != nil {
		return nil, err
	}
	if err := sub.backend.RelinkProfile(ctx, p.profileID, result.Content.ID); err != nil {
		return nil, fmt.Errorf("relinking profile: %w", err)
	}

	profile := api.ContentProfile{
		ID:            p.profileID,
		ContentID:     result.Content.ID,
		Title:         p.fields.Title,
		Author:        p.fields.Author,
		Note:          p.fields.Note,
		Hidden:        p.fields.Hidden,
		ProducerClaim: p.fields.ProducerClaim,
	}
	return &profile, nil
}
