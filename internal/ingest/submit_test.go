package ingest

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/trovelib/trovectl/internal/api"
)

type relinkCall struct {
	ProfileID uuid.UUID
	ContentID uuid.UUID
}

type updateCall struct {
	ContentID uuid.UUID
	Req       api.UpdateURLContentRequest
}

// fakeBackend records every platform call.
type fakeBackend struct {
	mu      sync.Mutex
	uploads []api.UploadRequest
	creates []api.CreateURLContentRequest
	updates []updateCall
	relinks []relinkCall

	uploadResult *api.UploadResult
	uploadErr    error
	relinkErr    error

	// When non-nil, UploadBinary blocks until released.
	uploadGate chan struct{}
	// When non-nil, closed once the first upload reaches the backend.
	uploadStarted chan struct{}
}

func (f *fakeBackend) UploadBinary(ctx context.Context, up api.UploadRequest) (*api.UploadResult, error) {
	f.mu.Lock()
	f.uploads = append(f.uploads, up)
	if f.uploadStarted != nil {
		close(f.uploadStarted)
		f.uploadStarted = nil
	}
	gate := f.uploadGate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if _, err := io.Copy(io.Discard, up.Body); err != nil {
		return nil, err
	}
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	if f.uploadResult != nil {
		return f.uploadResult, nil
	}
	contentID := uuid.New()
	return &api.UploadResult{
		Content: api.Content{ID: contentID, Kind: up.Kind, AssetName: up.Filename, SizeBytes: up.Size},
		Profile: api.ContentProfile{ID: uuid.New(), ContentID: contentID, Title: up.Fields.Title, Author: up.Fields.Author},
	}, nil
}

func (f *fakeBackend) CreateURLContent(ctx context.Context, req api.CreateURLContentRequest) (*api.ContentProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, req)
	return &api.ContentProfile{ID: uuid.New(), ContentID: uuid.New(), Title: req.Title}, nil
}

func (f *fakeBackend) UpdateURLContent(ctx context.Context, contentID uuid.UUID, req api.UpdateURLContentRequest) (*api.ContentProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, updateCall{ContentID: contentID, Req: req})
	return &api.ContentProfile{ID: uuid.New(), ContentID: contentID, Title: req.Title}, nil
}

func (f *fakeBackend) RelinkProfile(ctx context.Context, profileID, contentID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.relinkErr != nil {
		return f.relinkErr
	}
	f.relinks = append(f.relinks, relinkCall{ProfileID: profileID, ContentID: contentID})
	return nil
}

func (f *fakeBackend) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads) + len(f.creates) + len(f.updates)
}

func TestSubmitCreateFile(t *testing.T) {
	backend := &fakeBackend{}
	sub := NewSubmitter(backend)

	s := NewCreateState(AcquireFile)
	s.SetFile(memSource("talk.mp4", "video-bytes"))
	s.SetKind(api.MediaKindVideo)
	s.SetTitle("Talk")

	profile, err := sub.Submit(context.Background(), s, nil)
	if err != nil {
		t.Fatal(err)
	}
	if profile == nil || profile.Title != "Talk" {
		t.Errorf("profile = %+v, want the created profile back", profile)
	}
	if len(backend.uploads) != 1 {
		t.Fatalf("got %d uploads, want 1", len(backend.uploads))
	}
	up := backend.uploads[0]
	if up.Filename != "talk.mp4" || up.Kind != api.MediaKindVideo {
		t.Errorf("upload = %+v, want filename and kind carried through", up)
	}
	if len(backend.creates)+len(backend.updates)+len(backend.relinks) != 0 {
		t.Error("create/file must touch only the upload endpoint")
	}
	if !s.Saved() {
		t.Error("successful submit must mark the form saved")
	}
}

func TestSubmitCreateURLCarriesPreviewSnapshot(t *testing.T) {
	backend := &fakeBackend{}
	sub := NewSubmitter(backend)

	s := NewCreateState(AcquireURL)
	s.SetURL("example.com/essay")
	s.SetKind(api.MediaKindText)
	s.ApplyPreview(PreviewResult{
		URL:  "https://example.com/essay",
		Meta: &api.PreviewMetadata{Title: "T", SiteName: "Example"},
	})

	if _, err := sub.Submit(context.Background(), s, nil); err != nil {
		t.Fatal(err)
	}
	if len(backend.creates) != 1 {
		t.Fatalf("got %d creates, want 1", len(backend.creates))
	}
	req := backend.creates[0]
	if req.URL != "https://example.com/essay" {
		t.Errorf("url = %q, want the normalized form", req.URL)
	}
	if req.Preview == nil || req.Preview.SiteName != "Example" {
		t.Errorf("preview = %+v, want the fetched snapshot attached", req.Preview)
	}
	// Auto-filled title round-trips into the request.
	if req.Title != "T" {
		t.Errorf("title = %q, want the auto-filled preview title", req.Title)
	}
}

func TestSubmitEditURLUpdatesInPlace(t *testing.T) {
	backend := &fakeBackend{}
	sub := NewSubmitter(backend)

	contentID := uuid.New()
	s := NewEditState(AcquireURL, &api.ContentProfile{
		ID:        uuid.New(),
		ContentID: contentID,
		Title:     "Old",
	})
	s.SetURL("example.com/moved")
	s.SetKind(api.MediaKindText)

	if _, err := sub.Submit(context.Background(), s, nil); err != nil {
		t.Fatal(err)
	}
	if len(backend.updates) != 1 {
		t.Fatalf("got %d updates, want 1", len(backend.updates))
	}
	call := backend.updates[0]
	if call.ContentID != contentID {
		t.Errorf("updated content %s, want %s", call.ContentID, contentID)
	}
	if call.Req.URL != "https://example.com/moved" {
		t.Errorf("url = %q, want the normalized replacement", call.Req.URL)
	}
	if len(backend.uploads)+len(backend.relinks) != 0 {
		t.Error("edit/url must not upload or relink")
	}
}

func TestSubmitEditFileRelinksNotMutates(t *testing.T) {
	newContentID := uuid.New()
	backend := &fakeBackend{
		uploadResult: &api.UploadResult{
			Content: api.Content{ID: newContentID},
			Profile: api.ContentProfile{ID: uuid.New(), ContentID: newContentID},
		},
	}
	sub := NewSubmitter(backend)

	profileID := uuid.New()
	oldContentID := uuid.New()
	s := NewEditState(AcquireFile, &api.ContentProfile{
		ID:        profileID,
		ContentID: oldContentID,
		Title:     "Kept Title",
		Author:    "Kept Author",
	})
	s.SetFile(memSource("revised.pdf", "new-bytes"))

	profile, err := sub.Submit(context.Background(), s, nil)
	if err != nil {
		t.Fatal(err)
	}

	// The old Content may be shared; it must never be written to.
	if len(backend.updates) != 0 {
		t.Error("edit/file must never update the existing content in place")
	}
	if len(backend.uploads) != 1 {
		t.Fatalf("got %d uploads, want 1 brand-new content", len(backend.uploads))
	}
	if len(backend.relinks) != 1 {
		t.Fatalf("got %d relinks, want 1", len(backend.relinks))
	}
	rl := backend.relinks[0]
	if rl.ProfileID != profileID {
		t.Errorf("relinked profile %s, want %s", rl.ProfileID, profileID)
	}
	if rl.ContentID != newContentID {
		t.Errorf("relinked to content %s, want the new upload %s", rl.ContentID, newContentID)
	}
	if rl.ContentID == oldContentID {
		t.Error("profile must not be relinked to the old content")
	}

	if profile.ContentID != newContentID {
		t.Errorf("returned profile points at %s, want %s", profile.ContentID, newContentID)
	}
	if _, bound := s.EditTargets(); bound != newContentID {
		t.Errorf("state still bound to %s, want rebound to %s", bound, newContentID)
	}
	if profile.Title != "Kept Title" || profile.Author != "Kept Author" {
		t.Errorf("profile = %+v, want seeded display fields preserved", profile)
	}
}

func TestSubmitEditFileRelinkFailureLeavesUnsaved(t *testing.T) {
	backend := &fakeBackend{relinkErr: errors.New("relink down")}
	sub := NewSubmitter(backend)

	s := NewEditState(AcquireFile, &api.ContentProfile{ID: uuid.New(), ContentID: uuid.New(), Title: "x"})
	s.SetFile(memSource("a.bin", "x"))

	if _, err := sub.Submit(context.Background(), s, nil); err == nil {
		t.Fatal("want error when relinking fails")
	}
	if s.Saved() {
		t.Error("failed submission must leave the form unsaved for retry")
	}
}

func TestSubmitRejectsConcurrent(t *testing.T) {
	gate := make(chan struct{})
	started := make(chan struct{})
	backend := &fakeBackend{uploadGate: gate, uploadStarted: started}
	sub := NewSubmitter(backend)

	s := NewCreateState(AcquireFile)
	s.SetFile(memSource("big.bin", "payload"))

	firstDone := make(chan error, 1)
	go func() {
		_, err := sub.Submit(context.Background(), s, nil)
		firstDone <- err
	}()

	// Wait for the first submission to reach the backend.
	<-started
	if !sub.InFlight() {
		t.Error("InFlight() = false while a submission is pending")
	}

	if _, err := sub.Submit(context.Background(), s, nil); !errors.Is(err, ErrSubmissionInFlight) {
		t.Errorf("second submit err = %v, want ErrSubmissionInFlight", err)
	}

	close(gate)
	if err := <-firstDone; err != nil {
		t.Fatal(err)
	}
	if got := backend.calls(); got != 1 {
		t.Errorf("backend saw %d calls, want exactly 1", got)
	}
}

func TestSubmitRejectsAlreadySaved(t *testing.T) {
	backend := &fakeBackend{}
	sub := NewSubmitter(backend)

	s := NewCreateState(AcquireURL)
	s.SetURL("example.com")
	s.SetKind(api.MediaKindText)

	if _, err := sub.Submit(context.Background(), s, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := sub.Submit(context.Background(), s, nil); !errors.Is(err, ErrAlreadySaved) {
		t.Errorf("resubmit err = %v, want ErrAlreadySaved", err)
	}
	if got := backend.calls(); got != 1 {
		t.Errorf("backend saw %d calls, want 1", got)
	}

	// Any edit re-arms submission.
	s.SetTitle("changed")
	if _, err := sub.Submit(context.Background(), s, nil); err != nil {
		t.Fatal(err)
	}
	if got := backend.calls(); got != 2 {
		t.Errorf("backend saw %d calls after edit, want 2", got)
	}
}

func TestSubmitValidatesFirst(t *testing.T) {
	backend := &fakeBackend{}
	sub := NewSubmitter(backend)

	s := NewCreateState(AcquireURL) // no URL, no kind

	if _, err := sub.Submit(context.Background(), s, nil); err == nil {
		t.Fatal("invalid state must not submit")
	}
	if got := backend.calls(); got != 0 {
		t.Errorf("backend saw %d calls for invalid input, want 0", got)
	}
	if s.Saved() {
		t.Error("failed validation must not mark saved")
	}
}

func TestSubmitReportsProgress(t *testing.T) {
	backend := &fakeBackend{}
	sub := NewSubmitter(backend)

	s := NewCreateState(AcquireFile)
	s.SetFile(memSource("a.bin", "0123456789"))

	var reports []int
	if _, err := sub.Submit(context.Background(), s, func(p int) {
		reports = append(reports, p)
	}); err != nil {
		t.Fatal(err)
	}
	if len(reports) == 0 {
		t.Fatal("no progress reported")
	}
	if last := reports[len(reports)-1]; last != 100 {
		t.Errorf("final report = %d, want 100", last)
	}
}
