package ingest

import (
	"context"
	"time"

	"github.com/trovelib/trovectl/internal/api"
)

// DebounceInterval is how long the form waits after the last URL keystroke
// before dispatching a preview lookup. The staleness check in
// State.ApplyPreview, not the debounce, carries the correctness burden.
const DebounceInterval = 400 * time.Millisecond

// PreviewClient is the metadata-extraction collaborator.
type PreviewClient interface {
	FetchURLPreview(ctx context.Context, url string) (*api.PreviewMetadata, error)
}

// PreviewResult carries a resolved lookup together with the normalized URL
// it was issued for, so the applier can discard superseded responses with a
// plain equality check instead of cancellation tokens.
type PreviewResult struct {
	URL  string
	Meta *api.PreviewMetadata
	Err  error
}

// PreviewFetcher issues preview lookups against the platform.
type PreviewFetcher struct {
	client  PreviewClient
	timeout time.Duration
}

// NewPreviewFetcher wraps client with the standard lookup timeout.
func NewPreviewFetcher(client PreviewClient) *PreviewFetcher {
	return &PreviewFetcher{client: client, timeout: 15 * time.Second}
}

// Fetch runs one lookup for raw and returns the result tagged with the
// normalized URL it was issued for. Callers apply the result through
// State.ApplyPreview, which enforces last-request-wins.
func (f *PreviewFetcher) Fetch(ctx context.Context, raw string) PreviewResult {
	norm := NormalizeURL(raw)
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	meta, err := f.client.FetchURLPreview(ctx, norm)
	if err != nil {
		return PreviewResult{URL: norm, Err: err}
	}
	return PreviewResult{URL: norm, Meta: meta}
}
