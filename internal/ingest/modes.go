// Package ingest implements the content ingestion pipeline: form state and
// mode transitions, URL preview lookups with stale-response suppression,
// mode-indexed validation, and the submission dispatch against the platform
// API.
package ingest

// AcquisitionMode selects which kind of source the user is supplying.
type AcquisitionMode int

const (
	// AcquireFile ingests a local binary file.
	AcquireFile AcquisitionMode = iota
	// AcquireURL references remote content by URL.
	AcquireURL
)

func (m AcquisitionMode) String() string {
	if m == AcquireURL {
		return "url"
	}
	return "file"
}

// OperationMode selects whether the form produces a new ContentProfile or
// modifies an existing one. Fixed for the lifetime of one form instance.
type OperationMode int

const (
	// OpCreate produces a new Content + ContentProfile.
	OpCreate OperationMode = iota
	// OpEdit replaces the source of an existing ContentProfile.
	OpEdit
)

func (m OperationMode) String() string {
	if m == OpEdit {
		return "edit"
	}
	return "create"
}
