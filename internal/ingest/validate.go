package ingest

import "fmt"

// Field names reported by Validate.
const (
	FieldFile   = "file"
	FieldURL    = "url"
	FieldKind   = "kind"
	FieldTitle  = "title"
	FieldAuthor = "author"
)

// MaxDisplayFieldLen bounds title and author lengths.
const MaxDisplayFieldLen = 255

// ValidationResult reports per-field errors for the current form state.
type ValidationResult struct {
	Valid  bool
	Fields map[string]string
}

// Err folds the field errors into a single error, or nil when valid.
func (v ValidationResult) Err() error {
	if v.Valid {
		return nil
	}
	for field, msg := range v.Fields {
		return fmt.Errorf("%s: %s", field, msg)
	}
	return fmt.Errorf("invalid form state")
}

// modeValidators maps each acquisition mode to its required-field checks.
// A dispatch table rather than one conditional schema keeps each mode's
// required set independently verifiable.
var modeValidators = map[AcquisitionMode]func(*State, map[string]string){
	AcquireFile: validateFileMode,
	AcquireURL:  validateURLMode,
}

// Validate computes which fields are required for the state's current
// acquisition mode and checks the always-on field constraints. It must be
// re-run whenever the acquisition mode changes.
func Validate(s *State) ValidationResult {
	fields := make(map[string]string)

	modeValidators[s.Acquisition()](s, fields)

	if len(s.Title()) > MaxDisplayFieldLen {
		fields[FieldTitle] = fmt.Sprintf("must be at most %d characters", MaxDisplayFieldLen)
	}
	if len(s.Author()) > MaxDisplayFieldLen {
		fields[FieldAuthor] = fmt.Sprintf("must be at most %d characters", MaxDisplayFieldLen)
	}

	return ValidationResult{Valid: len(fields) == 0, Fields: fields}
}

func validateFileMode(s *State, fields map[string]string) {
	if s.File() == nil {
		fields[FieldFile] = "a file is required"
	}
}

func validateURLMode(s *State, fields map[string]string) {
	if !LooksLikeURL(s.URL()) {
		fields[FieldURL] = "a valid URL is required"
	}
	if !s.Kind().Valid() {
		fields[FieldKind] = "a media kind is required (VIDEO, AUDIO, TEXT or IMAGE)"
	}
}
