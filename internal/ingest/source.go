package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Source holds a resolved local file ready for upload.
type Source struct {
	// Name is the original filename (no directory), used for asset naming.
	Name string
	// Size is the byte count.
	Size int64
	// Open returns a new ReadCloser. May be called once per submission.
	Open func() (io.ReadCloser, error)
}

// ResolveFile stats a local path and returns a Source for it.
func ResolveFile(path string) (*Source, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%q is a directory", path)
	}
	return &Source{
		Name: filepath.Base(path),
		Size: fi.Size(),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}
