package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// UploadRequest describes a binary ingestion. Body is streamed as-is; callers
// wrap it with a progress reader when they want transfer reporting.
type UploadRequest struct {
	Filename string
	Body     io.Reader
	Size     int64 // -1 if unknown
	Kind     MediaKind
	Fields   DisplayFields
}

// UploadBinary streams a file to object storage through the ingestion
// endpoint. The server registers a new Content plus a new ContentProfile
// and returns both.
func (c *Client) UploadBinary(ctx context.Context, up UploadRequest) (*UploadResult, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		meta := struct {
			Filename string        `json:"filename"`
			Kind     MediaKind     `json:"kind,omitempty"`
			Size     int64         `json:"size,omitempty"`
			Fields   DisplayFields `json:"fields"`
		}{
			Filename: up.Filename,
			Kind:     up.Kind,
			Size:     up.Size,
			Fields:   up.Fields,
		}
		metaPart, err := mw.CreateFormField("metadata")
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := json.NewEncoder(metaPart).Encode(meta); err != nil {
			pw.CloseWithError(err)
			return
		}

		filePart, err := mw.CreateFormFile("file", up.Filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(filePart, up.Body); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	url := c.url("v1", "contents", "upload")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if err := checkStatus(resp); err != nil {
		return nil, fmt.Errorf("upload %q: %w", up.Filename, err)
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}
