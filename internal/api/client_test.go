package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestDoSetsStandardHeaders(t *testing.T) {
	var gotAuth, gotAccept, gotIdem string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotIdem = r.Header.Get("Idempotency-Key")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New("tok-123", srv.URL)
	if err := c.doJSON(context.Background(), http.MethodPost, c.url("v1", "x"), map[string]string{"a": "b"}, nil); err != nil {
		t.Fatal(err)
	}

	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q", gotAccept)
	}
	if _, err := uuid.Parse(gotIdem); err != nil {
		t.Errorf("Idempotency-Key = %q, want a UUID on POST", gotIdem)
	}
}

func TestCheckStatusSentinels(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrConflict},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := New("t", srv.URL)
			err := c.doJSON(context.Background(), http.MethodGet, c.url("v1", "x"), nil, nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCheckStatusStructuredErrorWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"duplicate_source","detail":"that URL is already in your library"}`))
	}))
	defer srv.Close()

	c := New("t", srv.URL)
	err := c.doJSON(context.Background(), http.MethodGet, c.url("v1", "x"), nil, nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Code != "duplicate_source" || apiErr.Status != http.StatusConflict {
		t.Errorf("apiErr = %+v", apiErr)
	}
	if !strings.Contains(apiErr.Error(), "already in your library") {
		t.Errorf("Error() = %q, want the detail included", apiErr.Error())
	}
}

func TestCreateURLContent(t *testing.T) {
	var gotPath string
	var gotReq CreateURLContentRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Error(err)
		}
		json.NewEncoder(w).Encode(ContentProfile{ID: uuid.New(), Title: gotReq.Title})
	}))
	defer srv.Close()

	c := New("t", srv.URL)
	profile, err := c.CreateURLContent(context.Background(), CreateURLContentRequest{
		URL:  "https://example.com/a",
		Kind: MediaKindText,
		DisplayFields: DisplayFields{
			Title: "Essay",
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if gotPath != "POST /v1/contents/url" {
		t.Errorf("request = %q", gotPath)
	}
	if gotReq.URL != "https://example.com/a" || gotReq.Kind != MediaKindText {
		t.Errorf("request body = %+v", gotReq)
	}
	if profile.Title != "Essay" {
		t.Errorf("profile = %+v", profile)
	}
}

func TestRelinkProfile(t *testing.T) {
	profileID := uuid.New()
	contentID := uuid.New()

	var gotPath string
	var gotBody struct {
		ContentID uuid.UUID `json:"content_id"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Error(err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New("t", srv.URL)
	if err := c.RelinkProfile(context.Background(), profileID, contentID); err != nil {
		t.Fatal(err)
	}
	if want := "PUT /v1/profiles/" + profileID.String() + "/content"; gotPath != want {
		t.Errorf("request = %q, want %q", gotPath, want)
	}
	if gotBody.ContentID != contentID {
		t.Errorf("body content_id = %s, want %s", gotBody.ContentID, contentID)
	}
}

func TestUploadBinary(t *testing.T) {
	contentID := uuid.New()
	var gotMeta struct {
		Filename string        `json:"filename"`
		Kind     MediaKind     `json:"kind"`
		Size     int64         `json:"size"`
		Fields   DisplayFields `json:"fields"`
	}
	var gotFile string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/contents/upload" {
			t.Errorf("path = %q", r.URL.Path)
		}
		mr, err := r.MultipartReader()
		if err != nil {
			t.Fatal(err)
		}
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Fatal(err)
			}
			switch part.FormName() {
			case "metadata":
				if err := json.NewDecoder(part).Decode(&gotMeta); err != nil {
					t.Error(err)
				}
			case "file":
				b, _ := io.ReadAll(part)
				gotFile = string(b)
			}
		}
		json.NewEncoder(w).Encode(UploadResult{
			Content: Content{ID: contentID},
			Profile: ContentProfile{ID: uuid.New(), ContentID: contentID, Title: gotMeta.Fields.Title},
		})
	}))
	defer srv.Close()

	c := New("t", srv.URL)
	result, err := c.UploadBinary(context.Background(), UploadRequest{
		Filename: "talk.mp4",
		Body:     strings.NewReader("binary-payload"),
		Size:     14,
		Kind:     MediaKindVideo,
		Fields:   DisplayFields{Title: "Talk"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if gotMeta.Filename != "talk.mp4" || gotMeta.Kind != MediaKindVideo || gotMeta.Size != 14 {
		t.Errorf("metadata = %+v", gotMeta)
	}
	if gotFile != "binary-payload" {
		t.Errorf("file part = %q", gotFile)
	}
	if result.Content.ID != contentID || result.Profile.Title != "Talk" {
		t.Errorf("result = %+v", result)
	}
}

func TestFetchURLPreview(t *testing.T) {
	var gotTarget string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/preview" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotTarget = r.URL.Query().Get("url")
		json.NewEncoder(w).Encode(PreviewMetadata{Title: "Page Title", Kind: MediaKindText})
	}))
	defer srv.Close()

	c := New("t", srv.URL)
	meta, err := c.FetchURLPreview(context.Background(), "https://example.com/a?x=1")
	if err != nil {
		t.Fatal(err)
	}
	if gotTarget != "https://example.com/a?x=1" {
		t.Errorf("target = %q, want the full URL passed through escaping", gotTarget)
	}
	if meta.Title != "Page Title" || meta.Kind != MediaKindText {
		t.Errorf("meta = %+v", meta)
	}
}

func TestParseMediaKind(t *testing.T) {
	tests := []struct {
		in      string
		want    MediaKind
		wantErr bool
	}{
		{"video", MediaKindVideo, false},
		{"VIDEO", MediaKindVideo, false},
		{" Text ", MediaKindText, false},
		{"audio", MediaKindAudio, false},
		{"image", MediaKindImage, false},
		{"movie", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMediaKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMediaKind(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
