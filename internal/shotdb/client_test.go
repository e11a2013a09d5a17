package shotdb

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"plateflow/internal/services"
)

type fakeDoer struct {
	requests []*http.Request
	bodies   []string
	respond  func(req *http.Request) (*http.Response, error)
}

func (f *fakeDoer) Do(req *http.Request) (*http.Response, error) {
	f.requests = append(f.requests, req)
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		f.bodies = append(f.bodies, string(data))
	} else {
		f.bodies = append(f.bodies, "")
	}
	return f.respond(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestFindVersionCodes(t *testing.T) {
	doer := &fakeDoer{respond: func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"versions":[{"id":1,"code":"abc_010_srgb_edit_v001"},{"id":2,"code":""}]}`), nil
	}}
	client := NewHTTPClientWithDoer("https://track.example/api/", "secret", 42, doer)

	codes, err := client.FindVersionCodes(context.Background())
	if err != nil {
		t.Fatalf("FindVersionCodes: %v", err)
	}
	if len(codes) != 1 || codes[0] != "abc_010_srgb_edit_v001" {
		t.Fatalf("unexpected codes %v", codes)
	}

	req := doer.requests[0]
	if req.URL.String() != "https://track.example/api/projects/42/versions?fields=code" {
		t.Fatalf("unexpected URL %s", req.URL)
	}
	if got := req.Header.Get("Authorization"); got != "Bearer secret" {
		t.Fatalf("unexpected auth header %q", got)
	}
}

func TestFindVersionCodesUnavailable(t *testing.T) {
	doer := &fakeDoer{respond: func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	}}
	client := NewHTTPClientWithDoer("https://track.example", "k", 1, doer)

	_, err := client.FindVersionCodes(context.Background())
	if !errors.Is(err, services.ErrLookup) {
		t.Fatalf("expected lookup error, got %v", err)
	}
}

func TestFindVersionCodesBadStatus(t *testing.T) {
	doer := &fakeDoer{respond: func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusInternalServerError, `{}`), nil
	}}
	client := NewHTTPClientWithDoer("https://track.example", "k", 1, doer)

	_, err := client.FindVersionCodes(context.Background())
	if !errors.Is(err, services.ErrLookup) {
		t.Fatalf("expected lookup error, got %v", err)
	}
}

func TestProjectCodec(t *testing.T) {
	doer := &fakeDoer{respond: func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"codec":"Apple ProRes 422 HQ"}`), nil
	}}
	client := NewHTTPClientWithDoer("https://track.example", "k", 7, doer)

	codec, err := client.ProjectCodec(context.Background())
	if err != nil {
		t.Fatalf("ProjectCodec: %v", err)
	}
	if codec != "Apple ProRes 422 HQ" {
		t.Fatalf("unexpected codec %q", codec)
	}
	if got := doer.requests[0].URL.String(); got != "https://track.example/projects/7?fields=codec" {
		t.Fatalf("unexpected URL %s", got)
	}
}

func TestCreateVersion(t *testing.T) {
	doer := &fakeDoer{respond: func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusCreated, `{"id":99,"code":"abc_010_srgb_edit_v002"}`), nil
	}}
	client := NewHTTPClientWithDoer("https://track.example", "k", 7, doer)

	record, err := client.CreateVersion(context.Background(), map[string]string{"code": "abc_010_srgb_edit_v002"})
	if err != nil {
		t.Fatalf("CreateVersion: %v", err)
	}
	if record.ID != 99 {
		t.Fatalf("unexpected record %+v", record)
	}
	if !strings.Contains(doer.bodies[0], `"code":"abc_010_srgb_edit_v002"`) {
		t.Fatalf("unexpected body %s", doer.bodies[0])
	}
	if got := doer.requests[0].Header.Get("Content-Type"); got != "application/json" {
		t.Fatalf("unexpected content type %q", got)
	}
}

func TestUploadMovie(t *testing.T) {
	moviePath := filepath.Join(t.TempDir(), "abc_010_edit_v002.mov")
	if err := os.WriteFile(moviePath, []byte("movie-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	doer := &fakeDoer{respond: func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{}`), nil
	}}
	client := NewHTTPClientWithDoer("https://track.example", "k", 7, doer)

	if err := client.UploadMovie(context.Background(), 99, moviePath); err != nil {
		t.Fatalf("UploadMovie: %v", err)
	}

	req := doer.requests[0]
	if req.URL.String() != "https://track.example/versions/99/movie" {
		t.Fatalf("unexpected URL %s", req.URL)
	}
	if !strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/form-data") {
		t.Fatalf("unexpected content type %q", req.Header.Get("Content-Type"))
	}
	if !strings.Contains(doer.bodies[0], "movie-bytes") {
		t.Fatal("upload body missing movie payload")
	}
	if !strings.Contains(doer.bodies[0], "abc_010_edit_v002.mov") {
		t.Fatal("upload body missing filename")
	}
}

func TestUploadMovieMissingFile(t *testing.T) {
	doer := &fakeDoer{respond: func(req *http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	}}
	client := NewHTTPClientWithDoer("https://track.example", "k", 7, doer)

	if err := client.UploadMovie(context.Background(), 1, filepath.Join(t.TempDir(), "missing.mov")); err == nil {
		t.Fatal("expected error for missing movie")
	}
}
