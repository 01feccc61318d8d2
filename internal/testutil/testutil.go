// Package testutil provides shared test helpers: a fake GitHub Gist API and a
// temporary credential store.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sync"
	"testing"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/starford/gistlens/internal/credstore"
	"github.com/starford/gistlens/internal/models"
)

// FakeFile describes one file served by FakeGitHub.
type FakeFile struct {
	Name     string
	Content  string
	Language string
	// Truncated serves only the first half of Content inline; the raw URL has all of it.
	Truncated bool
	// OmitContent drops the content field from the API payload.
	OmitContent bool
	// RawStatus, when non-zero, makes the raw URL answer with this status.
	RawStatus int
}

// FakeGist describes one gist served by FakeGitHub.
type FakeGist struct {
	ID          string
	Description string
	Owner       string
	CreatedAt   time.Time
	Files       []FakeFile
	// Status, when non-zero, makes the lookup answer with this status.
	Status int
}

// RecordedRequest is one request seen by FakeGitHub.
type RecordedRequest struct {
	Path          string
	Authorization string
}

// FakeGitHub is an httptest server mimicking GET /gists/{id} and raw URLs.
type FakeGitHub struct {
	*httptest.Server

	mu       sync.Mutex
	gists    map[string]FakeGist
	requests []RecordedRequest
}

// NewFakeGitHub starts a fake API server closed at test cleanup.
func NewFakeGitHub(t *testing.T) *FakeGitHub {
	t.Helper()
	f := &FakeGitHub{gists: make(map[string]FakeGist)}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /gists/{id}", f.serveGist)
	mux.HandleFunc("GET /raw/{id}/{name}", f.serveRaw)
	f.Server = httptest.NewServer(f.record(mux))
	t.Cleanup(f.Close)
	return f
}

// AddGist registers or replaces a gist.
func (f *FakeGitHub) AddGist(g FakeGist) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gists[g.ID] = g
}

// Requests returns a copy of every request received so far.
func (f *FakeGitHub) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RecordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *FakeGitHub) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, RecordedRequest{
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
		})
		f.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (f *FakeGitHub) lookup(id string) (FakeGist, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.gists[id]
	return g, ok
}

func (f *FakeGitHub) serveGist(w http.ResponseWriter, r *http.Request) {
	g, ok := f.lookup(r.PathValue("id"))
	if !ok {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
		return
	}
	if g.Status != 0 {
		http.Error(w, `{"message":"error"}`, g.Status)
		return
	}

	files := orderedmap.New[string, map[string]any]()
	for _, ff := range g.Files {
		entry := map[string]any{
			"filename":  ff.Name,
			"size":      len(ff.Content),
			"truncated": ff.Truncated,
			"raw_url":   f.URL + "/raw/" + g.ID + "/" + url.PathEscape(ff.Name),
		}
		if ff.Language != "" {
			entry["language"] = ff.Language
		}
		switch {
		case ff.OmitContent:
		case ff.Truncated:
			entry["content"] = ff.Content[:len(ff.Content)/2]
		default:
			entry["content"] = ff.Content
		}
		files.Set(ff.Name, entry)
	}

	body := map[string]any{
		"id":          g.ID,
		"description": g.Description,
		"created_at":  g.CreatedAt.UTC().Format(time.RFC3339),
		"files":       files,
	}
	if g.Owner != "" {
		body["owner"] = map[string]string{"login": g.Owner}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func (f *FakeGitHub) serveRaw(w http.ResponseWriter, r *http.Request) {
	g, ok := f.lookup(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	name := r.PathValue("name")
	for _, ff := range g.Files {
		if ff.Name != name {
			continue
		}
		if ff.RawStatus != 0 {
			http.Error(w, "raw error", ff.RawStatus)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(ff.Content))
		return
	}
	http.NotFound(w, r)
}

// File builds an inline models.File.
func File(name, content string) models.File {
	return models.File{Filename: name, Content: models.StringPtr(content), Size: len(content)}
}

// TestStore creates a temporary credential store that is automatically closed.
func TestStore(t *testing.T) *credstore.Store {
	t.Helper()
	dbFile, err := os.CreateTemp("", "gistlens-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	store, err := credstore.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}
