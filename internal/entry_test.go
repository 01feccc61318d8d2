package internal

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/starford/gistlens/internal/sse"
	"github.com/starford/gistlens/internal/testutil"
)

func TestRootRouter(t *testing.T) {
	gh := testutil.NewFakeGitHub(t)
	gh.AddGist(testutil.FakeGist{ID: "abc", Files: []testutil.FakeFile{
		{Name: "index.html", Content: "<p>hi</p>"},
	}})

	opts := testOptions(t, gh)
	app, err := newApplication(opts)
	if err != nil {
		t.Fatal(err)
	}
	app.config.Auth = AuthConfig{Mode: AuthModeToken, Token: "secret"}

	broker := sse.NewBroker()
	t.Cleanup(broker.Close)
	d, err := app.buildDeps(broker.PublishStatus)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = d.Close() })

	srv := httptest.NewServer(newRootRouter(app.config, d, broker))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/health/live")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", resp.StatusCode)
	}

	resp, err = http.Post(srv.URL+"/api/previews", "application/json", strings.NewReader(`{"input":"abc"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d", resp.StatusCode)
	}

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodPost, srv.URL+"/api/previews", strings.NewReader(`{"input":"abc"}`))
	req.Header.Set("Authorization", "Bearer secret")
	req.Header.Set("Content-Type", "application/json")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	var created struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if !strings.HasPrefix(created.URL, "/preview/") {
		t.Fatalf("preview url = %q", created.URL)
	}

	resp, err = http.Get(srv.URL + created.URL)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "<p>hi</p>") {
		t.Errorf("preview status = %d body = %q", resp.StatusCode, body)
	}
}
