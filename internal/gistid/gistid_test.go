package gistid

import (
	"errors"
	"testing"

	"github.com/starford/gistlens/internal/apperr"
)

func TestResolve_Valid(t *testing.T) {
	cases := map[string]string{
		"abc123":                                         "abc123",
		"  abc123\n":                                     "abc123",
		"ABC123":                                         "abc123",
		"https://gist.github.com/alice/abc123":           "abc123",
		"https://gist.github.com/alice/abc123/":          "abc123",
		"http://gist.github.com/abc123":                  "abc123",
		"gist.github.com/some-user/0f1e2d3c":             "0f1e2d3c",
		"https://gist.github.com/alice/abc123#file-a-js": "abc123",
		"https://gist.github.com/alice/abc123.js":        "abc123",
		"https://gist.example.com/bob/deadbeef?x=1":      "deadbeef",
		"  https://gist.github.com/alice/abc123  ":       "abc123",
	}
	for in, want := range cases {
		got, err := Resolve(in)
		if err != nil {
			t.Errorf("Resolve(%q) error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("Resolve(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolve_Invalid(t *testing.T) {
	for _, in := range []string{
		"",
		"   ",
		"not-a-gist",
		"xyz",
		"https://github.com/alice/repo",
		"https://gist.github.com/alice",
		"abc 123",
	} {
		_, err := Resolve(in)
		if !errors.Is(err, apperr.ErrInvalidIdentifier) {
			t.Errorf("Resolve(%q) err = %v, want ErrInvalidIdentifier", in, err)
		}
	}
}

func TestResolve_Deterministic(t *testing.T) {
	a, _ := Resolve(" https://gist.github.com/alice/ABC123 ")
	b, _ := Resolve("abc123")
	if a != b {
		t.Errorf("decorated and bare inputs differ: %q vs %q", a, b)
	}
}

func TestParseRoute(t *testing.T) {
	cases := []struct {
		link string
		want Route
	}{
		{"https://example.com/#/LivePreview/abc123", Route{Kind: RouteLivePreview, GistID: "abc123", AutoMaximize: true}},
		{"#/LivePreview/ABC", Route{Kind: RouteLivePreview, GistID: "abc", AutoMaximize: true}},
		{"https://example.com/?gist=abc123", Route{Kind: RouteViewer, GistID: "abc123"}},
		{"/?gist=https%3A%2F%2Fgist.github.com%2Falice%2Fbeef", Route{Kind: RouteViewer, GistID: "beef"}},
		{"https://example.com/?gist=abc#/LivePreview/def", Route{Kind: RouteLivePreview, GistID: "def", AutoMaximize: true}},
		{"https://example.com/", Route{Kind: RouteNone}},
	}
	for _, c := range cases {
		got, err := ParseRoute(c.link)
		if err != nil {
			t.Errorf("ParseRoute(%q) error: %v", c.link, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseRoute(%q) = %+v, want %+v", c.link, got, c.want)
		}
	}
}

func TestParseRoute_InvalidViewerID(t *testing.T) {
	_, err := ParseRoute("https://example.com/?gist=nope")
	if !errors.Is(err, apperr.ErrInvalidIdentifier) {
		t.Errorf("err = %v, want ErrInvalidIdentifier", err)
	}
}
