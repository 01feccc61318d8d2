// Package gistid extracts canonical gist identifiers from user input and
// deep links.
package gistid

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/starford/gistlens/internal/apperr"
)

var (
	// gist.<host>/<owner>/<id> or gist.<host>/<id>; the id must end the path segment.
	gistURLRe = regexp.MustCompile(`(?i)gist\.[a-z0-9.-]+/(?:[\w-]+/)?([a-f0-9]+)(?:[/?#.]|$)`)
	hexRe     = regexp.MustCompile(`(?i)^[a-f0-9]+$`)
	liveRe    = regexp.MustCompile(`(?i)^#?/LivePreview/([a-f0-9]+)`)
)

// Resolve returns the lowercase gist id contained in input, which may be a bare
// id or a gist URL. Malformed input yields apperr.ErrInvalidIdentifier.
func Resolve(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("%w: empty input", apperr.ErrInvalidIdentifier)
	}
	if m := gistURLRe.FindStringSubmatch(input); m != nil {
		return strings.ToLower(m[1]), nil
	}
	if hexRe.MatchString(input) {
		return strings.ToLower(input), nil
	}
	return "", fmt.Errorf("%w: %q", apperr.ErrInvalidIdentifier, input)
}

// RouteKind tells which surface a deep link targets.
type RouteKind string

const (
	RouteNone        RouteKind = "none"
	RouteViewer      RouteKind = "viewer"
	RouteLivePreview RouteKind = "live_preview"
)

// Route is a parsed deep link.
type Route struct {
	Kind         RouteKind `json:"kind"`
	GistID       string    `json:"gist_id,omitempty"`
	AutoMaximize bool      `json:"auto_maximize"`
}

// ParseRoute interprets a page link. A "#/LivePreview/<id>" fragment opens the
// live preview maximized; otherwise a "?gist=<id-or-url>" query opens the viewer.
func ParseRoute(link string) (Route, error) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return Route{}, fmt.Errorf("%w: %v", apperr.ErrInvalidIdentifier, err)
	}
	if m := liveRe.FindStringSubmatch(u.Fragment); m != nil {
		return Route{Kind: RouteLivePreview, GistID: strings.ToLower(m[1]), AutoMaximize: true}, nil
	}
	if q := u.Query().Get("gist"); q != "" {
		id, err := Resolve(q)
		if err != nil {
			return Route{}, err
		}
		return Route{Kind: RouteViewer, GistID: id}, nil
	}
	return Route{Kind: RouteNone}, nil
}
