// Package previewservice runs the gist viewer and live-preview pipelines on
// top of the fetcher, the inliner and the preview surface.
package previewservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/gistlens/internal/apperr"
	"github.com/starford/gistlens/internal/cards"
	"github.com/starford/gistlens/internal/classify"
	"github.com/starford/gistlens/internal/gistid"
	"github.com/starford/gistlens/internal/inline"
	"github.com/starford/gistlens/internal/models"
	"github.com/starford/gistlens/internal/preview"
)

// UntitledGist is shown for gists without a description.
const UntitledGist = "Untitled"

// CreatedLayout formats the creation date shown by the viewer.
const CreatedLayout = "January 2, 2006, 03:04 PM"

// Labels for fragments loaded in multi-gist mode.
const (
	MultiCSSName = "styles.css"
	MultiJSName  = "script.js"
)

// GistSource fetches gists and the raw text of their files.
type GistSource interface {
	FetchGist(ctx context.Context, id string) (*models.Gist, error)
	inline.ContentResolver
}

// GistView is the viewer representation of a gist.
type GistView struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description,omitempty"`
	Owner        string       `json:"owner"`
	CreatedAt    time.Time    `json:"created_at"`
	CreatedLabel string       `json:"created_label"`
	FileCount    int          `json:"file_count"`
	Files        []cards.Card `json:"files"`
}

// MultiRequest names one gist per role. Only HTML is required.
type MultiRequest struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
	JS   string `json:"js"`
}

// Service coordinates fetching, assembly and the preview surface.
type Service struct {
	gists    GistSource
	surface  *preview.Surface
	renderer *cards.Renderer
	logger   *slog.Logger

	loadMu sync.Mutex
}

// NewService creates a new preview service.
func NewService(gists GistSource, surface *preview.Surface, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		gists:    gists,
		surface:  surface,
		renderer: cards.NewRenderer(),
		logger:   logger,
	}
}

// Surface returns the surface the service presents to.
func (s *Service) Surface() *preview.Surface { return s.surface }

// LoadSingle resolves input, fetches the gist and presents its preview.
// On any failure the surface is left in the failed state with no live
// document.
func (s *Service) LoadSingle(ctx context.Context, input string) (*preview.Document, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	id, err := gistid.Resolve(input)
	if err != nil {
		return nil, s.fail(input, err)
	}
	s.surface.Begin(id)

	a, err := s.assembleGist(ctx, id)
	if err != nil {
		return nil, s.fail(id, err)
	}
	doc := s.surface.Present(a.HTML, a.CSS, a.JS)
	s.logger.Info("preview rendered",
		slog.String("gist", id),
		slog.String("html", a.HTMLFile),
		slog.Int("css", len(a.CSS)),
		slog.Int("js", len(a.JS)),
		slog.Int("images", a.Images),
		slog.String("handle", doc.Handle),
	)
	return doc, nil
}

// LoadMulti builds a preview from separate markup, stylesheet and script
// gists. Each gist contributes its first file of the matching type, or its
// first file when none matches.
func (s *Service) LoadMulti(ctx context.Context, req MultiRequest) (*preview.Document, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	source := strings.TrimSpace(req.HTML)
	if source == "" {
		err := fmt.Errorf("previewservice: html gist is required: %w", apperr.ErrInvalidIdentifier)
		return nil, s.fail(source, err)
	}
	s.surface.Begin(source)

	var html, css, js string
	var hasHTML bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		html, hasHTML, err = s.roleFile(gctx, req.HTML, classify.RoleHTML)
		return err
	})
	if strings.TrimSpace(req.CSS) != "" {
		g.Go(func() error {
			var err error
			css, _, err = s.roleFile(gctx, req.CSS, classify.RoleCSS)
			return err
		})
	}
	if strings.TrimSpace(req.JS) != "" {
		g.Go(func() error {
			var err error
			js, _, err = s.roleFile(gctx, req.JS, classify.RoleJS)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, s.fail(source, err)
	}
	if !hasHTML || html == "" {
		err := fmt.Errorf("previewservice: html gist has no content: %w", apperr.ErrMissingRequiredFile)
		return nil, s.fail(source, err)
	}

	var cssFrags, jsFrags []preview.Fragment
	if css != "" {
		cssFrags = []preview.Fragment{{Name: MultiCSSName, Content: css}}
	}
	if js != "" {
		jsFrags = []preview.Fragment{{Name: MultiJSName, Content: js}}
	}
	doc := s.surface.Present(html, cssFrags, jsFrags)
	s.logger.Info("multi-gist preview rendered", slog.String("html", source), slog.String("handle", doc.Handle))
	return doc, nil
}

// LoadLocal presents a preview assembled from files of a local checkout.
func (s *Service) LoadLocal(ctx context.Context, label string, files []models.File, resolver inline.ContentResolver) (*preview.Document, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	s.surface.Begin(label)
	a, err := Assemble(ctx, resolver, files)
	if err != nil {
		return nil, s.fail(label, err)
	}
	doc := s.surface.Present(a.HTML, a.CSS, a.JS)
	s.logger.Info("local preview rendered", slog.String("dir", label), slog.String("handle", doc.Handle))
	return doc, nil
}

// Release drops the live preview.
func (s *Service) Release() {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	s.surface.Release()
}

// Document composes the preview of a gist without touching the surface.
func (s *Service) Document(ctx context.Context, input string) (string, error) {
	id, err := gistid.Resolve(input)
	if err != nil {
		return "", err
	}
	a, err := s.assembleGist(ctx, id)
	if err != nil {
		return "", err
	}
	return a.Compose(), nil
}

// View fetches a gist and renders a card for each of its files.
func (s *Service) View(ctx context.Context, input string) (*GistView, error) {
	id, err := gistid.Resolve(input)
	if err != nil {
		return nil, err
	}
	g, err := s.gists.FetchGist(ctx, id)
	if err != nil {
		return nil, err
	}
	title := g.Description
	if title == "" {
		title = UntitledGist
	}
	owner := g.Owner
	if owner == "" {
		owner = models.AnonymousOwner
	}
	v := &GistView{
		ID:          id,
		Title:       title,
		Description: g.Description,
		Owner:       owner,
		CreatedAt:   g.CreatedAt,
		FileCount:   len(g.Files),
		Files:       s.renderer.Build(g.Files),
	}
	if !g.CreatedAt.IsZero() {
		v.CreatedLabel = g.CreatedAt.UTC().Format(CreatedLayout)
	}
	return v, nil
}

func (s *Service) assembleGist(ctx context.Context, id string) (*Assembly, error) {
	g, err := s.gists.FetchGist(ctx, id)
	if err != nil {
		return nil, err
	}
	return Assemble(ctx, s.gists, g.Files)
}

func (s *Service) roleFile(ctx context.Context, input string, role classify.Role) (string, bool, error) {
	id, err := gistid.Resolve(input)
	if err != nil {
		return "", false, err
	}
	g, err := s.gists.FetchGist(ctx, id)
	if err != nil {
		return "", false, err
	}
	f, ok := classify.FirstOfRole(g.Files, role)
	if !ok {
		return "", false, nil
	}
	text, err := resolve(ctx, s.gists, f)
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

func (s *Service) fail(source string, err error) error {
	s.surface.Fail(err)
	level := slog.LevelWarn
	var te *apperr.TransportError
	if errors.As(err, &te) {
		level = slog.LevelError
	}
	s.logger.Log(context.Background(), level, "preview failed",
		slog.String("source", source),
		slog.String("error", err.Error()),
	)
	return err
}
