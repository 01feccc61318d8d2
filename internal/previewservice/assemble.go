package previewservice

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/starford/gistlens/internal/apperr"
	"github.com/starford/gistlens/internal/classify"
	"github.com/starford/gistlens/internal/inline"
	"github.com/starford/gistlens/internal/models"
	"github.com/starford/gistlens/internal/preview"
)

// Assembly is the inlined material of one preview, ready to compose.
type Assembly struct {
	HTMLFile string
	HTML     string
	CSS      []preview.Fragment
	JS       []preview.Fragment
	Images   int
}

// Compose renders the assembly without issuing a handle.
func (a *Assembly) Compose() string {
	return preview.Compose(a.HTML, a.CSS, a.JS)
}

// Assemble runs the preview stages over files: classify, require markup,
// resolve every needed file and image concurrently, then inline.
func Assemble(ctx context.Context, resolver inline.ContentResolver, files []models.File) (*Assembly, error) {
	set := classify.Classify(files)
	primary, ok := set.PrimaryHTML()
	if !ok {
		return nil, fmt.Errorf("previewservice: no .html or .htm file: %w", apperr.ErrMissingRequiredFile)
	}

	var (
		images  inline.ImageMap
		html    string
		cssText = make([]string, len(set.CSS))
		jsText  = make([]string, len(set.JS))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := inline.BuildImageMap(gctx, resolver, set.Images)
		if err != nil {
			return err
		}
		images = m
		return nil
	})
	g.Go(func() error {
		text, err := resolve(gctx, resolver, primary)
		if err != nil {
			return err
		}
		html = text
		return nil
	})
	for i, f := range set.CSS {
		g.Go(func() error {
			text, err := resolve(gctx, resolver, f)
			if err != nil {
				return err
			}
			cssText[i] = text
			return nil
		})
	}
	for i, f := range set.JS {
		g.Go(func() error {
			text, err := resolve(gctx, resolver, f)
			if err != nil {
				return err
			}
			jsText[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if html == "" {
		return nil, fmt.Errorf("previewservice: %s is empty: %w", primary.Filename, apperr.ErrMissingRequiredFile)
	}

	a := &Assembly{
		HTMLFile: primary.Filename,
		HTML:     inline.InlineReferences(html, images, inline.KindHTML),
		CSS:      make([]preview.Fragment, len(set.CSS)),
		JS:       make([]preview.Fragment, len(set.JS)),
		Images:   len(set.Images),
	}
	for i, f := range set.CSS {
		a.CSS[i] = preview.Fragment{Name: f.Filename, Content: inline.InlineReferences(cssText[i], images, inline.KindCSS)}
	}
	for i, f := range set.JS {
		a.JS[i] = preview.Fragment{Name: f.Filename, Content: inline.InlineReferences(jsText[i], images, inline.KindJS)}
	}
	return a, nil
}

func resolve(ctx context.Context, resolver inline.ContentResolver, f models.File) (string, error) {
	text, err := resolver.ResolveContent(ctx, f)
	if err != nil {
		return "", fmt.Errorf("previewservice: resolve %s: %w", f.Filename, err)
	}
	return text, nil
}
