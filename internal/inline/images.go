// Package inline turns base64 image sidecars into data URIs and rewrites
// asset references in markup, stylesheets and scripts to point at them.
package inline

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/starford/gistlens/internal/models"
)

// ImageMap maps a logical asset path to its data URI.
type ImageMap map[string]string

// ContentResolver returns the authoritative text of a file.
type ContentResolver interface {
	ResolveContent(ctx context.Context, f models.File) (string, error)
}

var mimeTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"svg":  "image/svg+xml",
	"webp": "image/webp",
}

const defaultMIME = "image/png"

// MIMEType returns the image MIME type for a logical path.
func MIMEType(logicalPath string) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(logicalPath)), ".")
	if m, ok := mimeTypes[ext]; ok {
		return m
	}
	return defaultMIME
}

// DataURI wraps a trimmed base64 payload, or returns it unchanged when it
// already is a data URI.
func DataURI(logicalPath, payload string) string {
	payload = strings.TrimSpace(payload)
	if strings.HasPrefix(payload, "data:") {
		return payload
	}
	return "data:" + MIMEType(logicalPath) + ";base64," + payload
}

// BuildImageMap resolves every sidecar concurrently. The first failure
// cancels the rest and no map is returned. Each entry is also stored under
// its path without a leading "images/".
func BuildImageMap(ctx context.Context, resolver ContentResolver, images map[string]models.File) (ImageMap, error) {
	if len(images) == 0 {
		return ImageMap{}, nil
	}

	paths := make([]string, 0, len(images))
	for p := range images {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	uris := make([]string, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		g.Go(func() error {
			content, err := resolver.ResolveContent(gctx, images[p])
			if err != nil {
				return fmt.Errorf("inline: image %s: %w", p, err)
			}
			uris[i] = DataURI(p, content)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := make(ImageMap, len(paths)*2)
	for i, p := range paths {
		m[p] = uris[i]
		m[strings.TrimPrefix(p, "images/")] = uris[i]
	}
	return m, nil
}
