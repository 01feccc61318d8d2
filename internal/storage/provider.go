// Package storage reads a local gist checkout as a file source and writes
// composed previews to disk.
package storage

import (
	"context"

	"github.com/starford/gistlens/internal/models"
)

// Provider is a local source of gist files.
type Provider interface {
	// List returns the top-level, non-hidden files of the checkout.
	List() ([]models.File, error)
	// ResolveContent reads the current content of f from disk.
	ResolveContent(ctx context.Context, f models.File) (string, error)
	// Write atomically writes content to path (relative to root).
	Write(path string, content []byte) error
}
