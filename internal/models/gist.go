// Package models defines the domain types for gistlens.
package models

import "time"

// InlineSizeLimit is the largest file size for which the API-embedded content
// is trusted. Bigger files are always re-read from their raw URL.
const InlineSizeLimit = 1_000_000

// AnonymousOwner is reported for gists without an owner.
const AnonymousOwner = "anonymous"

// Gist is one fetched gist. Files keep the order in which the API listed them.
type Gist struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Owner       string    `json:"owner"`
	CreatedAt   time.Time `json:"created_at"`
	Files       []File    `json:"files"`
}

// File is a single named file of a gist.
type File struct {
	Filename  string  `json:"filename"`
	Content   *string `json:"content,omitempty"`
	Truncated bool    `json:"truncated"`
	Size      int     `json:"size"`
	RawURL    string  `json:"raw_url"`
	Language  string  `json:"language,omitempty"`
}

// NeedsRawFetch reports whether Content cannot be used as-is.
func (f File) NeedsRawFetch() bool {
	return f.Truncated || f.Content == nil || *f.Content == "" || f.Size > InlineSizeLimit
}

// Text returns the embedded content, or "" when absent.
func (f File) Text() string {
	if f.Content == nil {
		return ""
	}
	return *f.Content
}

// StringPtr is a small helper for building Files in code and tests.
func StringPtr(s string) *string { return &s }
