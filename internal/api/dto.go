package api

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/gistlens/internal/gistid"
	"github.com/starford/gistlens/internal/preview"
	"github.com/starford/gistlens/internal/previewservice"
)

// ResolveResponse carries a canonical gist id.
type ResolveResponse struct {
	ID string `json:"id" example:"aa5a315d61ae9438b18d" validate:"required"`
}

// RouteResponse is the decoded form of a deep link (aliased from the domain layer).
type RouteResponse = gistid.Route

// GistView is the viewer response type (aliased from the domain layer).
type GistView = previewservice.GistView

// PreviewStatus is the preview surface state (aliased from the domain layer).
type PreviewStatus = preview.Status

// CreatePreviewRequest is the request body for a single-gist preview.
type CreatePreviewRequest struct {
	Input string `json:"input" example:"https://gist.github.com/alice/abc123" validate:"required"`
}

// Validate implements validation.Validatable.
func (r CreatePreviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Input, validation.By(notBlank)),
	)
}

// CreateMultiPreviewRequest names one gist per role; only html is required.
type CreateMultiPreviewRequest struct {
	HTML string `json:"html" example:"abc123" validate:"required"`
	CSS  string `json:"css,omitempty" example:"def456"`
	JS   string `json:"js,omitempty" example:"789abc"`
}

// Validate implements validation.Validatable.
func (r CreateMultiPreviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.HTML, validation.By(notBlank)),
	)
}

// PreviewResponse is returned after a preview was rendered.
type PreviewResponse struct {
	Handle   string        `json:"handle" example:"0b0c8f6e-3c55-4a8e-9d8c-3c2b4a1e5f60" validate:"required"`
	URL      string        `json:"url" example:"/preview/0b0c8f6e-3c55-4a8e-9d8c-3c2b4a1e5f60" validate:"required"`
	Checksum string        `json:"checksum" example:"e3b0c442..." validate:"required"`
	State    preview.State `json:"state" example:"rendered" validate:"required"`
}

// PutTokenRequest stores a GitHub token.
type PutTokenRequest struct {
	Token string `json:"token" example:"github_pat_..." validate:"required"`
}

// Validate implements validation.Validatable.
func (r PutTokenRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.By(notBlank)),
	)
}

// TokenStatusResponse reports whether a token is stored. The token itself
// is never returned.
type TokenStatusResponse struct {
	Present bool `json:"present" example:"true"`
}

func notBlank(value any) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return validation.NewError("validation_required", "cannot be blank")
	}
	return nil
}
