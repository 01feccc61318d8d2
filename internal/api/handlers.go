package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/starford/gistlens/internal/checksum"
	"github.com/starford/gistlens/internal/credstore"
	"github.com/starford/gistlens/internal/gistid"
	"github.com/starford/gistlens/internal/preview"
	"github.com/starford/gistlens/internal/previewservice"
)

const maxBodyBytes = 1 << 20

// CredentialStore persists the GitHub token.
type CredentialStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Handler holds API route handlers.
type Handler struct {
	svc   *previewservice.Service
	creds CredentialStore
}

// NewHandler creates a new Handler. creds may be nil, in which case the
// token endpoints answer 404.
func NewHandler(svc *previewservice.Service, creds CredentialStore) *Handler {
	return &Handler{svc: svc, creds: creds}
}

// decodeBody reads a JSON body into v and runs its validation.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{ Validate() error }) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	if err := v.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return false
	}
	return true
}

// Resolve handles GET /api/resolve.
//
//	@Summary		Extract a canonical gist id from a URL or raw id
//	@Tags			gists
//	@Produce		json
//	@Param			input	query		string	true	"Gist URL or id"
//	@Success		200		{object}	ResolveResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/resolve [get]
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, err := gistid.Resolve(r.URL.Query().Get("input"))
	if err != nil {
		writeError(w, "resolve", err)
		return
	}
	writeJSON(w, http.StatusOK, ResolveResponse{ID: id})
}

// Route handles GET /api/route.
//
//	@Summary		Decode a deep link into a viewer or live-preview route
//	@Tags			gists
//	@Produce		json
//	@Param			link	query		string	true	"Deep link, e.g. /#/LivePreview/abc123 or /?gist=abc123"
//	@Success		200		{object}	RouteResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/route [get]
func (h *Handler) Route(w http.ResponseWriter, r *http.Request) {
	route, err := gistid.ParseRoute(r.URL.Query().Get("link"))
	if err != nil {
		writeError(w, "route", err)
		return
	}
	writeJSON(w, http.StatusOK, route)
}

// GetGist handles GET /api/gists/{id}.
//
//	@Summary		Fetch a gist with one rendered card per file
//	@Tags			gists
//	@Produce		json
//	@Param			id	path		string	true	"Gist id or URL-escaped gist URL"
//	@Success		200	{object}	GistView
//	@Failure		400	{object}	errResponse
//	@Failure		404	{object}	errResponse
//	@Failure		429	{object}	errResponse
//	@Failure		502	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/gists/{id} [get]
func (h *Handler) GetGist(w http.ResponseWriter, r *http.Request) {
	input := chi.URLParam(r, "id")
	if decoded, err := url.PathUnescape(input); err == nil {
		input = decoded
	}
	view, err := h.svc.View(r.Context(), input)
	if err != nil {
		writeError(w, "get gist", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// CreatePreview handles POST /api/previews.
//
//	@Summary		Render the live preview of a gist
//	@Tags			previews
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreatePreviewRequest	true	"Gist to preview"
//	@Success		201		{object}	PreviewResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Failure		429		{object}	errResponse
//	@Failure		502		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/previews [post]
func (h *Handler) CreatePreview(w http.ResponseWriter, r *http.Request) {
	var req CreatePreviewRequest
	if !decodeBody(w, r, &req) {
		return
	}
	doc, err := h.svc.LoadSingle(r.Context(), req.Input)
	if err != nil {
		writeError(w, "create preview", err)
		return
	}
	writeJSON(w, http.StatusCreated, previewResponse(doc))
}

// CreateMultiPreview handles POST /api/previews/multi.
//
//	@Summary		Render a live preview from separate HTML, CSS and JS gists
//	@Tags			previews
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateMultiPreviewRequest	true	"Gists per role"
//	@Success		201		{object}	PreviewResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/previews/multi [post]
func (h *Handler) CreateMultiPreview(w http.ResponseWriter, r *http.Request) {
	var req CreateMultiPreviewRequest
	if !decodeBody(w, r, &req) {
		return
	}
	doc, err := h.svc.LoadMulti(r.Context(), previewservice.MultiRequest{HTML: req.HTML, CSS: req.CSS, JS: req.JS})
	if err != nil {
		writeError(w, "create multi preview", err)
		return
	}
	writeJSON(w, http.StatusCreated, previewResponse(doc))
}

// CurrentPreview handles GET /api/previews/current.
//
//	@Summary		Get the preview surface state
//	@Tags			previews
//	@Produce		json
//	@Success		200	{object}	PreviewStatus
//	@Security		BearerAuth
//	@Router			/previews/current [get]
func (h *Handler) CurrentPreview(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Surface().Status())
}

// ReleasePreview handles DELETE /api/previews/current.
//
//	@Summary		Revoke the live preview
//	@Tags			previews
//	@Success		204	"Preview released"
//	@Security		BearerAuth
//	@Router			/previews/current [delete]
func (h *Handler) ReleasePreview(w http.ResponseWriter, _ *http.Request) {
	h.svc.Release()
	w.WriteHeader(http.StatusNoContent)
}

// TokenStatus handles GET /api/token.
//
//	@Summary		Report whether a GitHub token is stored
//	@Tags			token
//	@Produce		json
//	@Success		200	{object}	TokenStatusResponse
//	@Security		BearerAuth
//	@Router			/token [get]
func (h *Handler) TokenStatus(w http.ResponseWriter, r *http.Request) {
	if !h.credsAvailable(w) {
		return
	}
	_, ok, err := h.creds.Get(r.Context(), credstore.TokenKey)
	if err != nil {
		writeError(w, "token status", err)
		return
	}
	writeJSON(w, http.StatusOK, TokenStatusResponse{Present: ok})
}

// PutToken handles PUT /api/token.
//
//	@Summary		Store the GitHub token used for gist requests
//	@Tags			token
//	@Accept			json
//	@Param			body	body	PutTokenRequest	true	"Token"
//	@Success		204		"Token stored"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/token [put]
func (h *Handler) PutToken(w http.ResponseWriter, r *http.Request) {
	if !h.credsAvailable(w) {
		return
	}
	var req PutTokenRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.creds.Set(r.Context(), credstore.TokenKey, req.Token); err != nil {
		if errors.Is(err, credstore.ErrEmptyValue) {
			writeJSON(w, http.StatusBadRequest, errorBody("token: cannot be blank"))
			return
		}
		writeError(w, "put token", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteToken handles DELETE /api/token.
//
//	@Summary		Forget the stored GitHub token
//	@Tags			token
//	@Success		204	"Token removed"
//	@Security		BearerAuth
//	@Router			/token [delete]
func (h *Handler) DeleteToken(w http.ResponseWriter, r *http.Request) {
	if !h.credsAvailable(w) {
		return
	}
	if err := h.creds.Delete(r.Context(), credstore.TokenKey); err != nil {
		writeError(w, "delete token", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) credsAvailable(w http.ResponseWriter) bool {
	if h.creds == nil {
		writeJSON(w, http.StatusNotFound, errorBody("credential store disabled"))
		return false
	}
	return true
}

func previewResponse(doc *preview.Document) PreviewResponse {
	return PreviewResponse{
		Handle:   doc.Handle,
		URL:      doc.URL,
		Checksum: doc.Checksum,
		State:    preview.StateRendered,
	}
}

// PreviewHandler serves composed documents from the preview surface.
type PreviewHandler struct {
	surface *preview.Surface
}

// NewPreviewHandler creates a handler backed by surface.
func NewPreviewHandler(surface *preview.Surface) *PreviewHandler {
	return &PreviewHandler{surface: surface}
}

// SandboxPolicy isolates previews in an opaque origin: scripts run, but the
// document cannot reach the host's storage, cookies or DOM.
const SandboxPolicy = "sandbox allow-scripts allow-forms allow-modals allow-popups"

// ServeDocument handles GET /preview/{handle}.
func (p *PreviewHandler) ServeDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := p.surface.Open(chi.URLParam(r, "handle"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	etag := checksum.ETag(doc.Checksum)
	hdr := w.Header()
	hdr.Set("Content-Security-Policy", SandboxPolicy)
	hdr.Set("X-Content-Type-Options", "nosniff")
	hdr.Set("Referrer-Policy", "no-referrer")
	hdr.Set("Cache-Control", "no-store")
	hdr.Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	hdr.Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write([]byte(doc.HTML)); err != nil {
		slog.Debug("preview write failed", slog.String("handle", doc.Handle), slog.String("error", err.Error()))
	}
}

var _ CredentialStore = (*credstore.Store)(nil)
