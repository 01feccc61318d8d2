package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/starford/gistlens/internal/preview"
	"github.com/starford/gistlens/internal/previewservice"
)

// RouterConfig controls the /api router.
type RouterConfig struct {
	// AuthEnabled controls whether Bearer token auth is enforced.
	AuthEnabled bool
	AuthToken   string
	// AllowedOrigins feeds the CORS handler. Empty disables CORS headers.
	AllowedOrigins []string
	// Events, if non-nil, is mounted at GET /events inside the auth group.
	Events http.Handler
}

// NewRouter creates a chi router with all API routes mounted.
func NewRouter(svc *previewservice.Service, creds CredentialStore, cfg RouterConfig) chi.Router {
	h := NewHandler(svc, creds)

	r := chi.NewRouter()
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}))
	}
	r.Use(AuthMiddleware(cfg.AuthEnabled, cfg.AuthToken))

	// Identifiers and deep links.
	r.Get("/resolve", h.Resolve)
	r.Get("/route", h.Route)

	// Viewer.
	r.Get("/gists/{id}", h.GetGist)

	// Live preview.
	r.Post("/previews", h.CreatePreview)
	r.Post("/previews/multi", h.CreateMultiPreview)
	r.Get("/previews/current", h.CurrentPreview)
	r.Delete("/previews/current", h.ReleasePreview)

	// Stored credential.
	r.Get("/token", h.TokenStatus)
	r.Put("/token", h.PutToken)
	r.Delete("/token", h.DeleteToken)

	// SSE endpoint (protected by same auth middleware).
	if cfg.Events != nil {
		r.Get("/events", cfg.Events.ServeHTTP)
	}

	return r
}

// NewPreviewRouter serves composed documents at GET /{handle}. It is mounted
// outside /api and carries no auth: handles are unguessable and short-lived.
func NewPreviewRouter(surface *preview.Surface) chi.Router {
	ph := NewPreviewHandler(surface)
	r := chi.NewRouter()
	r.Get("/{handle}", ph.ServeDocument)
	return r
}
