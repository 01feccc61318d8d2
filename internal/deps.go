package internal

import (
	"fmt"
	"log/slog"

	"github.com/starford/gistlens/internal/credstore"
	"github.com/starford/gistlens/internal/gistapi"
	"github.com/starford/gistlens/internal/preview"
	"github.com/starford/gistlens/internal/previewservice"
)

// deps is the object graph shared by the server and the CLI commands.
type deps struct {
	creds   *credstore.Store
	gists   *gistapi.Client
	surface *preview.Surface
	svc     *previewservice.Service
}

func (a *application) buildDeps(notify preview.Notifier) (*deps, error) {
	cfg := a.config

	creds, err := credstore.Open(cfg.Credentials.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("init credentials: %w", err)
	}

	gists := gistapi.New(
		gistapi.WithBaseURL(cfg.GitHub.APIURL),
		gistapi.WithTimeout(cfg.GitHub.Timeout),
		gistapi.WithRateLimit(cfg.GitHub.RequestsPerSecond, cfg.GitHub.Burst),
		gistapi.WithCredentials(gistapi.Chain{gistapi.StaticToken(cfg.GitHub.Token), creds}),
		gistapi.WithUserAgent("gistlens/"+a.version),
	)

	surface := preview.NewSurface(cfg.Preview.BasePath, notify)
	svc := previewservice.NewService(gists, surface, a.logger)

	a.logger.Debug("dependencies ready",
		slog.String("api_url", cfg.GitHub.APIURL),
		slog.String("credentials", cfg.Credentials.SQLitePath))

	return &deps{creds: creds, gists: gists, surface: surface, svc: svc}, nil
}

func (d *deps) Close() error {
	d.svc.Release()
	return d.creds.Close()
}
