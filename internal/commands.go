package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/starford/gistlens/internal/gistid"
	"github.com/starford/gistlens/internal/mcpserver"
	"github.com/starford/gistlens/internal/previewservice"
	"github.com/starford/gistlens/internal/storage"
	"github.com/starford/gistlens/internal/ui"
)

// PreviewRequest selects what the preview command composes. Exactly one of
// Input and Dir is set.
type PreviewRequest struct {
	Input string
	Dir   string
	// Output is the file to write; empty writes to stdout.
	Output string
}

// cliApplication prepares an application for a one-shot command: text logs
// on stderr so stdout stays clean for content.
func cliApplication(opts []Option) (*application, error) {
	app, err := newApplication(opts)
	if err != nil {
		return nil, err
	}
	if app.logger == nil {
		app.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: app.config.App.LogLevel,
		}))
	}
	return app, nil
}

// View prints a gist as file cards.
func View(ctx context.Context, input string, opts ...Option) error {
	app, err := cliApplication(opts)
	if err != nil {
		return err
	}
	d, err := app.buildDeps(nil)
	if err != nil {
		return err
	}
	defer d.Close()

	view, err := d.svc.View(ctx, input)
	if err != nil {
		return err
	}
	ui.Gist(view)
	return nil
}

// Preview composes a preview document of a gist or a local checkout.
func Preview(ctx context.Context, req PreviewRequest, opts ...Option) error {
	app, err := cliApplication(opts)
	if err != nil {
		return err
	}
	if (req.Input == "") == (req.Dir == "") {
		return fmt.Errorf("preview: exactly one of a gist or --dir is required")
	}

	var doc string
	if req.Dir != "" {
		doc, err = composeLocal(ctx, req.Dir)
	} else {
		doc, err = composeGist(ctx, app, req.Input)
	}
	if err != nil {
		return err
	}

	if req.Output == "" {
		_, err = io.WriteString(ui.Out, doc)
		return err
	}
	if err := storage.WriteFile(req.Output, []byte(doc)); err != nil {
		return fmt.Errorf("write preview: %w", err)
	}
	ui.Success("wrote %s (%d bytes)", req.Output, len(doc))
	return nil
}

func composeGist(ctx context.Context, app *application, input string) (string, error) {
	d, err := app.buildDeps(nil)
	if err != nil {
		return "", err
	}
	defer d.Close()
	return d.svc.Document(ctx, input)
}

func composeLocal(ctx context.Context, dir string) (string, error) {
	local, err := storage.NewFS(dir)
	if err != nil {
		return "", err
	}
	files, err := local.List()
	if err != nil {
		return "", err
	}
	a, err := previewservice.Assemble(ctx, local, files)
	if err != nil {
		return "", err
	}
	return a.Compose(), nil
}

// Open dispatches a page link: live-preview links compose the preview,
// viewer links print the gist.
func Open(ctx context.Context, link, output string, opts ...Option) error {
	route, err := gistid.ParseRoute(link)
	if err != nil {
		return err
	}
	switch route.Kind {
	case gistid.RouteLivePreview:
		return Preview(ctx, PreviewRequest{Input: route.GistID, Output: output}, opts...)
	case gistid.RouteViewer:
		return View(ctx, route.GistID, opts...)
	default:
		return fmt.Errorf("open: link %q names no gist", link)
	}
}

// ServeMCP runs the MCP server on stdio. dir, when set, is the local
// checkout image sidecars are written to.
func ServeMCP(ctx context.Context, dir string, opts ...Option) error {
	app, err := cliApplication(opts)
	if err != nil {
		return err
	}
	d, err := app.buildDeps(nil)
	if err != nil {
		return err
	}
	defer d.Close()

	var store storage.Provider
	if dir != "" {
		local, err := storage.NewFS(dir)
		if err != nil {
			return err
		}
		store = local
	}

	app.logger.Info("MCP server starting on stdio", slog.String("sidecar_dir", dir))
	return mcpserver.New(d.svc, store, app.version).ServeStdio()
}
