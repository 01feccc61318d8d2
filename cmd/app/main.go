package main

import (
	"context"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/gistlens/internal"
	"github.com/starford/gistlens/internal/apperr"
	"github.com/starford/gistlens/internal/ui"
	pkgconfig "github.com/starford/gistlens/pkg/config"
)

var version = "dev"

func loadOptions(cmd *cli.Command) ([]internal.Option, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return []internal.Option{
		internal.WithConfig(cfg),
		internal.WithVersion(version),
	}, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func view(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("view: expected one gist URL or id")
	}
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	return internal.View(ctx, cmd.Args().First(), opts...)
}

func preview(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() > 1 {
		return fmt.Errorf("preview: expected at most one gist URL or id")
	}
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	return internal.Preview(ctx, internal.PreviewRequest{
		Input:  cmd.Args().First(),
		Dir:    cmd.String("dir"),
		Output: cmd.String("output"),
	}, opts...)
}

func open(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("open: expected one link")
	}
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	return internal.Open(ctx, cmd.Args().First(), cmd.String("output"), opts...)
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	return internal.ServeMCP(ctx, cmd.String("dir"), opts...)
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Write the preview document to `FILE` instead of stdout",
	}
}

func main() {
	cmd := &cli.Command{
		Name:    "gistlens",
		Usage:   "View GitHub Gists and render HTML/CSS/JS gists as sandboxed live previews",
		Version: version,
		Action:  serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API and preview host",
				Action: serve,
			},
			{
				Name:      "view",
				Usage:     "Print a gist as file cards",
				ArgsUsage: "<gist-url-or-id>",
				Action:    view,
			},
			{
				Name:      "preview",
				Usage:     "Compose the live-preview document of a gist or a local checkout",
				ArgsUsage: "[gist-url-or-id]",
				Flags: []cli.Flag{
					outputFlag(),
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Compose from a local gist checkout in `DIR`",
					},
				},
				Action: preview,
			},
			{
				Name:      "open",
				Usage:     "Open a viewer or live-preview page link",
				ArgsUsage: "<link>",
				Flags:     []cli.Flag{outputFlag()},
				Action:    open,
			},
			{
				Name:  "mcp",
				Usage: "Run the MCP server on stdio",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Local gist checkout where image sidecars are saved",
					},
				},
				Action: serveMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		ui.Fail("%s", apperr.Message(err))
		os.Exit(1)
	}
}
