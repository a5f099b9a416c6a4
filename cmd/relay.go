package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/spotify-relay/internal/server"
	"github.com/desertthunder/spotify-relay/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the relay on port 8888 until interrupted.
//
// Missing credentials are reported but do not stop the server.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if missing := r.config.Missing(); len(missing) > 0 {
		r.logger.Warn("configuration incomplete, upstream will reject requests", "missing", missing)
	}

	srv := server.New(server.Opts{
		Config:  r.config,
		Service: r.spotify,
		Logger:  r.logger,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.writePlain("%s Server running on %s\n", styles.ok.Render("→"), styles.title.Render(localURL("")))
	r.writePlain("%s\n", styles.help.Render("Press Ctrl+C to stop"))

	return r.listen(ctx, srv)
}

// AuthURL prints the authorization URL /login would redirect to.
func (r *Runner) AuthURL(ctx context.Context, cmd *cli.Command) error {
	return r.writePlain("%s\n", r.spotify.AuthCodeURL())
}

// Open opens the running relay's /login route in the default browser.
func (r *Runner) Open(ctx context.Context, cmd *cli.Command) error {
	loginURL := localURL("/login")

	r.writePlain("→ Opening browser for %s login...\n", r.spotify.Name())
	if err := r.openBrowser(loginURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("%s", styles.warn.Render("⚠ Could not open browser automatically."))
		return r.writePlain("Please open this URL in your browser:\n%s\n", loginURL)
	}

	return nil
}

// ConfigInit writes the example configuration file.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")
	if path == "" {
		return fmt.Errorf("%w: --path must not be empty", shared.ErrInvalidFlag)
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	return r.writePlain("%s Configuration written to %s\n", styles.ok.Render("✓"), path)
}

// ConfigShow prints the effective configuration as TOML with the client secret masked.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	if err := toml.NewEncoder(r.output).Encode(r.config.Masked()); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

func localURL(path string) string {
	return fmt.Sprintf("http://localhost:%d%s", server.Port, path)
}
