package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotify-relay/internal/server"
	"github.com/desertthunder/spotify-relay/internal/services"
	"github.com/desertthunder/spotify-relay/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	spotify     services.OAuthService
	logger      *log.Logger
	output      io.Writer
	openBrowser func(string) error
	listen      func(context.Context, *server.Server) error
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A nil Config is loaded from --config and the environment in [Runner.Before].
type RunnerOpts struct {
	Config  *shared.Config
	Spotify services.OAuthService
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:      opts.Config,
		spotify:     opts.Spotify,
		logger:      opts.Logger,
		output:      opts.Output,
		openBrowser: shared.OpenBrowser,
		listen: func(ctx context.Context, srv *server.Server) error {
			return srv.Run(ctx)
		},
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, urlCommand, openCommand, configCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads configuration, applies the log level and builds the Spotify service.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if r.config == nil {
		path := cmd.String("config")
		if cmd.IsSet("config") {
			if _, err := os.Stat(path); err != nil {
				return ctx, fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
			}
		}

		config, err := shared.Load(path)
		if err != nil {
			return ctx, err
		}
		r.config = config
	}

	level := r.config.Log.Level
	if cmd.IsSet("log-level") {
		level = cmd.String("log-level")
	}
	ll, err := shared.ParseLogLevel(level)
	if err != nil {
		return ctx, err
	}
	shared.SetLogLevel(r.logger, ll)

	if r.spotify == nil {
		r.spotify = services.NewSpotifyService(services.SpotifyOpts{Credentials: r.config.Credentials.Spotify})
	}

	return ctx, nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
