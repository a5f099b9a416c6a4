// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

const version = "0.1.0"

// newApp builds the root command. With no subcommand it behaves like serve.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "spotify-relay",
		Usage:    "Relay the Spotify authorization code flow to a front-end",
		Version:  version,
		Flags:    globalFlags(),
		Before:   r.Before,
		Action:   r.Serve,
		Commands: r.register(),
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level (debug, info, warn, error)",
		},
	}
}

// serveCommand runs the relay
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Serve /login and /callback on port 8888",
		Action: r.Serve,
	}
}

// urlCommand prints the authorization URL
func urlCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "url",
		Usage:  "Print the Spotify authorization URL built from configuration",
		Action: r.AuthURL,
	}
}

// openCommand opens the relay's login route in a browser
func openCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "open",
		Usage:  "Open the local /login route in the default browser",
		Action: r.Open,
	}
}

// configCommand handles configuration files
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write an example configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "path",
						Usage: "Output path for the configuration file",
						Value: "config.toml",
					},
				},
				Action: r.ConfigInit,
			},
			{
				Name:   "show",
				Usage:  "Print the effective configuration with secrets masked",
				Action: r.ConfigShow,
			},
		},
	}
}
