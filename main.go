package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/sadopc/remindr/internal/app"
	"github.com/sadopc/remindr/internal/commands"
	"github.com/sadopc/remindr/internal/config"
	"github.com/sadopc/remindr/internal/logging"
)

// Populated at build-time via -ldflags.
var version = "dev"

func build() string {
	if version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				return mv
			}
		}
	}
	return version
}

func main() {
	ctx := context.Background()
	cfg := config.Load()

	var (
		logCloser func()
		remindr   = &app.App{}
	)

	flags := &commands.Flags{}

	root := &cli.Command{
		Name:      "remindr",
		Usage:     "Reminders, calendar and focus timer in the terminal",
		UsageText: "remindr [global options] command [command options]",
		Description: `Run 'remindr' with no arguments to open the interactive panel.
Run 'remindr add <title>' to create a reminder from the shell.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "db",
				Usage:       "path to the SQLite database",
				Sources:     cli.EnvVars("REMINDR_DB"),
				Value:       cfg.DBPath,
				Destination: &flags.DBPath,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal)",
				Sources:     cli.EnvVars("REMINDR_LOG_LEVEL"),
				Value:       cfg.LogLevel,
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file",
				Sources:     cli.EnvVars("REMINDR_LOG_FILE"),
				Value:       cfg.LogFile,
				Destination: &flags.LogFile,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, closer, err := logging.New(flags.LogLevel, flags.LogFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			// Commands already hold a pointer to remindr.
			opened, err := app.Open(flags.DBPath)
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}
			*remindr = *opened

			log.Debug().Str("db", flags.DBPath).Msg("started")
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if remindr.Store != nil {
				if err := remindr.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, remindr)

	root = tuiCmd.Register(root)
	root = commands.NewListCmd(flags, remindr).Register(root)
	root = commands.NewAddCmd(flags, remindr).Register(root)
	root = commands.NewDoneCmd(flags, remindr).Register(root)
	root = commands.NewRmCmd(flags, remindr).Register(root)
	root = commands.NewSortCmd(flags, remindr).Register(root)
	root = commands.NewExportCmd(flags, remindr).Register(root)
	root = commands.NewStatsCmd(flags, remindr).Register(root)

	root.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'remindr --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	if err := root.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		exitCode = 1
	}

	os.Exit(exitCode)
}
