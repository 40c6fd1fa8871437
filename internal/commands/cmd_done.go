package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/sadopc/remindr/internal/app"
)

type DoneCmd struct {
	flags *Flags
	app   *app.App

	// flags
	undo bool
}

// NewDoneCmd creates a new done command
func NewDoneCmd(flags *Flags, app *app.App) *DoneCmd {
	return &DoneCmd{flags: flags, app: app}
}

// Register adds the done command to the application
func (cmd *DoneCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "done",
		Usage:     "Mark a reminder completed",
		UsageText: "remindr done [--undo] <id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "undo",
				Usage:       "mark the reminder as not completed",
				Destination: &cmd.undo,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *DoneCmd) run(ctx context.Context, c *cli.Command) error {
	id, err := resolveID(ctx, cmd.app, c.Args().First())
	if err != nil {
		return err
	}
	if err := cmd.app.Reminders.Toggle(ctx, id, !cmd.undo); err != nil {
		return fmt.Errorf("toggle reminder: %w", err)
	}
	return nil
}
