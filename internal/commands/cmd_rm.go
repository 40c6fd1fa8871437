package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/sadopc/remindr/internal/app"
)

type RmCmd struct {
	flags *Flags
	app   *app.App

	// flags
	block string
}

// NewRmCmd creates a new rm command
func NewRmCmd(flags *Flags, app *app.App) *RmCmd {
	return &RmCmd{flags: flags, app: app}
}

// Register adds the rm command to the application
func (cmd *RmCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "rm",
		Usage:     "Delete a reminder, or every reminder of a block",
		UsageText: "remindr rm <id> | remindr rm --block <block-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "block",
				Usage:       "delete all reminders attached to this block",
				Destination: &cmd.block,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RmCmd) run(ctx context.Context, c *cli.Command) error {
	out := c.Root().Writer

	if cmd.block != "" {
		n, err := cmd.app.Reminders.DeleteByBlock(ctx, cmd.block)
		if err != nil {
			return fmt.Errorf("delete by block: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Deleted %d reminder(s)\n", n)
		return nil
	}

	id, err := resolveID(ctx, cmd.app, c.Args().First())
	if err != nil {
		return err
	}
	if err := cmd.app.Reminders.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	_, _ = fmt.Fprintln(out, "Deleted 1 reminder(s)")
	return nil
}
