package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/sadopc/remindr/internal/app"
	"github.com/sadopc/remindr/internal/reminder"
)

type SortCmd struct {
	flags *Flags
	app   *app.App
}

// NewSortCmd creates a new sort command
func NewSortCmd(flags *Flags, app *app.App) *SortCmd {
	return &SortCmd{flags: flags, app: app}
}

// Register adds the sort command to the application
func (cmd *SortCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "sort",
		Usage:     "Show or set the reminder sort order",
		UsageText: "remindr sort [time|priority|title|created]",
		Action:    cmd.run,
	})

	return app
}

func (cmd *SortCmd) run(_ context.Context, c *cli.Command) error {
	out := c.Root().Writer

	arg := c.Args().First()
	if arg == "" {
		current := cmd.app.Reminders.SortMethod()
		for _, m := range reminder.SortMethods {
			mark := " "
			if m == current {
				mark = "*"
			}
			_, _ = fmt.Fprintf(out, "%s %-9s %s\n", mark, m, m.Name())
		}
		return nil
	}

	m := reminder.SortMethod(arg)
	if err := cmd.app.Reminders.SetSortMethod(m); err != nil {
		return fmt.Errorf("set sort: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Sorting %s\n", m.Name())
	return nil
}
