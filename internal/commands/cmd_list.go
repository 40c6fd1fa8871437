package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/sadopc/remindr/internal/app"
	"github.com/sadopc/remindr/internal/dates"
	"github.com/sadopc/remindr/internal/reminder"
)

type ListCmd struct {
	flags *Flags
	app   *app.App

	// flags
	filter     string
	date       string
	jsonOutput bool
}

// NewListCmd creates a new list command
func NewListCmd(flags *Flags, app *app.App) *ListCmd {
	return &ListCmd{flags: flags, app: app}
}

// Register adds the list command to the application
func (cmd *ListCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List reminders",
		UsageText: "remindr list [--filter today|upcoming|overdue|completed|all] [--json]",
		Description: `Prints reminders in the saved sort order.

The today view also contains overdue reminders; all is today plus upcoming.
Completed reminders only appear under --filter completed.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "filter",
				Aliases:     []string{"f"},
				Usage:       "view to list (today, upcoming, overdue, completed, all)",
				Value:       string(reminder.FilterToday),
				Destination: &cmd.filter,
			},
			&cli.StringFlag{
				Name:        "date",
				Usage:       "classify as if today were `YYYY-MM-DD`",
				Destination: &cmd.date,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ListCmd) run(ctx context.Context, c *cli.Command) error {
	today := dates.Today()
	if cmd.date != "" {
		if !dates.Valid(cmd.date) {
			return fmt.Errorf("invalid date %q", cmd.date)
		}
		today = cmd.date
	}

	f := reminder.ParseFilter(cmd.filter)
	list, counts, err := cmd.app.Reminders.List(ctx, f, today)
	if err != nil {
		return fmt.Errorf("list reminders: %w", err)
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		enc := json.NewEncoder(out)
		for _, r := range list {
			if err := enc.Encode(r); err != nil {
				return fmt.Errorf("encode reminder: %w", err)
			}
		}
		return nil
	}

	if len(list) == 0 {
		fmt.Fprintf(os.Stderr, "No %s reminders\n", f)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tWHEN\tPRIORITY\tTITLE")
	for _, r := range list {
		title := r.Title
		if r.Completed {
			title = "[x] " + title
		} else if reminder.IsOverdue(r, today) {
			title = "[!] " + title
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", shortID(r.ID), reminder.FormatWhen(r, today), r.Priority, title)
	}
	_ = w.Flush()

	_, _ = fmt.Fprintf(out, "\n%d today (%d overdue), %d upcoming, %d completed\n",
		counts.Today, counts.Overdue, counts.Upcoming, counts.Completed)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
