package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/sadopc/remindr/internal/app"
	"github.com/sadopc/remindr/internal/dates"
	"github.com/sadopc/remindr/internal/store"
)

type AddCmd struct {
	flags *Flags
	app   *app.App

	// flags
	date     string
	endDate  string
	time     string
	endTime  string
	priority string
	note     string
	block    string
	repeat   string
}

// NewAddCmd creates a new add command
func NewAddCmd(flags *Flags, app *app.App) *AddCmd {
	return &AddCmd{flags: flags, app: app}
}

// Register adds the add command to the application
func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "add",
		Usage:     "Create a reminder",
		UsageText: "remindr add [options] <title...>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "date",
				Aliases:     []string{"d"},
				Usage:       "start date `YYYY-MM-DD` (defaults to today)",
				Destination: &cmd.date,
			},
			&cli.StringFlag{
				Name:        "end-date",
				Usage:       "last day of a multi-day reminder",
				Destination: &cmd.endDate,
			},
			&cli.StringFlag{
				Name:        "time",
				Aliases:     []string{"t"},
				Usage:       "start time `HH:MM`",
				Destination: &cmd.time,
			},
			&cli.StringFlag{
				Name:        "end-time",
				Usage:       "end time `HH:MM`",
				Destination: &cmd.endTime,
			},
			&cli.StringFlag{
				Name:        "priority",
				Aliases:     []string{"p"},
				Usage:       "high, medium, low or none",
				Value:       store.PriorityNone,
				Destination: &cmd.priority,
			},
			&cli.StringFlag{
				Name:        "note",
				Usage:       "free-form note",
				Destination: &cmd.note,
			},
			&cli.StringFlag{
				Name:        "block",
				Usage:       "attach to an existing note block",
				Destination: &cmd.block,
			},
			&cli.StringFlag{
				Name:        "repeat",
				Usage:       "RRULE, e.g. FREQ=WEEKLY;BYDAY=MO",
				Destination: &cmd.repeat,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *AddCmd) run(ctx context.Context, c *cli.Command) error {
	title := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if title == "" {
		return fmt.Errorf("title required")
	}

	date := cmd.date
	if date == "" {
		date = dates.Today()
	}

	r, err := cmd.app.AddReminder(ctx, store.Reminder{
		BlockID:  cmd.block,
		Title:    title,
		Note:     cmd.note,
		Date:     date,
		EndDate:  cmd.endDate,
		Time:     cmd.time,
		EndTime:  cmd.endTime,
		Priority: cmd.priority,
		Repeat:   cmd.repeat,
	})
	if err != nil {
		return fmt.Errorf("add reminder: %w", err)
	}

	_, _ = fmt.Fprintln(c.Root().Writer, r.ID)
	return nil
}
