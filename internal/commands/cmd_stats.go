package commands

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/sadopc/remindr/internal/app"
	"github.com/sadopc/remindr/internal/pomodoro"
)

type StatsCmd struct {
	flags *Flags
	app   *app.App

	// flags
	days int
}

// NewStatsCmd creates a new stats command
func NewStatsCmd(flags *Flags, app *app.App) *StatsCmd {
	return &StatsCmd{flags: flags, app: app}
}

// Register adds the stats command to the application
func (cmd *StatsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "stats",
		Usage:     "Show focus time totals",
		UsageText: "remindr stats [--days N]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "days",
				Usage:       "number of days in the daily breakdown",
				Value:       7,
				Destination: &cmd.days,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *StatsCmd) run(ctx context.Context, c *cli.Command) error {
	rec := cmd.app.Records
	today, err := rec.TodayFocusMinutes(ctx)
	if err != nil {
		return fmt.Errorf("today focus: %w", err)
	}
	week, err := rec.WeekFocusMinutes(ctx)
	if err != nil {
		return fmt.Errorf("week focus: %w", err)
	}

	out := c.Root().Writer
	_, _ = fmt.Fprintf(out, "Today: %s\n", pomodoro.FormatDuration(today))
	_, _ = fmt.Fprintf(out, "This week: %s\n", pomodoro.FormatDuration(week))

	if cmd.days <= 0 {
		return nil
	}

	now := time.Now()
	from := now.AddDate(0, 0, -(cmd.days - 1))
	days, err := rec.DailyFocus(ctx, from, now)
	if err != nil {
		return fmt.Errorf("daily focus: %w", err)
	}

	peak := 0
	for _, d := range days {
		if d.Minutes > peak {
			peak = d.Minutes
		}
	}

	_, _ = fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, d := range days {
		bar := ""
		if peak > 0 {
			bar = strings.Repeat("#", d.Minutes*20/peak)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", d.Date, pomodoro.FormatDuration(d.Minutes), bar)
	}
	return w.Flush()
}
