package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/sadopc/remindr/internal/app"
	"github.com/sadopc/remindr/internal/export"
)

type ExportCmd struct {
	flags *Flags
	app   *app.App

	// flags
	format string
	output string
}

// NewExportCmd creates a new export command
func NewExportCmd(flags *Flags, app *app.App) *ExportCmd {
	return &ExportCmd{flags: flags, app: app}
}

// Register adds the export command to the application
func (cmd *ExportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "export",
		Usage:     "Export reminders and focus sessions",
		UsageText: "remindr export [--format csv|json|yaml] [--output file]",
		Description: `Writes to stdout unless --output is given. With --output and no
--format, the format follows the file extension.

CSV holds reminders only; JSON and YAML include session records.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "csv, json or yaml",
				Destination: &cmd.format,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "write to `FILE`",
				Destination: &cmd.output,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ExportCmd) run(ctx context.Context, c *cli.Command) error {
	doc, err := cmd.app.ExportDocument(ctx)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	out := c.Root().Writer

	if cmd.output != "" && cmd.format == "" {
		if err := export.ToFile(cmd.output, doc); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Exported %d reminders to %s\n", doc.Count, cmd.output)
		return nil
	}

	name := cmd.format
	if name == "" {
		name = string(export.FormatJSON)
	}
	f, err := export.ParseFormat(name)
	if err != nil {
		return err
	}

	if cmd.output == "" {
		return export.Write(out, f, doc)
	}

	file, err := os.Create(cmd.output)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := export.Write(file, f, doc); err != nil {
		file.Close()
		return fmt.Errorf("export: %w", err)
	}
	if err := file.Close(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Exported %d reminders to %s\n", doc.Count, cmd.output)
	return nil
}
