package cli

import (
	"errors"
	"fmt"
	"strings"

	"tajawal-cli/internal/publish"
	"tajawal-cli/internal/tui"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var toDir, formatName string
	var overwrite, withBudget, withNotes bool

	cmd := &cobra.Command{
		Use:   "export [trip-id]",
		Short: "Write a shareable Markdown or text file for a trip",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tripID := app.resolveTrip(args)
			toDir = strings.TrimSpace(toDir)
			if toDir == "" {
				return writeErr(cmd, errors.New("missing --to"))
			}
			st, closeFn, err := app.openStore(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()

			days, ok := st.Resolve(cmd.Context(), tripID)
			if !ok {
				return writeErr(cmd, errNotFound("trip", tripID))
			}
			res, err := publish.Write(tripID, days, toDir, publish.WriteOptions{
				Format:        formatName,
				Overwrite:     overwrite,
				IncludeBudget: withBudget,
				IncludeNotes:  withNotes,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, res)
		},
	}

	cmd.Flags().StringVar(&toDir, "to", "", "Output directory")
	cmd.Flags().StringVar(&formatName, "format", publish.FormatMarkdown, "Output format (md|txt)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing export")
	cmd.Flags().BoolVar(&withBudget, "budget", false, "Append the budget section (md only)")
	cmd.Flags().BoolVar(&withNotes, "notes", true, "Include activity notes (md only)")

	return cmd
}

func newRenderCmd(app *App) *cobra.Command {
	var formatName string
	var raw, withBudget bool
	var width int

	cmd := &cobra.Command{
		Use:   "render [trip-id]",
		Short: "Render a trip as share text, Markdown, or styled terminal output",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tripID := app.resolveTrip(args)
			st, closeFn, err := app.openStore(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()

			days, ok := st.Resolve(cmd.Context(), tripID)
			if !ok {
				return writeErr(cmd, errNotFound("trip", tripID))
			}

			var body string
			switch formatName {
			case publish.FormatText:
				body = publish.Title(tripID) + "\n\n" + publish.RenderText(days) + "\n"
			case publish.FormatMarkdown:
				body = publish.RenderMarkdown(tripID, days, publish.RenderOptions{IncludeBudget: withBudget, IncludeNotes: true})
			case "term":
				md := publish.RenderMarkdown(tripID, days, publish.RenderOptions{IncludeBudget: withBudget, IncludeNotes: true})
				body = tui.RenderMarkdown(md, width) + "\n"
			default:
				return writeErr(cmd, fmt.Errorf("unknown render format: %q (md|txt|term)", formatName))
			}

			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}
			return writeOut(cmd, app, map[string]any{"tripId": tripID, "format": formatName, "text": body})
		},
	}

	cmd.Flags().StringVar(&formatName, "format", publish.FormatMarkdown, "md|txt|term")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the rendered text (no JSON envelope)")
	cmd.Flags().BoolVar(&withBudget, "budget", false, "Append the budget section")
	cmd.Flags().IntVar(&width, "width", 80, "Wrap width for --format term")

	return cmd
}
