package cli

import (
	"strings"

	"tajawal-cli/internal/budget"
	"tajawal-cli/internal/model"
	"tajawal-cli/internal/view"

	"github.com/spf13/cobra"
)

type tripPayload struct {
	TripID string      `json:"tripId"`
	Days   []model.Day `json:"days"`
}

func newShowCmd(app *App) *cobra.Command {
	var f view.Filter

	cmd := &cobra.Command{
		Use:   "show [trip-id]",
		Short: "Print a stored trip plan",
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

			f.Query = strings.TrimSpace(f.Query)
			out := map[string]any{
				"tripId": tripID,
				"days":   f.Apply(days),
				"budget": budget.Compute(days),
			}
			if f.IsZero() {
				return writeOut(cmd, app, out)
			}
			return writeOutMeta(cmd, app, out, map[string]any{
				"filter":  f,
				"shown":   view.Count(f.Apply(days)),
				"total":   view.Count(days),
				"pending": view.Pending(days),
			})
		},
	}

	cmd.Flags().StringVar(&f.Query, "query", "", "Only activities whose title, location or notes contain this text")
	cmd.Flags().BoolVar(&f.OnlyPending, "pending", false, "Hide completed activities")
	cmd.Flags().IntVar(&f.Day, "day", 0, "Only this day number (0 = all)")

	return cmd
}

func newEnsureCmd(app *App) *cobra.Command {
	var fallbackPath string

	cmd := &cobra.Command{
		Use:   "ensure [trip-id]",
		Short: "Return the stored plan, saving the fallback plan first if none exists",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tripID := app.resolveTrip(args)
			fallback, err := loadFallback(fallbackPath)
			if err != nil {
				return writeErr(cmd, err)
			}
			st, closeFn, err := app.openStore(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()

			days := st.Ensure(cmd.Context(), tripID, fallback)
			return writeOut(cmd, app, tripPayload{TripID: tripID, Days: days})
		},
	}

	cmd.Flags().StringVar(&fallbackPath, "fallback", envOr("TAJAWAL_FALLBACK", ""), "JSON file with the fallback plan (default: built-in demo plan)")

	return cmd
}

func newDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <trip-id>",
		Short: "Delete a trip's stored plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tripID := strings.TrimSpace(args[0])
			st, closeFn, err := app.openStore(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()

			if err := st.Delete(cmd.Context(), tripID); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"tripId": tripID, "deleted": true})
		},
	}
}

func newTripsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "trips",
		Short: "List trips with a stored plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, closeFn, err := app.openStore(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()

			ids, err := st.List(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, ids)
		},
	}
}

func newBudgetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "budget [trip-id]",
		Short: "Per-day and total cost of a trip",
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
			return writeOut(cmd, app, budget.Compute(days))
		},
	}
}
