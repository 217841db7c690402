package cli

import (
	"strings"

	"tajawal-cli/internal/config"
	"tajawal-cli/internal/editor"
	"tajawal-cli/internal/store"
	"tajawal-cli/internal/tui"

	"github.com/spf13/cobra"
)

func newEditCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [trip-id]",
		Short: "Open a trip in the terminal editor",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tripID := ""
			if len(args) > 0 {
				tripID = strings.TrimSpace(args[0])
			}
			return runEditor(cmd, app, tripID)
		},
	}
	return cmd
}

// runEditor opens tripID (or --trip, the last edited trip, the configured default, in that
// order) in the terminal editor.
func runEditor(cmd *cobra.Command, app *App, tripID string) error {
	stateDir, err := config.Dir()
	if err != nil {
		return writeErr(cmd, err)
	}
	if tripID == "" && strings.TrimSpace(app.TripID) == "" {
		if st, err := store.LoadEditorState(stateDir); err == nil && st.LastTripID != "" {
			tripID = st.LastTripID
		}
	}
	if tripID == "" {
		tripID = app.tripID()
	}

	st, closeFn, err := app.openStore(cmd.Context())
	if err != nil {
		return writeErr(cmd, err)
	}
	defer closeFn()

	fallback, err := loadFallback(envOr("TAJAWAL_FALLBACK", ""))
	if err != nil {
		return writeErr(cmd, err)
	}
	s := editor.Open(cmd.Context(), st, tripID, fallback, editor.WithLogger(app.log))
	return tui.Run(cmd.Context(), s, tui.Options{StateDir: stateDir, Logger: app.log})
}
