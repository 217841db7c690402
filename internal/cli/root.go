package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"tajawal-cli/internal/applog"
	"tajawal-cli/internal/config"
	"tajawal-cli/internal/format"
	"tajawal-cli/internal/store"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	Storage    string
	TripID     string
	PrettyJSON bool
	LogLevel   string

	cfg *config.Config
	log *slog.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "tajawal",
		Short:        "Local-first trip itinerary store and editor",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Edit the default trip in the terminal editor
  tajawal

  # Print a trip plan (shortcut for: tajawal show <trip-id>)
  tajawal show paris

  # Script edits
  tajawal activities add --trip paris --day 1 --title "Louvre" --time 09:00 --cost 22
  tajawal activities move --trip paris --day 1 <activity-id> --over <activity-id>

  # Share
  tajawal export paris --to ./out --budget
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive editor.
			if len(args) == 0 {
				return runEditor(cmd, app, "")
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.init(cmd)
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", "", "Data directory for local backends (overrides storage.dir)")
	cmd.PersistentFlags().StringVar(&app.Storage, "storage", "", "Storage backend (sqlite|file|memory|redis|postgres)")
	cmd.PersistentFlags().StringVar(&app.TripID, "trip", "", "Trip id (default: editor.default_trip)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")

	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newEnsureCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newActivitiesCmd(app))
	cmd.AddCommand(newBudgetCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newRenderCmd(app))
	cmd.AddCommand(newDeleteCmd(app))
	cmd.AddCommand(newTripsCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// init loads configuration and applies flag overrides. Flags beat env, env beats the file.
func (app *App) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return writeErr(cmd, err)
	}
	if app.Dir != "" {
		cfg.Storage.Dir = app.Dir
	}
	if app.Storage != "" {
		cfg.Storage.Backend = app.Storage
	}
	if app.LogLevel != "" {
		cfg.Log.Level = app.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return writeErr(cmd, err)
	}
	app.cfg = cfg
	app.log = applog.New(cmd.ErrOrStderr(), cfg.Log)
	return nil
}

func (app *App) tripID() string {
	if id := strings.TrimSpace(app.TripID); id != "" {
		return id
	}
	if app.cfg != nil {
		return app.cfg.Editor.DefaultTrip
	}
	return "demo"
}

// resolveTrip prefers a positional trip id over --trip.
func (app *App) resolveTrip(args []string) string {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0])
	}
	return app.tripID()
}

// openStore opens the configured backend. The returned func releases it.
func (app *App) openStore(ctx context.Context) (*store.Itineraries, func(), error) {
	if app.cfg == nil {
		return nil, nil, errors.New("configuration not loaded")
	}
	dataDir, err := app.cfg.DataDir()
	if err != nil {
		return nil, nil, err
	}
	slots, err := store.OpenSlots(ctx, app.cfg.Storage, dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	app.log.Debug("storage opened", "backend", app.cfg.Storage.Backend, "dir", dataDir)
	s := store.New(slots,
		store.WithKeyPrefix(app.cfg.Storage.KeyPrefix),
		store.WithLogger(app.log),
	)
	closeFn := func() {
		if err := slots.Close(); err != nil {
			app.log.Warn("storage close failed", "err", err)
		}
	}
	return s, closeFn, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, data any) error {
	return format.WriteEnvelope(cmd.OutOrStdout(), data, nil, app.PrettyJSON)
}

func writeOutMeta(cmd *cobra.Command, app *App, data any, meta map[string]any) error {
	return format.WriteEnvelope(cmd.OutOrStdout(), data, meta, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
