package cli

import (
	"errors"
	"strings"

	"tajawal-cli/internal/editor"
	"tajawal-cli/internal/model"

	"github.com/spf13/cobra"
)

// mutationResult is the output of every one-shot edit. Applied is false when the input was
// rejected or pointed at nothing; the plan is then left untouched and nothing is saved.
type mutationResult struct {
	Applied    bool        `json:"applied"`
	TripID     string      `json:"tripId"`
	ActivityID string      `json:"activityId,omitempty"`
	Days       []model.Day `json:"days"`
}

func newActivitiesCmd(app *App) *cobra.Command {
	var fallbackPath string

	cmd := &cobra.Command{
		Use:     "activities",
		Aliases: []string{"activity", "act"},
		Short:   "Edit the activities of a trip",
	}
	cmd.PersistentFlags().StringVar(&fallbackPath, "fallback", envOr("TAJAWAL_FALLBACK", ""), "JSON file with the fallback plan (default: built-in demo plan)")

	cmd.AddCommand(newActivitiesAddCmd(app, &fallbackPath))
	cmd.AddCommand(newActivitiesEditCmd(app, &fallbackPath))
	cmd.AddCommand(newActivitiesDeleteCmd(app, &fallbackPath))
	cmd.AddCommand(newActivitiesMoveCmd(app, &fallbackPath))
	cmd.AddCommand(newActivitiesDoneCmd(app))

	return cmd
}

// withSession opens an editor session, applies op and saves only when op applied.
func withSession(cmd *cobra.Command, app *App, fallbackPath string, op func(s *editor.Session) (string, bool)) error {
	fallback, err := loadFallback(fallbackPath)
	if err != nil {
		return writeErr(cmd, err)
	}
	st, closeFn, err := app.openStore(cmd.Context())
	if err != nil {
		return writeErr(cmd, err)
	}
	defer closeFn()

	tripID := app.tripID()
	s := editor.Open(cmd.Context(), st, tripID, fallback, editor.WithLogger(app.log))
	activityID, applied := op(s)
	if applied {
		if err := s.Save(cmd.Context()); err != nil {
			return writeErr(cmd, err)
		}
	} else {
		app.log.Info("edit not applied", "trip", tripID, "command", cmd.Name())
	}
	return writeOut(cmd, app, mutationResult{
		Applied:    applied,
		TripID:     tripID,
		ActivityID: activityID,
		Days:       s.Days(),
	})
}

func newActivitiesAddCmd(app *App, fallbackPath *string) *cobra.Command {
	var day int
	var d model.Draft

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append an activity to a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, *fallbackPath, func(s *editor.Session) (string, bool) {
				return s.AddActivity(dayIndex(s.Days(), day), d)
			})
		},
	}

	cmd.Flags().IntVar(&day, "day", 1, "Day number, as in the plan's \"day\" field")
	cmd.Flags().StringVar(&d.Title, "title", "", "Title (required)")
	cmd.Flags().StringVar(&d.Time, "time", "", "Time, e.g. 09:30")
	cmd.Flags().StringVar(&d.Location, "location", "", "Location")
	cmd.Flags().StringVar(&d.Cost, "cost", "", "Cost (non-negative number)")
	cmd.Flags().StringVar(&d.Notes, "notes", "", "Notes")

	return cmd
}

func newActivitiesEditCmd(app *App, fallbackPath *string) *cobra.Command {
	var day int
	var title, when, location, notes string
	var cost, lat, lng float64
	var clearCost, done bool

	cmd := &cobra.Command{
		Use:   "edit <activity-id>",
		Short: "Change fields of an activity (only flags given are applied)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var p model.Patch
			if flags.Changed("title") {
				p.Title = model.String(title)
			}
			if flags.Changed("time") {
				p.Time = model.String(when)
			}
			if flags.Changed("location") {
				p.Location = model.String(location)
			}
			if flags.Changed("notes") {
				p.Notes = model.String(notes)
			}
			if flags.Changed("cost") {
				p.Cost = model.Float(cost)
			}
			p.ClearCost = clearCost
			if flags.Changed("done") {
				p.Done = model.Bool(done)
			}
			if flags.Changed("lat") {
				p.Lat = model.Float(lat)
			}
			if flags.Changed("lng") {
				p.Lng = model.Float(lng)
			}
			if p.Empty() {
				return writeErr(cmd, errors.New("nothing to change (pass at least one field flag)"))
			}

			id := strings.TrimSpace(args[0])
			return withSession(cmd, app, *fallbackPath, func(s *editor.Session) (string, bool) {
				return id, s.EditActivity(dayIndex(s.Days(), day), id, p)
			})
		},
	}

	cmd.Flags().IntVar(&day, "day", 1, "Day number, as in the plan's \"day\" field")
	cmd.Flags().StringVar(&title, "title", "", "New title (cannot be blank)")
	cmd.Flags().StringVar(&when, "time", "", "New time (empty clears)")
	cmd.Flags().StringVar(&location, "location", "", "New location (empty clears)")
	cmd.Flags().StringVar(&notes, "notes", "", "New notes (empty clears)")
	cmd.Flags().Float64Var(&cost, "cost", 0, "New cost")
	cmd.Flags().BoolVar(&clearCost, "clear-cost", false, "Remove the cost")
	cmd.Flags().BoolVar(&done, "done", false, "Set completion")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "Longitude")

	return cmd
}

func newActivitiesDeleteCmd(app *App, fallbackPath *string) *cobra.Command {
	var day int

	cmd := &cobra.Command{
		Use:   "delete <activity-id>",
		Short: "Remove an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			return withSession(cmd, app, *fallbackPath, func(s *editor.Session) (string, bool) {
				return id, s.DeleteActivity(dayIndex(s.Days(), day), id)
			})
		},
	}

	cmd.Flags().IntVar(&day, "day", 1, "Day number, as in the plan's \"day\" field")

	return cmd
}

func newActivitiesMoveCmd(app *App, fallbackPath *string) *cobra.Command {
	var day, to int
	var over string

	cmd := &cobra.Command{
		Use:   "move <activity-id>",
		Short: "Reorder an activity within its day (--over <activity-id> or --to <position>)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			over = strings.TrimSpace(over)
			if (over == "") == (to == 0) {
				return writeErr(cmd, errors.New("pass exactly one of --over or --to"))
			}
			id := strings.TrimSpace(args[0])
			return withSession(cmd, app, *fallbackPath, func(s *editor.Session) (string, bool) {
				if over != "" {
					return id, s.MoveActivity(dayIndex(s.Days(), day), id, over)
				}
				days := s.Days()
				i := dayIndex(days, day)
				if i < 0 || i >= len(days) {
					return id, false
				}
				return id, s.ReorderActivities(i, days[i].FindActivity(id), to-1)
			})
		},
	}

	cmd.Flags().IntVar(&day, "day", 1, "Day number, as in the plan's \"day\" field")
	cmd.Flags().StringVar(&over, "over", "", "Drop onto the position of this activity")
	cmd.Flags().IntVar(&to, "to", 0, "Target position (1-based)")

	return cmd
}

// done persists immediately without an editor session, like ticking a box in the plan view.
func newActivitiesDoneCmd(app *App) *cobra.Command {
	var day int

	cmd := &cobra.Command{
		Use:   "done <activity-id>",
		Short: "Toggle completion of an activity and save immediately",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tripID := app.tripID()
			id := strings.TrimSpace(args[0])
			st, closeFn, err := app.openStore(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()

			days, _ := st.Resolve(cmd.Context(), tripID)
			applied, err := st.ToggleDone(cmd.Context(), tripID, dayIndex(days, day), id)
			if err != nil {
				return writeErr(cmd, err)
			}
			days, _ = st.Load(cmd.Context(), tripID)
			if days == nil {
				days = []model.Day{}
			}
			return writeOut(cmd, app, mutationResult{Applied: applied, TripID: tripID, ActivityID: id, Days: days})
		},
	}

	cmd.Flags().IntVar(&day, "day", 1, "Day number, as in the plan's \"day\" field")

	return cmd
}
