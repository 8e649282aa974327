package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuitrail/internal/geo"
	"github.com/verte-zerg/tuitrail/internal/model"
	"github.com/verte-zerg/tuitrail/internal/session"
	"github.com/verte-zerg/tuitrail/internal/stats"
	"github.com/verte-zerg/tuitrail/internal/store"
	"github.com/verte-zerg/tuitrail/internal/workout"
)

const defaultTrendWindow = 5

var (
	addLat       float64
	addLng       float64
	addType      string
	addDistance  float64
	addDuration  float64
	addCadence   float64
	addElevation float64

	filterType  string
	filterSince string
	filterLast  int
	statsWindow int

	exportOutput string
	resetYes     bool
)

// cliPresenter collects controller notifications for non-interactive commands.
type cliPresenter struct {
	validation string
	persistErr error
}

func (p *cliPresenter) ShowForm() {}
func (p *cliPresenter) HideForm() {}
func (p *cliPresenter) RenderMarker(geo.Location, workout.Kind, string) {}
func (p *cliPresenter) RenderListEntry(*workout.Workout) {}
func (p *cliPresenter) CenterMapOn(geo.Location) {}
func (p *cliPresenter) NotifyValidationFailure(reason string) { p.validation = reason }
func (p *cliPresenter) NotifyPersistenceFailure(err error) { p.persistErr = err }
func (p *cliPresenter) Restart() {}

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a workout without the TUI",
		Args:  cobra.NoArgs,
		RunE:  runAddCmd,
	}
	cmd.Flags().Float64Var(&addLat, "lat", 0, "latitude of the workout")
	cmd.Flags().Float64Var(&addLng, "lng", 0, "longitude of the workout")
	cmd.Flags().StringVar(&addType, "type", "running", "workout type (running or cycling)")
	cmd.Flags().Float64Var(&addDistance, "distance", 0, "distance in km")
	cmd.Flags().Float64Var(&addDuration, "duration", 0, "duration in minutes")
	cmd.Flags().Float64Var(&addCadence, "cadence", 0, "cadence in steps/min (running)")
	cmd.Flags().Float64Var(&addElevation, "elevation", 0, "elevation gain in meters (cycling)")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lng")
	return cmd
}

func runAddCmd(cmd *cobra.Command, _ []string) error {
	kind, err := workout.ParseKind(addType)
	if err != nil {
		return err
	}
	value := addCadence
	switch kind {
	case workout.Running:
		if cmd.Flags().Changed("elevation") {
			return fmt.Errorf("--elevation applies to cycling workouts")
		}
	case workout.Cycling:
		if cmd.Flags().Changed("cadence") {
			return fmt.Errorf("--cadence applies to running workouts")
		}
		value = addElevation
	}

	return withStore(cmd, func(ctx context.Context, st *store.Store) error {
		p := &cliPresenter{}
		ctrl := session.New(p, st, session.WithLogger(log.New(os.Stderr, "tuitrail: ", 0)))
		if err := ctrl.OnStartup(ctx); err != nil {
			return fmt.Errorf("refusing to overwrite unreadable workouts: %w", err)
		}
		ctrl.OnLocationPicked(geo.Location{Lat: addLat, Lng: addLng})
		w, err := ctrl.OnFormSubmitted(ctx, session.FormInput{
			Kind:        kind,
			DistanceKm:  addDistance,
			DurationMin: addDuration,
			KindValue:   value,
		})
		if p.validation != "" {
			return fmt.Errorf("invalid workout: %s", p.validation)
		}
		if err != nil {
			return fmt.Errorf("workout not recorded: %w", err)
		}
		if p.persistErr != nil {
			return fmt.Errorf("failed to save workout: %w", p.persistErr)
		}
		e := stats.EntryFor(w)
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s  %s  %s  %s  (%s)\n",
			e.Icon, e.Description, e.Distance, e.Duration, e.Metric, e.Value, e.ID)
		return err
	})
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded workouts",
		Args:  cobra.NoArgs,
		RunE:  runListCmd,
	}
	addFilterFlags(cmd)
	return cmd
}

func runListCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := statsConfigFromFlags()
	if err != nil {
		return err
	}
	return withStore(cmd, func(ctx context.Context, st *store.Store) error {
		ws, err := loadWorkouts(ctx, st)
		if err != nil {
			return err
		}
		return stats.WriteList(cmd.OutOrStdout(), ws, cfg)
	})
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show workout totals and trends",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	addFilterFlags(cmd)
	cmd.Flags().IntVar(&statsWindow, "window", defaultTrendWindow, "moving average window for the distance trend")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := statsConfigFromFlags()
	if err != nil {
		return err
	}
	if statsWindow <= 0 {
		return fmt.Errorf("--window must be > 0")
	}
	cfg.Window = statsWindow
	return withStore(cmd, func(ctx context.Context, st *store.Store) error {
		ws, err := loadWorkouts(ctx, st)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		return stats.WriteReport(out, ws, cfg, stats.TerminalWidth(), stats.ShouldUseColor(out))
	})
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write stored workouts as JSON",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	return withStore(cmd, func(ctx context.Context, st *store.Store) error {
		data, err := st.Read(ctx)
		if err != nil {
			return err
		}
		ws := workout.NewStore()
		if data != nil {
			if ws, err = workout.Deserialize(data); err != nil {
				return fmt.Errorf("stored workouts are unreadable: %w", err)
			}
		}
		out, err := ws.Serialize()
		if err != nil {
			return fmt.Errorf("failed to encode workouts: %w", err)
		}
		if at, ok, err := st.UpdatedAt(ctx); err == nil && ok {
			logErrf("Exporting %d workouts saved %s\n", ws.Len(), at.Local().Format(time.DateTime))
		}
		if exportOutput == "" {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		}
		if err := os.WriteFile(exportOutput, append(out, '\n'), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOutput, err)
		}
		logErrf("Wrote %s\n", exportOutput)
		return nil
	})
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase all stored workouts",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetYes, "yes", false, "confirm erasing every workout")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if !resetYes {
		return fmt.Errorf("refusing to erase workouts without --yes")
	}
	return withStore(cmd, func(ctx context.Context, st *store.Store) error {
		p := &cliPresenter{}
		ctrl := session.New(p, st)
		if err := ctrl.OnStartup(ctx); err != nil {
			logErrln("stored workouts were unreadable; erasing anyway")
		}
		count := len(ctrl.Workouts())
		if err := ctrl.OnReset(ctx); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Erased %d %s.\n", count, plural(count, "workout"))
		return err
	})
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&filterType, "type", "", "workout type filter (running or cycling)")
	cmd.Flags().StringVar(&filterSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&filterLast, "last", 0, "limit to last N workouts")
}

func statsConfigFromFlags() (model.StatsConfig, error) {
	var cfg model.StatsConfig
	if filterType != "" {
		kind, err := workout.ParseKind(filterType)
		if err != nil {
			return cfg, fmt.Errorf("invalid --type value: %w", err)
		}
		cfg.Kind = kind
	}
	if filterSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", filterSince, time.Local)
		if err != nil {
			return cfg, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	if filterLast < 0 {
		return cfg, fmt.Errorf("--last must be >= 0")
	}
	cfg.Last = filterLast
	return cfg, nil
}

// withStore opens the configured database for the duration of fn.
func withStore(cmd *cobra.Command, fn func(context.Context, *store.Store) error) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	return fn(cmd.Context(), st)
}

func loadWorkouts(ctx context.Context, st *store.Store) ([]*workout.Workout, error) {
	ctrl := session.New(&cliPresenter{}, st)
	if err := ctrl.OnStartup(ctx); err != nil {
		return nil, fmt.Errorf("failed to load workouts: %w", err)
	}
	return ctrl.Workouts(), nil
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
