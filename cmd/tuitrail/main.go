// Package main provides the CLI entrypoint for tuitrail.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuitrail/internal/config"
	"github.com/verte-zerg/tuitrail/internal/geo"
	"github.com/verte-zerg/tuitrail/internal/model"
	"github.com/verte-zerg/tuitrail/internal/session"
	"github.com/verte-zerg/tuitrail/internal/store"
	"github.com/verte-zerg/tuitrail/internal/tui"
)

var (
	homeLat   float64
	homeLng   float64
	mapZoom   int
	storePath string
	logFile   string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuitrail",
		Short:         "Terminal workout tracker",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runTrackerCmd,
	}

	rootCmd.PersistentFlags().StringVar(&storePath, "db", "", "SQLite database path (default: $XDG_DATA_HOME/tuitrail/tuitrail.db)")
	rootCmd.Flags().Float64Var(&homeLat, "home-lat", 0, "latitude used as the current position")
	rootCmd.Flags().Float64Var(&homeLng, "home-lng", 0, "longitude used as the current position")
	rootCmd.Flags().IntVar(&mapZoom, "zoom", geo.DefaultZoom, "initial map zoom level")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "write diagnostics to this file while the TUI runs")

	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runTrackerCmd(cmd *cobra.Command, _ []string) error {
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

	// The TUI owns the terminal, so diagnostics go nowhere unless a log file is given.
	logger := log.New(io.Discard, "", 0)
	if logFile != "" {
		f, err := tea.LogToFile(logFile, "tuitrail")
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer func() {
			_ = f.Close()
		}()
		logger = log.Default()
	}

	m := tui.NewModel(cfg)
	ctrl := session.New(m, st,
		session.WithLocator(locatorFor(cfg)),
		session.WithLogger(logger),
	)
	m.Bind(ctrl)

	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// resolveConfig merges the config file with flags. Flags win.
func resolveConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "db", &storePath, fileCfg.Store.Path)
	if storePath == "" {
		storePath = config.DefaultDBPath()
	}

	cfg := model.Config{DBPath: storePath, Zoom: geo.DefaultZoom}
	if cmd.Flags().Lookup("zoom") == nil {
		return cfg, nil
	}

	applyIntConfig(cmd, "zoom", &mapZoom, fileCfg.Map.Zoom)
	applyFloatConfig(cmd, "home-lat", &homeLat, fileCfg.Map.HomeLat)
	applyFloatConfig(cmd, "home-lng", &homeLng, fileCfg.Map.HomeLng)
	latSet := cmd.Flags().Changed("home-lat")
	lngSet := cmd.Flags().Changed("home-lng")
	if latSet != lngSet {
		return model.Config{}, fmt.Errorf("--home-lat and --home-lng must be set together")
	}

	cfg.Zoom = mapZoom
	cfg.HasHome = latSet || fileCfg.Map.HomeLat != nil
	if cfg.HasHome {
		cfg.Home = geo.Location{Lat: homeLat, Lng: homeLng}
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg model.Config) error {
	if cfg.Zoom < geo.MinZoom || cfg.Zoom > geo.MaxZoom {
		return fmt.Errorf("--zoom must be between %d and %d", geo.MinZoom, geo.MaxZoom)
	}
	if cfg.HasHome && !cfg.Home.Valid() {
		return fmt.Errorf("home position %s is out of range", cfg.Home)
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return fmt.Errorf("--db must not be empty")
	}
	return nil
}

func locatorFor(cfg model.Config) geo.Locator {
	if !cfg.HasHome {
		return geo.NewFixed(nil, nil)
	}
	return geo.NewFixed(&cfg.Home.Lat, &cfg.Home.Lng)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuitrail configuration
# Uncomment a value to enable it. CLI flags override config values.

[map]
# home-lat = 52.5200      # Latitude used as your current position
# home-lng = 13.4050      # Longitude used as your current position
# zoom = %d               # Initial zoom level (%d-%d)

[store]
# path = %q
`,
		geo.DefaultZoom,
		geo.MinZoom,
		geo.MaxZoom,
		config.DefaultDBPath(),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
