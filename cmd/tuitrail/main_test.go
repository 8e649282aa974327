package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func isolateConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)
	return filepath.Join(dir, "tuitrail", "config.toml")
}

func TestAddListResetFlow(t *testing.T) {
	isolateConfig(t)
	db := filepath.Join(t.TempDir(), "workouts.db")

	out, err := runCLI(t, "add", "--db", db, "--lat", "10", "--lng", "20",
		"--distance", "5", "--duration", "25", "--cadence", "170")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "Running on") || !strings.Contains(out, "5.00 min/km") {
		t.Fatalf("unexpected add output: %s", out)
	}

	if _, err := runCLI(t, "add", "--db", db, "--lat", "10", "--lng", "20", "--type", "cycling",
		"--distance", "20", "--duration", "60", "--elevation=-30"); err != nil {
		t.Fatalf("add cycling: %v", err)
	}

	out, err = runCLI(t, "list", "--db", db)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "20.00 km/h") || !strings.Contains(out, "-30 m") {
		t.Fatalf("unexpected list output: %s", out)
	}

	out, err = runCLI(t, "list", "--db", db, "--type", "running")
	if err != nil || strings.Contains(out, "km/h") {
		t.Fatalf("type filter failed: %v\n%s", err, out)
	}

	if _, err := runCLI(t, "reset", "--db", db); err == nil {
		t.Fatalf("expected reset without --yes to fail")
	}
	out, err = runCLI(t, "reset", "--db", db, "--yes")
	if err != nil || !strings.Contains(out, "Erased 2 workouts.") {
		t.Fatalf("reset: %v\n%s", err, out)
	}

	out, err = runCLI(t, "list", "--db", db)
	if err != nil || !strings.Contains(out, "No workouts found.") {
		t.Fatalf("expected empty list: %v\n%s", err, out)
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	isolateConfig(t)
	db := filepath.Join(t.TempDir(), "workouts.db")

	cases := []struct {
		name string
		args []string
		want string
	}{
		{name: "zero distance", args: []string{"--distance", "0", "--duration", "25", "--cadence", "170"}, want: "distance"},
		{name: "missing cadence", args: []string{"--distance", "5", "--duration", "25"}, want: "cadence"},
		{name: "elevation on run", args: []string{"--distance", "5", "--duration", "25", "--elevation", "10"}, want: "--elevation"},
		{name: "unknown type", args: []string{"--type", "swim", "--distance", "5", "--duration", "25"}, want: "unknown workout kind"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			args := append([]string{"add", "--db", db, "--lat", "10", "--lng", "20"}, tc.args...)
			_, err := runCLI(t, args...)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}

	out, err := runCLI(t, "list", "--db", db)
	if err != nil || !strings.Contains(out, "No workouts found.") {
		t.Fatalf("rejected workouts must not be stored: %v\n%s", err, out)
	}
}

func TestExportWritesEnvelope(t *testing.T) {
	isolateConfig(t)
	db := filepath.Join(t.TempDir(), "workouts.db")
	dest := filepath.Join(t.TempDir(), "export.json")

	out, err := runCLI(t, "export", "--db", db)
	if err != nil || strings.TrimSpace(out) != `{"version":1,"workouts":[]}` {
		t.Fatalf("unexpected empty export: %v %q", err, out)
	}

	if _, err := runCLI(t, "add", "--db", db, "--lat", "1", "--lng", "2",
		"--distance", "5", "--duration", "30", "--cadence", "160"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := runCLI(t, "export", "--db", db, "-o", dest); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), `"kind":"running"`) {
		t.Fatalf("unexpected export: %s", data)
	}
}

func TestResolveConfigFromFile(t *testing.T) {
	path := isolateConfig(t)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	content := "[map]\nhome-lat = 48.85\nhome-lng = 2.35\nzoom = 15\n\n[store]\npath = \"/tmp/trail.db\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	root := newRootCmd()
	if err := root.ParseFlags([]string{"--zoom", "10"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	cfg, err := resolveConfig(root)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !cfg.HasHome || cfg.Home.Lat != 48.85 || cfg.Home.Lng != 2.35 {
		t.Fatalf("unexpected home %+v", cfg)
	}
	if cfg.Zoom != 10 {
		t.Fatalf("flag should override config zoom, got %d", cfg.Zoom)
	}
	if cfg.DBPath != "/tmp/trail.db" {
		t.Fatalf("unexpected db path %q", cfg.DBPath)
	}
}

func TestResolveConfigRejectsBadValues(t *testing.T) {
	isolateConfig(t)
	cases := [][]string{
		{"--zoom", "30"},
		{"--home-lat", "10"},
		{"--home-lat", "95", "--home-lng", "0"},
	}
	for _, args := range cases {
		root := newRootCmd()
		if err := root.ParseFlags(args); err != nil {
			t.Fatalf("parse flags %v: %v", args, err)
		}
		if _, err := resolveConfig(root); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}

func TestApplyConfigRespectsFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	var zoom int
	cmd.Flags().IntVar(&zoom, "zoom", 13, "")
	fromFile := 16
	applyIntConfig(cmd, "zoom", &zoom, &fromFile)
	if zoom != 16 {
		t.Fatalf("expected config value, got %d", zoom)
	}

	if err := cmd.ParseFlags([]string{"--zoom", "9"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	applyIntConfig(cmd, "zoom", &zoom, &fromFile)
	if zoom != 9 {
		t.Fatalf("flag should win, got %d", zoom)
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	tmpl := defaultConfigTemplate()
	for _, want := range []string{"[map]", "[store]", "home-lat", "zoom = 13"} {
		if !strings.Contains(tmpl, want) {
			t.Fatalf("template missing %q", want)
		}
	}
}
