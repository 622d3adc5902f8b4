package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/surveyctl/internal/testutil/testlog"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestRemainingCatsEndToEnd(t *testing.T) {
	dir := t.TempDir()
	jobIDs := filepath.Join(dir, "jobids.txt")
	all := filepath.Join(dir, "all.out")
	remain := filepath.Join(dir, "remain.txt")
	metrics := filepath.Join(dir, "catalogs.prom")
	writeFile(t, jobIDs, "batch=123\nbatch=456\n")
	writeFile(t, all, "a.fits\nb.fits\nc.fits\n")
	writeFile(t, filepath.Join(dir, "stdout.out123"), "x y Commitedload a.fits\n")
	writeFile(t, filepath.Join(dir, "stdout.out456"), "x y Commitedload b.fits\n")

	var out bytes.Buffer
	cmd := newRootCmd(&out, testlog.Start(t))
	cmd.SetArgs([]string{
		"--jobids", jobIDs,
		"--all_cats", all,
		"--remain", remain,
		"--logdir", dir,
		"--metrics-file", metrics,
	})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), "all=3, loaded=2, remain=1") {
		t.Fatalf("unexpected summary: %q", out.String())
	}
	data, err := os.ReadFile(remain)
	if err != nil {
		t.Fatalf("read remainder: %v", err)
	}
	if string(data) != "c.fits\n" {
		t.Fatalf("unexpected remainder: %q", data)
	}
	if _, err := os.Stat(metrics); err != nil {
		t.Fatalf("expected metrics file: %v", err)
	}
}

func TestRemainingCatsConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "remainingcats.toml")
	writeFile(t, cfgPath, `
jobids = "from-config.txt"
marker = "LOADED"
`)
	cmd := newRootCmd(&bytes.Buffer{}, testlog.Start(t))
	if err := cmd.ParseFlags([]string{"--config", cfgPath, "--jobids", "from-flag.txt"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	opts := &cliOptions{configPath: cfgPath}
	opts.cfg.JobIDs = "from-flag.txt"
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		t.Fatalf("resolve config: %v", err)
	}
	if cfg.JobIDs != "from-flag.txt" {
		t.Fatalf("flag must win over config: %q", cfg.JobIDs)
	}
	if cfg.Marker != "LOADED" {
		t.Fatalf("unexpected marker: %q", cfg.Marker)
	}
	if cfg.Remain != "remaining_cats.txt" {
		t.Fatalf("unexpected remain default: %q", cfg.Remain)
	}
}

func TestRemainingCatsMissingJobIDs(t *testing.T) {
	dir := t.TempDir()
	cmd := newRootCmd(&bytes.Buffer{}, testlog.Start(t))
	cmd.SetArgs([]string{"--jobids", filepath.Join(dir, "missing.txt"), "--logdir", dir})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error for missing job id file")
	}
}
