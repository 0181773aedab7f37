package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunWithoutCommandPrintsUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), nil, &stdout, &stderr); code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
	if !strings.Contains(stderr.String(), "usage:") {
		t.Fatalf("expected usage, got %q", stderr.String())
	}
}

func TestRunUnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"serve"}, &stdout, &stderr); code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
}

func TestGenerateThenRefuse(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer

	if code := run(context.Background(), []string{"generate", "--dir", dir}, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit 0, got %d (%s)", code, stderr.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yml")); err != nil {
		t.Fatalf("expected config.yml, got %v", err)
	}
	if code := run(context.Background(), []string{"generate", "--dir", dir}, &stdout, &stderr); code != 1 {
		t.Fatalf("expected exit 1 when config exists, got %d", code)
	}
}

func TestRunFailsOnMissingCredentials(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"generate", "--dir", dir}, &stdout, &stderr); code != 0 {
		t.Fatalf("generate failed: %s", stderr.String())
	}
	t.Setenv("TWIL_ACCOUNT_SID", "")
	t.Setenv("TWIL_AUTH_TOKEN", "")
	t.Setenv("TWIL_FROM", "")
	t.Setenv("DRY_RUN", "")

	stderr.Reset()
	code := run(context.Background(), []string{"run", "--config", filepath.Join(dir, "config.yml")}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "missing messaging credentials") {
		t.Fatalf("expected credential error, got %q", stderr.String())
	}
}

func TestRunFixtureDryRunExitsZero(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"generate", "--dir", dir}, &stdout, &stderr); code != 0 {
		t.Fatalf("generate failed: %s", stderr.String())
	}
	t.Setenv("DRY_RUN", "true")
	t.Setenv("STATS_PROVIDER", "fixture")
	t.Setenv("NOTIFIER_EARLIEST_NOTIFICATION_TIME", "00:00:00")
	t.Setenv("SCHEDULED_POLL_INTERVAL", "1ms")
	t.Setenv("LIVE_POLL_INTERVAL", "1ms")
	t.Setenv("METRICS_ENABLED", "false")

	stdout.Reset()
	code := run(context.Background(), []string{"run", "--config", filepath.Join(dir, "config.yml"), "--twil-from", "+15550000000"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (%s)", code, stderr.String())
	}
	out := stdout.String()
	if !strings.Contains(out, "dry run message") || !strings.Contains(out, "Final score") {
		t.Fatalf("expected dry run notifications in output, got %s", out)
	}
}
