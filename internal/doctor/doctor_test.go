package doctor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mattjoyce/inlet/internal/config"
)

func TestRunHealthy(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "inlet.db")
	cfg := &config.Config{
		WebhookSecret: "s3cret",
		DatabaseURL:   dbPath,
	}

	result := Run(cfg)
	if !result.Healthy {
		t.Fatalf("expected healthy, got: %s", result.Report())
	}

	report := result.Report()
	if !strings.Contains(report, "all checks passed") {
		t.Errorf("report missing pass summary:\n%s", report)
	}
}

func TestRunMissingSecret(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "inlet.db")
	cfg := &config.Config{
		DatabaseURL: dbPath,
	}

	result := Run(cfg)
	if result.Healthy {
		t.Fatal("expected unhealthy result without WEBHOOK_SECRET")
	}
	if !strings.Contains(result.Report(), "WEBHOOK_SECRET") {
		t.Errorf("report should name the missing variable:\n%s", result.Report())
	}
}

func TestRunBadDatabaseDir(t *testing.T) {
	// Parent "directory" is actually a file.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := writeFile(blocker); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		WebhookSecret: "s3cret",
		DatabaseURL:   filepath.Join(blocker, "inlet.db"),
	}

	result := Run(cfg)
	if result.Healthy {
		t.Fatal("expected unhealthy result for database path under a file")
	}
}

func writeFile(path string) error {
	return os.WriteFile(path, []byte("x"), 0o644)
}
