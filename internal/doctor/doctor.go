// Package doctor runs preflight checks for the inlet environment: secret
// presence, database path health, and store reachability. It mirrors what
// /health/ready verifies at runtime, but as a one-shot CLI report.
package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattjoyce/inlet/internal/config"
	"github.com/mattjoyce/inlet/internal/message"
	"github.com/mattjoyce/inlet/internal/storage"
)

// Check is a single preflight finding.
type Check struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// Result holds the outcome of a doctor run.
type Result struct {
	Healthy bool    `json:"healthy"`
	Checks  []Check `json:"checks"`
}

func (r *Result) add(name string, ok bool, detail string) {
	r.Checks = append(r.Checks, Check{Name: name, OK: ok, Detail: detail})
	if !ok {
		r.Healthy = false
	}
}

// Report renders the result as a human-readable pass/fail listing.
func (r *Result) Report() string {
	var b strings.Builder
	for _, c := range r.Checks {
		status := "ok  "
		if !c.OK {
			status = "FAIL"
		}
		fmt.Fprintf(&b, "%s  %s", status, c.Name)
		if c.Detail != "" {
			fmt.Fprintf(&b, ": %s", c.Detail)
		}
		b.WriteByte('\n')
	}
	if r.Healthy {
		b.WriteString("\nall checks passed\n")
	} else {
		b.WriteString("\nsome checks failed; inlet will not be ready to serve\n")
	}
	return b.String()
}

// Run executes all checks against the gathered configuration.
func Run(cfg *config.Config) *Result {
	r := &Result{Healthy: true}

	checkSecret(r, cfg)
	checkDatabase(r, cfg)

	return r
}

func checkSecret(r *Result, cfg *config.Config) {
	if cfg.WebhookSecret == "" {
		r.add("webhook secret", false, "WEBHOOK_SECRET is not set; serve will refuse to start")
		return
	}
	r.add("webhook secret", true, "configured")
}

func checkDatabase(r *Result, cfg *config.Config) {
	path := cfg.DatabasePath()
	if path == "" {
		r.add("database path", false, "DATABASE_URL resolves to an empty path")
		return
	}

	dir := filepath.Dir(path)
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		r.add("database path", false, fmt.Sprintf("%s exists but is not a directory", dir))
		return
	}
	r.add("database path", true, path)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := storage.Open(ctx, path)
	if err != nil {
		r.add("database open", false, err.Error())
		return
	}
	defer db.Close()
	r.add("database open", true, "")

	if err := message.NewStore(db).Ping(ctx); err != nil {
		r.add("messages table", false, err.Error())
		return
	}
	r.add("messages table", true, "")
}
