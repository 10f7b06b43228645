package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestAnalyzeBatch_ArchiveWithCollisionSuffix(t *testing.T) {
	home, _ := setupHome(t)

	// Two CSV files with the same basename in different directories
	d1 := filepath.Join(home, "d1")
	d2 := filepath.Join(home, "d2")
	for _, d := range []string{d1, d2} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", d, err)
		}
		if err := os.WriteFile(filepath.Join(d, "metrics.csv"), []byte(vaxCSV), 0o644); err != nil {
			t.Fatalf("write csv: %v", err)
		}
	}

	runCmd(t, "init", "batch", "-d", "batch workspace")
	out := runCmd(t, "analyze-batch", filepath.Join(home, "d*", "metrics.csv"), "-w", "batch", "--jobs", "2", "-k", "gaps")

	first := strings.Index(out, "[1/2] Processing metrics.csv")
	second := strings.Index(out, "[2/2] Processing metrics.csv")
	if first < 0 || second < first {
		t.Fatalf("progress not in input order: %s", out)
	}
	if !strings.Contains(out, "✓ Analyzed 2 files") {
		t.Fatalf("missing completion line: %s", out)
	}
	reports := filepath.Join(home, ".vaxkpi", "workspaces", "batch", "reports")
	for _, name := range []string{"metrics.report.md", "metrics__2.report.md"} {
		if _, err := os.Stat(filepath.Join(reports, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
}

func TestAnalyzeBatch_QuietAndStdout(t *testing.T) {
	home, csvPath := setupHome(t)
	other := filepath.Join(home, "other.csv")
	if err := os.WriteFile(other, []byte(vaxCSV), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	out := runCmd(t, "analyze-batch", csvPath, other, csvPath, "-k", "kpis")
	if strings.Count(out, "[KPIS]") != 2 {
		t.Fatalf("expected two de-duplicated reports: %s", out)
	}
	if strings.Index(out, "File: other.csv") > strings.Index(out, "File: vax.csv") {
		t.Fatalf("reports not sorted by path: %s", out)
	}

	out = runCmd(t, "analyze-batch", filepath.Join(home, "*.csv"), "--quiet", "-k", "kpis")
	if strings.TrimSpace(out) != "" {
		t.Fatalf("expected no output with --quiet, got: %s", out)
	}
}

func TestAnalyzeBatch_Errors(t *testing.T) {
	home, csvPath := setupHome(t)
	if _, err := execCmd("analyze-batch", filepath.Join(home, "nothing*.csv")); err == nil {
		t.Fatal("expected error when no files match")
	}
	if _, err := execCmd("analyze-batch", csvPath, "--jobs", "0"); err == nil {
		t.Fatal("expected error for --jobs 0")
	}

	bad := filepath.Join(home, "broken.pdf")
	if err := os.WriteFile(bad, []byte("%PDF"), 0o644); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	_, err := execCmd("analyze-batch", csvPath, bad, "--jobs", "2", "--quiet")
	if err == nil || !strings.Contains(err.Error(), "broken.pdf") {
		t.Fatalf("expected error naming broken.pdf, got %v", err)
	}
}

func TestAnalyzeBatch_ArchiveFailureStopsRemainingJobs(t *testing.T) {
	home, _ := setupHome(t)
	for _, name := range []string{"a.csv", "b.csv", "c.csv"} {
		if err := os.WriteFile(filepath.Join(home, name), []byte(vaxCSV), 0o644); err != nil {
			t.Fatalf("write csv: %v", err)
		}
	}
	runCmd(t, "init", "blocked")
	reports := filepath.Join(home, ".vaxkpi", "workspaces", "blocked", "reports")
	if err := os.RemoveAll(reports); err != nil {
		t.Fatalf("remove reports: %v", err)
	}
	if err := os.WriteFile(reports, []byte("not a dir"), 0o644); err != nil {
		t.Fatalf("block reports: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := execCmd("analyze-batch", filepath.Join(home, "[abc].csv"), "-w", "blocked", "--jobs", "2", "-k", "kpis")
		done <- err
	}()
	select {
	case err := <-done:
		if err == nil || !strings.Contains(err.Error(), "reports dir") {
			t.Fatalf("expected archive error, got %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("analyze-batch did not return after archive failure")
	}

	out := runCmd(t, "analyze", filepath.Join(home, "a.csv"), "-k", "kpis")
	if !strings.Contains(out, "[KPIS]") {
		t.Fatalf("follow-up command failed: %s", out)
	}
}
