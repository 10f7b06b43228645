package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/KaramelBytes/vaxkpi-cli/internal/analysis"
)

const vaxCSV = "Date,Region,VaccinationType,IsVaccinated,Doses\n" +
	"2024-01-05,North,Pfizer,true,10\n" +
	"2024-01-20,South,Moderna,false,20\n" +
	"2024-02-10,North,Pfizer,true,30\n" +
	"2024-03-02,East,AstraZeneca,true,40\n"

// resetFlags restores every flag to its default so invocations don't leak
// state into each other.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execCmd runs the root command with args and returns its combined output.
func execCmd(args ...string) (string, error) {
	resetFlags(rootCmd)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execCmd(args...)
	if err != nil {
		t.Fatalf("command %v failed: %v\n%s", args, err, out)
	}
	return out
}

// setupHome isolates config and workspaces under a temp HOME and writes the
// sample dataset into it.
func setupHome(t *testing.T) (home, csvPath string) {
	t.Helper()
	home = t.TempDir()
	t.Setenv("HOME", home)
	csvPath = filepath.Join(home, "vax.csv")
	if err := os.WriteFile(csvPath, []byte(vaxCSV), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return home, csvPath
}

func TestCLI_Init_Analyze_List(t *testing.T) {
	home, csvPath := setupHome(t)

	runCmd(t, "init", "itest", "-d", "integration test")
	if _, err := execCmd("init", "itest"); err == nil {
		t.Fatal("expected error when re-initializing a workspace")
	}

	out := runCmd(t, "analyze", csvPath, "-k", "trends,vaccination", "-w", "itest", "--desc", "first report")
	if !strings.Contains(out, "✓ Added report to workspace 'itest' as vax.report.md") {
		t.Fatalf("unexpected analyze output: %s", out)
	}
	report := filepath.Join(home, ".vaxkpi", "workspaces", "itest", "reports", "vax.report.md")
	body, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	for _, want := range []string{"[TRENDS]", "[VACCINATION BREAKDOWN]", "Vaccinated: 3 of 4"} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("report missing %q:\n%s", want, body)
		}
	}

	out = runCmd(t, "list", "--reports", "-w", "itest")
	if !strings.Contains(out, "vax.report.md from vax.csv [trends,vaccination; ok] (first report)") {
		t.Fatalf("unexpected list output: %s", out)
	}
	out = runCmd(t, "list", "--workspaces")
	if !strings.Contains(out, "- itest") {
		t.Fatalf("workspace not listed: %s", out)
	}
	if _, err := execCmd("list"); err == nil {
		t.Fatal("expected error without --workspaces or --reports")
	}
}

func TestCLI_AnalyzeOutputs(t *testing.T) {
	home, csvPath := setupHome(t)

	out := runCmd(t, "analyze", csvPath, "--format", "json", "--kind", "kpis", "--kpi-col", "Doses")
	var res analysis.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	kpi := res.Results[analysis.KindKPIs]
	if kpi == nil || kpi.KPI == nil || kpi.KPI.Mean != 25 || kpi.KPI.Count != 4 {
		t.Fatalf("unexpected kpi result: %+v", kpi)
	}

	mdPath := filepath.Join(home, "out.md")
	chartPath := filepath.Join(home, "charts.html")
	out = runCmd(t, "analyze", csvPath, "-k", "all", "-o", mdPath, "--chart", chartPath,
		"--chart-type", "pie", "--y", "Region", "--title", "Regions")
	if !strings.Contains(out, "✓ Wrote analysis to") || !strings.Contains(out, "✓ Wrote charts to") {
		t.Fatalf("unexpected output: %s", out)
	}
	md, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatalf("read markdown: %v", err)
	}
	if !strings.Contains(string(md), "[DATASET SUMMARY]") || !strings.Contains(string(md), "[STATISTICAL MEASURES]") {
		t.Fatalf("unexpected markdown:\n%s", md)
	}
	html, err := os.ReadFile(chartPath)
	if err != nil {
		t.Fatalf("read charts: %v", err)
	}
	if !strings.Contains(string(html), "Regions") || !strings.Contains(string(html), "Doses by Date") {
		t.Fatal("chart page is missing the custom or trend chart")
	}

	out = runCmd(t, "analyze", csvPath, "-k", "gaps", "--format", "table")
	if !strings.Contains(out, "GAPS") || !strings.Contains(out, "Missing") {
		t.Fatalf("unexpected table output: %s", out)
	}
}

func TestCLI_AnalyzePartialFailureIsNotAnError(t *testing.T) {
	_, csvPath := setupHome(t)
	out := runCmd(t, "analyze", csvPath, "-k", "kpis,gaps", "--kpi-col", "Region")
	if !strings.Contains(out, "FAILED (type_mismatch)") {
		t.Fatalf("expected recorded kpi failure: %s", out)
	}
	if !strings.Contains(out, "⚠ Warning: 1 of 2 analyses failed") {
		t.Fatalf("expected failure warning: %s", out)
	}
}

func TestCLI_AnalyzeRejectsBadInput(t *testing.T) {
	home, csvPath := setupHome(t)
	cases := [][]string{
		{"analyze", csvPath, "-k", "forecast"},
		{"analyze", csvPath, "--freq", "hourly"},
		{"analyze", csvPath, "--format", "pdf"},
		{"analyze", csvPath, "--chart-type", "pie", "--y", "Region"},
		{"analyze", csvPath, "--delimiter", "#"},
		{"analyze", filepath.Join(home, "missing.csv")},
		{"analyze", csvPath, "-w", "nope"},
	}
	for _, args := range cases {
		if _, err := execCmd(args...); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}

func TestCLI_Columns(t *testing.T) {
	_, csvPath := setupHome(t)
	out := runCmd(t, "columns", csvPath, "-n", "1")
	for _, want := range []string{"Dataset: vax.csv (4 rows)", "temporal", "numeric", "First 1 rows", "Pfizer"} {
		if !strings.Contains(out, want) {
			t.Fatalf("columns output missing %q: %s", want, out)
		}
	}
	out = runCmd(t, "columns", csvPath, "--json")
	if !strings.Contains(out, `"kind": "categorical"`) {
		t.Fatalf("unexpected JSON: %s", out)
	}
}

func TestCLI_ConfigSetShow(t *testing.T) {
	home, csvPath := setupHome(t)
	runCmd(t, "config", "set", "output_format", "json")
	runCmd(t, "config", "set", "default_kinds", "gaps")
	out := runCmd(t, "config", "show")
	if !strings.Contains(out, "output_format: json") || !strings.Contains(out, "default_kinds: gaps") {
		t.Fatalf("unexpected config: %s", out)
	}
	if _, err := os.Stat(filepath.Join(home, ".vaxkpi", "config.yaml")); err != nil {
		t.Fatalf("config not saved: %v", err)
	}
	if _, err := execCmd("config", "set", "output_format", "pdf"); err == nil {
		t.Fatal("expected error for bad output_format")
	}

	// config defaults drive analyze when no flags are given
	out = runCmd(t, "analyze", csvPath)
	var res analysis.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("expected JSON from configured default: %v", err)
	}
	if len(res.Kinds) != 1 || res.Kinds[0] != analysis.KindGaps {
		t.Fatalf("expected configured default kinds, got %v", res.Kinds)
	}
}
