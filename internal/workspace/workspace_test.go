package workspace_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/vaxkpi-cli/internal/analysis"
	"github.com/KaramelBytes/vaxkpi-cli/internal/dataset"
	"github.com/KaramelBytes/vaxkpi-cli/internal/workspace"
)

func TestAddReportPersistsAndSuffixes(t *testing.T) {
	tdir := t.TempDir()
	ds := dataset.New("vax.csv", []string{"A"}, [][]string{{"1"}, {""}}, dataset.DefaultOptions())
	res, err := analysis.NewEngine().Run(ds, analysis.Request{Kinds: []analysis.Kind{analysis.KindGaps, analysis.KindTrends}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	ws := workspace.New("clinic", "quarterly reviews", filepath.Join(tdir, "clinic"))
	if err := ws.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !workspace.Exists(ws.RootDir()) {
		t.Fatalf("workspace.json not written")
	}
	r1, err := ws.AddReport("/data/vax.csv", res, []byte(res.Markdown()), "")
	if err != nil {
		t.Fatalf("add report: %v", err)
	}
	r2, err := ws.AddReport("vax.csv", res, []byte("second"), "rerun")
	if err != nil {
		t.Fatalf("add report: %v", err)
	}
	if filepath.Base(r1.Path) != "vax.report.md" || filepath.Base(r2.Path) != "vax__2.report.md" {
		t.Fatalf("unexpected paths: %s, %s", r1.Path, r2.Path)
	}
	if r1.Failed != 1 || len(r1.Kinds) != 2 || r1.Source != "vax.csv" {
		t.Fatalf("unexpected entry: %+v", r1)
	}
	if err := ws.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := workspace.Load(ws.RootDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	list := loaded.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(list))
	}
	if list[1].Description != "rerun" {
		t.Fatalf("unexpected order: %+v", list)
	}
	body, err := os.ReadFile(r1.Path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "[GAPS]") {
		t.Fatalf("report body missing gaps section")
	}
}

func TestLoadMissingWorkspace(t *testing.T) {
	if _, err := workspace.Load(t.TempDir()); err == nil {
		t.Fatal("expected error for missing workspace.json")
	}
}
