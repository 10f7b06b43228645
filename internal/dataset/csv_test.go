package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var vaccinationRows = []string{
	"Date,VaccinationType,Region,IsVaccinated,Doses,Age",
	"2024-01-05,Polio,North,True,10,34",
	"2024-01-20,Measles,South,False,20,",
	"2024-02-10,Polio,East,True,30,NA",
	"not a date,Hepatitis,West,True,abc,51",
	"2024-03-02,Measles,North,True,12,29",
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadCSVInfersKinds(t *testing.T) {
	p := writeFile(t, "vaccinations.csv", strings.Join(vaccinationRows, "\n"))
	ds, err := Load(p, DefaultOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.Name() != "vaccinations.csv" {
		t.Fatalf("name = %q", ds.Name())
	}
	if ds.Len() != 5 {
		t.Fatalf("rows = %d, want 5", ds.Len())
	}
	want := map[string]Kind{
		"Date":            KindTemporal,
		"VaccinationType": KindCategorical,
		"Region":          KindCategorical,
		"IsVaccinated":    KindCategorical,
		"Doses":           KindNumeric,
		"Age":             KindNumeric,
	}
	for col, k := range want {
		if got := ds.Kind(col); got != k {
			t.Errorf("Kind(%s) = %s, want %s", col, got, k)
		}
	}
	if ds.Kind("Missing") != KindUnknown {
		t.Errorf("absent column should be unknown")
	}
	for _, ci := range ds.Columns() {
		if ci.Name == "Age" && ci.Missing != 2 {
			t.Errorf("Age missing = %d, want 2", ci.Missing)
		}
	}
}

func TestLoadCSVSemicolonCommaDecimal(t *testing.T) {
	body := "Group;Score\nA;10,5\nB;9,75\n"
	opt := DefaultOptions()
	opt.Delimiter = ';'
	opt.DecimalSeparator = ','
	ds, err := ReadCSV(strings.NewReader(body), "scores.csv", opt)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	col, _ := ds.Column("Score")
	v, ok := ds.Number(col[1])
	if !ok || v != 9.75 {
		t.Fatalf("Number(%q) = %v, %v", col[1], v, ok)
	}
}

func TestLoadCSVMaxRowsAndPadding(t *testing.T) {
	body := "a,b,c\n1,2\n3,4,5\n6,7,8\n"
	opt := DefaultOptions()
	opt.MaxRows = 2
	ds, err := ReadCSV(strings.NewReader(body), "t.csv", opt)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if ds.Len() != 2 {
		t.Fatalf("rows = %d, want 2", ds.Len())
	}
	head := ds.Head(1)
	if len(head[0]) != 3 || head[0][2] != "" {
		t.Fatalf("first row not padded: %#v", head[0])
	}
	w := ds.Warnings()
	if len(w) != 1 || w[0] != "loaded only 2/3 rows due to MaxRows" {
		t.Fatalf("warnings = %#v", w)
	}
}

func TestHeaderDedupe(t *testing.T) {
	ds := New("x", []string{"A", "A", " ", "A"}, nil, DefaultOptions())
	got := ds.Header()
	want := []string{"A", "A.1", "Unnamed: 2", "A.2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("header = %#v, want %#v", got, want)
		}
	}
}

func TestDatasetCopiesAreIsolated(t *testing.T) {
	rows := [][]string{{"1"}, {"2"}}
	ds := New("x", []string{"v"}, rows, DefaultOptions())
	rows[0][0] = "changed"
	col, _ := ds.Column("v")
	col[1] = "mutated"
	again, _ := ds.Column("v")
	if again[0] != "1" || again[1] != "2" {
		t.Fatalf("dataset was mutated through a copy: %#v", again)
	}
}

func TestProfilePreview(t *testing.T) {
	ds := New("x.csv", []string{"Date", "Doses"}, [][]string{{"2024-01-01", "1"}, {"2024-01-02", ""}, {"2024-01-03", "3"}}, DefaultOptions())
	p := ds.Profile(2)
	if p.Dataset != "x.csv" || p.Rows != 3 || len(p.Preview) != 2 {
		t.Fatalf("unexpected profile: %+v", p)
	}
	if p.Columns[0].Kind != KindTemporal || p.Columns[1].Missing != 1 {
		t.Fatalf("unexpected columns: %+v", p.Columns)
	}
}

func TestReadEmptyAndUnsupported(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""), "empty.csv", DefaultOptions())
	var ife *InputFormatError
	if !errors.As(err, &ife) {
		t.Fatalf("empty csv err = %v, want InputFormatError", err)
	}
	_, err = Read(strings.NewReader("x"), "notes.pdf", DefaultOptions())
	if !errors.As(err, &ife) || !errors.Is(err, ErrUnsupported) {
		t.Fatalf("pdf err = %v, want unsupported InputFormatError", err)
	}
	_, err = Load(filepath.Join(t.TempDir(), "nope.csv"), DefaultOptions())
	if !errors.As(err, &ife) {
		t.Fatalf("missing file err = %v", err)
	}
}
