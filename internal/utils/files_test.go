package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSafeWriteFileAndUniquePath(t *testing.T) {
	dir := t.TempDir()
	first := UniquePath(dir, "vax", ".report.md")
	if filepath.Base(first) != "vax.report.md" {
		t.Fatalf("unexpected first path: %s", first)
	}
	if err := SafeWriteFile(first, []byte("one")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := os.Stat(first + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
	second := UniquePath(dir, "vax", ".report.md")
	if filepath.Base(second) != "vax__2.report.md" {
		t.Fatalf("unexpected second path: %s", second)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := ExpandHome("~/.vaxkpi/workspaces")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, ".vaxkpi", "workspaces") {
		t.Fatalf("got %s", got)
	}
	got, _ = ExpandHome("/tmp/x/../y")
	if got != "/tmp/y" {
		t.Fatalf("got %s", got)
	}
}

func TestPrettyJSON(t *testing.T) {
	b, err := PrettyJSON(map[string]int{"a": 1})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "\n  \"a\": 1") {
		t.Fatalf("not indented: %s", b)
	}
}
