// Package workspace archives rendered analysis reports on disk. Datasets
// themselves are never stored.
package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/vaxkpi-cli/internal/analysis"
	"github.com/KaramelBytes/vaxkpi-cli/internal/utils"
)

const (
	workspaceFileName = "workspace.json"
	reportsDirName    = "reports"
)

// Workspace is a named report archive persisted as workspace.json.
type Workspace struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Reports     map[string]*Report `json:"reports"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`

	// Not serialized: on-disk location of the workspace.json
	rootDir string `json:"-"`
}

// New constructs an in-memory workspace. Call Save() to persist.
func New(name, description, rootDir string) *Workspace {
	return &Workspace{
		Name:        name,
		Description: description,
		Reports:     make(map[string]*Report),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		rootDir:     rootDir,
	}
}

// Load reads workspace.json from dir.
func Load(dir string) (*Workspace, error) {
	path := filepath.Join(dir, workspaceFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("workspace not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read workspace: %w", err)
	}
	var w Workspace
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, fmt.Errorf("parse workspace: %w", err)
	}
	if w.Reports == nil {
		w.Reports = make(map[string]*Report)
	}
	w.rootDir = dir
	return &w, nil
}

// Exists reports whether dir holds a workspace.json.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, workspaceFileName))
	return err == nil
}

// RootDir returns the on-disk workspace directory path.
func (w *Workspace) RootDir() string { return w.rootDir }

// Save writes workspace.json using atomic write.
func (w *Workspace) Save() error {
	if w.rootDir == "" {
		return errors.New("workspace root directory not set")
	}
	if err := utils.EnsureDir(w.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	w.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(w)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(w.rootDir, workspaceFileName), data)
}

// AddReport writes body to reports/<source base>.report.md, adding a __N
// suffix if that name is taken, and records it. Call Save() to persist the
// entry.
func (w *Workspace) AddReport(source string, res *analysis.Result, body []byte, description string) (*Report, error) {
	dir := filepath.Join(w.rootDir, reportsDirName)
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("ensure reports dir: %w", err)
	}
	name := filepath.Base(source)
	base := strings.TrimSuffix(name, filepath.Ext(name))
	path := utils.UniquePath(dir, base, ".report.md")
	if err := utils.SafeWriteFile(path, body); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	if description == "" {
		description = "Auto-generated analysis report"
	}
	r := &Report{
		ID:          uuid.NewString(),
		Source:      name,
		Path:        path,
		Description: description,
		AddedAt:     time.Now(),
	}
	if res != nil {
		for _, k := range res.Kinds {
			r.Kinds = append(r.Kinds, string(k))
		}
		r.Failed = res.Failed()
	}
	if w.Reports == nil {
		w.Reports = make(map[string]*Report)
	}
	w.Reports[r.ID] = r
	w.UpdatedAt = time.Now()
	return r, nil
}

// List returns reports oldest first; ties are ordered by path.
func (w *Workspace) List() []*Report {
	out := make([]*Report, 0, len(w.Reports))
	for _, r := range w.Reports {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AddedAt.Equal(out[j].AddedAt) {
			return out[i].AddedAt.Before(out[j].AddedAt)
		}
		return out[i].Path < out[j].Path
	})
	return out
}
