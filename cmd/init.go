package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/vaxkpi-cli/internal/analysis"
	"github.com/KaramelBytes/vaxkpi-cli/internal/utils"
	"github.com/KaramelBytes/vaxkpi-cli/internal/workspace"
)

var (
	initDescription string
)

var initCmd = &cobra.Command{
	Use:   "init <workspace-name>",
	Short: "Initialize a workspace for archiving analysis reports",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		dir, err := resolveWorkspaceDir(name)
		if err != nil {
			return err
		}
		// Refuse to overwrite an existing workspace.
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			if workspace.Exists(dir) {
				return fmt.Errorf("workspace already exists at %s", dir)
			}
			entries, err := os.ReadDir(dir)
			if err != nil {
				return fmt.Errorf("inspect workspace directory: %w", err)
			}
			if len(entries) > 0 {
				return fmt.Errorf("directory %s already exists and is not empty; refusing to initialize workspace", dir)
			}
		} else if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("stat workspace directory: %w", err)
		}
		w := workspace.New(name, initDescription, dir)
		if err := w.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Workspace initialized: %s\n", dir)
		return nil
	},
}

func defaultWorkspacesDir() (string, error) {
	dir := currentConfig().WorkspacesDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".vaxkpi", "workspaces")
	}
	dir, err := utils.ExpandHome(dir)
	if err != nil {
		return "", err
	}
	if err := utils.EnsureDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

func resolveWorkspaceDir(name string) (string, error) {
	if name == "" {
		return "", errors.New("workspace name is required")
	}
	if name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid workspace name: %s", name)
	}
	root, err := defaultWorkspacesDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, name), nil
}

func openWorkspace(name string) (*workspace.Workspace, error) {
	dir, err := resolveWorkspaceDir(name)
	if err != nil {
		return nil, err
	}
	if !workspace.Exists(dir) {
		return nil, fmt.Errorf("workspace %q not found; create it with 'vaxkpi init %s'", name, name)
	}
	return workspace.Load(dir)
}

// archiveReport stores the Markdown rendering of res in w and saves it.
func archiveReport(w *workspace.Workspace, source string, res *analysis.Result, desc string) (*workspace.Report, error) {
	r, err := w.AddReport(source, res, []byte(res.Markdown()), desc)
	if err != nil {
		return nil, err
	}
	if err := w.Save(); err != nil {
		return nil, err
	}
	return r, nil
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVarP(&initDescription, "desc", "d", "", "workspace description")
}
