package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/vaxkpi-cli/internal/workspace"
)

var (
	listWorkspaces bool
	listReports    bool
	listWsName     string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspaces or archived reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		if listWorkspaces == listReports { // either both true or both false
			return fmt.Errorf("specify exactly one of --workspaces or --reports")
		}
		out := cmd.OutOrStdout()
		if listWorkspaces {
			return listAllWorkspaces(cmd)
		}
		if listWsName == "" {
			return fmt.Errorf("--workspace is required when using --reports")
		}
		w, err := openWorkspace(listWsName)
		if err != nil {
			return err
		}
		reports := w.List()
		if len(reports) == 0 {
			fmt.Fprintln(out, "(no reports)")
			return nil
		}
		for _, r := range reports {
			status := "ok"
			if r.Failed > 0 {
				status = fmt.Sprintf("%d failed", r.Failed)
			}
			fmt.Fprintf(out, "- %s: %s from %s [%s; %s] (%s)\n",
				r.ID, filepath.Base(r.Path), r.Source, strings.Join(r.Kinds, ","), status, r.Description)
		}
		return nil
	},
}

func listAllWorkspaces(cmd *cobra.Command) error {
	root, err := defaultWorkspacesDir()
	if err != nil {
		return err
	}
	dirs, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	found := false
	for _, e := range dirs {
		if !e.IsDir() {
			continue
		}
		if workspace.Exists(filepath.Join(root, e.Name())) {
			fmt.Fprintf(out, "- %s\n", e.Name())
			found = true
		}
	}
	if !found {
		fmt.Fprintln(out, "(no workspaces)")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listWorkspaces, "workspaces", false, "list workspaces")
	listCmd.Flags().BoolVar(&listReports, "reports", false, "list reports in a workspace")
	listCmd.Flags().StringVarP(&listWsName, "workspace", "w", "", "workspace name for --reports")
}
