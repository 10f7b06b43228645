package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/vaxkpi-cli/internal/analysis"
	"github.com/KaramelBytes/vaxkpi-cli/internal/dataset"
	"github.com/KaramelBytes/vaxkpi-cli/internal/render"
	"github.com/KaramelBytes/vaxkpi-cli/internal/utils"
)

var (
	anaLoad        loadFlags
	anaReq         requestFlags
	anaChart       chartFlags
	anaFormat      string
	anaOutputPath  string
	anaChartPath   string
	anaWorkspace   string
	anaDescription string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a CSV/TSV/XLSX dataset and report the requested KPIs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		opt, err := anaLoad.options(cmd.Flags())
		if err != nil {
			return err
		}
		req, err := anaReq.request()
		if err != nil {
			return err
		}
		format, err := outputFormat(anaFormat)
		if err != nil {
			return err
		}
		spec := anaChart.spec()
		if spec != nil && anaChartPath == "" {
			return fmt.Errorf("--chart-type requires --chart <file.html>")
		}

		ds, err := dataset.Load(path, opt)
		if err != nil {
			return err
		}
		res, err := newEngine().Run(ds, req)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		// Decide where to write: --output path, workspace, or stdout
		written := false
		if anaOutputPath != "" {
			body, err := renderResult(res, format, true)
			if err != nil {
				return err
			}
			if err := os.WriteFile(anaOutputPath, body, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(out, "✓ Wrote analysis to %s\n", anaOutputPath)
			written = true
		}
		if anaChartPath != "" {
			if err := writeCharts(anaChartPath, ds, res, spec); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Wrote charts to %s\n", anaChartPath)
		}
		if anaWorkspace != "" {
			w, err := openWorkspace(anaWorkspace)
			if err != nil {
				return err
			}
			r, err := archiveReport(w, path, res, anaDescription)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Added report to workspace '%s' as %s\n", w.Name, filepath.Base(r.Path))
			written = true
		}
		if !written {
			body, err := renderResult(res, format, false)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(body))
		}
		warnFailures(cmd, res)
		return nil
	},
}

func writeCharts(path string, ds *dataset.Dataset, res *analysis.Result, spec *render.ChartSpec) error {
	var buf bytes.Buffer
	if err := render.Charts(&buf, ds, res, spec, currentConfig().ChartColor); err != nil {
		return err
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write charts: %w", err)
	}
	return nil
}

// warnFailures notes failed kinds on stderr; partial results are not an error.
func warnFailures(cmd *cobra.Command, res *analysis.Result) {
	if n := res.Failed(); n > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: %d of %d analyses failed for %s\n", n, len(res.Kinds), res.Dataset)
	}
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	f := analyzeCmd.Flags()
	anaLoad.bind(f)
	anaReq.bind(f)
	anaChart.bind(f)
	f.StringVar(&anaFormat, "format", "", "output format: markdown|json|table (default from config)")
	f.StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report")
	f.StringVar(&anaChartPath, "chart", "", "optional path to write an HTML chart page")
	f.StringVarP(&anaWorkspace, "workspace", "w", "", "workspace name to archive the report in")
	f.StringVar(&anaDescription, "desc", "", "description when archiving to a workspace")
}
