package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/vaxkpi-cli/internal/analysis"
	"github.com/KaramelBytes/vaxkpi-cli/internal/dataset"
	"github.com/KaramelBytes/vaxkpi-cli/internal/workspace"
)

var (
	abLoad        loadFlags
	abReq         requestFlags
	abFormat      string
	abWorkspace   string
	abDescription string
	abJobs        int
	abQuiet       bool
)

// batchItem is the outcome of one file; done closes once it is filled in.
type batchItem struct {
	path string
	res  *analysis.Result
	err  error
	done chan struct{}
}

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple CSV/TSV/XLSX files with progress and optional workspace archiving",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		opt, err := abLoad.options(cmd.Flags())
		if err != nil {
			return err
		}
		req, err := abReq.request()
		if err != nil {
			return err
		}
		format, err := outputFormat(abFormat)
		if err != nil {
			return err
		}
		if abJobs < 1 {
			return fmt.Errorf("--jobs must be >= 1")
		}
		var w *workspace.Workspace
		if abWorkspace != "" {
			if w, err = openWorkspace(abWorkspace); err != nil {
				return err
			}
		}

		engine := newEngine()
		items := make([]*batchItem, len(files))
		for i, path := range files {
			items[i] = &batchItem{path: path, done: make(chan struct{})}
		}
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(abJobs)
		launched := make(chan struct{})
		go func() {
			defer close(launched)
			for _, it := range items {
				it := it
				g.Go(func() error {
					defer close(it.done)
					if err := ctx.Err(); err != nil {
						it.err = err
						return err
					}
					it.res, it.err = analyzeFile(engine, it.path, opt, req)
					return it.err
				})
			}
		}()

		// Report in input order as items complete. On an output failure the
		// remaining jobs are cancelled and drained before returning.
		out := cmd.OutOrStdout()
		total := len(items)
		var emitErr error
		for i, it := range items {
			<-it.done
			if it.err != nil {
				break
			}
			if !abQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(it.path))
			}
			if emitErr = emitBatchItem(cmd, w, it, format); emitErr != nil {
				cancel()
				break
			}
		}
		<-launched
		werr := g.Wait()
		if emitErr != nil {
			return emitErr
		}
		if werr != nil {
			return werr
		}
		if !abQuiet {
			fmt.Fprintf(out, "✓ Analyzed %d files\n", total)
		}
		return nil
	},
}

// emitBatchItem archives or prints one finished item.
func emitBatchItem(cmd *cobra.Command, w *workspace.Workspace, it *batchItem, format string) error {
	out := cmd.OutOrStdout()
	if w != nil {
		r, err := archiveReport(w, it.path, it.res, abDescription)
		if err != nil {
			return err
		}
		if !abQuiet {
			fmt.Fprintf(out, "✓ Added report to workspace '%s' as %s\n", w.Name, filepath.Base(r.Path))
		}
	} else if !abQuiet {
		body, err := renderResult(it.res, format, false)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(body))
	}
	warnFailures(cmd, it.res)
	return nil
}

func analyzeFile(engine *analysis.Engine, path string, opt dataset.Options, req analysis.Request) (*analysis.Result, error) {
	ds, err := dataset.Load(path, opt)
	if err != nil {
		return nil, err
	}
	res, err := engine.Run(ds, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return res, nil
}

// expandInputs resolves globs, keeps literal paths that exist, drops
// duplicates and sorts the result.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	f := analyzeBatchCmd.Flags()
	abLoad.bind(f)
	abReq.bind(f)
	f.StringVar(&abFormat, "format", "", "output format: markdown|json|table (default from config)")
	f.StringVarP(&abWorkspace, "workspace", "w", "", "workspace name to archive reports in")
	f.StringVar(&abDescription, "desc", "", "description when archiving to a workspace")
	f.IntVarP(&abJobs, "jobs", "j", 1, "number of files analyzed in parallel")
	f.BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
}
