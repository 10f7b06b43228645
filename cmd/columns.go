package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/vaxkpi-cli/internal/dataset"
	"github.com/KaramelBytes/vaxkpi-cli/internal/render"
	"github.com/KaramelBytes/vaxkpi-cli/internal/utils"
)

var (
	colLoad loadFlags
	colRows int
	colJSON bool
)

var columnsCmd = &cobra.Command{
	Use:   "columns <file>",
	Short: "Show inferred column kinds, missing counts and the first rows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if colRows < 0 {
			return fmt.Errorf("--rows must be >= 0")
		}
		opt, err := colLoad.options(cmd.Flags())
		if err != nil {
			return err
		}
		ds, err := dataset.Load(args[0], opt)
		if err != nil {
			return err
		}
		p := ds.Profile(colRows)
		if colJSON {
			b, err := utils.PrettyJSON(p)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		}
		return render.Profile(cmd.OutOrStdout(), p, render.TableOptions{})
	},
}

func init() {
	rootCmd.AddCommand(columnsCmd)
	f := columnsCmd.Flags()
	colLoad.bind(f)
	f.IntVarP(&colRows, "rows", "n", 5, "number of rows to preview")
	f.BoolVar(&colJSON, "json", false, "print JSON instead of tables")
}
