package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/vaxkpi-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set vaxkpi configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No config loaded")
			return nil
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "delimiter: %s\n", orAuto(cfg.Delimiter))
		fmt.Fprintf(out, "decimal_separator: %s\n", orAuto(cfg.DecimalSeparator))
		fmt.Fprintf(out, "thousands_separator: %s\n", orAuto(cfg.ThousandsSeparator))
		fmt.Fprintf(out, "day_first: %t\n", cfg.DayFirst)
		fmt.Fprintf(out, "max_rows: %d\n", cfg.MaxRows)
		if cfg.SheetName != "" {
			fmt.Fprintf(out, "sheet_name: %s\n", cfg.SheetName)
		}
		fmt.Fprintf(out, "sheet_index: %d\n", cfg.SheetIndex)
		fmt.Fprintf(out, "default_kinds: %s\n", strings.Join(cfg.DefaultKinds, ","))
		fmt.Fprintf(out, "default_frequency: %s\n", cfg.DefaultFrequency)
		fmt.Fprintf(out, "output_format: %s\n", cfg.OutputFormat)
		fmt.Fprintf(out, "chart_color: %s\n", cfg.ChartColor)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", cfg.LogFormat)
		fmt.Fprintf(out, "server_addr: %s\n", cfg.ServerAddr)
		fmt.Fprintf(out, "cors_origins: %s\n", strings.Join(cfg.CORSOrigins, ","))
		fmt.Fprintf(out, "max_upload_mb: %d\n", cfg.MaxUploadMB)
		fmt.Fprintf(out, "workspaces_dir: %s\n", cfg.WorkspacesDir)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		if err := cfg.Set(key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func orAuto(s string) string {
	if s == "" {
		return "auto"
	}
	return s
}
