package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/vaxkpi-cli/internal/server"
)

var (
	srvLoad      loadFlags
	srvAddr      string
	srvOrigins   []string
	srvMaxUpload int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis engine over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		opt, err := srvLoad.options(cmd.Flags())
		if err != nil {
			return err
		}
		addr := c.ServerAddr
		if cmd.Flags().Changed("addr") || addr == "" {
			addr = srvAddr
		}
		origins := c.CORSOrigins
		if cmd.Flags().Changed("cors-origins") {
			origins = srvOrigins
		}
		maxMB := c.MaxUploadMB
		if cmd.Flags().Changed("max-upload-mb") {
			if srvMaxUpload <= 0 {
				return fmt.Errorf("--max-upload-mb must be > 0")
			}
			maxMB = srvMaxUpload
		}

		srv := server.New(server.Config{
			Addr:           addr,
			CORSOrigins:    origins,
			MaxUploadBytes: int64(maxMB) << 20,
			Dataset:        opt,
			ChartColor:     c.ChartColor,
		}, newEngine(), logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Serving on %s (Ctrl+C to stop)\n", addr)
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	f := serveCmd.Flags()
	srvLoad.bind(f)
	f.StringVar(&srvAddr, "addr", ":8080", "listen address (default from config)")
	f.StringSliceVar(&srvOrigins, "cors-origins", nil, "allowed CORS origins (default from config)")
	f.IntVar(&srvMaxUpload, "max-upload-mb", 0, "maximum upload size in MB (default from config)")
}
