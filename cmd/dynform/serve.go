package main

import (
	"log/slog"

	"github.com/AntoineGS/dynform/internal/web"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the form as a web page",
		Long: `Serve the form over HTTP. Every browser gets its own form, kept in memory
for as long as it is in use.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Web.Addr
			}

			_, journal, closeJournal, err := openJournal(cfg)
			if err != nil {
				return err
			}
			defer closeJournal()

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			srv := web.NewServer(web.Options{
				Logger:   slog.Default(),
				Notifier: journal,
				Form:     cfg.SessionOptions(),
			})

			return srv.Serve(ctx, addr)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")

	return cmd
}
