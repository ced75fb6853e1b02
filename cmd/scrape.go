package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/prairie-data/wellscan/internal/enrich"
	"github.com/prairie-data/wellscan/internal/store"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Enrich wells with DrillingEdge status and production data",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := store.New(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		_, err = enrich.Run(ctx, st, enrich.NewScraper(cfg.Scrape))
		return err
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
}
