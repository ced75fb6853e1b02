package main

import (
	"github.com/spf13/cobra"

	"github.com/prairie-data/wellscan/internal/preprocess"
	"github.com/prairie-data/wellscan/internal/store"
)

var preprocessCmd = &cobra.Command{
	Use:   "preprocess",
	Short: "Re-normalize stored well rows",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := store.New(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		_, err = preprocess.Run(ctx, st, preprocess.New(cfg.Extract))
		return err
	},
}

func init() {
	rootCmd.AddCommand(preprocessCmd)
}
