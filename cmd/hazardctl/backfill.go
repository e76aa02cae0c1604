package main

import (
	"errors"

	"github.com/couchcryptid/hazard-normalizer/internal/adapter/postgres"
	"github.com/couchcryptid/hazard-normalizer/internal/backfill"
	"github.com/spf13/cobra"
)

func newBackfillCmd(e *env) *cobra.Command {
	var pageSize int

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Re-normalize stored reports whose address is still a coordinate pair",
		Long: `Pages through the report store at DATABASE_URL in ID order and rewrites
every coordinate address with the configured geocoder. Prints the number of
reports scanned, resolved and given a fallback address.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, geocoder, err := e.load(cmd)
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return errors.New("DATABASE_URL is required")
			}

			store, err := postgres.Open(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := backfill.New(store, geocoder, logger, pageSize).Run(cmd.Context())
			if werr := writeJSON(cmd.OutOrStdout(), stats); werr != nil && err == nil {
				err = werr
			}
			return err
		},
	}
	cmd.Flags().IntVar(&pageSize, "page-size", 100, "reports fetched per page")
	return cmd
}
