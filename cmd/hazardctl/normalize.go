package main

import (
	"github.com/couchcryptid/hazard-normalizer/internal/domain"
	"github.com/spf13/cobra"
)

func newNormalizeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize [file]",
		Short: "Normalize the addresses of a report or an array of reports",
		Long: `Reads a report object or array from file (or stdin when omitted or "-")
and writes it back with coordinate addresses reverse geocoded. The
geocoding provider is taken from the MAPBOX_* and NOMINATIM_* variables;
without one, coordinate addresses get the fallback format.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			reports, isArray, err := decodeReports(data)
			if err != nil {
				return err
			}
			_, logger, geocoder, err := e.load(cmd)
			if err != nil {
				return err
			}

			out := domain.NormalizeAddresses(cmd.Context(), reports, geocoder, logger)
			if isArray {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			return writeJSON(cmd.OutOrStdout(), out[0])
		},
	}
}
