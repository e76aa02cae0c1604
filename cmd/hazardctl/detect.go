package main

import (
	"fmt"
	"strings"

	"github.com/couchcryptid/hazard-normalizer/internal/domain"
	"github.com/spf13/cobra"
)

func newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <address>",
		Short: "Print whether an address is a raw coordinate pair",
		Long: `Prints true when the address would be reverse geocoded, false otherwise.
Multiple arguments are joined with a single space, so an unquoted pair works
too. Flags are not parsed; addresses may start with "-".

$ hazardctl detect "-33.8688, 151.2093"
true`,
		// Southern latitudes and western longitudes look like shorthand flags.
		DisableFlagParsing: true,
		Args:               cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && (args[0] == "-h" || args[0] == "--help") {
				return cmd.Help()
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), domain.IsCoordinateAddress(strings.Join(args, " ")))
			return err
		},
	}
}
