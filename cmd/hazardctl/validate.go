package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/couchcryptid/hazard-normalizer/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
)

// reportRecord mirrors the fields a submitted report must carry.
type reportRecord struct {
	ID        string  `validate:"required"`
	Latitude  float64 `validate:"latitude"`
	Longitude float64 `validate:"longitude"`
}

type validateSummary struct {
	Reports     int      `json:"reports"`
	Coordinates int      `json:"coordinateAddresses"`
	Fallbacks   int      `json:"fallbackAddresses"`
	Problems    []string `json:"problems"`
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a report file for missing IDs, bad coordinates and duplicates",
		Long: `Reads a report object or array and prints a summary of how many addresses
are still coordinate pairs or fallbacks. Exits non-zero when any report is
invalid.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			reports, _, err := decodeReports(data)
			if err != nil {
				return err
			}

			summary := validateReports(reports)
			if err := writeJSON(cmd.OutOrStdout(), summary); err != nil {
				return err
			}
			if len(summary.Problems) > 0 {
				return fmt.Errorf("%d invalid report(s)", len(summary.Problems))
			}
			return nil
		},
	}
}

func validateReports(reports []domain.Report) validateSummary {
	v := validator.New(validator.WithRequiredStructEnabled())
	summary := validateSummary{Reports: len(reports), Problems: []string{}}
	seen := make(map[string]bool, len(reports))

	for i, r := range reports {
		rec := reportRecord{
			ID:        r.ID,
			Latitude:  r.Location.Coordinates.Latitude,
			Longitude: r.Location.Coordinates.Longitude,
		}
		if err := v.Struct(rec); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				for _, fe := range verrs {
					summary.Problems = append(summary.Problems,
						fmt.Sprintf("report %d (%s): %s failed %s", i, r.ID, fe.Field(), fe.Tag()))
				}
			} else {
				summary.Problems = append(summary.Problems, fmt.Sprintf("report %d: %v", i, err))
			}
		}
		if r.ID != "" && seen[r.ID] {
			summary.Problems = append(summary.Problems, fmt.Sprintf("report %d (%s): duplicate id", i, r.ID))
		}
		seen[r.ID] = true

		switch {
		case domain.IsCoordinateAddress(r.Location.Address):
			summary.Coordinates++
		case strings.HasPrefix(r.Location.Address, domain.FallbackMarker+" "):
			summary.Fallbacks++
		}
	}
	return summary
}
