package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/hazard-normalizer/internal/config"
	"github.com/couchcryptid/hazard-normalizer/internal/domain"
	"github.com/couchcryptid/hazard-normalizer/internal/geocoding"
	"github.com/couchcryptid/hazard-normalizer/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// env carries what subcommands build from configuration. Tests swap in a
// fixed geocoder instead of loading providers from the environment.
type env struct {
	logLevel string
	geocoder func(cfg *config.Config, logger *slog.Logger) domain.Geocoder
}

func defaultGeocoder(cfg *config.Config, logger *slog.Logger) domain.Geocoder {
	// CLI runs don't serve /metrics, so keep collectors off the default registry.
	return geocoding.New(cfg, logger, observability.NewMetricsWithRegistry(prometheus.NewRegistry()))
}

func newRootCmd() *cobra.Command {
	return newRootCmdWithEnv(&env{geocoder: defaultGeocoder})
}

func newRootCmdWithEnv(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:          "hazardctl",
		Short:        "Inspect and normalize road hazard report addresses",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&e.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(
		newDetectCmd(),
		newNormalizeCmd(e),
		newValidateCmd(),
		newBackfillCmd(e),
	)
	return root
}

func (e *env) logger(cmd *cobra.Command) *slog.Logger {
	return observability.NewLogger(cmd.ErrOrStderr(), "text", e.logLevel)
}

func (e *env) load(cmd *cobra.Command) (*config.Config, *slog.Logger, domain.Geocoder, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger := e.logger(cmd)
	return cfg, logger, e.geocoder(cfg, logger), nil
}

// readInput reads args[0] when given, stdin otherwise.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) > 0 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", args[0], err)
		}
		return data, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return data, nil
}

// decodeReports accepts a single report object or an array. isArray reports
// which shape was given so output can mirror it.
func decodeReports(data []byte) (reports []domain.Report, isArray bool, err error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &reports); err != nil {
			return nil, true, fmt.Errorf("decode report array: %w", err)
		}
		return reports, true, nil
	}
	var r domain.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, false, fmt.Errorf("decode report: %w", err)
	}
	return []domain.Report{r}, false, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
