package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/couchcryptid/hazard-normalizer/internal/config"
	"github.com/couchcryptid/hazard-normalizer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedGeocoder struct {
	result *domain.GeocodeResult
}

func (f fixedGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (*domain.GeocodeResult, error) {
	return f.result, nil
}

func run(t *testing.T, geocoder domain.Geocoder, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")

	e := &env{geocoder: func(*config.Config, *slog.Logger) domain.Geocoder { return geocoder }}
	cmd := newRootCmdWithEnv(e)

	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDetect(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"40.7128, -74.0060"}, "true"},
		{[]string{"40.7128,", "-74.0060"}, "true"},
		{[]string{"-33.8688, 151.2093"}, "true"},
		{[]string{"-33.8688,", "151.2093"}, "true"},
		{[]string{"-12"}, "false"},
		{[]string{"123 Main St"}, "false"},
		{[]string{"40.71, -74"}, "false"},
	}
	for _, tc := range cases {
		t.Run(strings.Join(tc.args, " "), func(t *testing.T) {
			out, err := run(t, nil, "", append([]string{"detect"}, tc.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tc.want, strings.TrimSpace(out))
		})
	}
}

func TestDetect_Help(t *testing.T) {
	out, err := run(t, nil, "", "detect", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "reverse geocoded")
}

func TestDetect_RequiresArgument(t *testing.T) {
	_, err := run(t, nil, "", "detect")
	assert.Error(t, err)
}

func TestNormalize_StdinObject(t *testing.T) {
	geo := fixedGeocoder{result: &domain.GeocodeResult{Address: "123 Main St", City: "NYC", State: "NY", ZipCode: "10001"}}
	in := `{"id":"rpt-1","location":{"address":"40.7128, -74.0060","coordinates":{"latitude":40.7128,"longitude":-74.006}}}`

	out, err := run(t, geo, in, "normalize")
	require.NoError(t, err)

	var got domain.Report
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "123 Main St", got.Location.Address)
	assert.Equal(t, "10001", got.Location.ZipCode)
}

func TestNormalize_FileArrayWithoutGeocoder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id":"a","location":{"address":"40.7128, -74.0060","coordinates":{"latitude":40.7128,"longitude":-74.006}}},
		{"id":"b","location":{"address":"9 Elm St","coordinates":{"latitude":1,"longitude":2}}}
	]`), 0o600))

	out, err := run(t, nil, "", "normalize", path)
	require.NoError(t, err)

	var got []domain.Report
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "📍 Location (40.712800, -74.006000)", got[0].Location.Address)
	assert.Equal(t, "9 Elm St", got[1].Location.Address)
	assert.Contains(t, out, "📍", "marker is written unescaped")
}

func TestNormalize_InvalidJSON(t *testing.T) {
	_, err := run(t, nil, "not-json", "normalize")
	assert.Error(t, err)
}

func TestValidate_MockFixture(t *testing.T) {
	out, err := run(t, nil, "", "validate", filepath.Join("..", "..", "data", "mock", "hazard_reports.json"))
	require.NoError(t, err)

	var summary validateSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 8, summary.Reports)
	assert.Equal(t, 5, summary.Coordinates)
	assert.Zero(t, summary.Fallbacks)
	assert.Empty(t, summary.Problems)
}

func TestValidateReports_Problems(t *testing.T) {
	reports := []domain.Report{
		{ID: "a", Location: domain.Location{Address: "📍 Location (1.000000, 2.000000)", Coordinates: domain.Coordinates{Latitude: 1, Longitude: 2}}},
		{ID: "", Location: domain.Location{Coordinates: domain.Coordinates{Latitude: 1, Longitude: 2}}},
		{ID: "a", Location: domain.Location{Coordinates: domain.Coordinates{Latitude: 95, Longitude: 2}}},
	}

	summary := validateReports(reports)
	assert.Equal(t, 3, summary.Reports)
	assert.Equal(t, 1, summary.Fallbacks)
	require.Len(t, summary.Problems, 3)
	assert.Contains(t, summary.Problems[0], "ID failed required")
	assert.Contains(t, summary.Problems[1], "Latitude failed latitude")
	assert.Contains(t, summary.Problems[2], "duplicate id")
}

func TestBackfill_RequiresDatabaseURL(t *testing.T) {
	_, err := run(t, nil, "", "backfill")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}
