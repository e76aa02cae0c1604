package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/couchcryptid/hazard-normalizer/internal/domain"
	"github.com/go-playground/validator/v10"
)

const (
	maxBodyBytes     = 1 << 20
	defaultListLimit = 50
)

type api struct {
	deps     Deps
	validate *validator.Validate
	logger   *slog.Logger
}

func newAPI(deps Deps, logger *slog.Logger) *api {
	return &api{
		deps:     deps,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// handleNormalize accepts a single report or an array of reports and answers
// in the same shape.
func (a *api) handleNormalize(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "read request body: "+err.Error())
		return
	}
	body = bytes.TrimSpace(body)

	if len(body) > 0 && body[0] == '[' {
		var reports []domain.Report
		if err := json.Unmarshal(body, &reports); err != nil {
			writeError(w, http.StatusBadRequest, "invalid report array: "+err.Error())
			return
		}
		if reports == nil {
			reports = []domain.Report{}
		}
		writeJSON(w, http.StatusOK, domain.NormalizeAddresses(r.Context(), reports, a.deps.Geocoder, a.logger))
		return
	}

	var report domain.Report
	if err := json.Unmarshal(body, &report); err != nil {
		writeError(w, http.StatusBadRequest, "invalid report: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, domain.NormalizeAddress(r.Context(), report, a.deps.Geocoder, a.logger))
}

type listQuery struct {
	Limit int `validate:"min=1,max=500"`
}

// handleListReports serves stored reports, newest first, normalized on read.
func (a *api) handleListReports(w http.ResponseWriter, r *http.Request) {
	if a.deps.Reports == nil {
		writeError(w, http.StatusServiceUnavailable, "report store not configured")
		return
	}

	q := listQuery{Limit: defaultListLimit}
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		q.Limit = n
	}
	if err := a.validate.Struct(q); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	reports, err := a.deps.Reports.ListReports(r.Context(), q.Limit)
	if err != nil {
		a.logger.Error("list reports failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}
	if reports == nil {
		reports = []domain.Report{}
	}
	writeJSON(w, http.StatusOK, domain.NormalizeAddresses(r.Context(), reports, a.deps.Geocoder, a.logger))
}

type reverseQuery struct {
	Lat float64 `validate:"latitude"`
	Lon float64 `validate:"longitude"`
}

func (a *api) handleReverseGeocode(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if errLat != nil || errLon != nil {
		writeError(w, http.StatusBadRequest, "lat and lon must be numbers")
		return
	}
	q := reverseQuery{Lat: lat, Lon: lon}
	if err := a.validate.Struct(q); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	if a.deps.Geocoder == nil {
		writeError(w, http.StatusServiceUnavailable, domain.ErrGeocodingUnavailable.Error())
		return
	}

	result, err := a.deps.Geocoder.ReverseGeocode(r.Context(), q.Lat, q.Lon)
	if err != nil {
		a.logger.Warn("reverse geocode request failed", "lat", q.Lat, "lon", q.Lon, "error", err)
		writeError(w, http.StatusServiceUnavailable, domain.ErrGeocodingUnavailable.Error())
		return
	}
	if result.Empty() {
		writeError(w, http.StatusNotFound, "no address found")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return "invalid " + fe.Field() + ": failed " + fe.Tag()
	}
	return err.Error()
}
