package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/couchcryptid/storm-forecast-digest/internal/domain"
)

func (s *Server) handleDigest(w http.ResponseWriter, r *http.Request) {
	lat, err := parseCoord(r.URL.Query().Get("lat"), 90)
	if err != nil {
		writeJSONError(w, "invalid lat parameter", http.StatusBadRequest)
		return
	}
	lon, err := parseCoord(r.URL.Query().Get("lon"), 180)
	if err != nil {
		writeJSONError(w, "invalid lon parameter", http.StatusBadRequest)
		return
	}

	feed, err := s.source.FetchFeed(r.Context(), lat, lon)
	if err != nil {
		s.logger.Error("fetch feed failed", "error", err, "lat", lat, "lon", lon)
		writeJSONError(w, "weather data unavailable", http.StatusBadGateway)
		return
	}

	// The upstream error string is shown as-is and the engine never runs.
	if upErr := feed.Err(); upErr != nil {
		var target *domain.UpstreamError
		errors.As(upErr, &target)
		writeJSONError(w, target.Message, http.StatusBadGateway)
		return
	}

	result, err := domain.BuildDigest(feed)
	if err != nil {
		s.logger.Warn("feed could not be digested", "error", err, "lat", lat, "lon", lon)
		writeJSONError(w, "malformed forecast feed", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, domain.NewDigestView(feed.Location, result, domain.Now()))
}

func parseCoord(raw string, limit float64) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || v < -limit || v > limit {
		return 0, fmt.Errorf("coordinate %v out of range", v)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

func writeJSONError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}
