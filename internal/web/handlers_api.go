package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/dashbored/internal/core"
)

// defaultRecentUploads is the page size of GET /api/uploads/recent.
const defaultRecentUploads = 20

func datasetParam(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("dataset"))
}

// handleListDatasets returns the dataset dropdown options.
func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	datasets, err := s.service.Datasets(r.Context())
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"datasets": datasets})
}

// handleColumns returns the axis choices and defaults for a dataset.
func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	choices, err := s.service.Columns(r.Context(), datasetParam(r))
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, r, http.StatusOK, choices)
}

// handleSummary returns the dataset summary.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.service.Summary(r.Context(), datasetParam(r))
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, r, http.StatusOK, summary)
}

// handleView returns the view Result for the query's selection.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	dataset, p, err := s.parsePanel(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	_, res, err := s.service.View(r.Context(), dataset, p.selection())
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// handleRecentUploads returns the newest upload records.
func (s *Server) handleRecentUploads(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentUploads
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			s.respondError(w, r, validationError(errLimit(raw)), http.StatusBadRequest)
			return
		}
		limit = n
	}

	records, err := s.service.RecentUploads(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []core.UploadRecord{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"uploads": records})
}

type errLimit string

func (e errLimit) Error() string { return "limit must be 1-100, got " + strconv.Quote(string(e)) }
