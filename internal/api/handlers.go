// internal/api/handlers.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apperrors "trip-planner/internal/common/errors"
	"trip-planner/internal/common/validation"
	"trip-planner/internal/export"
	"trip-planner/internal/models"
	"trip-planner/internal/pipeline/history"
)

// createTrip validates the request body, runs the pipeline, and
// returns the recorded history entry.
func (s *Server) createTrip(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "unreadable request body", err))
		return
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "request body is not valid JSON", err))
		return
	}

	violations, err := validation.ValidateTravelRequest(payload)
	if err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInternal, "request validation failed", err))
		return
	}
	if len(violations) > 0 {
		s.writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":      string(apperrors.ErrCodeInvalidRequest),
			"message":    "request failed validation",
			"violations": violations,
		})
		return
	}

	var req models.TravelRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "malformed request", err))
		return
	}

	entry, err := s.pipeline.Plan(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, entry)
}

// listTrips returns all recorded trips, most recent first.
func (s *Server) listTrips(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	entries, err := s.pipeline.History().List(r.Context())
	if err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to list trips", err))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"trips": entries})
}

func (s *Server) getTrip(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	entry, err := s.loadEntry(r, params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entry)
}

// regenerateTrip re-runs the pipeline for a recorded trip, appending a
// new entry.
func (s *Server) regenerateTrip(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	entry, err := s.pipeline.Regenerate(r.Context(), params.ByName("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) exportPDF(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	entry, err := s.loadEntry(r, params)
	if err != nil {
		s.writeError(w, err)
		return
	}

	doc, err := export.WritePDF(entry)
	if err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInternal, "pdf export failed", err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=trip-%s.pdf", entry.ID))
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

func (s *Server) exportICS(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	entry, err := s.loadEntry(r, params)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=trip-%s.ics", entry.ID))
	w.WriteHeader(http.StatusOK)
	w.Write(export.WriteICS(entry))
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) loadEntry(r *http.Request, params httprouter.Params) (*models.TripHistoryEntry, error) {
	id := params.ByName("id")
	entry, err := s.pipeline.History().Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, fmt.Sprintf("trip %s not found", id))
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to load trip", err)
	}
	return entry, nil
}

// writeError maps the error taxonomy onto HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := apperrors.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case apperrors.ErrCodeInvalidRequest:
		status = http.StatusBadRequest
	case apperrors.ErrCodeNotFound:
		status = http.StatusNotFound
	case apperrors.ErrCodeGenerationFailed, apperrors.ErrCodeGenerationTimeout:
		status = http.StatusBadGateway
	}

	if status >= 500 {
		s.logger.Error("request failed", map[string]interface{}{"error": err.Error(), "code": string(code)})
	}

	message := err.Error()
	var stdErr *apperrors.StandardError
	if errors.As(err, &stdErr) {
		message = stdErr.Message
	}

	s.writeJSON(w, status, map[string]interface{}{
		"error":   string(code),
		"message": message,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", map[string]interface{}{"error": err.Error()})
	}
}
