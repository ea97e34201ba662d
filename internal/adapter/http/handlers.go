package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/couchcryptid/quake-dashboard/internal/dashboard"
	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	msgLoadFailed = "Failed to load earthquake data"
	msgLoading    = "Earthquake data is still loading"
	maxBodyBytes  = 64 << 10
)

type statusResponse struct {
	State      string     `json:"state"`
	SnapshotID string     `json:"snapshot_id,omitempty"`
	LoadedAt   *time.Time `json:"loaded_at,omitempty"`
	Records    int        `json:"records"`
	Error      string     `json:"error,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	resp := statusResponse{State: s.ingestion.State().String()}
	if snap := s.ingestion.Snapshot(); snap != nil {
		resp.SnapshotID = snap.ID
		resp.LoadedAt = &snap.LoadedAt
		resp.Records = len(snap.Records)
	}
	if s.ingestion.State() == pipeline.StateFailed {
		resp.Error = msgLoadFailed
	}
	writeJSON(w, http.StatusOK, resp)
}

// requireData answers 503 until the snapshot is published.
func (s *Server) requireData(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch s.ingestion.State() {
		case pipeline.StateReady:
			next.ServeHTTP(w, r)
		case pipeline.StateFailed:
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": pipeline.StateFailed.String(),
				"error":  msgLoadFailed,
			})
		default:
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": pipeline.StateLoading.String(),
				"error":  msgLoading,
			})
		}
	})
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.session.Records()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.session.Record(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.session.Summary()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	view, err := s.session.Table()
	s.respond(w, r, view, err)
}

func (s *Server) handleUpdateTable(w http.ResponseWriter, r *http.Request) {
	var u dashboard.TableUpdate
	if !s.decode(w, r, &u, true) {
		return
	}
	view, err := s.session.UpdateTable(u)
	s.respond(w, r, view, err)
}

func (s *Server) handleToggleSort(w http.ResponseWriter, r *http.Request) {
	view, err := s.session.ToggleSort(chi.URLParam(r, "field"))
	s.respond(w, r, view, err)
}

func (s *Server) handleNextPage(w http.ResponseWriter, r *http.Request) {
	view, err := s.session.NextPage()
	s.respond(w, r, view, err)
}

func (s *Server) handlePrevPage(w http.ResponseWriter, r *http.Request) {
	view, err := s.session.PrevPage()
	s.respond(w, r, view, err)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	view, err := s.session.Chart()
	s.respond(w, r, view, err)
}

func (s *Server) handleUpdateChart(w http.ResponseWriter, r *http.Request) {
	var u dashboard.ChartUpdate
	if !s.decode(w, r, &u, true) {
		return
	}
	view, err := s.session.UpdateChart(u)
	s.respond(w, r, view, err)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Detail(r.Context()))
}

func (s *Server) handleSelectRecord(w http.ResponseWriter, r *http.Request) {
	var rec domain.Record
	if !s.decode(w, r, &rec, false) {
		return
	}
	if rec.ID == "" {
		writeError(w, http.StatusBadRequest, "record id is required")
		return
	}
	s.session.Select(rec)
	writeJSON(w, http.StatusOK, s.session.Detail(r.Context()))
}

func (s *Server) handleSelectByID(w http.ResponseWriter, r *http.Request) {
	if _, err := s.session.SelectByID(chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.Detail(r.Context()))
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	s.session.ClearSelection()
	writeJSON(w, http.StatusOK, s.session.Detail(r.Context()))
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, v any, err error) {
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// decode reads a JSON body into v. strict rejects unknown fields; record
// bodies are lenient so a table row or chart point can be posted back as is.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any, strict bool) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		s.logger.Debug("bad request body",
			"path", r.URL.Path,
			"error", err,
			"request_id", middleware.GetReqID(r.Context()),
		)
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// respondError maps session errors to status codes.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, dashboard.ErrInvalidParam):
		status = http.StatusBadRequest
	case errors.Is(err, dashboard.ErrRecordNotFound):
		status = http.StatusNotFound
	case errors.Is(err, dashboard.ErrNoData):
		status = http.StatusServiceUnavailable
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request error",
			"path", r.URL.Path,
			"method", r.Method,
			"status", status,
			"error", err,
			"request_id", middleware.GetReqID(r.Context()),
		)
	}
	writeError(w, status, err.Error())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
