package server

import (
	"encoding/json"
	"net/http"
	"time"

	"yashubustudio/sleepsurvey/survey"
)

// ResponsesPayload is the body of GET /api/v1/responses.
type ResponsesPayload struct {
	Count      int                       `json:"count"`
	Columns    []string                  `json:"columns"`
	Rows       []survey.Record           `json:"rows"`
	Convention survey.DurationConvention `json:"durationConvention"`
}

// enriched loads the current table and runs the pipeline over it.
func (s *Server) enriched(r *http.Request, refresh bool) (*survey.Result, int, error) {
	load := s.source.Load
	if refresh {
		load = s.source.Refresh
	}
	raw, err := load(r.Context())
	if err != nil {
		return nil, http.StatusBadGateway, err
	}
	res, err := s.svc.Enrich(raw)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return res, http.StatusOK, nil
}

// listResponses returns the enriched rows, optionally limited to one faculty
func (s *Server) listResponses(w http.ResponseWriter, r *http.Request) {
	res, status, err := s.enriched(r, false)
	if err != nil {
		s.writeError(w, status, err)
		return
	}
	t := survey.FilterFaculty(res.Table, r.URL.Query().Get("faculty"))
	rows := t.Rows
	if rows == nil {
		rows = []survey.Record{}
	}
	writeJSON(w, http.StatusOK, ResponsesPayload{
		Count:      t.Len(),
		Columns:    t.Columns,
		Rows:       rows,
		Convention: res.Convention,
	})
}

func (s *Server) getSummary(w http.ResponseWriter, r *http.Request) {
	res, status, err := s.enriched(r, false)
	if err != nil {
		s.writeError(w, status, err)
		return
	}
	t := survey.FilterFaculty(res.Table, r.URL.Query().Get("faculty"))
	writeJSON(w, http.StatusOK, survey.Summarize(t, s.svc.Tables().Lifestyle))
}

// getOutcomes reports the schema mapping and which derived columns were produced
func (s *Server) getOutcomes(w http.ResponseWriter, r *http.Request) {
	res, status, err := s.enriched(r, false)
	if err != nil {
		s.writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	res, status, err := s.enriched(r, true)
	if err != nil {
		s.writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "refreshed",
		"rows":        res.Table.Len(),
		"refreshedAt": time.Now().UTC(),
	})
}

// healthCheck returns server health status
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":             "healthy",
		"durationConvention": s.svc.Config().DurationConvention,
		"timestamp":          time.Now().UTC(),
	})
}

// handleOptions handles CORS preflight requests
func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.logger.Error().Err(err).Int("status", status).Msg("Request failed")
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
