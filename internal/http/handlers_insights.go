package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := s.svc.Insights.List(r.Context(), userID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toInsightsJSON(insights))
}

func (s *Server) handleMarkInsightRead(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Insights.MarkRead(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteInsight(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Insights.Delete(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
