package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"tally/internal/core"
	"tally/internal/services"
	"tally/internal/storage"
)

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.svc.Goals.List(r.Context(), userID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalsJSON(goals))
}

type createGoalRequest struct {
	Name     string `json:"name"`
	Target   string `json:"target"`
	Current  string `json:"current"`
	Icon     string `json:"icon"`
	Deadline string `json:"deadline"`
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	target, err := core.ParseDecimalToCents(req.Target)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid target amount")
		return
	}
	// Zero progress is the default on a fresh goal.
	var current int64
	if req.Current != "" {
		current, err = core.ParseDecimalToCents(req.Current)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid current amount")
			return
		}
	}

	params := services.AddGoalParams{
		Name:    req.Name,
		Target:  core.Money{Cents: target},
		Current: core.Money{Cents: current},
		Icon:    req.Icon,
	}
	if req.Deadline != "" {
		d, err := core.ParseDate(req.Deadline)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		params.Deadline = &d
	}

	goal, err := s.svc.Goals.Add(r.Context(), userID(r), params)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGoalJSON(goal))
}

type updateGoalRequest struct {
	Name     *string `json:"name"`
	Target   *string `json:"target"`
	Current  *string `json:"current"`
	Icon     *string `json:"icon"`
	Deadline *string `json:"deadline"`
}

// handleUpdateGoal applies a partial update; absent fields keep their
// stored values.
func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var req updateGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var upd storage.GoalUpdate
	upd.Name = req.Name
	upd.Icon = req.Icon
	if req.Target != nil {
		cents, err := core.ParseDecimalToCents(*req.Target)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid target amount")
			return
		}
		upd.Target = &core.Money{Cents: cents}
	}
	if req.Current != nil {
		cents, err := core.ParseDecimalToCents(*req.Current)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid current amount")
			return
		}
		upd.Current = &core.Money{Cents: cents}
	}
	if req.Deadline != nil {
		d, err := core.ParseDate(*req.Deadline)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		upd.Deadline = &d
	}

	goal, err := s.svc.Goals.Update(r.Context(), userID(r), chi.URLParam(r, "id"), upd)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalJSON(goal))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Goals.Delete(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
