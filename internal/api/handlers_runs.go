package api

import (
	"errors"
	"net/http"

	"github.com/dgallion1/chat2md/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleStartRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.orchestrator.Submit(r.Context())
	if errors.Is(err, pipeline.ErrRunActive) {
		active := s.orchestrator.Active()
		resp := map[string]any{"error": err.Error()}
		if active != nil {
			resp["run_id"] = active.ID
		}
		writeJSON(w, http.StatusConflict, resp)
		return
	}
	if err != nil {
		jsonError(w, "failed to start run: "+err.Error(), http.StatusInternalServerError)
		return
	}

	s.log.Info("run submitted", "run_id", run.ID)
	w.Header().Set("Location", runsPrefix+run.ID)
	writeJSON(w, http.StatusAccepted, map[string]any{
		"run_id": run.ID,
		"status": pipeline.RunRunning,
	})
}

func (s *Server) handleRunStatus(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	run := s.orchestrator.GetRun(runID)
	if run == nil {
		jsonError(w, "run not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, run.Snapshot())
}
