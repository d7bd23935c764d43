package api

import (
	"net/http"
	"strings"

	"github.com/dgallion1/chat2md/internal/document"
)

// handleListDocuments lists indexed output documents, optionally filtered by tag.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	entries, err := s.orchestrator.Writer().ScanEntries()
	if err != nil {
		jsonError(w, "failed to list documents: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if tag := strings.TrimSpace(r.URL.Query().Get("tag")); tag != "" {
		filtered := entries[:0]
		for _, e := range entries {
			for _, t := range e.Tags {
				if t == tag {
					filtered = append(filtered, e)
					break
				}
			}
		}
		entries = filtered
	}
	if entries == nil {
		entries = []document.TOCEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": entries})
}

// handleProgress lists ledger records in file order.
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	records := s.orchestrator.Ledger().Load()
	if records == nil {
		records = []document.ProgressRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"processed": records})
}
