package api

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/chat2md/internal/parser"
)

// handleUploadSource stores one transcript in the input directory.
func (s *Server) handleUploadSource(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.maxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.maxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.maxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	name, err := s.orchestrator.SaveSource(filename, data)
	if err != nil {
		jsonError(w, "failed to store source: "+err.Error(), http.StatusInternalServerError)
		return
	}
	s.log.Info("source uploaded", "name", name, "bytes", len(data))
	writeJSON(w, http.StatusCreated, map[string]any{"name": name, "bytes": len(data)})
}

func (s *Server) handlePendingSources(w http.ResponseWriter, r *http.Request) {
	pending, processed, err := s.orchestrator.Pending()
	if err != nil {
		jsonError(w, "failed to list sources: "+err.Error(), http.StatusInternalServerError)
		return
	}

	type pendingSource struct {
		Name    string    `json:"name"`
		ModTime time.Time `json:"mod_time"`
	}
	out := make([]pendingSource, 0, len(pending))
	for _, src := range pending {
		out = append(out, pendingSource{Name: src.Name, ModTime: src.ModTime})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"pending":           out,
		"already_processed": processed,
	})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}
