package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goreportcsv/internal/extract"
	sel "github.com/hyperifyio/goreportcsv/internal/select"
	"github.com/hyperifyio/goreportcsv/internal/session"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	b, err := uiFS.ReadFile("ui/index.html")
	if err != nil {
		http.Error(w, "index missing", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(b)
}

func (s *Server) handleAppJS(w http.ResponseWriter, r *http.Request) {
	b, err := uiFS.ReadFile("ui/app.js")
	if err != nil {
		http.Error(w, "app missing", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	_, _ = w.Write(b)
}

// handleUpload accepts one multipart file, replaces the session with it and
// runs extraction. A report without a qualifying table answers 422 and the
// emptied session.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or invalid form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading upload failed")
		return
	}
	if err := s.session.Upload(header.Filename, raw); err != nil {
		writeError(w, http.StatusInternalServerError, "upload failed")
		return
	}
	if err := s.session.Extract(); err != nil {
		if errors.Is(err, extract.ErrNoTable) {
			writeJSON(w, http.StatusUnprocessableEntity, s.session.Snapshot())
			return
		}
		writeError(w, http.StatusInternalServerError, "extraction failed")
		return
	}
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

// selectRequest is the recognized configuration surface: a mode, and for
// manual mode the inclusive start and end data-row indices.
type selectRequest struct {
	Mode  string `json:"mode"`
	Start *int   `json:"start"`
	End   *int   `json:"end"`
}

// handleSelect applies a row-selection mode and, when it sticks, finalizes
// the CSV so the download is immediately available.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var mode sel.Mode
	switch req.Mode {
	case "automatic":
		mode = sel.Automatic{}
	case "manual":
		if req.Start == nil || req.End == nil {
			writeError(w, http.StatusBadRequest, "manual mode requires start and end")
			return
		}
		mode = sel.Manual{Start: *req.Start, End: *req.End}
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown mode %q", req.Mode))
		return
	}

	if err := s.session.Choose(mode); err != nil {
		switch {
		case errors.Is(err, sel.ErrInvalidRange):
			writeJSON(w, http.StatusUnprocessableEntity, s.session.Snapshot())
		case errors.Is(err, session.ErrState):
			writeError(w, http.StatusConflict, "no extracted table to select from")
		default:
			writeError(w, http.StatusInternalServerError, "selection failed")
		}
		return
	}
	if err := s.session.Finalize(); err != nil {
		writeError(w, http.StatusInternalServerError, "csv serialization failed")
		return
	}
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

// handleDownload streams the finalized CSV as an attachment. 409 until a
// selection has been finalized.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name, data, err := s.session.Download()
	if err != nil {
		if errors.Is(err, session.ErrNoCSV) {
			writeError(w, http.StatusConflict, "no csv ready")
			return
		}
		writeError(w, http.StatusInternalServerError, "download failed")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.session.Reset()
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v and writes it with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encoding response failed")
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
