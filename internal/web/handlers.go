package web

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/mohit83k/bngclients/internal/export"
)

// handleUpload ingests a tab-delimited file sent as multipart field "file".
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			s.respondBadRequest(w, "No file provided.")
			return
		}
		s.respondBadRequest(w, "File too large or invalid form.")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondBadRequest(w, "No file provided.")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		s.respondBadRequest(w, "No file selected.")
		return
	}

	report, err := s.ingest.Ingest(r.Context(), file)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, report)
}

// handleExport streams the filtered, role-projected client list.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	role, err := export.ParseRole(q.Get("client"))
	if err != nil {
		s.respondBadRequest(w, err.Error())
		return
	}
	format, err := export.ParseFormat(q.Get("export"))
	if err != nil {
		s.respondBadRequest(w, err.Error())
		return
	}

	index := queryValue(q, "index")
	gateway := queryValue(q, "bng_ip")
	if gateway == nil {
		gateway = queryValue(q, "gateway")
	}
	// Exporting requires an explicit filter; "all" is the way to ask for everything.
	if index == nil && gateway == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	res, err := s.export.Export(r.Context(), export.Query{
		Role:   role,
		Format: format,
		Filter: export.BuildFilter(index, gateway),
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, res.Filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Body); err != nil {
		s.log.Error(fmt.Errorf("failed to write export: %w", err))
	}
}

// handleReject downloads a reject file written by an earlier upload.
func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	f, err := s.rejects.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Reject file not found.", Code: codeNotFound})
			return
		}
		s.respondError(w, r, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	http.ServeContent(w, r, name, info.ModTime(), f)
}

// handleHealth reports whether the record store is reachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// queryValue returns nil when key is absent from the query string.
func queryValue(q map[string][]string, key string) *string {
	vals, ok := q[key]
	if !ok || len(vals) == 0 {
		return nil
	}
	return &vals[0]
}
