package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/mohit83k/bngclients/internal/model"
)

// ErrorResponse is the JSON body of every error reply.
// Code is machine-readable; Error and Details are for humans.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// Codes for request errors that never reach the pipeline.
const (
	codeBadRequest = "bad_request"
	codeNotFound   = "not_found"
	codeInternal   = "internal_error"
)

// respondBadRequest rejects a request before it reaches the pipeline.
func (s *Server) respondBadRequest(w http.ResponseWriter, msg string) {
	s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msg, Code: codeBadRequest})
}

// respondError maps a pipeline error to a status and logs it.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, model.ErrNoContent) {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	status := http.StatusInternalServerError
	body := ErrorResponse{Error: "Internal error.", Code: codeInternal}

	var pe *model.Error
	if errors.As(err, &pe) {
		body = ErrorResponse{Error: pe.Detail, Code: string(pe.Kind)}
		if pe.Err != nil {
			body.Details = pe.Err.Error()
		}
		if pe.Kind == model.KindMalformed {
			status = http.StatusBadRequest
		}
	}

	s.log.WithFields(map[string]any{
		"path":       r.URL.Path,
		"status":     status,
		"code":       body.Code,
		"request_id": middleware.GetReqID(r.Context()),
	}).Error(err)

	s.writeJSON(w, status, body)
}
