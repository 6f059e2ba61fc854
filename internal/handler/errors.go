package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/intermodalpt/catalogue/internal/domain"
	"github.com/intermodalpt/catalogue/internal/middleware"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// requestError rejects a request before it reaches the service layer
// (missing or malformed body, bad path or query parameter).
func requestError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, "bad_request", message)
}

// respondErr maps a service error onto its HTTP status. Anything that is not
// one of the domain sentinels is logged and reported as a 500.
func (s *Server) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", unwrapMessage(err, domain.ErrNotFound))
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err, domain.ErrValidation))
	case errors.Is(err, domain.ErrDependenciesNotMet):
		writeError(w, http.StatusConflict, "dependencies_not_met", unwrapMessage(err, domain.ErrDependenciesNotMet))
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", unwrapMessage(err, domain.ErrForbidden))
	case errors.Is(err, domain.ErrConversion):
		s.log.ErrorContext(r.Context(), "history conversion failed",
			"error", err,
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, "conversion_error", "stored history does not convert to the live model")
	default:
		s.log.ErrorContext(r.Context(), "request failed",
			"error", err,
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// unwrapMessage extracts the human-readable part following a wrapped sentinel.
// e.g. "service.StopService.Create: validation error: name is required" → "name is required"
// The sentinel text itself is returned when nothing follows it.
func unwrapMessage(err, sentinel error) string {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return sentinel.Error()
}

// decodeBody decodes the JSON request body into v. It writes the error
// response itself and reports whether decoding succeeded.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
			return false
		}
		if errors.Is(err, domain.ErrValidation) {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err, domain.ErrValidation))
			return false
		}
		requestError(w, "malformed request body: "+err.Error())
		return false
	}
	return true
}

// actor returns the caller, or writes 401 when the request is anonymous.
func actor(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	a, ok := middleware.ActorFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return domain.Actor{}, false
	}
	return a, true
}

// authorize returns the caller once need holds for their permissions.
// Anonymous callers get 401 and insufficient grants 403.
func authorize(w http.ResponseWriter, r *http.Request, need domain.Capability) (domain.Actor, bool) {
	a, ok := actor(w, r)
	if !ok {
		return domain.Actor{}, false
	}
	if !need(a.Permissions) {
		writeError(w, http.StatusForbidden, "forbidden", "missing permission")
		return domain.Actor{}, false
	}
	return a, true
}

// int32Param parses the {name} path segment.
func int32Param(w http.ResponseWriter, r *http.Request, name string) (int32, bool) {
	v, err := strconv.ParseInt(chi.URLParam(r, name), 10, 32)
	if err != nil {
		requestError(w, "invalid "+name)
		return 0, false
	}
	return int32(v), true
}

// int64Param parses the {name} path segment.
func int64Param(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	v, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		requestError(w, "invalid "+name)
		return 0, false
	}
	return v, true
}

// optionalInt parses an optional integer query parameter.
func optionalInt(w http.ResponseWriter, r *http.Request, name string) (*int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		requestError(w, "invalid "+name)
		return nil, false
	}
	return &v, true
}

// optionalBool parses an optional boolean query parameter, false when absent.
func optionalBool(w http.ResponseWriter, r *http.Request, name string) (bool, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		requestError(w, "invalid "+name)
		return false, false
	}
	return v, true
}

// pagination reads ?page= and ?limit=, defaulting the limit to the server's
// page size. The limit is capped at 100.
func (s *Server) pagination(w http.ResponseWriter, r *http.Request) (domain.PaginationParams, bool) {
	page, ok := optionalInt(w, r, "page")
	if !ok {
		return domain.PaginationParams{}, false
	}
	limit, ok := optionalInt(w, r, "limit")
	if !ok {
		return domain.PaginationParams{}, false
	}
	if limit == nil {
		limit = &s.pageSize
	}
	return domain.NewPaginationParams(page, limit), true
}
