package handler

import (
	"net/http"

	"github.com/intermodalpt/catalogue/internal/domain"
)

var canModifyRoute = domain.Requires(domain.PermModifyRoute)

// PatchRoute handles PATCH /v1/routes/{id}.
func (s *Server) PatchRoute(w http.ResponseWriter, r *http.Request) {
	a, ok := authorize(w, r, canModifyRoute)
	if !ok {
		return
	}
	id, ok := int32Param(w, r, "id")
	if !ok {
		return
	}
	var body domain.Route
	if !decodeBody(w, r, &body) {
		return
	}
	updated, err := s.routes.Patch(r.Context(), a, id, body)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
