package handler

import (
	"net/http"

	"github.com/intermodalpt/catalogue/internal/domain"
	"github.com/intermodalpt/catalogue/internal/history"
)

var (
	canCreateStop = domain.Requires(domain.PermCreateStop)
	canModifyStop = domain.Requires(domain.PermModifyStopAttrs)
)

// GetStop handles GET /v1/stops/{id}.
func (s *Server) GetStop(w http.ResponseWriter, r *http.Request) {
	id, ok := int32Param(w, r, "id")
	if !ok {
		return
	}
	stop, err := s.stops.Get(r.Context(), id)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stop)
}

// CreateStop handles POST /v1/stops.
func (s *Server) CreateStop(w http.ResponseWriter, r *http.Request) {
	a, ok := authorize(w, r, canCreateStop)
	if !ok {
		return
	}
	var body history.StopProposal
	if !decodeBody(w, r, &body) {
		return
	}
	created, err := s.stops.Create(r.Context(), a, body)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// PatchStop handles PATCH /v1/stops/{id}.
// The body is the full desired state; only what differs is changed.
func (s *Server) PatchStop(w http.ResponseWriter, r *http.Request) {
	a, ok := authorize(w, r, canModifyStop)
	if !ok {
		return
	}
	id, ok := int32Param(w, r, "id")
	if !ok {
		return
	}
	var body history.StopProposal
	if !decodeBody(w, r, &body) {
		return
	}
	updated, err := s.stops.Patch(r.Context(), a, id, body)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// GetStopHistory handles GET /v1/stops/{id}/history.
func (s *Server) GetStopHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := int32Param(w, r, "id")
	if !ok {
		return
	}
	revs, err := s.stops.History(r.Context(), id)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, revs)
}
