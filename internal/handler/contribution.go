package handler

import (
	"net/http"

	"github.com/intermodalpt/catalogue/internal/domain"
	"github.com/intermodalpt/catalogue/internal/history"
)

var (
	canSubmit   = domain.Requires(domain.PermSubmitContribution)
	canEvaluate = domain.Requires(domain.PermEvaluateContribution)
)

// SubmitContributionRequest is the body of POST /v1/contributions.
type SubmitContributionRequest struct {
	Changes history.Changeset `json:"changes"`
	Comment *string           `json:"comment"`
}

// SubmitStopMetaRequest is the body of POST /v1/contrib/stops/{id}.
type SubmitStopMetaRequest struct {
	Contribution history.StopMetaProposal `json:"contribution"`
	Comment      *string                  `json:"comment"`
}

// SubmitContribution handles POST /v1/contributions.
func (s *Server) SubmitContribution(w http.ResponseWriter, r *http.Request) {
	a, ok := authorize(w, r, canSubmit)
	if !ok {
		return
	}
	var body SubmitContributionRequest
	if !decodeBody(w, r, &body) {
		return
	}
	c, err := s.contributions.Submit(r.Context(), a.UserID, body.Changes, body.Comment)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// SubmitStopMeta handles POST /v1/contrib/stops/{id}.
// The proposal is diffed against the stop as it is now.
func (s *Server) SubmitStopMeta(w http.ResponseWriter, r *http.Request) {
	a, ok := authorize(w, r, canSubmit)
	if !ok {
		return
	}
	id, ok := int32Param(w, r, "id")
	if !ok {
		return
	}
	var body SubmitStopMetaRequest
	if !decodeBody(w, r, &body) {
		return
	}
	c, err := s.contributions.SubmitStopMeta(r.Context(), a.UserID, id, body.Contribution, body.Comment)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// GetContribution handles GET /v1/contributions/{id}.
func (s *Server) GetContribution(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	c, err := s.contributions.Get(r.Context(), id)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// GetReview handles GET /v1/contributions/{id}/review.
func (s *Server) GetReview(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, canEvaluate); !ok {
		return
	}
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	rv, err := s.contributions.Review(r.Context(), id)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rv)
}

// ListUndecided handles GET /v1/contributions/undecided.
func (s *Server) ListUndecided(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, canEvaluate); !ok {
		return
	}
	p, ok := s.pagination(w, r)
	if !ok {
		return
	}
	page, err := s.contributions.ListUndecided(r.Context(), p)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// AcceptContribution handles POST /v1/contributions/{id}/accept.
// ?verify=true keeps the verification level as proposed; ?ignored=a,b drops
// the named fields before the patch is applied.
func (s *Server) AcceptContribution(w http.ResponseWriter, r *http.Request) {
	a, ok := authorize(w, r, canEvaluate)
	if !ok {
		return
	}
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	verify, ok := optionalBool(w, r, "verify")
	if !ok {
		return
	}
	ignored := history.ParseFieldSet(r.URL.Query().Get("ignored"))

	c, err := s.contributions.Accept(r.Context(), id, a, verify, ignored)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeclineContribution handles POST /v1/contributions/{id}/decline.
func (s *Server) DeclineContribution(w http.ResponseWriter, r *http.Request) {
	a, ok := authorize(w, r, canEvaluate)
	if !ok {
		return
	}
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	c, err := s.contributions.Decline(r.Context(), id, a)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ListMyContributions handles GET /v1/me/contributions.
// ?decided=true lists the caller's evaluated contributions instead of the
// pending ones.
func (s *Server) ListMyContributions(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	decided, ok := optionalBool(w, r, "decided")
	if !ok {
		return
	}
	p, ok := s.pagination(w, r)
	if !ok {
		return
	}
	page, err := s.contributions.ListByAuthor(r.Context(), a.UserID, decided, p)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// ListMyPendingStops handles GET /v1/me/pending-stops.
func (s *Server) ListMyPendingStops(w http.ResponseWriter, r *http.Request) {
	a, ok := actor(w, r)
	if !ok {
		return
	}
	stops, err := s.contributions.PendingStops(r.Context(), a.UserID)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stops)
}
