// Package handler implements the HTTP handlers for the catalogue API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (stop.go, contribution.go, etc.) but share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/intermodalpt/catalogue/internal/audit"
	"github.com/intermodalpt/catalogue/internal/domain"
	"github.com/intermodalpt/catalogue/internal/history"
	"github.com/intermodalpt/catalogue/internal/review"
)

// StopServicer defines the stop operations the handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type StopServicer interface {
	Get(ctx context.Context, id int32) (domain.Stop, error)
	Create(ctx context.Context, actor domain.Actor, proposal history.StopProposal) (domain.Stop, error)
	Patch(ctx context.Context, actor domain.Actor, id int32, proposal history.StopProposal) (domain.Stop, error)
	History(ctx context.Context, id int32) ([]audit.Revision, error)
}

// RouteServicer defines the route operations the handlers depend on.
type RouteServicer interface {
	Patch(ctx context.Context, actor domain.Actor, id int32, proposed domain.Route) (domain.Route, error)
}

// ContributionServicer defines the contribution pipeline operations.
type ContributionServicer interface {
	Submit(ctx context.Context, author uuid.UUID, changes history.Changeset, comment *string) (history.Contribution, error)
	SubmitStopMeta(ctx context.Context, author uuid.UUID, stopID int32, proposal history.StopMetaProposal, comment *string) (history.Contribution, error)
	Get(ctx context.Context, id int64) (history.Contribution, error)
	ListByAuthor(ctx context.Context, author uuid.UUID, decided bool, p domain.PaginationParams) (domain.Page[history.Contribution], error)
	ListUndecided(ctx context.Context, p domain.PaginationParams) (domain.Page[history.Contribution], error)
	Accept(ctx context.Context, id int64, evaluator domain.Actor, verify bool, ignored history.FieldSet) (history.Contribution, error)
	Decline(ctx context.Context, id int64, evaluator domain.Actor) (history.Contribution, error)
	PendingStops(ctx context.Context, author uuid.UUID) ([]domain.Stop, error)
	Review(ctx context.Context, id int64) (review.Review, error)
}

// ChangelogServicer defines the audit log reads.
type ChangelogServicer interface {
	List(ctx context.Context, p domain.PaginationParams) (domain.Page[history.AuditEntry], error)
	Export(ctx context.Context) ([]domain.ChangelogExportRow, error)
}

// TagServicer defines the tag vocabulary reads.
type TagServicer interface {
	List(ctx context.Context, prefix string) ([]domain.Tag, error)
}

// Services bundles the dependencies of a Server. Leave nil the ones a
// test does not exercise.
type Services struct {
	Stops         StopServicer
	Routes        RouteServicer
	Contributions ContributionServicer
	Changelog     ChangelogServicer
	Tags          TagServicer
}

// Server serves every API endpoint.
type Server struct {
	stops         StopServicer
	routes        RouteServicer
	contributions ContributionServicer
	changelog     ChangelogServicer
	tags          TagServicer

	log      *slog.Logger
	pageSize int
}

// NewServer constructs the Server with all its dependencies. pageSize is the
// listing length used when a request does not pass ?limit=.
func NewServer(svcs Services, log *slog.Logger, pageSize int) *Server {
	if log == nil {
		log = slog.Default()
	}
	if pageSize < 1 {
		pageSize = domain.DefaultPageSize
	}
	return &Server{
		stops:         svcs.Stops,
		routes:        svcs.Routes,
		contributions: svcs.Contributions,
		changelog:     svcs.Changelog,
		tags:          svcs.Tags,
		log:           log,
		pageSize:      pageSize,
	}
}

// Routes returns the API router. Identity, logging and the other
// cross-cutting middleware are applied by the caller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/stops", s.CreateStop)
		r.Get("/stops/{id}", s.GetStop)
		r.Patch("/stops/{id}", s.PatchStop)
		r.Get("/stops/{id}/history", s.GetStopHistory)
		r.Get("/tags", s.ListTags)

		r.Patch("/routes/{id}", s.PatchRoute)

		r.Post("/contributions", s.SubmitContribution)
		r.Post("/contrib/stops/{id}", s.SubmitStopMeta)
		r.Get("/contributions/undecided", s.ListUndecided)
		r.Get("/contributions/{id}", s.GetContribution)
		r.Get("/contributions/{id}/review", s.GetReview)
		r.Post("/contributions/{id}/accept", s.AcceptContribution)
		r.Post("/contributions/{id}/decline", s.DeclineContribution)

		r.Get("/me/contributions", s.ListMyContributions)
		r.Get("/me/pending-stops", s.ListMyPendingStops)

		r.Get("/changelog", s.ListChangelog)
		r.Get("/changelog/export", s.ExportChangelog)
	})
	return r
}
