package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/intermodalpt/catalogue/internal/audit"
	"github.com/intermodalpt/catalogue/internal/domain"
	"github.com/intermodalpt/catalogue/internal/handler"
	"github.com/intermodalpt/catalogue/internal/history"
	"github.com/intermodalpt/catalogue/internal/middleware"
	"github.com/intermodalpt/catalogue/internal/review"
)

// ---- mock StopServicer -----------------------------------------------------

type mockStopServicer struct {
	get     func(ctx context.Context, id int32) (domain.Stop, error)
	create  func(ctx context.Context, actor domain.Actor, p history.StopProposal) (domain.Stop, error)
	patch   func(ctx context.Context, actor domain.Actor, id int32, p history.StopProposal) (domain.Stop, error)
	history func(ctx context.Context, id int32) ([]audit.Revision, error)
}

func (m *mockStopServicer) Get(ctx context.Context, id int32) (domain.Stop, error) {
	return m.get(ctx, id)
}
func (m *mockStopServicer) Create(ctx context.Context, actor domain.Actor, p history.StopProposal) (domain.Stop, error) {
	return m.create(ctx, actor, p)
}
func (m *mockStopServicer) Patch(ctx context.Context, actor domain.Actor, id int32, p history.StopProposal) (domain.Stop, error) {
	return m.patch(ctx, actor, id, p)
}
func (m *mockStopServicer) History(ctx context.Context, id int32) ([]audit.Revision, error) {
	return m.history(ctx, id)
}

// compile-time check: mockStopServicer must satisfy handler.StopServicer.
var _ handler.StopServicer = (*mockStopServicer)(nil)

// ---- mock RouteServicer ----------------------------------------------------

type mockRouteServicer struct {
	patch func(ctx context.Context, actor domain.Actor, id int32, proposed domain.Route) (domain.Route, error)
}

func (m *mockRouteServicer) Patch(ctx context.Context, actor domain.Actor, id int32, proposed domain.Route) (domain.Route, error) {
	return m.patch(ctx, actor, id, proposed)
}

var _ handler.RouteServicer = (*mockRouteServicer)(nil)

// ---- mock ContributionServicer ---------------------------------------------

type mockContributionServicer struct {
	submit         func(ctx context.Context, author uuid.UUID, changes history.Changeset, comment *string) (history.Contribution, error)
	submitStopMeta func(ctx context.Context, author uuid.UUID, stopID int32, p history.StopMetaProposal, comment *string) (history.Contribution, error)
	get            func(ctx context.Context, id int64) (history.Contribution, error)
	listByAuthor   func(ctx context.Context, author uuid.UUID, decided bool, p domain.PaginationParams) (domain.Page[history.Contribution], error)
	listUndecided  func(ctx context.Context, p domain.PaginationParams) (domain.Page[history.Contribution], error)
	accept         func(ctx context.Context, id int64, evaluator domain.Actor, verify bool, ignored history.FieldSet) (history.Contribution, error)
	decline        func(ctx context.Context, id int64, evaluator domain.Actor) (history.Contribution, error)
	pendingStops   func(ctx context.Context, author uuid.UUID) ([]domain.Stop, error)
	review         func(ctx context.Context, id int64) (review.Review, error)
}

func (m *mockContributionServicer) Submit(ctx context.Context, author uuid.UUID, changes history.Changeset, comment *string) (history.Contribution, error) {
	return m.submit(ctx, author, changes, comment)
}
func (m *mockContributionServicer) SubmitStopMeta(ctx context.Context, author uuid.UUID, stopID int32, p history.StopMetaProposal, comment *string) (history.Contribution, error) {
	return m.submitStopMeta(ctx, author, stopID, p, comment)
}
func (m *mockContributionServicer) Get(ctx context.Context, id int64) (history.Contribution, error) {
	return m.get(ctx, id)
}
func (m *mockContributionServicer) ListByAuthor(ctx context.Context, author uuid.UUID, decided bool, p domain.PaginationParams) (domain.Page[history.Contribution], error) {
	return m.listByAuthor(ctx, author, decided, p)
}
func (m *mockContributionServicer) ListUndecided(ctx context.Context, p domain.PaginationParams) (domain.Page[history.Contribution], error) {
	return m.listUndecided(ctx, p)
}
func (m *mockContributionServicer) Accept(ctx context.Context, id int64, evaluator domain.Actor, verify bool, ignored history.FieldSet) (history.Contribution, error) {
	return m.accept(ctx, id, evaluator, verify, ignored)
}
func (m *mockContributionServicer) Decline(ctx context.Context, id int64, evaluator domain.Actor) (history.Contribution, error) {
	return m.decline(ctx, id, evaluator)
}
func (m *mockContributionServicer) PendingStops(ctx context.Context, author uuid.UUID) ([]domain.Stop, error) {
	return m.pendingStops(ctx, author)
}
func (m *mockContributionServicer) Review(ctx context.Context, id int64) (review.Review, error) {
	return m.review(ctx, id)
}

var _ handler.ContributionServicer = (*mockContributionServicer)(nil)

// ---- mock ChangelogServicer ------------------------------------------------

type mockChangelogServicer struct {
	list   func(ctx context.Context, p domain.PaginationParams) (domain.Page[history.AuditEntry], error)
	export func(ctx context.Context) ([]domain.ChangelogExportRow, error)
}

func (m *mockChangelogServicer) List(ctx context.Context, p domain.PaginationParams) (domain.Page[history.AuditEntry], error) {
	return m.list(ctx, p)
}
func (m *mockChangelogServicer) Export(ctx context.Context) ([]domain.ChangelogExportRow, error) {
	return m.export(ctx)
}

var _ handler.ChangelogServicer = (*mockChangelogServicer)(nil)

// ---- mock TagServicer ------------------------------------------------------

type mockTagServicer struct {
	list func(ctx context.Context, prefix string) ([]domain.Tag, error)
}

func (m *mockTagServicer) List(ctx context.Context, prefix string) ([]domain.Tag, error) {
	return m.list(ctx, prefix)
}

var _ handler.TagServicer = (*mockTagServicer)(nil)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server over svcs behind the identity middleware,
// the way main does. The default page size is 20.
func newHTTPHandler(svcs handler.Services) http.Handler {
	return middleware.Identity(handler.NewServer(svcs, nil, 20).Routes())
}

// serve runs req through h and returns the recorder.
func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// asUser sets the gateway identity headers on req.
func asUser(req *http.Request, id uuid.UUID, perms ...domain.Permission) *http.Request {
	names := make([]string, len(perms))
	for i, p := range perms {
		names[i] = string(p)
	}
	req.Header.Set(middleware.HeaderUserID, id.String())
	req.Header.Set(middleware.HeaderUserPermissions, strings.Join(names, ","))
	return req
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// errorCode decodes an ErrorResponse body and returns its code.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error.Code
}

func ptr[T any](v T) *T { return &v }

func stopFixture() domain.Stop {
	return domain.Stop{
		ID:      42,
		Name:    "Largo do Rato",
		Lat:     38.7200,
		Lon:     -9.1540,
		Tags:    []string{"metro"},
		License: "CC0",
	}
}
