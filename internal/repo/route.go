package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/intermodalpt/catalogue/internal/domain"
)

// RouteRepo defines the persistence operations for Routes.
type RouteRepo interface {
	// Create inserts a new route and returns the persisted record.
	Create(ctx context.Context, route domain.Route) (domain.Route, error)

	// GetForUpdate retrieves a route and locks its row until the surrounding
	// transaction ends. Returns domain.ErrNotFound if it does not exist.
	GetForUpdate(ctx context.Context, id int32) (domain.Route, error)

	// Update overwrites the mutable fields of a route.
	// Returns domain.ErrNotFound if no route with that ID exists.
	Update(ctx context.Context, route domain.Route) (domain.Route, error)
}

type pgRouteRepo struct {
	db db
}

// NewRouteRepo constructs a RouteRepo backed by the provided db connection.
func NewRouteRepo(db db) RouteRepo {
	return &pgRouteRepo{db: db}
}

func (r *pgRouteRepo) Create(ctx context.Context, route domain.Route) (domain.Route, error) {
	const q = `
		INSERT INTO routes (type_id, operator_id, code, name, circular, active, main_subroute)
		VALUES (@type_id, @operator_id, @code, @name, @circular, @active, @main_subroute)
		RETURNING id, type_id, operator_id, code, name, circular, active, main_subroute`

	result, err := scanRoute(r.db.QueryRow(ctx, q, routeArgs(route)))
	if err != nil {
		return domain.Route{}, fmt.Errorf("repo.RouteRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgRouteRepo) GetForUpdate(ctx context.Context, id int32) (domain.Route, error) {
	const q = `
		SELECT id, type_id, operator_id, code, name, circular, active, main_subroute
		FROM routes
		WHERE id = @id
		FOR UPDATE`

	result, err := scanRoute(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Route{}, fmt.Errorf("repo.RouteRepo.GetForUpdate: %w", err)
	}
	return result, nil
}

func (r *pgRouteRepo) Update(ctx context.Context, route domain.Route) (domain.Route, error) {
	const q = `
		UPDATE routes
		SET type_id       = @type_id,
		    operator_id   = @operator_id,
		    code          = @code,
		    name          = @name,
		    circular      = @circular,
		    active        = @active,
		    main_subroute = @main_subroute
		WHERE id = @id
		RETURNING id, type_id, operator_id, code, name, circular, active, main_subroute`

	args := routeArgs(route)
	args["id"] = route.ID
	result, err := scanRoute(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Route{}, fmt.Errorf("repo.RouteRepo.Update: %w", err)
	}
	return result, nil
}

func routeArgs(route domain.Route) pgx.NamedArgs {
	return pgx.NamedArgs{
		"type_id":       route.TypeID,
		"operator_id":   route.OperatorID,
		"code":          route.Code,
		"name":          route.Name,
		"circular":      route.Circular,
		"active":        route.Active,
		"main_subroute": route.MainSubroute,
	}
}

func scanRoute(s scanner) (domain.Route, error) {
	var rt domain.Route
	err := s.Scan(&rt.ID, &rt.TypeID, &rt.OperatorID, &rt.Code, &rt.Name, &rt.Circular, &rt.Active, &rt.MainSubroute)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Route{}, domain.ErrNotFound
		}
		return domain.Route{}, err
	}
	return rt, nil
}
