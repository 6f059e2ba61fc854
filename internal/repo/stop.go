package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/intermodalpt/catalogue/internal/domain"
)

// StopRepo defines the persistence operations for Stops.
type StopRepo interface {
	// Create inserts a new stop and returns the persisted record with its
	// generated id.
	Create(ctx context.Context, stop domain.Stop) (domain.Stop, error)

	// GetByID retrieves a single stop.
	// Returns domain.ErrNotFound if no stop with that ID exists.
	GetByID(ctx context.Context, id int32) (domain.Stop, error)

	// GetForUpdate is GetByID with the row locked until the surrounding
	// transaction ends. Outside a transaction the lock is released at once.
	GetForUpdate(ctx context.Context, id int32) (domain.Stop, error)

	// ListByIDs returns the stops among ids that exist, keyed by id.
	ListByIDs(ctx context.Context, ids []int32) (map[int32]domain.Stop, error)

	// Update overwrites every mutable column of a stop.
	// Returns domain.ErrNotFound if no stop with that ID exists.
	Update(ctx context.Context, stop domain.Stop) (domain.Stop, error)
}

// pgStopRepo is the Postgres implementation of StopRepo.
type pgStopRepo struct {
	db db
}

// NewStopRepo constructs a StopRepo backed by the provided db connection.
func NewStopRepo(db db) StopRepo {
	return &pgStopRepo{db: db}
}

const stopColumns = `id, name, short_name, locality, street, door, parish, lat, lon,
		notes, tags, a11y, verification_level, service_check_date,
		infrastructure_check_date, osm_id, license, is_ghost`

func (r *pgStopRepo) Create(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	const q = `
		INSERT INTO stops (name, short_name, locality, street, door, parish, lat, lon,
			notes, tags, a11y, verification_level, service_check_date,
			infrastructure_check_date, osm_id, license, is_ghost)
		VALUES (@name, @short_name, @locality, @street, @door, @parish, @lat, @lon,
			@notes, @tags, @a11y, @verification_level, @service_check_date,
			@infrastructure_check_date, @osm_id, @license, @is_ghost)
		RETURNING ` + stopColumns

	args, err := stopArgs(stop)
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.Create: %w", err)
	}
	result, err := scanStop(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgStopRepo) GetByID(ctx context.Context, id int32) (domain.Stop, error) {
	const q = `SELECT ` + stopColumns + ` FROM stops WHERE id = @id`

	result, err := scanStop(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgStopRepo) GetForUpdate(ctx context.Context, id int32) (domain.Stop, error) {
	const q = `SELECT ` + stopColumns + ` FROM stops WHERE id = @id FOR UPDATE`

	result, err := scanStop(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.GetForUpdate: %w", err)
	}
	return result, nil
}

func (r *pgStopRepo) ListByIDs(ctx context.Context, ids []int32) (map[int32]domain.Stop, error) {
	const q = `SELECT ` + stopColumns + ` FROM stops WHERE id = ANY(@ids)`

	stops := make(map[int32]domain.Stop, len(ids))
	if len(ids) == 0 {
		return stops, nil
	}
	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("repo.StopRepo.ListByIDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		s, err := scanStop(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.StopRepo.ListByIDs: scan: %w", err)
		}
		stops[s.ID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.StopRepo.ListByIDs: rows: %w", err)
	}
	return stops, nil
}

func (r *pgStopRepo) Update(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	const q = `
		UPDATE stops
		SET name                      = @name,
		    short_name                = @short_name,
		    locality                  = @locality,
		    street                    = @street,
		    door                      = @door,
		    parish                    = @parish,
		    lat                       = @lat,
		    lon                       = @lon,
		    notes                     = @notes,
		    tags                      = @tags,
		    a11y                      = @a11y,
		    verification_level        = @verification_level,
		    service_check_date        = @service_check_date,
		    infrastructure_check_date = @infrastructure_check_date,
		    osm_id                    = @osm_id,
		    license                   = @license,
		    is_ghost                  = @is_ghost
		WHERE id = @id
		RETURNING ` + stopColumns

	args, err := stopArgs(stop)
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.Update: %w", err)
	}
	args["id"] = stop.ID
	result, err := scanStop(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.Update: %w", err)
	}
	return result, nil
}

func stopArgs(s domain.Stop) (pgx.NamedArgs, error) {
	a11y, err := json.Marshal(s.A11y)
	if err != nil {
		return nil, fmt.Errorf("encode a11y: %w", err)
	}
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	return pgx.NamedArgs{
		"name":                      s.Name,
		"short_name":                s.ShortName,
		"locality":                  s.Locality,
		"street":                    s.Street,
		"door":                      s.Door,
		"parish":                    s.Parish,
		"lat":                       s.Lat,
		"lon":                       s.Lon,
		"notes":                     s.Notes,
		"tags":                      tags,
		"a11y":                      a11y,
		"verification_level":        int16(s.VerificationLevel),
		"service_check_date":        dateArg(s.ServiceCheckDate),
		"infrastructure_check_date": dateArg(s.InfrastructureCheckDate),
		"osm_id":                    s.OSMID,
		"license":                   s.License,
		"is_ghost":                  s.IsGhost,
	}, nil
}

// scanStop maps a single database row into a domain.Stop.
func scanStop(sc scanner) (domain.Stop, error) {
	var (
		s            domain.Stop
		a11y         []byte
		level        int16
		serviceCheck pgtype.Date
		infraCheck   pgtype.Date
	)
	err := sc.Scan(&s.ID, &s.Name, &s.ShortName, &s.Locality, &s.Street, &s.Door,
		&s.Parish, &s.Lat, &s.Lon, &s.Notes, &s.Tags, &a11y, &level,
		&serviceCheck, &infraCheck, &s.OSMID, &s.License, &s.IsGhost)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Stop{}, domain.ErrNotFound
		}
		return domain.Stop{}, err
	}
	if err := json.Unmarshal(a11y, &s.A11y); err != nil {
		return domain.Stop{}, fmt.Errorf("decode a11y: %w", err)
	}
	s.VerificationLevel = uint8(level)
	s.ServiceCheckDate = dateValue(serviceCheck)
	s.InfrastructureCheckDate = dateValue(infraCheck)
	return s, nil
}
