package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"accommodations/internal/domain"
)

const accommodationColumns = `id, name, location, description, capacity, price_per_day`

type AccommodationRepo struct{ db *sqlx.DB }

func NewAccommodationRepo(db *sqlx.DB) *AccommodationRepo { return &AccommodationRepo{db: db} }

// Insert stores a new record. A zero id is assigned by the database; an
// explicit id that already exists replaces the stored record.
func (r *AccommodationRepo) Insert(ctx context.Context, a domain.Accommodation) (domain.Accommodation, error) {
	if a.ID == 0 {
		res, err := r.db.ExecContext(ctx, `
			INSERT INTO accommodations(name, location, description, capacity, price_per_day)
			VALUES (?, ?, ?, ?, ?)
		`, a.Name, a.Location, a.Description, a.Capacity, a.PricePerDay)
		if err != nil {
			return domain.Accommodation{}, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return domain.Accommodation{}, err
		}
		a.ID = id
		return a, nil
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accommodations(id, name, location, description, capacity, price_per_day)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  name = excluded.name,
		  location = excluded.location,
		  description = excluded.description,
		  capacity = excluded.capacity,
		  price_per_day = excluded.price_per_day
	`, a.ID, a.Name, a.Location, a.Description, a.Capacity, a.PricePerDay)
	if err != nil {
		return domain.Accommodation{}, err
	}
	return a, nil
}

func (r *AccommodationRepo) FindAll(ctx context.Context) ([]domain.Accommodation, error) {
	out := []domain.Accommodation{}
	err := r.db.SelectContext(ctx, &out, `SELECT `+accommodationColumns+` FROM accommodations ORDER BY id`)
	return out, err
}

// FindByID returns nil without an error when no record has the id.
func (r *AccommodationRepo) FindByID(ctx context.Context, id int64) (*domain.Accommodation, error) {
	var a domain.Accommodation
	err := r.db.GetContext(ctx, &a, `SELECT `+accommodationColumns+` FROM accommodations WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccommodationRepo) FindByLocation(ctx context.Context, location string) ([]domain.Accommodation, error) {
	out := []domain.Accommodation{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT `+accommodationColumns+`
		FROM accommodations
		WHERE location = ?
		ORDER BY id
	`, location)
	return out, err
}

func (r *AccommodationRepo) FindByCapacity(ctx context.Context, capacity int) ([]domain.Accommodation, error) {
	out := []domain.Accommodation{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT `+accommodationColumns+`
		FROM accommodations
		WHERE capacity = ?
		ORDER BY id
	`, capacity)
	return out, err
}

// Update replaces every mutable field. Returns domain.ErrNotFound when the id is unknown.
func (r *AccommodationRepo) Update(ctx context.Context, id int64, f domain.AccommodationFields) (domain.Accommodation, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accommodations
		SET name = ?, location = ?, description = ?, capacity = ?, price_per_day = ?
		WHERE id = ?
	`, f.Name, f.Location, f.Description, f.Capacity, f.PricePerDay, id)
	if err != nil {
		return domain.Accommodation{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Accommodation{}, err
	}
	if n == 0 {
		return domain.Accommodation{}, domain.ErrNotFound
	}
	a := domain.Accommodation{ID: id}
	a.Apply(f)
	return a, nil
}

// Delete is a no-op for unknown ids.
func (r *AccommodationRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM accommodations WHERE id = ?`, id)
	return err
}

func (r *AccommodationRepo) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

func (r *AccommodationRepo) Close() error { return r.db.Close() }
