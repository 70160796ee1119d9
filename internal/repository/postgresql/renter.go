package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"github.com/fleetops/rental/internal/db"
	"github.com/fleetops/rental/internal/repository"
)

type RenterRepo struct {
	db db.DB
}

func NewRenterRepo(db db.DB) *RenterRepo {
	return &RenterRepo{db: db}
}

func (r *RenterRepo) Create(ctx context.Context, row *repository.RenterRow) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO renters (
            id, kind, name, contact, password_hash, active
        ) VALUES ($1, $2, $3, $4, $5, $6)
    `, row.ID, row.Kind, row.Name, row.Contact, row.PasswordHash, row.Active)
	return err
}

func (r *RenterRepo) GetByID(ctx context.Context, id string) (*repository.RenterRow, error) {
	var row repository.RenterRow
	err := r.db.Get(ctx, &row, "SELECT * FROM renters WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *RenterRepo) Update(ctx context.Context, row *repository.RenterRow) error {
	_, err := r.db.Exec(ctx, `
        UPDATE renters
        SET
            kind = $1,
            name = $2,
            contact = $3,
            password_hash = $4,
            active = $5
        WHERE id = $6
    `, row.Kind, row.Name, row.Contact, row.PasswordHash, row.Active, row.ID)
	return err
}

func (r *RenterRepo) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := r.db.Exec(ctx, "UPDATE renters SET active = $1 WHERE id = $2", active, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrObjectNotFound
	}
	return nil
}

func (r *RenterRepo) List(ctx context.Context) ([]*repository.RenterRow, error) {
	var rows []*repository.RenterRow
	err := r.db.Select(ctx, &rows, "SELECT * FROM renters ORDER BY id ASC")
	return rows, err
}
