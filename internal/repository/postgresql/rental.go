package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"github.com/fleetops/rental/internal/db"
	"github.com/fleetops/rental/internal/repository"
)

type RentalRepo struct {
	db db.DB
}

func NewRentalRepo(db db.DB) *RentalRepo {
	return &RentalRepo{db: db}
}

func (r *RentalRepo) CreateTx(ctx context.Context, tx db.Tx, row *repository.RentalRow) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO rentals (
            id, vehicle_id, renter_id, period_start, period_end, agreed_cost, returned, actual_return_time, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `, row.ID, row.VehicleID, row.RenterID, row.PeriodStart, row.PeriodEnd, row.AgreedCost, row.Returned, row.ActualReturnTime, row.CreatedAt)
	return err
}

func (r *RentalRepo) GetByID(ctx context.Context, id string) (*repository.RentalRow, error) {
	var row repository.RentalRow
	err := r.db.Get(ctx, &row, "SELECT * FROM rentals WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &row, nil
}

// Update only touches the return fields: agreed_cost is frozen at rental
// time and the rest of the row is immutable.
func (r *RentalRepo) Update(ctx context.Context, row *repository.RentalRow) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE rentals
        SET
            returned = $1,
            actual_return_time = $2
        WHERE id = $3
    `, row.Returned, row.ActualReturnTime, row.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrObjectNotFound
	}
	return nil
}

func (r *RentalRepo) List(ctx context.Context) ([]*repository.RentalRow, error) {
	var rows []*repository.RentalRow
	err := r.db.Select(ctx, &rows, "SELECT * FROM rentals ORDER BY created_at ASC, id ASC")
	return rows, err
}

func (r *RentalRepo) ListByVehicle(ctx context.Context, vehicleID string) ([]*repository.RentalRow, error) {
	var rows []*repository.RentalRow
	err := r.db.Select(ctx, &rows,
		"SELECT * FROM rentals WHERE vehicle_id = $1 ORDER BY created_at ASC, id ASC", vehicleID)
	return rows, err
}

func (r *RentalRepo) ListByRenter(ctx context.Context, renterID string) ([]*repository.RentalRow, error) {
	var rows []*repository.RentalRow
	err := r.db.Select(ctx, &rows,
		"SELECT * FROM rentals WHERE renter_id = $1 ORDER BY created_at ASC, id ASC", renterID)
	return rows, err
}
