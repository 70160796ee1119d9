package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"github.com/fleetops/rental/internal/db"
	"github.com/fleetops/rental/internal/repository"
)

type VehicleRepo struct {
	db db.DB
}

func NewVehicleRepo(db db.DB) *VehicleRepo {
	return &VehicleRepo{db: db}
}

func (r *VehicleRepo) Create(ctx context.Context, row *repository.VehicleRow) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO vehicles (
            id, category, make, model, year, daily_rate, doors, engine_cc, load_tons, active
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `, row.ID, row.Category, row.Make, row.Model, row.Year, row.DailyRate, row.Doors, row.EngineCC, row.LoadTons, row.Active)
	return err
}

func (r *VehicleRepo) GetByID(ctx context.Context, id string) (*repository.VehicleRow, error) {
	var row repository.VehicleRow
	err := r.db.Get(ctx, &row, "SELECT * FROM vehicles WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *VehicleRepo) Update(ctx context.Context, row *repository.VehicleRow) error {
	_, err := r.db.Exec(ctx, `
        UPDATE vehicles
        SET
            category = $1,
            make = $2,
            model = $3,
            year = $4,
            daily_rate = $5,
            doors = $6,
            engine_cc = $7,
            load_tons = $8,
            active = $9
        WHERE id = $10
    `, row.Category, row.Make, row.Model, row.Year, row.DailyRate, row.Doors, row.EngineCC, row.LoadTons, row.Active, row.ID)
	return err
}

func (r *VehicleRepo) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := r.db.Exec(ctx, "UPDATE vehicles SET active = $1 WHERE id = $2", active, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrObjectNotFound
	}
	return nil
}

func (r *VehicleRepo) List(ctx context.Context) ([]*repository.VehicleRow, error) {
	var rows []*repository.VehicleRow
	err := r.db.Select(ctx, &rows, "SELECT * FROM vehicles ORDER BY id ASC")
	return rows, err
}
