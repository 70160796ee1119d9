package postgresql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_db "github.com/fleetops/rental/internal/db/mocks"
	"github.com/fleetops/rental/internal/repository"
)

func sampleRow() *repository.RentalRow {
	return &repository.RentalRow{
		ID:          "rec-1",
		VehicleID:   "v1",
		RenterID:    "r1",
		PeriodStart: time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 1, 3, 10, 0, 0, 0, time.UTC),
		AgreedCost:  "90.00",
		CreatedAt:   time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestRentalRepo_CreateTx(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := mock_db.NewMockDB(ctrl)
	mockTx := mock_db.NewMockTx(ctrl)
	repo := NewRentalRepo(mockDB)
	ctx := context.Background()
	row := sampleRow()

	t.Run("inserts within the transaction", func(t *testing.T) {
		mockTx.EXPECT().Exec(ctx, gomock.Any(),
			row.ID, row.VehicleID, row.RenterID, row.PeriodStart, row.PeriodEnd,
			row.AgreedCost, row.Returned, row.ActualReturnTime, row.CreatedAt,
		).Return(pgconn.CommandTag("INSERT 0 1"), nil)

		assert.NoError(t, repo.CreateTx(ctx, mockTx, row))
	})

	t.Run("propagates exec errors", func(t *testing.T) {
		mockTx.EXPECT().Exec(ctx, gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
			gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
		).Return(pgconn.CommandTag(nil), errors.New("duplicate key"))

		err := repo.CreateTx(ctx, mockTx, row)
		assert.EqualError(t, err, "duplicate key")
	})
}

func TestRentalRepo_GetByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := mock_db.NewMockDB(ctrl)
	repo := NewRentalRepo(mockDB)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mockDB.EXPECT().Get(ctx, gomock.Any(), "SELECT * FROM rentals WHERE id = $1", "rec-1").
			DoAndReturn(func(_ context.Context, dest interface{}, _ string, _ ...interface{}) error {
				*dest.(*repository.RentalRow) = *sampleRow()
				return nil
			})

		row, err := repo.GetByID(ctx, "rec-1")
		require.NoError(t, err)
		assert.Equal(t, "v1", row.VehicleID)
		assert.Equal(t, "90.00", row.AgreedCost)
	})

	t.Run("no rows maps to the miss sentinel", func(t *testing.T) {
		mockDB.EXPECT().Get(ctx, gomock.Any(), gomock.Any(), "ghost").Return(pgx.ErrNoRows)

		_, err := repo.GetByID(ctx, "ghost")
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		mockDB.EXPECT().Get(ctx, gomock.Any(), gomock.Any(), "rec-1").Return(errors.New("connection reset"))

		_, err := repo.GetByID(ctx, "rec-1")
		assert.EqualError(t, err, "connection reset")
	})
}

func TestRentalRepo_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := mock_db.NewMockDB(ctrl)
	repo := NewRentalRepo(mockDB)
	ctx := context.Background()

	returnedAt := time.Date(2026, 1, 3, 9, 0, 0, 0, time.UTC)
	row := sampleRow()
	row.Returned = true
	row.ActualReturnTime = &returnedAt

	t.Run("touches only return fields", func(t *testing.T) {
		mockDB.EXPECT().Exec(ctx, gomock.Any(), row.Returned, row.ActualReturnTime, row.ID).
			Return(pgconn.CommandTag("UPDATE 1"), nil)

		assert.NoError(t, repo.Update(ctx, row))
	})

	t.Run("zero rows affected is a miss", func(t *testing.T) {
		mockDB.EXPECT().Exec(ctx, gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(pgconn.CommandTag("UPDATE 0"), nil)

		assert.ErrorIs(t, repo.Update(ctx, row), repository.ErrObjectNotFound)
	})
}

func TestRentalRepo_Listings(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := mock_db.NewMockDB(ctrl)
	repo := NewRentalRepo(mockDB)
	ctx := context.Background()

	fill := func(_ context.Context, dest interface{}, _ string, _ ...interface{}) error {
		*dest.(*[]*repository.RentalRow) = []*repository.RentalRow{sampleRow()}
		return nil
	}

	t.Run("by vehicle", func(t *testing.T) {
		mockDB.EXPECT().Select(ctx, gomock.Any(),
			"SELECT * FROM rentals WHERE vehicle_id = $1 ORDER BY created_at ASC, id ASC", "v1").
			DoAndReturn(fill)

		rows, err := repo.ListByVehicle(ctx, "v1")
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("by renter", func(t *testing.T) {
		mockDB.EXPECT().Select(ctx, gomock.Any(),
			"SELECT * FROM rentals WHERE renter_id = $1 ORDER BY created_at ASC, id ASC", "r1").
			DoAndReturn(fill)

		rows, err := repo.ListByRenter(ctx, "r1")
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("full ledger", func(t *testing.T) {
		mockDB.EXPECT().Select(ctx, gomock.Any(),
			"SELECT * FROM rentals ORDER BY created_at ASC, id ASC").
			DoAndReturn(fill)

		rows, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})
}

func TestVehicleRepo_SetActive(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := mock_db.NewMockDB(ctrl)
	repo := NewVehicleRepo(mockDB)
	ctx := context.Background()

	t.Run("deactivates", func(t *testing.T) {
		mockDB.EXPECT().Exec(ctx, "UPDATE vehicles SET active = $1 WHERE id = $2", false, "v1").
			Return(pgconn.CommandTag("UPDATE 1"), nil)

		assert.NoError(t, repo.SetActive(ctx, "v1", false))
	})

	t.Run("unknown vehicle", func(t *testing.T) {
		mockDB.EXPECT().Exec(ctx, gomock.Any(), false, "ghost").
			Return(pgconn.CommandTag("UPDATE 0"), nil)

		assert.ErrorIs(t, repo.SetActive(ctx, "ghost", false), repository.ErrObjectNotFound)
	})
}
