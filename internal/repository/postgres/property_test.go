package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentdesk-backend/internal/domain"
)

var propertyRowColumns = []string{"id", "owner_id", "tenant_id", "title", "description", "address", "city", "postal_code", "type",
	"surface_m2", "rooms", "rent_cents", "charges_cents", "deposit_cents", "furnished", "available", "tenant_criteria",
	"created_on", "updated_on"}

func TestPropertyRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPropertyRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("With criteria", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM properties WHERE id = \\$1").
			WithArgs(int32(1)).
			WillReturnRows(sqlmock.NewRows(propertyRowColumns).
				AddRow(1, 10, nil, "Loft", "", "1 rue Haute", "Lyon", "69001", "apartment", 45, 2, 95000, 5000, 95000, true, true,
					[]byte(`{"monthly_income":"3000","status":["employed"],"age_range":{"min":18},"guarantor_required":false}`), now, now))

		p, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Nil(t, p.TenantID)
		require.NotNil(t, p.TenantCriteria)
		assert.True(t, decimal.NewFromInt(3000).Equal(*p.TenantCriteria.MonthlyIncome))
		assert.Equal(t, []domain.CurrentSituation{domain.SituationEmployed}, p.TenantCriteria.Status)
		assert.Equal(t, 18, *p.TenantCriteria.AgeRange.Min)
		assert.Nil(t, p.TenantCriteria.AgeRange.Max)
		assert.False(t, *p.TenantCriteria.GuarantorRequired)
	})

	t.Run("Without criteria", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM properties WHERE id = \\$1").
			WithArgs(int32(2)).
			WillReturnRows(sqlmock.NewRows(propertyRowColumns).
				AddRow(2, 10, 7, "House", "", "2 rue Basse", "Lyon", "69002", "house", 90, 4, 150000, 0, 150000, false, false, nil, now, now))

		p, err := repo.GetByID(ctx, 2)
		require.NoError(t, err)
		assert.Nil(t, p.TenantCriteria)
		require.NotNil(t, p.TenantID)
		assert.Equal(t, int32(7), *p.TenantID)
	})
}

func TestPropertyRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPropertyRepository(db)
	p := &domain.Property{OwnerID: 10, Title: "Studio", Address: "3 place", City: "Paris", Type: domain.PropertyTypeStudio, Available: true}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO properties").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))

		require.NoError(t, repo.Create(context.Background(), p))
		assert.Equal(t, int32(4), p.ID)
	})

	t.Run("Foreign key violation", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO properties").
			WillReturnError(&pq.Error{Code: "23503", Message: "owner does not exist"})

		err := repo.Create(context.Background(), p)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestPropertyRepository_DeleteMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPropertyRepository(db)
	mock.ExpectExec("DELETE FROM properties WHERE id = \\$1").
		WithArgs(int32(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 9), domain.ErrNotFound)
}

func TestPropertyRepository_ListAvailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPropertyRepository(db)
	now := time.Now()

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM properties WHERE available = TRUE AND LOWER\\(city\\) = LOWER\\(\\$1\\)").
		WithArgs("Lyon").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM properties WHERE available = TRUE (.+) LIMIT \\$2 OFFSET \\$3").
		WithArgs("Lyon", int32(20), int32(0)).
		WillReturnRows(sqlmock.NewRows(propertyRowColumns).
			AddRow(1, 10, nil, "Loft", "", "1 rue Haute", "Lyon", "69001", "apartment", 45, 2, 95000, 5000, 95000, true, true, nil, now, now))

	props, total, err := repo.ListAvailable(context.Background(), "Lyon", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int32(1), total)
	assert.Len(t, props, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPropertyRepository(db)
	ctx := context.Background()
	loaded := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	p := &domain.Property{ID: 4, OwnerID: 10, Title: "Loft", Address: "1 rue Haute", City: "Lyon",
		Type: domain.PropertyTypeApartment, RentCents: 95000, Available: true, UpdatedOn: loaded}

	t.Run("Matches stored version", func(t *testing.T) {
		mock.ExpectExec("UPDATE properties SET (.+) WHERE id=\\$17 AND updated_on=\\$18").
			WithArgs(sqlmock.AnyArg(), "Loft", "", "1 rue Haute", "Lyon", "", domain.PropertyTypeApartment,
				int32(0), int32(0), int32(95000), int32(0), int32(0), false, true, nil, sqlmock.AnyArg(),
				int32(4), loaded).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Update(ctx, p, loaded))
		assert.True(t, p.UpdatedOn.After(loaded))
	})

	t.Run("Stale version conflicts", func(t *testing.T) {
		mock.ExpectExec("UPDATE properties SET").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(ctx, p, loaded)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
