package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentdesk-backend/internal/domain"
)

func TestUserRepository_GetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE LOWER\\(email\\) = LOWER\\(\\$1\\)").
			WithArgs("Owner@Test.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "name", "phone_number", "role", "created_on", "updated_on"}).
				AddRow(1, "owner@test.com", "hash", "Olivia", "", "owner", time.Now(), time.Now()))

		u, err := repo.GetByEmail(ctx, "Owner@Test.com")
		require.NoError(t, err)
		assert.Equal(t, domain.UserRoleOwner, u.Role)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		u, err := repo.GetByEmail(ctx, "nobody@test.com")
		assert.Nil(t, u)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)
	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_lower_idx"})

	err = repo.Create(context.Background(), &domain.User{Email: "a@b.c", Role: domain.UserRoleTenant})
	assert.ErrorIs(t, err, domain.ErrConflict)
}
