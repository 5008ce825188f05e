package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nepfy/nepfy-backend/internal/auth/domain"
)

func setupUserRepo(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepository(db), mock
}

func TestUserRepository_GetByFirebaseUID(t *testing.T) {
	repo, mock := setupUserRepo(t)
	now := time.Now()

	cols := []string{"firebase_uid", "email", "user_name", "display_name", "photo_url", "role", "organization",
		"preferences", "onboarding_completed", "stripe_customer_id", "created_at", "updated_at", "last_login_at"}

	mock.ExpectQuery(`SELECT (.+) FROM users`).
		WithArgs("uid-1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			"uid-1", "ana@example.com", "ana", nil, nil, "user", nil,
			[]byte(`{"job_type":"agency"}`), true, "cus_123", now, now, nil,
		))

	u, err := repo.GetByFirebaseUID(context.Background(), "uid-1")
	require.NoError(t, err)
	require.NotNil(t, u.UserName)
	assert.Equal(t, "ana", *u.UserName)
	assert.Nil(t, u.DisplayName)
	assert.Equal(t, "agency", u.Preferences["job_type"])
	require.NotNil(t, u.StripeCustomerID)
	assert.Equal(t, "cus_123", *u.StripeCustomerID)
	assert.True(t, u.OnboardingCompleted)

	mock.ExpectQuery(`SELECT (.+) FROM users`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)
	_, err = repo.GetByFirebaseUID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UserName(t *testing.T) {
	repo, mock := setupUserRepo(t)

	mock.ExpectQuery(`SELECT coalesce\(user_name, ''\) FROM users`).
		WithArgs("uid-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_name"}).AddRow("joao"))
	name, err := repo.UserName(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "joao", name)

	mock.ExpectQuery(`SELECT coalesce\(user_name, ''\) FROM users`).
		WithArgs("uid-2").
		WillReturnError(sql.ErrNoRows)
	name, err = repo.UserName(context.Background(), "uid-2")
	require.NoError(t, err)
	assert.Empty(t, name)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_EnsureUser(t *testing.T) {
	repo, mock := setupUserRepo(t)

	mock.ExpectExec(`insert into users`).
		WithArgs("uid-1", "ana@example.com", "", "").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.EnsureUser(context.Background(), domain.UpsertUser{FirebaseUID: "uid-1", Email: "ana@example.com"})
	require.NoError(t, err)

	assert.Error(t, repo.EnsureUser(context.Background(), domain.UpsertUser{}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CompleteOnboarding(t *testing.T) {
	repo, mock := setupUserRepo(t)
	answers := domain.OnboardingAnswers{UserName: "ana", JobType: "agency", Discovery: "instagram", UsedBefore: "no"}

	t.Run("stores answers", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE users\s+SET user_name = \$2`).
			WithArgs("uid-1", "ana", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))

		require.NoError(t, repo.CompleteOnboarding(context.Background(), "uid-1", answers))
	})

	t.Run("maps taken user name", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE users\s+SET user_name = \$2`).
			WithArgs("uid-1", "ana", sqlmock.AnyArg()).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "users_user_name_key"})

		err := repo.CompleteOnboarding(context.Background(), "uid-1", answers)
		assert.ErrorIs(t, err, domain.ErrUserNameTaken)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateLastLogin(t *testing.T) {
	repo, mock := setupUserRepo(t)

	mock.ExpectExec(`UPDATE users SET last_login_at`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateLastLogin(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
