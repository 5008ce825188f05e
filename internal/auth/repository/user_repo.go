package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/nepfy/nepfy-backend/internal/auth/domain"
)

const uniqueViolation = "23505"

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByFirebaseUID retrieves a user by their Firebase UID
func (r *UserRepository) GetByFirebaseUID(ctx context.Context, uid string) (*domain.User, error) {
	const query = `
		SELECT firebase_uid, email, user_name, display_name, photo_url, role, organization,
		       preferences, onboarding_completed, stripe_customer_id, created_at, updated_at, last_login_at
		FROM users
		WHERE firebase_uid = $1
	`

	var user domain.User
	var preferencesJSON []byte
	var userName, displayName, photoURL, organization, customerID sql.NullString
	var lastLoginAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, uid).Scan(
		&user.FirebaseUID,
		&user.Email,
		&userName,
		&displayName,
		&photoURL,
		&user.Role,
		&organization,
		&preferencesJSON,
		&user.OnboardingCompleted,
		&customerID,
		&user.CreatedAt,
		&user.UpdatedAt,
		&lastLoginAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	user.UserName = nullable(userName)
	user.DisplayName = nullable(displayName)
	user.PhotoURL = nullable(photoURL)
	user.Organization = nullable(organization)
	user.StripeCustomerID = nullable(customerID)
	if lastLoginAt.Valid {
		user.LastLoginAt = &lastLoginAt.Time
	}

	user.Preferences = map[string]any{}
	if len(preferencesJSON) > 0 {
		if err := json.Unmarshal(preferencesJSON, &user.Preferences); err != nil {
			user.Preferences = map[string]any{}
		}
	}

	return &user, nil
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
		INSERT INTO users (firebase_uid, email, display_name, photo_url, role, organization, preferences)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	return r.db.QueryRowContext(ctx, query,
		user.FirebaseUID,
		user.Email,
		user.DisplayName,
		user.PhotoURL,
		user.Role,
		user.Organization,
		marshalPreferences(user.Preferences),
	).Scan(&user.CreatedAt, &user.UpdatedAt)
}

// Update updates user information. A taken user name yields
// domain.ErrUserNameTaken.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
		UPDATE users
		SET user_name = $2, display_name = $3, photo_url = $4, organization = $5, preferences = $6, updated_at = NOW()
		WHERE firebase_uid = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		user.FirebaseUID,
		user.UserName,
		user.DisplayName,
		user.PhotoURL,
		user.Organization,
		marshalPreferences(user.Preferences),
	).Scan(&user.UpdatedAt)
	return mapWriteErr(err)
}

// UpdateLastLogin updates the last login timestamp
func (r *UserRepository) UpdateLastLogin(ctx context.Context, uid string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = NOW() WHERE firebase_uid = $1`, uid)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureUser inserts the user on first sight and refreshes the identity
// fields that are present.
func (r *UserRepository) EnsureUser(ctx context.Context, u domain.UpsertUser) error {
	if u.FirebaseUID == "" {
		return fmt.Errorf("firebase_uid required")
	}

	const q = `
insert into users (firebase_uid, email, display_name, photo_url, role, updated_at)
values ($1, coalesce(nullif($2,''), $1 || '@firebase.local'), nullif($3,''), nullif($4,''), 'user', now())
on conflict (firebase_uid) do update
set
  email = coalesce(nullif(excluded.email, excluded.firebase_uid || '@firebase.local'), users.email),
  display_name = coalesce(excluded.display_name, users.display_name),
  photo_url = coalesce(excluded.photo_url, users.photo_url),
  updated_at = now();
`
	_, err := r.db.ExecContext(ctx, q, u.FirebaseUID, u.Email, u.DisplayName, u.PhotoURL)
	return err
}

// UserName returns the public user name, or "" when none is set or the
// user is unknown.
func (r *UserRepository) UserName(ctx context.Context, uid string) (string, error) {
	var name string
	err := r.db.QueryRowContext(ctx,
		`SELECT coalesce(user_name, '') FROM users WHERE firebase_uid = $1`, uid,
	).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return name, err
}

// StripeCustomerID returns the billing customer linked to the user, or ""
// when there is none.
func (r *UserRepository) StripeCustomerID(ctx context.Context, uid string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`SELECT coalesce(stripe_customer_id, '') FROM users WHERE firebase_uid = $1`, uid,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrUserNotFound
	}
	return id, err
}

// CompleteOnboarding stores the chosen user name and wizard answers.
func (r *UserRepository) CompleteOnboarding(ctx context.Context, uid string, answers domain.OnboardingAnswers) error {
	const q = `
		UPDATE users
		SET user_name = $2,
		    preferences = coalesce(preferences, '{}'::jsonb) || $3::jsonb,
		    onboarding_completed = true,
		    updated_at = NOW()
		WHERE firebase_uid = $1
		RETURNING updated_at
	`
	prefs, err := json.Marshal(map[string]string{
		"job_type":    answers.JobType,
		"discovery":   answers.Discovery,
		"used_before": answers.UsedBefore,
	})
	if err != nil {
		return err
	}

	var updated sql.NullTime
	err = r.db.QueryRowContext(ctx, q, uid, answers.UserName, string(prefs)).Scan(&updated)
	return mapWriteErr(err)
}

func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrUserNotFound
	}
	var pgErr *pq.Error
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.Constraint == "users_user_name_key" {
		return domain.ErrUserNameTaken
	}
	return err
}

// marshalPreferences encodes preferences as text so lib/pq does not send
// them as bytea.
func marshalPreferences(p map[string]any) string {
	if p == nil {
		return "{}"
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
