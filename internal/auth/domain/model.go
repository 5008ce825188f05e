package domain

import "time"

// User represents a user in the application
// Firebase UID is the primary identifier
type User struct {
	FirebaseUID         string         `json:"firebase_uid"`
	Email               string         `json:"email"`
	UserName            *string        `json:"user_name,omitempty"`
	DisplayName         *string        `json:"display_name,omitempty"`
	PhotoURL            *string        `json:"photo_url,omitempty"`
	Role                string         `json:"role"`
	Organization        *string        `json:"organization,omitempty"`
	Preferences         map[string]any `json:"preferences,omitempty"`
	OnboardingCompleted bool           `json:"onboarding_completed"`
	StripeCustomerID    *string        `json:"-"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	LastLoginAt         *time.Time     `json:"last_login_at,omitempty"`
}

// CreateUserRequest represents data needed to create a new user
type CreateUserRequest struct {
	FirebaseUID  string
	Email        string
	DisplayName  *string
	PhotoURL     *string
	Role         string
	Organization *string
	Preferences  map[string]any
}

// UpdateUserRequest represents data for updating a user
type UpdateUserRequest struct {
	UserName     *string
	DisplayName  *string
	PhotoURL     *string
	Organization *string
	Preferences  map[string]any
}

// UpsertUser is the minimal identity written on every authenticated request.
type UpsertUser struct {
	FirebaseUID string
	Email       string
	DisplayName string
	PhotoURL    string
}

// OnboardingAnswers are the wizard choices stored with the user.
type OnboardingAnswers struct {
	UserName   string `json:"user_name" binding:"required"`
	JobType    string `json:"job_type" binding:"required"`
	Discovery  string `json:"discovery"`
	UsedBefore string `json:"used_before"`
}
