package service

import (
	"context"
	"errors"
	"strings"

	"github.com/nepfy/nepfy-backend/internal/apperr"
	"github.com/nepfy/nepfy-backend/internal/auth/domain"
	"github.com/nepfy/nepfy-backend/internal/slug"
)

// UserStore is the persistence the auth service relies on.
type UserStore interface {
	GetByFirebaseUID(ctx context.Context, uid string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	UpdateLastLogin(ctx context.Context, uid string) error
	CompleteOnboarding(ctx context.Context, uid string, answers domain.OnboardingAnswers) error
}

type AuthService struct {
	userRepo UserStore
}

func NewAuthService(userRepo UserStore) *AuthService {
	return &AuthService{
		userRepo: userRepo,
	}
}

// GetUserByFirebaseUID retrieves a user by Firebase UID
func (s *AuthService) GetUserByFirebaseUID(ctx context.Context, uid string) (*domain.User, error) {
	u, err := s.userRepo.GetByFirebaseUID(ctx, uid)
	if err != nil {
		return nil, classify(err)
	}
	return u, nil
}

// SyncUser creates or updates a user from Firebase Auth data
func (s *AuthService) SyncUser(ctx context.Context, req *domain.CreateUserRequest) (*domain.User, error) {
	existing, err := s.userRepo.GetByFirebaseUID(ctx, req.FirebaseUID)
	switch {
	case err == nil:
		// Only fields present in the request replace stored ones.
		if req.DisplayName != nil {
			existing.DisplayName = req.DisplayName
		}
		if req.PhotoURL != nil {
			existing.PhotoURL = req.PhotoURL
		}
		if req.Organization != nil {
			existing.Organization = req.Organization
		}
		mergePreferences(existing, req.Preferences)

		if err := s.userRepo.Update(ctx, existing); err != nil {
			return nil, classify(err)
		}
		return existing, nil

	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, classify(err)
	}

	user := &domain.User{
		FirebaseUID:  req.FirebaseUID,
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		PhotoURL:     req.PhotoURL,
		Organization: req.Organization,
		Role:         req.Role,
		Preferences:  map[string]any{},
	}
	if user.Role == "" {
		user.Role = "user"
	}
	if req.Preferences != nil {
		user.Preferences = req.Preferences
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, classify(err)
	}
	return user, nil
}

// UpdateUser updates user information
func (s *AuthService) UpdateUser(ctx context.Context, uid string, req *domain.UpdateUserRequest) (*domain.User, error) {
	user, err := s.userRepo.GetByFirebaseUID(ctx, uid)
	if err != nil {
		return nil, classify(err)
	}

	if req.UserName != nil {
		name := strings.ToLower(strings.TrimSpace(*req.UserName))
		if err := slug.ValidateUserName(name); err != nil {
			return nil, apperr.Validation("%s", err.Error())
		}
		user.UserName = &name
	}
	if req.DisplayName != nil {
		user.DisplayName = req.DisplayName
	}
	if req.PhotoURL != nil {
		user.PhotoURL = req.PhotoURL
	}
	if req.Organization != nil {
		user.Organization = req.Organization
	}
	mergePreferences(user, req.Preferences)

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, classify(err)
	}
	return user, nil
}

// RecordLogin updates the last login timestamp
func (s *AuthService) RecordLogin(ctx context.Context, uid string) error {
	return classify(s.userRepo.UpdateLastLogin(ctx, uid))
}

// CompleteOnboarding validates the chosen user name and stores the answers.
func (s *AuthService) CompleteOnboarding(ctx context.Context, uid string, answers domain.OnboardingAnswers) error {
	answers.UserName = strings.ToLower(strings.TrimSpace(answers.UserName))
	if err := slug.ValidateUserName(answers.UserName); err != nil {
		return apperr.Validation("%s", err.Error())
	}
	return classify(s.userRepo.CompleteOnboarding(ctx, uid, answers))
}

func mergePreferences(u *domain.User, prefs map[string]any) {
	if len(prefs) == 0 {
		return
	}
	if u.Preferences == nil {
		u.Preferences = map[string]any{}
	}
	for k, v := range prefs {
		u.Preferences[k] = v
	}
}

func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrUserNotFound):
		return apperr.Wrap(apperr.KindNotFound, "user not found", err)
	case errors.Is(err, domain.ErrUserNameTaken):
		return apperr.Wrap(apperr.KindConflict, "user name already in use", err)
	default:
		return apperr.Internal("user storage", err)
	}
}
