package auth

import (
	"context"
	"strings"
	"time"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	domerrors "github.com/amirhosseinghanipour/pomotrack/internal/domain/errors"
)

// UpsertUserInput is the profile posted by the client after sign-in.
type UpsertUserInput struct {
	Name     string
	Email    string
	ImageURL string
}

// UpsertUser creates a user keyed by email or updates the existing profile.
type UpsertUser struct {
	users ports.UserRepository
}

func NewUpsertUser(users ports.UserRepository) *UpsertUser {
	return &UpsertUser{users: users}
}

func (uc *UpsertUser) Execute(ctx context.Context, input UpsertUserInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, domerrors.NewValidationError("email", "is required")
	}
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if user == nil {
		user = &domain.User{
			ID:        domain.NewID(),
			Name:      strings.TrimSpace(input.Name),
			Email:     email,
			ImageURL:  input.ImageURL,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := uc.users.Create(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}
	user.Name = strings.TrimSpace(input.Name)
	if input.ImageURL != "" {
		user.ImageURL = input.ImageURL
	}
	user.UpdatedAt = now
	if err := uc.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
