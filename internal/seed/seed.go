// Package seed creates the data a fresh installation needs to be usable.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/uruhongore/academy/internal/app/models"
	"github.com/uruhongore/academy/internal/pkg/apperrors"
	"github.com/uruhongore/academy/internal/pkg/auth"
)

// UserStore is the part of the user repository seeding needs
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
}

// HeadAccount describes the default HEAD user
type HeadAccount struct {
	Phone    string
	Password string
	FullName string
	Email    string
}

// CreateDefaultData creates the HEAD account when no user has its phone number.
// An empty phone disables seeding.
func CreateDefaultData(ctx context.Context, users UserStore, head HeadAccount, lgr zerolog.Logger) error {
	phone := strings.TrimSpace(head.Phone)
	if phone == "" {
		lgr.Info().Msg("No default HEAD account configured, skipping seed")
		return nil
	}

	// Check if the account already exists
	_, err := users.GetByPhone(ctx, phone)
	if err == nil {
		lgr.Info().Str("phone", phone).Msg("Default HEAD account already exists, skipping creation")
		return nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return fmt.Errorf("error checking default HEAD account: %w", err)
	}

	// Same password rules as registration
	if !auth.IsStrongPassword(head.Password) {
		return fmt.Errorf("%w: default HEAD password must be at least 8 characters and contain a letter and a digit", apperrors.ErrValidationFailed)
	}
	hash, err := auth.HashPassword(head.Password)
	if err != nil {
		return fmt.Errorf("error hashing default HEAD password: %w", err)
	}

	// Create the HEAD user
	name := strings.TrimSpace(head.FullName)
	if name == "" {
		name = "School Head"
	}
	user := &models.User{
		FullName: name,
		Phone:    phone,
		Password: hash,
		Enabled:  true,
		Active:   true,
		Roles:    []models.RoleType{models.RoleHead},
	}
	if e := strings.ToLower(strings.TrimSpace(head.Email)); e != "" {
		user.Email = &e
	}

	// Persist
	if err := users.Create(ctx, user); err != nil {
		return fmt.Errorf("error creating default HEAD account: %w", err)
	}
	lgr.Info().Str("userID", user.ID.String()).Msg("Default HEAD account created")
	return nil
}
