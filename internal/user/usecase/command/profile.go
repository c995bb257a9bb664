package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/catalog-admin/internal/user/domain"
	"github.com/tair/catalog-admin/pkg/apperror"
	"github.com/tair/catalog-admin/pkg/auth"
)

// UpdateProfileCommand replaces the name and email of the current user
type UpdateProfileCommand struct {
	UserID uint
	Name   string
	Email  string
}

// UpdateProfileHandler handles profile updates
type UpdateProfileHandler struct {
	repo domain.UserRepository
}

// NewUpdateProfileHandler creates a new update profile handler
func NewUpdateProfileHandler(repo domain.UserRepository) *UpdateProfileHandler {
	return &UpdateProfileHandler{repo: repo}
}

// Handle executes the update profile command. Keeping one's own email is
// not a conflict.
func (h *UpdateProfileHandler) Handle(ctx context.Context, cmd UpdateProfileCommand) (*domain.User, error) {
	name := strings.TrimSpace(cmd.Name)
	email := strings.ToLower(strings.TrimSpace(cmd.Email))

	fields := apperror.FieldSet{}
	checkIdentity(fields, name, email)
	if err := fields.Err(); err != nil {
		return nil, err
	}

	user, err := h.repo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if existing, _ := h.repo.FindByEmail(ctx, email); existing != nil && existing.ID != user.ID {
		return nil, apperror.Validation("email", "The email has already been taken")
	}

	user.Name = name
	user.Email = email
	if err := h.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// ChangePasswordCommand replaces the password of the current user
type ChangePasswordCommand struct {
	UserID          uint
	CurrentPassword string
	Password        string
}

// ChangePasswordHandler handles password changes
type ChangePasswordHandler struct {
	repo domain.UserRepository
}

// NewChangePasswordHandler creates a new change password handler
func NewChangePasswordHandler(repo domain.UserRepository) *ChangePasswordHandler {
	return &ChangePasswordHandler{repo: repo}
}

// Handle executes the change password command. A wrong current password is
// a field error on current_password.
func (h *ChangePasswordHandler) Handle(ctx context.Context, cmd ChangePasswordCommand) error {
	fields := apperror.FieldSet{}
	if cmd.CurrentPassword == "" {
		fields.Add("current_password", "The current password field is required")
	}
	checkPassword(fields, "password", cmd.Password)
	if err := fields.Err(); err != nil {
		return err
	}

	user, err := h.repo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	if !auth.CheckPassword(user.Password, cmd.CurrentPassword) {
		return apperror.Validation("current_password", "The current password is incorrect")
	}

	hashedPassword, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hashedPassword
	if err := h.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}

// RefreshTokenCommand issues a fresh token for the current user
type RefreshTokenCommand struct {
	UserID uint
}

// RefreshTokenHandler handles token refresh
type RefreshTokenHandler struct {
	repo   domain.UserRepository
	tokens *auth.TokenManager
}

// NewRefreshTokenHandler creates a new refresh token handler
func NewRefreshTokenHandler(repo domain.UserRepository, tokens *auth.TokenManager) *RefreshTokenHandler {
	return &RefreshTokenHandler{repo: repo, tokens: tokens}
}

// Handle re-reads the user so the new token carries the current email
func (h *RefreshTokenHandler) Handle(ctx context.Context, cmd RefreshTokenCommand) (*AuthResult, error) {
	user, err := h.repo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	return issue(h.tokens, user)
}
