package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tair/catalog-admin/internal/user/domain"
	"github.com/tair/catalog-admin/pkg/apperror"
	"github.com/tair/catalog-admin/pkg/auth"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong password
var ErrInvalidCredentials = errors.New("invalid credentials")

// LoginUserCommand represents the command to login a user
type LoginUserCommand struct {
	Email    string
	Password string
}

// LoginUserHandler handles user login command
type LoginUserHandler struct {
	repo   domain.UserRepository
	tokens *auth.TokenManager
}

// NewLoginUserHandler creates a new login user handler
func NewLoginUserHandler(repo domain.UserRepository, tokens *auth.TokenManager) *LoginUserHandler {
	return &LoginUserHandler{repo: repo, tokens: tokens}
}

// Handle executes the login user command
func (h *LoginUserHandler) Handle(ctx context.Context, cmd LoginUserCommand) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(cmd.Email))

	fields := apperror.FieldSet{}
	if email == "" {
		fields.Add("email", "The email field is required")
	}
	if cmd.Password == "" {
		fields.Add("password", "The password field is required")
	}
	if err := fields.Err(); err != nil {
		return nil, err
	}

	user, err := h.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !auth.CheckPassword(user.Password, cmd.Password) {
		return nil, ErrInvalidCredentials
	}

	return issue(h.tokens, user)
}
