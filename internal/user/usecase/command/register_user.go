package command

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tair/catalog-admin/internal/user/domain"
	"github.com/tair/catalog-admin/pkg/apperror"
	"github.com/tair/catalog-admin/pkg/auth"
)

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 6

// RegisterUserCommand represents the command to register a new user
type RegisterUserCommand struct {
	Name     string
	Email    string
	Password string
}

// AuthResult is returned by register and login
type AuthResult struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// RegisterUserHandler handles user registration command
type RegisterUserHandler struct {
	repo   domain.UserRepository
	tokens *auth.TokenManager
}

// NewRegisterUserHandler creates a new register user handler
func NewRegisterUserHandler(repo domain.UserRepository, tokens *auth.TokenManager) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo, tokens: tokens}
}

// Handle executes the register user command
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*AuthResult, error) {
	name := strings.TrimSpace(cmd.Name)
	email := strings.ToLower(strings.TrimSpace(cmd.Email))

	fields := apperror.FieldSet{}
	checkIdentity(fields, name, email)
	checkPassword(fields, "password", cmd.Password)
	if err := fields.Err(); err != nil {
		return nil, err
	}

	if existing, _ := h.repo.FindByEmail(ctx, email); existing != nil {
		return nil, apperror.Validation("email", "The email has already been taken")
	}

	hashedPassword, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{Name: name, Email: email, Password: hashedPassword}
	if err := h.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return issue(h.tokens, user)
}

func checkIdentity(fields apperror.FieldSet, name, email string) {
	switch {
	case name == "":
		fields.Add("name", "The name field is required")
	case utf8.RuneCountInString(name) > 255:
		fields.Add("name", "The name may not be greater than 255 characters")
	}
	if email == "" {
		fields.Add("email", "The email field is required")
	} else if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		fields.Add("email", "The email must be a valid email address")
	}
}

func checkPassword(fields apperror.FieldSet, field, password string) {
	if len(password) < MinPasswordLength {
		fields.Add(field, fmt.Sprintf("The password must be at least %d characters", MinPasswordLength))
	}
}

func issue(tokens *auth.TokenManager, user *domain.User) (*AuthResult, error) {
	token, expiresAt, err := tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{User: user, Token: token, TokenType: "Bearer", ExpiresAt: expiresAt}, nil
}
