package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/catalog-admin/internal/user/usecase/command"
	"github.com/tair/catalog-admin/internal/user/usecase/query"
	"github.com/tair/catalog-admin/pkg/apperror"
	"github.com/tair/catalog-admin/pkg/auth"
	"github.com/tair/catalog-admin/pkg/logger"
	"github.com/tair/catalog-admin/pkg/metrics"
)

// UserHandler serves account registration, login and the current user's
// profile and token
type UserHandler struct {
	registerHandler       *command.RegisterUserHandler
	loginHandler          *command.LoginUserHandler
	updateProfileHandler  *command.UpdateProfileHandler
	changePasswordHandler *command.ChangePasswordHandler
	refreshHandler        *command.RefreshTokenHandler
	getUserHandler        *query.GetUserHandler

	tokens  *auth.TokenManager
	metrics *metrics.HTTP
}

// NewUserHandler creates a new user handler
func NewUserHandler(
	registerHandler *command.RegisterUserHandler,
	loginHandler *command.LoginUserHandler,
	updateProfileHandler *command.UpdateProfileHandler,
	changePasswordHandler *command.ChangePasswordHandler,
	refreshHandler *command.RefreshTokenHandler,
	getUserHandler *query.GetUserHandler,
	tokens *auth.TokenManager,
	m *metrics.Registry,
) *UserHandler {
	return &UserHandler{
		registerHandler:       registerHandler,
		loginHandler:          loginHandler,
		updateProfileHandler:  updateProfileHandler,
		changePasswordHandler: changePasswordHandler,
		refreshHandler:        refreshHandler,
		getUserHandler:        getUserHandler,
		tokens:                tokens,
		metrics:               m.HTTP,
	}
}

// Response is the JSON envelope of every account endpoint
type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// RegisterRoutes mounts the account routes
func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/register", h.metrics.Wrap("/api/register", h.Register)).Methods(http.MethodPost)
	router.HandleFunc("/api/login", h.metrics.Wrap("/api/login", h.Login)).Methods(http.MethodPost)
	h.protected(router, "/api/user", h.Me, http.MethodGet)
	h.protected(router, "/api/profile", h.UpdateProfile, http.MethodPut)
	h.protected(router, "/api/change-password", h.ChangePassword, http.MethodPut)
	h.protected(router, "/api/refresh", h.Refresh, http.MethodPost)
	h.protected(router, "/api/token-info", h.TokenInfo, http.MethodGet)
}

func (h *UserHandler) protected(router *mux.Router, path string, fn http.HandlerFunc, method string) {
	router.HandleFunc(path, h.metrics.Wrap(path, h.tokens.RequireToken(fn))).Methods(method)
}

// Register handles POST /api/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	res, err := h.registerHandler.Handle(r.Context(), command.RegisterUserCommand{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	logger.Info(r.Context()).Uint("user_id", res.User.ID).Msg("User registered")
	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "User registered successfully",
		Data:    res,
	})
}

// Login handles POST /api/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	res, err := h.loginHandler.Handle(r.Context(), command.LoginUserCommand{Email: req.Email, Password: req.Password})
	if errors.Is(err, command.ErrInvalidCredentials) {
		logger.Warn(r.Context()).Msg("Login failed")
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Invalid credentials"})
		return
	}
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Login successful",
		Data:    res,
	})
}

// Me handles GET /api/user
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.UserID(r.Context())
	user, err := h.getUserHandler.Handle(r.Context(), query.GetUserQuery{ID: id})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: user})
}

// UpdateProfile handles PUT /api/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	id, _ := auth.UserID(r.Context())
	user, err := h.updateProfileHandler.Handle(r.Context(), command.UpdateProfileCommand{
		UserID: id,
		Name:   req.Name,
		Email:  req.Email,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Profile updated successfully",
		Data:    user,
	})
}

// ChangePassword handles PUT /api/change-password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentPassword      string `json:"current_password"`
		Password             string `json:"password"`
		PasswordConfirmation string `json:"password_confirmation"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}
	if req.Password != req.PasswordConfirmation {
		respondError(w, r, apperror.Validation("password", "The password confirmation does not match"))
		return
	}

	id, _ := auth.UserID(r.Context())
	err := h.changePasswordHandler.Handle(r.Context(), command.ChangePasswordCommand{
		UserID:          id,
		CurrentPassword: req.CurrentPassword,
		Password:        req.Password,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	logger.Info(r.Context()).Uint("user_id", id).Msg("Password changed")
	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Password changed successfully"})
}

// Refresh handles POST /api/refresh. The previous token stays valid until it expires.
func (h *UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.UserID(r.Context())
	res, err := h.refreshHandler.Handle(r.Context(), command.RefreshTokenCommand{UserID: id})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Token refreshed successfully",
		Data:    res,
	})
}

// TokenInfo handles GET /api/token-info
func (h *UserHandler) TokenInfo(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.TokenClaims(r.Context())
	info := map[string]interface{}{
		"token_id": claims.ID,
		"user_id":  claims.UserID,
		"email":    claims.Email,
	}
	if claims.IssuedAt != nil {
		info["issued_at"] = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info["expires_at"] = claims.ExpiresAt.Time
	}
	respondJSON(w, http.StatusOK, Response{Success: true, Data: info})
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperror.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error(r.Context()).Err(err).Msg("Account request failed")
	}
	respondJSON(w, status, Response{
		Success: false,
		Error:   apperror.Public(err),
		Errors:  apperror.FieldErrors(err),
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
