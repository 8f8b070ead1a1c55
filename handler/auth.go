package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sshuster/viral-video-whisperer-pro/auth"
	"github.com/sshuster/viral-video-whisperer-pro/dashboard"
	"github.com/sshuster/viral-video-whisperer-pro/model"
	"github.com/sshuster/viral-video-whisperer-pro/session"
)

// authTimeout bounds the Redis round-trips behind login/register/logout; the
// simulated auth delay runs inside it.
const authTimeout = 10 * time.Second

// AuthHandler exposes the session lifecycle over HTTP.
type AuthHandler struct {
	sessions   *session.Store
	jwtManager *auth.JWTManager
	dashboard  *dashboard.Controller
}

// NewAuthHandler creates an auth handler. The dashboard controller is reset
// on every session boundary because the history ledger is session-scoped.
func NewAuthHandler(sessions *session.Store, jwtManager *auth.JWTManager, ctrl *dashboard.Controller) *AuthHandler {
	return &AuthHandler{
		sessions:   sessions,
		jwtManager: jwtManager,
		dashboard:  ctrl,
	}
}

// Login handles POST /api/auth/login
// @Summary Authenticate with username and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Credentials"
// @Success 200 {object} model.LoginResponse "Token and identity"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Router /api/auth/login [post]
func (ah *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), authTimeout)
	defer cancel()

	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendJSONError(w, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	identity, err := ah.sessions.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			SendJSONError(w, http.StatusUnauthorized, err, "")
			return
		}
		SendJSONError(w, http.StatusInternalServerError, err, "An error occurred during login")
		return
	}

	// New session, fresh ledger
	ah.dashboard.Reset()

	token, err := ah.jwtManager.Generate(identity)
	if err != nil {
		log.Error().Err(err).Msg("Failed to sign token")
		SendJSONError(w, http.StatusInternalServerError, err, "An error occurred during login")
		return
	}

	SendJSONSuccess(w, http.StatusOK, model.LoginResponse{Token: token, User: identity})
}

// Register handles POST /api/auth/register
// @Summary Register a new user account
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "Registration data"
// @Success 201 {object} model.LoginResponse "Token and identity"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 409 {object} ErrorResponse "Username already exists"
// @Router /api/auth/register [post]
func (ah *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), authTimeout)
	defer cancel()

	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendJSONError(w, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		SendJSONError(w, http.StatusBadRequest, errors.New("username and password are required"), "")
		return
	}

	identity, err := ah.sessions.Register(ctx, req.Username, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, session.ErrUsernameTaken) {
			SendJSONError(w, http.StatusConflict, err, "")
			return
		}
		SendJSONError(w, http.StatusInternalServerError, err, "An error occurred during registration")
		return
	}

	ah.dashboard.Reset()

	token, err := ah.jwtManager.Generate(identity)
	if err != nil {
		log.Error().Err(err).Msg("Failed to sign token")
		SendJSONError(w, http.StatusInternalServerError, err, "An error occurred during registration")
		return
	}

	SendJSONSuccess(w, http.StatusCreated, model.LoginResponse{Token: token, User: identity})
}

// Logout handles POST /api/auth/logout
// @Summary Clear the active session
// @Tags Authentication
// @Produce json
// @Success 200 {object} map[string]string "Logout confirmation"
// @Router /api/auth/logout [post]
func (ah *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), authTimeout)
	defer cancel()

	ah.sessions.Logout(ctx)
	ah.dashboard.Reset()

	SendJSONSuccess(w, http.StatusOK, map[string]string{"message": "You have been logged out"})
}

// Me handles GET /api/auth/me
// @Summary Return the restored session identity, if any
// @Tags Authentication
// @Produce json
// @Success 200 {object} model.Identity "Active identity"
// @Failure 404 {object} ErrorResponse "No active session"
// @Router /api/auth/me [get]
func (ah *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := ah.sessions.Current()
	if !ok {
		SendJSONError(w, http.StatusNotFound, errors.New("no active session"), "")
		return
	}
	SendJSONSuccess(w, http.StatusOK, identity)
}
