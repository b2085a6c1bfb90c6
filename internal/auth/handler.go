package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/devlinkhq/devlink-backend/internal/apperr"
	"github.com/devlinkhq/devlink-backend/internal/models"
	"github.com/devlinkhq/devlink-backend/internal/store"
)

// bcryptCost matches the work factor the accounts were created with.
const bcryptCost = 10

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, name, email, hashedPw, avatar string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Handler holds auth-related HTTP handlers.
type Handler struct {
	users  UserStore
	tokens *TokenService
}

func NewHandler(users UserStore, tokens *TokenService) *Handler {
	return &Handler{users: users, tokens: tokens}
}

// Register creates a new user and returns a bearer token for it.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.WriteValidation(w, []string{"Invalid request body"})
		return
	}

	var msgs []string
	if req.Name == "" {
		msgs = append(msgs, "Name is required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		msgs = append(msgs, "Please include a valid email")
	}
	if len(req.Password) < 6 {
		msgs = append(msgs, "Please enter a password with 6 or more characters")
	}
	if len(msgs) > 0 {
		apperr.WriteValidation(w, msgs)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		apperr.WriteError(w, apperr.Internal(err))
		return
	}

	user, err := h.users.CreateUser(r.Context(), req.Name, req.Email, string(hashed), GravatarURL(req.Email))
	if errors.Is(err, store.ErrDuplicateEmail) {
		apperr.WriteValidation(w, []string{"User already exists"})
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("register: create user")
		apperr.WriteError(w, apperr.Internal(err))
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Error().Err(err).Msg("register: sign token")
		apperr.WriteError(w, apperr.Internal(err))
		return
	}
	apperr.WriteJSON(w, http.StatusOK, models.TokenResponse{Token: token})
}

// Login verifies credentials and returns a bearer token. Unknown email and
// wrong password produce the same response on purpose.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.WriteValidation(w, []string{"Invalid request body"})
		return
	}

	var msgs []string
	if _, err := mail.ParseAddress(req.Email); err != nil {
		msgs = append(msgs, "Please include a valid email")
	}
	if req.Password == "" {
		msgs = append(msgs, "Password is required")
	}
	if len(msgs) > 0 {
		apperr.WriteValidation(w, msgs)
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), req.Email)
	if errors.Is(err, store.ErrUserNotFound) {
		apperr.WriteValidation(w, []string{"Invalid Credentials"})
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("login: lookup user")
		apperr.WriteError(w, apperr.Internal(err))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		apperr.WriteValidation(w, []string{"Invalid Credentials"})
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Error().Err(err).Msg("login: sign token")
		apperr.WriteError(w, apperr.Internal(err))
		return
	}
	apperr.WriteJSON(w, http.StatusOK, models.TokenResponse{Token: token})
}

// Me returns the currently authenticated user, sans password hash.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)

	user, err := h.users.GetUserByID(r.Context(), userID)
	if errors.Is(err, store.ErrUserNotFound) {
		apperr.WriteError(w, apperr.NotFound("User not found"))
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("me: lookup user")
		apperr.WriteError(w, apperr.Internal(err))
		return
	}
	apperr.WriteJSON(w, http.StatusOK, user)
}
