package profile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/devlinkhq/devlink-backend/internal/apperr"
	"github.com/devlinkhq/devlink-backend/internal/models"
	"github.com/devlinkhq/devlink-backend/internal/store"
)

// ProfileStore defines the interface for profile persistence.
type ProfileStore interface {
	Upsert(ctx context.Context, userID string, set bson.M) (*models.Profile, error)
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	Replace(ctx context.Context, p *models.Profile) error
	DeleteByUserID(ctx context.Context, userID string) error
}

// UserStore is the slice of the credential store the profile handlers need.
type UserStore interface {
	GetUserSummaries(ctx context.Context, ids []string) (map[string]models.UserSummary, error)
	DeleteUser(ctx context.Context, id string) error
}

// PostStore is only needed for the account-deletion cascade.
type PostStore interface {
	DeleteByUserID(ctx context.Context, userID string) error
}

// Handler holds profile HTTP handlers.
type Handler struct {
	profiles ProfileStore
	users    UserStore
	posts    PostStore
	github   *GithubClient
}

func NewHandler(profiles ProfileStore, users UserStore, posts PostStore, github *GithubClient) *Handler {
	return &Handler{profiles: profiles, users: users, posts: posts, github: github}
}

// ParseSkills splits a comma-separated skills string into an ordered list,
// trimming whitespace around each entry.
func ParseSkills(s string) []string {
	parts := strings.Split(s, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		skills = append(skills, strings.TrimSpace(p))
	}
	return skills
}

// Upsert creates or merges the current user's profile.
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)

	var req models.ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.WriteValidation(w, []string{"Invalid request body"})
		return
	}

	var msgs []string
	if req.Status == "" {
		msgs = append(msgs, "Status is required")
	}
	if req.Skills == "" {
		msgs = append(msgs, "Skills is required")
	}
	if len(msgs) > 0 {
		apperr.WriteValidation(w, msgs)
		return
	}

	set := store.BuildUpdate(&req, ParseSkills(req.Skills))
	p, err := h.profiles.Upsert(r.Context(), userID, set)
	if err != nil {
		log.Error().Err(err).Msg("profile: upsert")
		apperr.WriteError(w, apperr.Internal(err))
		return
	}
	apperr.WriteJSON(w, http.StatusOK, p)
}

// Me returns the current user's profile.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)

	p, err := h.profiles.GetByUserID(r.Context(), userID)
	if errors.Is(err, store.ErrProfileNotFound) {
		apperr.WriteError(w, apperr.BadRequest("There is no profile for this user"))
		return
	}
	if err != nil {
		apperr.WriteError(w, apperr.Internal(err))
		return
	}
	h.attachUsers(r.Context(), p)
	apperr.WriteJSON(w, http.StatusOK, p)
}

// List returns all profiles with their owner's name and avatar joined in.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.List(r.Context())
	if err != nil {
		apperr.WriteError(w, apperr.Internal(err))
		return
	}
	if profiles == nil {
		profiles = []models.Profile{}
	}

	ids := make([]string, 0, len(profiles))
	for i := range profiles {
		ids = append(ids, profiles[i].UserID)
	}
	if summaries, err := h.users.GetUserSummaries(r.Context(), ids); err == nil {
		for i := range profiles {
			if u, ok := summaries[profiles[i].UserID]; ok {
				profiles[i].User = &u
			}
		}
	}
	apperr.WriteJSON(w, http.StatusOK, profiles)
}

// GetByUser returns one user's profile. Public.
func (h *Handler) GetByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	p, err := h.profiles.GetByUserID(r.Context(), userID)
	if errors.Is(err, store.ErrProfileNotFound) {
		apperr.WriteError(w, apperr.BadRequest("There is no profile for this user"))
		return
	}
	if err != nil {
		apperr.WriteError(w, apperr.Internal(err))
		return
	}
	h.attachUsers(r.Context(), p)
	apperr.WriteJSON(w, http.StatusOK, p)
}

// Delete removes the current user's profile, posts, and account.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)

	if err := h.posts.DeleteByUserID(r.Context(), userID); err != nil {
		log.Error().Err(err).Msg("profile: delete posts")
		apperr.WriteError(w, apperr.Internal(err))
		return
	}
	if err := h.profiles.DeleteByUserID(r.Context(), userID); err != nil {
		log.Error().Err(err).Msg("profile: delete profile")
		apperr.WriteError(w, apperr.Internal(err))
		return
	}
	if err := h.users.DeleteUser(r.Context(), userID); err != nil {
		log.Error().Err(err).Msg("profile: delete user")
		apperr.WriteError(w, apperr.Internal(err))
		return
	}
	apperr.WriteJSON(w, http.StatusOK, map[string]string{"msg": "User deleted"})
}

// AddExperience prepends a work history entry to the profile.
func (h *Handler) AddExperience(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)

	var req models.ExperienceInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.WriteValidation(w, []string{"Invalid request body"})
		return
	}

	var msgs []string
	if req.Title == "" {
		msgs = append(msgs, "Title is required")
	}
	if req.Company == "" {
		msgs = append(msgs, "Company is required")
	}
	if req.From == "" {
		msgs = append(msgs, "From date is required")
	}
	if len(msgs) > 0 {
		apperr.WriteValidation(w, msgs)
		return
	}

	p, _ := h.getProfile(r.Context(), w, userID)
	if p == nil {
		return
	}

	entry := models.Experience{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From,
		To:          req.To,
		Current:     req.Current,
		Description: req.Description,
	}
	p.Experience = append([]models.Experience{entry}, p.Experience...)
	p.UpdatedAt = time.Now()

	if err := h.profiles.Replace(r.Context(), p); err != nil {
		log.Error().Err(err).Msg("profile: add experience")
		apperr.WriteError(w, apperr.Internal(err))
		return
	}
	apperr.WriteJSON(w, http.StatusOK, p)
}

// RemoveExperience deletes an experience entry by its id.
func (h *Handler) RemoveExperience(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)
	entryID := chi.URLParam(r, "exp_id")

	p, _ := h.getProfile(r.Context(), w, userID)
	if p == nil {
		return
	}

	idx := -1
	for i := range p.Experience {
		if p.Experience[i].ID == entryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		apperr.WriteError(w, apperr.NotFound("Experience not found"))
		return
	}
	p.Experience = append(p.Experience[:idx], p.Experience[idx+1:]...)
	p.UpdatedAt = time.Now()

	if err := h.profiles.Replace(r.Context(), p); err != nil {
		log.Error().Err(err).Msg("profile: remove experience")
		apperr.WriteError(w, apperr.Internal(err))
		return
	}
	apperr.WriteJSON(w, http.StatusOK, p)
}

// AddEducation prepends a schooling entry to the profile.
func (h *Handler) AddEducation(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)

	var req models.EducationInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.WriteValidation(w, []string{"Invalid request body"})
		return
	}

	var msgs []string
	if req.School == "" {
		msgs = append(msgs, "School is required")
	}
	if req.Degree == "" {
		msgs = append(msgs, "Degree is required")
	}
	if req.FieldOfStudy == "" {
		msgs = append(msgs, "Field of study is required")
	}
	if req.From == "" {
		msgs = append(msgs, "From date is required")
	}
	if len(msgs) > 0 {
		apperr.WriteValidation(w, msgs)
		return
	}

	p, _ := h.getProfile(r.Context(), w, userID)
	if p == nil {
		return
	}

	entry := models.Education{
		ID:           uuid.New().String(),
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From,
		To:           req.To,
		Current:      req.Current,
		Description:  req.Description,
	}
	p.Education = append([]models.Education{entry}, p.Education...)
	p.UpdatedAt = time.Now()

	if err := h.profiles.Replace(r.Context(), p); err != nil {
		log.Error().Err(err).Msg("profile: add education")
		apperr.WriteError(w, apperr.Internal(err))
		return
	}
	apperr.WriteJSON(w, http.StatusOK, p)
}

// RemoveEducation deletes an education entry by its id.
func (h *Handler) RemoveEducation(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)
	entryID := chi.URLParam(r, "edu_id")

	p, _ := h.getProfile(r.Context(), w, userID)
	if p == nil {
		return
	}

	idx := -1
	for i := range p.Education {
		if p.Education[i].ID == entryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		apperr.WriteError(w, apperr.NotFound("Education not found"))
		return
	}
	p.Education = append(p.Education[:idx], p.Education[idx+1:]...)
	p.UpdatedAt = time.Now()

	if err := h.profiles.Replace(r.Context(), p); err != nil {
		log.Error().Err(err).Msg("profile: remove education")
		apperr.WriteError(w, apperr.Internal(err))
		return
	}
	apperr.WriteJSON(w, http.StatusOK, p)
}

// GithubRepos proxies the user's public repo listing.
func (h *Handler) GithubRepos(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	repos, err := h.github.Repos(r.Context(), username)
	if errors.Is(err, ErrGithubNotFound) {
		apperr.WriteError(w, apperr.NotFound("No Github profile found"))
		return
	}
	if err != nil {
		log.Error().Err(err).Str("username", username).Msg("profile: github repos")
		apperr.WriteError(w, apperr.Dependency(err, "Failed to fetch Github repos"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(repos)
}

// getProfile fetches the profile or writes the no-profile error and returns
// nil.
func (h *Handler) getProfile(ctx context.Context, w http.ResponseWriter, userID string) (*models.Profile, error) {
	p, err := h.profiles.GetByUserID(ctx, userID)
	if errors.Is(err, store.ErrProfileNotFound) {
		apperr.WriteError(w, apperr.BadRequest("There is no profile for this user"))
		return nil, err
	}
	if err != nil {
		apperr.WriteError(w, apperr.Internal(err))
		return nil, err
	}
	return p, nil
}

func (h *Handler) attachUsers(ctx context.Context, p *models.Profile) {
	summaries, err := h.users.GetUserSummaries(ctx, []string{p.UserID})
	if err != nil {
		return
	}
	if u, ok := summaries[p.UserID]; ok {
		p.User = &u
	}
}
