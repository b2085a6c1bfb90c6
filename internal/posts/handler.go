package posts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/devlinkhq/devlink-backend/internal/apperr"
	"github.com/devlinkhq/devlink-backend/internal/models"
	"github.com/devlinkhq/devlink-backend/internal/store"
)

// PostStore defines the interface for post persistence.
type PostStore interface {
	Insert(ctx context.Context, post *models.Post) (*models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Replace(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) error
}

// UserStore is the slice of the credential store the post handlers need:
// author snapshots at post/comment creation time.
type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Handler holds post HTTP handlers.
type Handler struct {
	posts PostStore
	users UserStore
}

func NewHandler(posts PostStore, users UserStore) *Handler {
	return &Handler{posts: posts, users: users}
}

// Create adds a post with an author snapshot taken now; later profile edits
// do not touch it.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)

	var req models.PostInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		apperr.WriteValidation(w, []string{"Text is required"})
		return
	}

	user, err := h.users.GetUserByID(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("posts: lookup author")
		apperr.WriteError(w, apperr.Internal(err))
		return
	}

	post, err := h.posts.Insert(r.Context(), &models.Post{
		Text:   req.Text,
		Name:   user.Name,
		Avatar: user.Avatar,
		UserID: userID,
	})
	if err != nil {
		log.Error().Err(err).Msg("posts: insert")
		apperr.WriteError(w, apperr.Internal(err))
		return
	}
	apperr.WriteJSON(w, http.StatusOK, post)
}

// List returns all posts, most recent first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context())
	if err != nil {
		apperr.WriteError(w, apperr.Internal(err))
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	apperr.WriteJSON(w, http.StatusOK, posts)
}

// Get returns a single post.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	post, _ := h.getPost(r.Context(), w, chi.URLParam(r, "id"))
	if post == nil {
		return
	}
	apperr.WriteJSON(w, http.StatusOK, post)
}

// Delete removes a post. Only the owner may delete it.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)
	id := chi.URLParam(r, "id")

	post, _ := h.getPost(r.Context(), w, id)
	if post == nil {
		return
	}
	if post.UserID != userID {
		apperr.WriteError(w, apperr.Forbidden("User not authorized"))
		return
	}

	if err := h.posts.Delete(r.Context(), id); err != nil {
		log.Error().Err(err).Msg("posts: delete")
		apperr.WriteError(w, apperr.Internal(err))
		return
	}
	apperr.WriteJSON(w, http.StatusOK, map[string]string{"msg": "Post removed"})
}

// Like prepends a like. One like per user per post.
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)

	post, _ := h.getPost(r.Context(), w, chi.URLParam(r, "id"))
	if post == nil {
		return
	}

	for _, l := range post.Likes {
		if l.UserID == userID {
			apperr.WriteError(w, apperr.BadRequest("Post already liked"))
			return
		}
	}
	post.Likes = append([]models.Like{{UserID: userID}}, post.Likes...)

	if err := h.posts.Replace(r.Context(), post); err != nil {
		log.Error().Err(err).Msg("posts: like")
		apperr.WriteError(w, apperr.Internal(err))
		return
	}
	apperr.WriteJSON(w, http.StatusOK, post.Likes)
}

// Unlike removes the caller's like.
func (h *Handler) Unlike(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)

	post, _ := h.getPost(r.Context(), w, chi.URLParam(r, "id"))
	if post == nil {
		return
	}

	idx := -1
	for i := range post.Likes {
		if post.Likes[i].UserID == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		apperr.WriteError(w, apperr.BadRequest("Post has not yet been liked"))
		return
	}
	post.Likes = append(post.Likes[:idx], post.Likes[idx+1:]...)

	if err := h.posts.Replace(r.Context(), post); err != nil {
		log.Error().Err(err).Msg("posts: unlike")
		apperr.WriteError(w, apperr.Internal(err))
		return
	}
	apperr.WriteJSON(w, http.StatusOK, post.Likes)
}

// AddComment prepends a comment with a commenter snapshot.
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)

	var req models.PostInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		apperr.WriteValidation(w, []string{"Text is required"})
		return
	}

	post, _ := h.getPost(r.Context(), w, chi.URLParam(r, "id"))
	if post == nil {
		return
	}

	user, err := h.users.GetUserByID(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("posts: lookup commenter")
		apperr.WriteError(w, apperr.Internal(err))
		return
	}

	comment := models.Comment{
		ID:     uuid.New().String(),
		Text:   req.Text,
		Name:   user.Name,
		Avatar: user.Avatar,
		UserID: userID,
		Date:   time.Now(),
	}
	post.Comments = append([]models.Comment{comment}, post.Comments...)

	if err := h.posts.Replace(r.Context(), post); err != nil {
		log.Error().Err(err).Msg("posts: add comment")
		apperr.WriteError(w, apperr.Internal(err))
		return
	}
	apperr.WriteJSON(w, http.StatusOK, post.Comments)
}

// RemoveComment deletes a comment by id. Only its author may remove it.
func (h *Handler) RemoveComment(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)

	post, _ := h.getPost(r.Context(), w, chi.URLParam(r, "id"))
	if post == nil {
		return
	}

	commentID := chi.URLParam(r, "comment_id")
	idx := -1
	for i := range post.Comments {
		if post.Comments[i].ID == commentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		apperr.WriteError(w, apperr.NotFound("Comment does not exist"))
		return
	}
	if post.Comments[idx].UserID != userID {
		apperr.WriteError(w, apperr.Forbidden("User not authorized"))
		return
	}
	post.Comments = append(post.Comments[:idx], post.Comments[idx+1:]...)

	if err := h.posts.Replace(r.Context(), post); err != nil {
		log.Error().Err(err).Msg("posts: remove comment")
		apperr.WriteError(w, apperr.Internal(err))
		return
	}
	apperr.WriteJSON(w, http.StatusOK, post.Comments)
}

// getPost fetches the post or writes the not-found error and returns nil.
func (h *Handler) getPost(ctx context.Context, w http.ResponseWriter, id string) (*models.Post, error) {
	post, err := h.posts.GetByID(ctx, id)
	if errors.Is(err, store.ErrPostNotFound) {
		apperr.WriteError(w, apperr.NotFound("Post not found"))
		return nil, err
	}
	if err != nil {
		apperr.WriteError(w, apperr.Internal(err))
		return nil, err
	}
	return post, nil
}
