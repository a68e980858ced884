package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/quillhq/quill-be/internal/auth"
	"github.com/quillhq/quill-be/internal/services"
	"github.com/rs/zerolog/log"
)

// PostHandler handles HTTP requests for blog posts.
type PostHandler struct {
	service services.PostServiceProvider
	events  services.EventServiceProvider
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(service services.PostServiceProvider, events services.EventServiceProvider) *PostHandler {
	return &PostHandler{service: service, events: events}
}

// postPayload is the request body for creating and updating posts.
type postPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// GetAll handles the request to list all posts.
func (h *PostHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.GetAllPosts()
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve posts")
		http.Error(w, "Failed to retrieve posts", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

// Get handles the request to get a single post by its ID.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	post, err := h.service.GetPostByID(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.Error(w, "Post not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("post_id", id).Msg("Failed to get post")
		http.Error(w, "Failed to retrieve post", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// Create handles the request to create a new post.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var payload postPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	post, err := h.service.CreatePost(userID, payload.Title, payload.Body)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			http.Error(w, "Title and body must not be empty", http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Msg("Failed to create post")
		http.Error(w, "Failed to create post", http.StatusInternalServerError)
		return
	}

	h.events.CreateEvent("post.create", "info", "Post '"+post.Title+"' created", &post.ID)

	writeJSON(w, http.StatusCreated, post)
}

// Update handles the request to update an existing post.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var payload postPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	post, err := h.service.UpdatePost(id, userID, payload.Title, payload.Body)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			http.Error(w, "Post not found", http.StatusNotFound)
		case errors.Is(err, services.ErrForbidden):
			http.Error(w, "Only the author may edit a post", http.StatusForbidden)
		case errors.Is(err, services.ErrValidation):
			http.Error(w, "Title and body must not be empty", http.StatusBadRequest)
		default:
			log.Error().Err(err).Str("post_id", id).Msg("Failed to update post")
			http.Error(w, "Failed to update post", http.StatusInternalServerError)
		}
		return
	}

	h.events.CreateEvent("post.update", "info", "Post '"+post.Title+"' updated", &post.ID)

	writeJSON(w, http.StatusOK, post)
}

// Delete handles the request to delete a post.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.service.DeletePost(id, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			http.Error(w, "Post not found", http.StatusNotFound)
		case errors.Is(err, services.ErrForbidden):
			http.Error(w, "Only the author may delete a post", http.StatusForbidden)
		default:
			log.Error().Err(err).Str("post_id", id).Msg("Failed to delete post")
			http.Error(w, "Failed to delete post", http.StatusInternalServerError)
		}
		return
	}

	h.events.CreateEvent("post.delete", "info", "Post deleted", &id)

	w.WriteHeader(http.StatusNoContent)
}
