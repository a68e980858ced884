package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/quillhq/quill-be/internal/auth"
	"github.com/quillhq/quill-be/internal/services"
	ws "github.com/quillhq/quill-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// CommentHandler handles HTTP requests for post comments.
type CommentHandler struct {
	service services.CommentServiceProvider
	events  services.EventServiceProvider
	hub     *ws.Hub
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(service services.CommentServiceProvider, events services.EventServiceProvider, hub *ws.Hub) *CommentHandler {
	return &CommentHandler{service: service, events: events, hub: hub}
}

// commentPayload is the request body for creating comments.
type commentPayload struct {
	Body string `json:"body"`
}

// GetForPost handles the request to list comments on a post.
func (h *CommentHandler) GetForPost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")
	comments, err := h.service.GetCommentsForPost(postID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.Error(w, "Post not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("post_id", postID).Msg("Failed to retrieve comments")
		http.Error(w, "Failed to retrieve comments", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, comments)
}

// Create handles the request to comment on a post. New comments are
// pushed to clients watching the post's stream.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	postID := chi.URLParam(r, "id")

	var payload commentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	comment, err := h.service.CreateComment(postID, userID, payload.Body)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			http.Error(w, "Post not found", http.StatusNotFound)
		case errors.Is(err, services.ErrValidation):
			http.Error(w, "Comment body must not be empty", http.StatusBadRequest)
		default:
			log.Error().Err(err).Str("post_id", postID).Msg("Failed to create comment")
			http.Error(w, "Failed to create comment", http.StatusInternalServerError)
		}
		return
	}

	h.events.CreateEvent("comment.create", "info", "New comment on post", &postID)
	if h.hub != nil {
		h.hub.BroadcastTo(postID, ws.NewEventMessage(comment))
	}

	writeJSON(w, http.StatusCreated, comment)
}

// Delete handles the request to delete a comment.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteComment(id, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			http.Error(w, "Comment not found", http.StatusNotFound)
		case errors.Is(err, services.ErrForbidden):
			http.Error(w, "Only the author may delete a comment", http.StatusForbidden)
		default:
			log.Error().Err(err).Str("comment_id", id).Msg("Failed to delete comment")
			http.Error(w, "Failed to delete comment", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
