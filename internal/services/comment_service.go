package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quillhq/quill-be/internal/models"
)

// CommentServiceProvider defines the interface for comment services.
type CommentServiceProvider interface {
	GetCommentsForPost(postID string) ([]models.Comment, error)
	CreateComment(postID, authorID, body string) (models.Comment, error)
	DeleteComment(id, authorID string) error
}

// CommentService provides business logic for post comments.
type CommentService struct {
	db    *sql.DB
	posts PostServiceProvider
}

// NewCommentService creates a new CommentService.
func NewCommentService(db *sql.DB, posts PostServiceProvider) *CommentService {
	return &CommentService{db: db, posts: posts}
}

// GetCommentsForPost retrieves all comments on a post, oldest first.
func (s *CommentService) GetCommentsForPost(postID string) ([]models.Comment, error) {
	if _, err := s.posts.GetPostByID(postID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		"SELECT id, post_id, author_id, body, created_at FROM comments WHERE post_id = ? ORDER BY created_at ASC",
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// CreateComment adds a comment to a post.
func (s *CommentService) CreateComment(postID, authorID, body string) (models.Comment, error) {
	if body == "" {
		return models.Comment{}, ErrValidation
	}
	if _, err := s.posts.GetPostByID(postID); err != nil {
		return models.Comment{}, err
	}

	comment := models.Comment{
		ID:        uuid.New().String(),
		PostID:    postID,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: time.Now(),
	}

	_, err := s.db.Exec(
		"INSERT INTO comments(id, post_id, author_id, body, created_at) VALUES(?, ?, ?, ?, ?)",
		comment.ID, comment.PostID, comment.AuthorID, comment.Body, comment.CreatedAt,
	)
	if err != nil {
		return models.Comment{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return comment, nil
}

// DeleteComment removes a comment. Only the author may delete it.
func (s *CommentService) DeleteComment(id, authorID string) error {
	var comment models.Comment
	row := s.db.QueryRow("SELECT id, post_id, author_id, body, created_at FROM comments WHERE id = ?", id)
	err := row.Scan(&comment.ID, &comment.PostID, &comment.AuthorID, &comment.Body, &comment.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if comment.AuthorID != authorID {
		return ErrForbidden
	}

	if _, err := s.db.Exec("DELETE FROM comments WHERE id = ?", id); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
