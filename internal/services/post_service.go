package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quillhq/quill-be/internal/models"
)

// PostServiceProvider defines the interface for post services.
type PostServiceProvider interface {
	GetAllPosts() ([]models.Post, error)
	GetPostByID(id string) (models.Post, error)
	CreatePost(authorID, title, body string) (models.Post, error)
	UpdatePost(id, authorID, title, body string) (models.Post, error)
	DeletePost(id, authorID string) error
}

// PostService provides business logic for blog posts.
type PostService struct {
	db *sql.DB
}

// NewPostService creates a new PostService.
func NewPostService(db *sql.DB) *PostService {
	return &PostService{db: db}
}

// scanPost is a helper to scan a post from a row or rows object.
func scanPost(scanner interface{ Scan(...interface{}) error }) (models.Post, error) {
	var post models.Post
	err := scanner.Scan(&post.ID, &post.AuthorID, &post.Title, &post.Body, &post.CreatedAt, &post.UpdatedAt)
	return post, err
}

// GetAllPosts retrieves all posts, newest first.
func (s *PostService) GetAllPosts() ([]models.Post, error) {
	rows, err := s.db.Query("SELECT id, author_id, title, body, created_at, updated_at FROM posts ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// GetPostByID retrieves a single post by its ID.
func (s *PostService) GetPostByID(id string) (models.Post, error) {
	row := s.db.QueryRow("SELECT id, author_id, title, body, created_at, updated_at FROM posts WHERE id = ?", id)
	post, err := scanPost(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Post{}, ErrNotFound
		}
		return models.Post{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return post, nil
}

// CreatePost adds a new post authored by authorID.
func (s *PostService) CreatePost(authorID, title, body string) (models.Post, error) {
	if title == "" || body == "" {
		return models.Post{}, ErrValidation
	}

	now := time.Now()
	post := models.Post{
		ID:        uuid.New().String(),
		AuthorID:  authorID,
		Title:     title,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.Exec(
		"INSERT INTO posts(id, author_id, title, body, created_at, updated_at) VALUES(?, ?, ?, ?, ?, ?)",
		post.ID, post.AuthorID, post.Title, post.Body, post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		return models.Post{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return post, nil
}

// UpdatePost updates a post's title and body. Only the author may
// update it.
func (s *PostService) UpdatePost(id, authorID, title, body string) (models.Post, error) {
	if title == "" || body == "" {
		return models.Post{}, ErrValidation
	}

	post, err := s.GetPostByID(id)
	if err != nil {
		return models.Post{}, err
	}
	if post.AuthorID != authorID {
		return models.Post{}, ErrForbidden
	}

	_, err = s.db.Exec(
		"UPDATE posts SET title = ?, body = ?, updated_at = ? WHERE id = ?",
		title, body, time.Now(), id,
	)
	if err != nil {
		return models.Post{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return s.GetPostByID(id)
}

// DeletePost removes a post and its comments. Only the author may
// delete it.
func (s *PostService) DeletePost(id, authorID string) error {
	post, err := s.GetPostByID(id)
	if err != nil {
		return err
	}
	if post.AuthorID != authorID {
		return ErrForbidden
	}

	// The post and its comments go together or not at all.
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM comments WHERE post_id = ?", id); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if _, err := tx.Exec("DELETE FROM posts WHERE id = ?", id); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
