package services

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// seedUser inserts a user row so author foreign keys resolve.
func seedUser(t *testing.T, db *sql.DB, id string) {
	t.Helper()
	_, err := db.Exec("INSERT INTO users(id, username, password_hash) VALUES(?, ?, 'x')", id, "user-"+id)
	require.NoError(t, err)
}

func newPostFixture(t *testing.T) (*sql.DB, *PostService) {
	t.Helper()
	db := newTestDB(t)
	for _, id := range []string{"author-1", "reader-1", "intruder"} {
		seedUser(t, db, id)
	}
	return db, NewPostService(db)
}

func TestPostCRUD(t *testing.T) {
	_, svc := newPostFixture(t)

	post, err := svc.CreatePost("author-1", "Hello", "First post")
	require.NoError(t, err)
	require.NotEmpty(t, post.ID)

	got, err := svc.GetPostByID(post.ID)
	require.NoError(t, err)
	require.Equal(t, "Hello", got.Title)
	require.Equal(t, "author-1", got.AuthorID)

	updated, err := svc.UpdatePost(post.ID, "author-1", "Hello again", "Edited")
	require.NoError(t, err)
	require.Equal(t, "Hello again", updated.Title)
	require.Equal(t, "Edited", updated.Body)

	all, err := svc.GetAllPosts()
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.NoError(t, svc.DeletePost(post.ID, "author-1"))
	_, err = svc.GetPostByID(post.ID)
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestPostValidation(t *testing.T) {
	_, svc := newPostFixture(t)

	_, err := svc.CreatePost("author-1", "", "body")
	require.True(t, errors.Is(err, ErrValidation))

	_, err = svc.CreatePost("author-1", "title", "")
	require.True(t, errors.Is(err, ErrValidation))
}

func TestPostAuthorship(t *testing.T) {
	_, svc := newPostFixture(t)

	post, err := svc.CreatePost("author-1", "Hello", "First post")
	require.NoError(t, err)

	_, err = svc.UpdatePost(post.ID, "intruder", "Hijacked", "nope")
	require.True(t, errors.Is(err, ErrForbidden))

	err = svc.DeletePost(post.ID, "intruder")
	require.True(t, errors.Is(err, ErrForbidden))

	// The post is untouched.
	got, err := svc.GetPostByID(post.ID)
	require.NoError(t, err)
	require.Equal(t, "Hello", got.Title)
}

func TestCommentLifecycle(t *testing.T) {
	db, posts := newPostFixture(t)
	comments := NewCommentService(db, posts)

	post, err := posts.CreatePost("author-1", "Hello", "First post")
	require.NoError(t, err)

	comment, err := comments.CreateComment(post.ID, "reader-1", "Nice post")
	require.NoError(t, err)
	require.Equal(t, post.ID, comment.PostID)

	list, err := comments.GetCommentsForPost(post.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Nice post", list[0].Body)

	err = comments.DeleteComment(comment.ID, "intruder")
	require.True(t, errors.Is(err, ErrForbidden))

	require.NoError(t, comments.DeleteComment(comment.ID, "reader-1"))
	list, err = comments.GetCommentsForPost(post.ID)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestCommentOnMissingPost(t *testing.T) {
	db, posts := newPostFixture(t)
	comments := NewCommentService(db, posts)

	_, err := comments.CreateComment("no-such-post", "reader-1", "hi")
	require.True(t, errors.Is(err, ErrNotFound))

	_, err = comments.GetCommentsForPost("no-such-post")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestDeletePostRemovesComments(t *testing.T) {
	db, posts := newPostFixture(t)
	comments := NewCommentService(db, posts)

	post, err := posts.CreatePost("author-1", "Hello", "First post")
	require.NoError(t, err)
	_, err = comments.CreateComment(post.ID, "reader-1", "Nice post")
	require.NoError(t, err)

	require.NoError(t, posts.DeletePost(post.ID, "author-1"))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM comments WHERE post_id = ?", post.ID).Scan(&count))
	require.Zero(t, count)
}
