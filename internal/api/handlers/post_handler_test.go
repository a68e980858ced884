package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/quillhq/quill-be/internal/models"
)

// loginAs registers and logs in a user, leaving the session cookie in
// the client jar.
func (ts *testServer) loginAs(t *testing.T, username, password string) {
	t.Helper()
	resp := ts.postForm(t, "/register", credentials(username, password))
	resp.Body.Close()
	resp = ts.postForm(t, "/login", credentials(username, password))
	resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("login as %s failed with status %d", username, resp.StatusCode)
	}
}

func (ts *testServer) postJSON(t *testing.T, path string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Failed to marshal payload: %v", err)
	}
	resp, err := ts.client.Post(ts.server.URL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s failed: %v", path, err)
	}
	return resp
}

func TestPostAPIFlow(t *testing.T) {
	ts := setupTestServer(t)
	ts.loginAs(t, "alice", "secret123")

	// Create a post.
	resp := ts.postJSON(t, "/api/v1/posts", map[string]string{
		"title": "Hello",
		"body":  "First post",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /api/v1/posts status = %d; want %d", resp.StatusCode, http.StatusCreated)
	}
	var post models.Post
	if err := json.NewDecoder(resp.Body).Decode(&post); err != nil {
		t.Fatalf("Failed to decode post: %v", err)
	}
	resp.Body.Close()
	if post.ID == "" || post.Title != "Hello" {
		t.Fatalf("Unexpected post: %+v", post)
	}

	// The post shows up in the public list.
	resp, err := ts.client.Get(ts.server.URL + "/api/v1/posts")
	if err != nil {
		t.Fatalf("GET /api/v1/posts failed: %v", err)
	}
	var posts []models.Post
	if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
		t.Fatalf("Failed to decode posts: %v", err)
	}
	resp.Body.Close()
	if len(posts) != 1 || posts[0].ID != post.ID {
		t.Fatalf("Unexpected post list: %+v", posts)
	}

	// Comment on it.
	resp = ts.postJSON(t, "/api/v1/posts/"+post.ID+"/comments", map[string]string{
		"body": "Nice post",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST comment status = %d; want %d", resp.StatusCode, http.StatusCreated)
	}
	var comment models.Comment
	if err := json.NewDecoder(resp.Body).Decode(&comment); err != nil {
		t.Fatalf("Failed to decode comment: %v", err)
	}
	resp.Body.Close()

	resp, err = ts.client.Get(ts.server.URL + "/api/v1/posts/" + post.ID + "/comments")
	if err != nil {
		t.Fatalf("GET comments failed: %v", err)
	}
	var comments []models.Comment
	if err := json.NewDecoder(resp.Body).Decode(&comments); err != nil {
		t.Fatalf("Failed to decode comments: %v", err)
	}
	resp.Body.Close()
	if len(comments) != 1 || comments[0].ID != comment.ID {
		t.Fatalf("Unexpected comment list: %+v", comments)
	}

	// Activity was recorded.
	resp, err = ts.client.Get(ts.server.URL + "/api/v1/events")
	if err != nil {
		t.Fatalf("GET /api/v1/events failed: %v", err)
	}
	var events []models.Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		t.Fatalf("Failed to decode events: %v", err)
	}
	resp.Body.Close()
	types := make(map[string]bool)
	for _, e := range events {
		types[e.Type] = true
	}
	for _, want := range []string{"user.register", "user.login", "post.create", "comment.create"} {
		if !types[want] {
			t.Errorf("Missing %s event in %v", want, events)
		}
	}
}

func TestPostMutationsRequireAuth(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.postJSON(t, "/api/v1/posts", map[string]string{
		"title": "Hello",
		"body":  "First post",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("Unauthenticated POST status = %d; want redirect %d", resp.StatusCode, http.StatusFound)
	}
	if loc, _ := resp.Location(); loc == nil || loc.Path != "/login" {
		t.Fatalf("Unauthenticated POST redirect = %v; want /login", loc)
	}
}

func TestSystemHealth(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := ts.client.Get(ts.server.URL + "/api/v1/system/health")
	if err != nil {
		t.Fatalf("GET /api/v1/system/health failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Health status = %d; want %d", resp.StatusCode, http.StatusOK)
	}
	var health struct {
		Status     string `json:"status"`
		Goroutines int    `json:"goroutines"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("Failed to decode health response: %v", err)
	}
	if health.Status != "ok" || health.Goroutines <= 0 {
		t.Fatalf("Unexpected health response: %+v", health)
	}
}
