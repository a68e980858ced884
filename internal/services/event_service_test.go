package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEventLogRoundTrip(t *testing.T) {
	svc := NewEventService(newTestDB(t), nil)

	subject := "post-1"
	require.NoError(t, svc.CreateEvent("post.create", "info", "Post created", &subject))
	require.NoError(t, svc.CreateEvent("user.login", "info", "User logged in", nil))

	events, err := svc.GetRecentEvents(10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	types := []string{events[0].Type, events[1].Type}
	require.Contains(t, types, "post.create")
	require.Contains(t, types, "user.login")
}

func TestGetRecentEventsHonorsLimit(t *testing.T) {
	svc := NewEventService(newTestDB(t), nil)

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.CreateEvent("user.login", "info", "login", nil))
	}

	events, err := svc.GetRecentEvents(3)
	require.NoError(t, err)
	require.Len(t, events, 3)
}

func TestPruneEventsOlderThan(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db, nil)

	require.NoError(t, svc.CreateEvent("user.login", "info", "fresh", nil))
	_, err := db.Exec(
		"INSERT INTO events (id, type, level, message, created_at) VALUES ('old-1', 'user.login', 'info', 'stale', datetime('now', '-120 days'))",
	)
	require.NoError(t, err)

	pruned, err := svc.PruneEventsOlderThan(90)
	require.NoError(t, err)
	require.Equal(t, int64(1), pruned)

	events, err := svc.GetRecentEvents(10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "fresh", events[0].Message)
}
