package services

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/quillhq/quill-be/internal/models"
	"github.com/quillhq/quill-be/internal/websocket"
)

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	CreateEvent(eventType, level, message string, subjectID *string) error
	GetRecentEvents(limit int) ([]models.Event, error)
	PruneEventsOlderThan(days int) (int64, error)
}

// EventService records the activity log and pushes new entries to
// connected websocket clients.
type EventService struct {
	db  *sql.DB
	hub *websocket.Hub
}

// NewEventService creates a new EventService. hub may be nil when no
// live stream is wanted (tests).
func NewEventService(db *sql.DB, hub *websocket.Hub) *EventService {
	return &EventService{db: db, hub: hub}
}

// CreateEvent logs a new event to the database and broadcasts it.
func (s *EventService) CreateEvent(eventType, level, message string, subjectID *string) error {
	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Level:     level,
		Message:   message,
		SubjectID: subjectID,
		CreatedAt: time.Now(),
	}

	_, err := s.db.Exec(
		"INSERT INTO events (id, type, level, message, subject_id) VALUES (?, ?, ?, ?, ?)",
		event.ID, event.Type, event.Level, event.Message, event.SubjectID,
	)
	if err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.Broadcast <- websocket.NewEventMessage(event)
	}
	return nil
}

// GetRecentEvents retrieves the most recent events from the database.
func (s *EventService) GetRecentEvents(limit int) ([]models.Event, error) {
	rows, err := s.db.Query(
		"SELECT id, type, level, message, subject_id, created_at FROM events ORDER BY created_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.ID, &event.Type, &event.Level, &event.Message, &event.SubjectID, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// PruneEventsOlderThan deletes events older than the given number of
// days and returns how many were removed.
func (s *EventService) PruneEventsOlderThan(days int) (int64, error) {
	res, err := s.db.Exec("DELETE FROM events WHERE created_at < datetime('now', '-' || ? || ' days')", days)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
