package websocket

import "encoding/json"

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// NewEventMessage encodes an activity event for broadcast.
func NewEventMessage(payload interface{}) []byte {
	data, _ := json.Marshal(Message{Action: "event", Payload: payload})
	return data
}

// NewErrorMessage encodes an error notification for a single client.
func NewErrorMessage(msg string) []byte {
	data, _ := json.Marshal(Message{Action: "error", Payload: msg})
	return data
}
