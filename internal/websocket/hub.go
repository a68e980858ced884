package websocket

import "github.com/rs/zerolog/log"

// Hub maintains the set of active clients and broadcasts activity
// events to them. The client maps are owned by the Run goroutine;
// everything reaches them through channels.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Inbound messages for global broadcast.
	Broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Messages for the subscribers of a single post.
	targeted chan targetedMessage

	// Messages for a single client.
	direct chan directMessage

	// A map of post IDs to the set of clients subscribed to that post.
	subscriptions map[string]map[*Client]bool
}

// targetedMessage carries a message for the subscribers of one post.
type targetedMessage struct {
	postID  string
	message []byte
}

// directMessage carries a message for one client.
type directMessage struct {
	client  *Client
	message []byte
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:     make(chan []byte),
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		targeted:      make(chan targetedMessage),
		direct:        make(chan directMessage),
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			log.Info().Int("total_clients", len(h.clients)).Msg("Client connected")
			// If the client connected on a post stream, subscribe it.
			if client.PostID != "" {
				h.addSubscription(client, client.PostID)
			}
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				// Remove from global clients and any subscriptions
				delete(h.clients, client)
				close(client.Send)
				h.removeSubscription(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
					h.removeSubscription(client)
				}
			}
		case tm := <-h.targeted:
			for client := range h.subscriptions[tm.postID] {
				select {
				case client.Send <- tm.message:
				default:
					close(client.Send)
					delete(h.clients, client)
					h.removeSubscription(client)
				}
			}
		case dm := <-h.direct:
			// Clients gone from the map have a closed Send channel;
			// drop the message rather than send on it.
			if _, ok := h.clients[dm.client]; ok {
				select {
				case dm.client.Send <- dm.message:
				default:
				}
			}
		}
	}
}

// BroadcastTo sends a message to all clients subscribed to a post.
// Delivery happens on the Run goroutine, which owns the client maps.
func (h *Hub) BroadcastTo(postID string, message []byte) {
	h.targeted <- targetedMessage{postID: postID, message: message}
}

// SendTo delivers a message to a single client. Messages to clients
// that already disconnected are dropped.
func (h *Hub) SendTo(client *Client, message []byte) {
	h.direct <- directMessage{client: client, message: message}
}

func (h *Hub) addSubscription(client *Client, postID string) {
	if h.subscriptions[postID] == nil {
		h.subscriptions[postID] = make(map[*Client]bool)
	}
	h.subscriptions[postID][client] = true
}

func (h *Hub) removeSubscription(client *Client) {
	for postID, subs := range h.subscriptions {
		if _, ok := subs[client]; ok {
			delete(subs, client)
			if len(subs) == 0 {
				delete(h.subscriptions, postID)
			}
		}
	}
}
