package websocket

import "github.com/rs/zerolog/log"

type notification struct {
	userID  string
	message []byte
}

// Hub maintains the set of connected clients and routes reminder
// notifications to the clients of a specific user.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Pending user notifications.
	notify chan notification

	// A map of user IDs to the set of that user's connected clients.
	subscriptions map[string]map[*Client]bool
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		notify:        make(chan notification, 64),
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
			h.addSubscription(client)
			log.Info().Int("total_clients", len(h.clients)).Msg("Client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.removeSubscription(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case n := <-h.notify:
			h.deliver(n)
		}
	}
}

// NotifyUser queues a message for every client connected as the given
// user. Safe to call from any goroutine.
func (h *Hub) NotifyUser(userID string, message []byte) {
	select {
	case h.notify <- notification{userID: userID, message: message}:
	default:
		log.Warn().Str("user_id", userID).Msg("Notification queue full, dropping message")
	}
}

// deliver fans a notification out to the user's clients. A client that
// cannot keep up is dropped.
func (h *Hub) deliver(n notification) {
	if subs, ok := h.subscriptions[n.userID]; ok {
		for client := range subs {
			select {
			case client.Send <- n.message:
			default:
				close(client.Send)
				delete(h.clients, client)
				delete(subs, client)
			}
		}
	}
}

func (h *Hub) addSubscription(client *Client) {
	if h.subscriptions[client.UserID] == nil {
		h.subscriptions[client.UserID] = make(map[*Client]bool)
	}
	h.subscriptions[client.UserID][client] = true
}

func (h *Hub) removeSubscription(client *Client) {
	if subs, ok := h.subscriptions[client.UserID]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.subscriptions, client.UserID)
		}
	}
}
