package socket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"newstyping/internal/article/model"
	"newstyping/internal/ports"
	"newstyping/pkg/logger"
)

const (
	HelloType           = "HELLO"            // Sent once on connect with the servable count
	ArticlesAddedType   = "ARTICLES_ADDED"   // Ingestion stored new articles
	ArticlesRemovedType = "ARTICLES_REMOVED" // Cleanup or reset deleted articles
)

type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type HelloPayload struct {
	ActiveArticles int `json:"active_articles"`
}

type AddedPayload struct {
	Articles []model.PublicArticle `json:"articles"`
}

type RemovedPayload struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// Hub fans article cache events out to every connected subscriber. Run owns
// the subscriber set; everything else talks to it over channels.
type Hub struct {
	clients    map[*Client]bool
	Broadcast  chan WSMessage
	Register   chan *Client
	Unregister chan *Client
	store      ports.ArticleStore
	done       chan struct{}
	mu         sync.Mutex
}

var _ ports.ArticleNotifier = (*Hub)(nil)

// NewHub returns a hub. store may be nil, in which case HELLO reports zero.
func NewHub(store ports.ArticleStore) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		Broadcast:  make(chan WSMessage, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		store:      store,
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer func() {
		h.mu.Lock()
		for client := range h.clients {
			delete(h.clients, client)
			close(client.Send)
		}
		h.mu.Unlock()
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.remove(client)

		case msg := <-h.Broadcast:
			payload, err := json.Marshal(msg)
			if err != nil {
				logger.Sugar.Errorf("Error marshalling broadcast message: %v", err)
				continue
			}

			h.mu.Lock()
			clientsToSend := make([]*Client, 0, len(h.clients))
			for client := range h.clients {
				clientsToSend = append(clientsToSend, client)
			}
			h.mu.Unlock()

			for _, client := range clientsToSend {
				select {
				case client.Send <- payload:
				default:
					logger.Sugar.Warnf("Subscriber %s is lagging, dropping it", client.ID)
					h.remove(client)
				}
			}
		}
	}
}

// ClientCount reports how many subscribers are connected.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) ArticlesAdded(articles []model.PublicArticle) {
	h.publish(ArticlesAddedType, AddedPayload{Articles: articles})
}

func (h *Hub) ArticlesRemoved(reason string, count int) {
	h.publish(ArticlesRemovedType, RemovedPayload{Reason: reason, Count: count})
}

// publish never blocks the caller; events are dropped when the queue is full.
func (h *Hub) publish(msgType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		logger.Sugar.Errorf("Error marshalling %s payload: %v", msgType, err)
		return
	}
	select {
	case h.Broadcast <- WSMessage{Type: msgType, Payload: raw}:
	default:
		logger.Sugar.Warnf("Article feed queue is full, dropping %s event", msgType)
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.Send)
	}
}

// hello builds the greeting for a new subscriber. It queries the store, so
// it runs on the connecting request's goroutine, never inside Run.
func (h *Hub) hello(ctx context.Context) ([]byte, error) {
	return encode(HelloType, HelloPayload{ActiveArticles: h.activeCount(ctx)})
}

func (h *Hub) activeCount(ctx context.Context) int {
	if h.store == nil {
		return 0
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	articles, err := h.store.ListServable(ctx, time.Now(), nil)
	if err != nil {
		logger.Sugar.Errorf("Failed to count servable articles for hello: %v", err)
		return 0
	}
	return len(articles)
}

func encode(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(WSMessage{Type: msgType, Payload: raw})
}
