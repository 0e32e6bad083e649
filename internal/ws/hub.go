package ws

import (
	"context"
	"encoding/json"
	"log/slog"
)

// TopicContact carries newly received contact messages.
const TopicContact = "contact"

// outboxSize bounds how far a subscriber may fall behind before it is dropped.
const outboxSize = 16

// Subscriber abstracts a streaming client. Send may block; the hub never
// calls it from the dispatch loop.
type Subscriber interface {
	Send([]byte) error
	Close()
}

// Hub fans out payloads to subscribers grouped by topic. All state is owned by
// the Run goroutine.
type Hub struct {
	clients   map[string]map[Subscriber]*peer
	register  chan subscription
	unreg     chan subscription
	broadcast chan message
	count     chan countRequest
	done      chan struct{}
	logger    *slog.Logger
}

type message struct {
	topic   string
	payload []byte
}

type subscription struct {
	topic  string
	client Subscriber
}

type countRequest struct {
	topic string
	reply chan int
}

// peer pairs a subscriber with its outbox and writer goroutine.
type peer struct {
	sub    Subscriber
	outbox chan []byte
}

// NewHub creates a Hub. Call Run to start dispatching.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:   make(map[string]map[Subscriber]*peer),
		register:  make(chan subscription),
		unreg:     make(chan subscription),
		broadcast: make(chan message),
		count:     make(chan countRequest),
		done:      make(chan struct{}),
		logger:    logger,
	}
}

// Run dispatches until ctx is cancelled, then closes every subscriber.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for topic, clients := range h.clients {
				for c := range clients {
					h.drop(topic, c)
				}
			}
			return
		case sub := <-h.register:
			if _, ok := h.clients[sub.topic]; !ok {
				h.clients[sub.topic] = make(map[Subscriber]*peer)
			}
			if _, ok := h.clients[sub.topic][sub.client]; ok {
				continue
			}
			p := &peer{sub: sub.client, outbox: make(chan []byte, outboxSize)}
			h.clients[sub.topic][sub.client] = p
			go h.pump(sub.topic, p)
		case sub := <-h.unreg:
			h.drop(sub.topic, sub.client)
		case msg := <-h.broadcast:
			for c, p := range h.clients[msg.topic] {
				select {
				case p.outbox <- msg.payload:
				default:
					h.logger.Warn("stream subscriber too slow, dropping", "topic", msg.topic)
					h.drop(msg.topic, c)
				}
			}
		case req := <-h.count:
			req.reply <- len(h.clients[req.topic])
		}
	}
}

// pump delivers queued payloads until the outbox is closed or a send fails.
func (h *Hub) pump(topic string, p *peer) {
	for payload := range p.outbox {
		if err := p.sub.Send(payload); err != nil {
			h.Unregister(topic, p.sub)
			return
		}
	}
}

func (h *Hub) drop(topic string, c Subscriber) {
	clients, ok := h.clients[topic]
	if !ok {
		return
	}
	p, ok := clients[c]
	if !ok {
		return
	}
	c.Close()
	close(p.outbox)
	delete(clients, c)
	if len(clients) == 0 {
		delete(h.clients, topic)
	}
}

// Register adds a client to a topic.
func (h *Hub) Register(topic string, client Subscriber) {
	select {
	case h.register <- subscription{topic: topic, client: client}:
	case <-h.done:
		client.Close()
	}
}

// Unregister removes and closes a client.
func (h *Hub) Unregister(topic string, client Subscriber) {
	select {
	case h.unreg <- subscription{topic: topic, client: client}:
	case <-h.done:
	}
}

// Broadcast sends payload to all topic subscribers.
func (h *Hub) Broadcast(topic string, payload []byte) {
	select {
	case h.broadcast <- message{topic: topic, payload: payload}:
	case <-h.done:
	}
}

// Publish encodes v as JSON and broadcasts it.
func (h *Hub) Publish(topic string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		h.logger.Warn("stream encode failed", "topic", topic, "error", err)
		return
	}
	h.Broadcast(topic, payload)
}

// Subscribers reports how many clients listen on topic.
func (h *Hub) Subscribers(topic string) int {
	reply := make(chan int, 1)
	select {
	case h.count <- countRequest{topic: topic, reply: reply}:
		return <-reply
	case <-h.done:
		return 0
	}
}
