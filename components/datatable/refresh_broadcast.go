package datatable

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// subscriberBuffer bounds how far a subscriber may lag before events drop.
const subscriberBuffer = 16

type subscription struct {
	session string
	events  chan TableEvent
}

func (s *subscription) wants(event TableEvent) bool {
	return s.session == "" || s.session == event.SessionID
}

// BroadcastHook is a RefreshHook that fans table events out to live
// subscribers, such as websocket and SSE streams. Delivery never blocks the
// mutating session: a full subscriber buffer drops the event.
type BroadcastHook struct {
	mu   sync.RWMutex
	subs map[*subscription]struct{}
}

// NewBroadcastHook creates an empty hub.
func NewBroadcastHook() *BroadcastHook {
	return &BroadcastHook{subs: map[*subscription]struct{}{}}
}

// TableUpdated delivers event to every matching subscriber.
func (h *BroadcastHook) TableUpdated(_ context.Context, event TableEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		if !sub.wants(event) {
			continue
		}
		select {
		case sub.events <- event:
		default:
		}
	}
	return nil
}

// Subscribe streams events for one session, or every session when sessionID
// is blank. The returned cancel closes the channel and is safe to call twice.
func (h *BroadcastHook) Subscribe(sessionID string) (<-chan TableEvent, func()) {
	sub := &subscription{session: sessionID, events: make(chan TableEvent, subscriberBuffer)}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return sub.events, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, sub)
			h.mu.Unlock()
			close(sub.events)
		})
	}
}

// Subscribers counts live subscriptions.
func (h *BroadcastHook) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// pump forwards events to write until ctx ends, the subscription closes, or
// write fails.
func (h *BroadcastHook) pump(ctx context.Context, sessionID string, write func(TableEvent) error) {
	events, cancel := h.Subscribe(sessionID)
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok || write(event) != nil {
				return
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// ServeWebSocket streams events as JSON text frames. ?session= narrows the
// stream to one session.
func (h *BroadcastHook) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, stop := context.WithCancel(r.Context())
	defer stop()
	go func() {
		// Reads surface the client's close frame.
		defer stop()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()
	h.pump(ctx, r.URL.Query().Get("session"), func(event TableEvent) error {
		return conn.WriteJSON(event)
	})
}

// ServeSSE streams events as Server-Sent Events named after the event reason.
func (h *BroadcastHook) ServeSSE(w http.ResponseWriter, r *http.Request) {
	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flush := func() {}
	if f, ok := w.(http.Flusher); ok {
		flush = f.Flush
	}
	flush()

	h.pump(r.Context(), r.URL.Query().Get("session"), func(event TableEvent) error {
		data, err := json.Marshal(event)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Reason, data); err != nil {
			return err
		}
		flush()
		return nil
	})
}
