// Package hub keeps the registry of online users and pushes live events to
// their delivery channel.
//
// Delivery is best-effort and at-most-once: an event for a user without a
// channel is dropped, and a channel that fails a send is removed. Clients
// reconcile by re-fetching conversations after reconnecting.
package hub

import (
	"real-time-dm-api/config/logger"
	"real-time-dm-api/dto"
	"sync"
)

// Channel is a live delivery target for one user session.
type Channel interface {
	Send(event dto.LiveEvent) error
	Close() error
}

type Hub struct {
	mu      sync.RWMutex
	clients map[string]Channel
	log     *logger.AppLogger
}

func New(log *logger.AppLogger) *Hub {
	return &Hub{
		clients: make(map[string]Channel),
		log:     log,
	}
}

// Connect registers ch for userID. A channel already registered for the
// user is superseded and closed.
func (h *Hub) Connect(userID string, ch Channel) {
	h.mu.Lock()
	previous, existed := h.clients[userID]
	h.clients[userID] = ch
	total := len(h.clients)
	h.mu.Unlock()

	if existed && previous != ch {
		_ = previous.Close()
		h.log.WS.Info.Info().Str("userId", userID).Msg("Superseded previous live channel")
	}
	h.log.WS.Info.Info().Str("userId", userID).Int("online", total).Msg("User connected")
}

// Disconnect removes whatever channel userID has. Once it returns no
// further publish reaches that channel.
func (h *Hub) Disconnect(userID string) {
	h.mu.Lock()
	ch, ok := h.clients[userID]
	delete(h.clients, userID)
	h.mu.Unlock()

	if ok {
		_ = ch.Close()
		h.log.WS.Info.Info().Str("userId", userID).Msg("User disconnected")
	}
}

// Release removes ch only if it is still the active channel of userID, so a
// closing session cannot evict a newer one.
func (h *Hub) Release(userID string, ch Channel) bool {
	h.mu.Lock()
	current, ok := h.clients[userID]
	released := ok && current == ch
	if released {
		delete(h.clients, userID)
	}
	h.mu.Unlock()

	if released {
		h.log.WS.Info.Info().Str("userId", userID).Msg("User disconnected")
	}
	return released
}

// Publish forwards event to userID's channel and reports whether it was
// delivered. A failed send disconnects the channel; the error never reaches
// the caller.
func (h *Hub) Publish(userID string, event dto.LiveEvent) bool {
	h.mu.RLock()
	ch, ok := h.clients[userID]
	h.mu.RUnlock()
	if !ok {
		h.log.WS.Trace.Trace().Str("userId", userID).Str("kind", string(event.Kind)).Msg("User offline, event dropped")
		return false
	}

	if err := ch.Send(event); err != nil {
		h.log.WS.Warning.Warn().Err(err).Str("userId", userID).Msg("Live delivery failed, dropping channel")
		if h.Release(userID, ch) {
			_ = ch.Close()
		}
		return false
	}

	h.log.WS.Stream.Debug().Str("userId", userID).Str("kind", string(event.Kind)).Str("chatId", event.ChatID).Msg("Event delivered")
	return true
}

func (h *Hub) Online(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
