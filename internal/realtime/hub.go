// Package realtime implements the websocket gateway that fans domain
// events out to connected clients. Every connection is subscribed to the
// owner's identity channel and to one channel per group the owner belongs
// to at connect time; membership gained later is picked up through the
// subscribe hint carried on group creation and join events.
package realtime

import (
	"encoding/json"
	"sync"

	"taskboard-backend/internal/events"
	"taskboard-backend/internal/logger"

	"github.com/google/uuid"
)

// envelope is the wire shape of every delivered event
type envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub tracks live sessions and their channel subscriptions. It implements
// events.Publisher; delivery is best-effort and never blocks the caller.
type Hub struct {
	mu     sync.RWMutex
	groups map[uuid.UUID]map[*Session]struct{}
	users  map[uuid.UUID]map[*Session]struct{}
	log    *logger.Logger
}

// NewHub creates a new hub
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		groups: make(map[uuid.UUID]map[*Session]struct{}),
		users:  make(map[uuid.UUID]map[*Session]struct{}),
		log:    log,
	}
}

// Register adds a session to its owner's identity channel and to the
// given group channels.
func (h *Hub) Register(session *Session, groupIDs []uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.users[session.userID] == nil {
		h.users[session.userID] = make(map[*Session]struct{})
	}
	h.users[session.userID][session] = struct{}{}

	for _, groupID := range groupIDs {
		if h.groups[groupID] == nil {
			h.groups[groupID] = make(map[*Session]struct{})
		}
		h.groups[groupID][session] = struct{}{}
	}
}

// Unregister removes a session from every channel
func (h *Hub) Unregister(session *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sessions, ok := h.users[session.userID]; ok {
		delete(sessions, session)
		if len(sessions) == 0 {
			delete(h.users, session.userID)
		}
	}
	for groupID, sessions := range h.groups {
		delete(sessions, session)
		if len(sessions) == 0 {
			delete(h.groups, groupID)
		}
	}
}

// Publish delivers an event to every session subscribed to its scope.
// Sessions that cannot keep up are closed rather than blocking delivery.
func (h *Hub) Publish(event events.Event) {
	message, err := json.Marshal(envelope{Event: event.Name, Data: event.Payload})
	if err != nil {
		h.log.WithField("event", event.Name).WithError(err).Error("Failed to encode event")
		return
	}

	h.mu.Lock()
	if event.Subscribe != nil && event.Scope.Kind == events.ScopeGroup {
		h.subscribeUserLocked(*event.Subscribe, event.Scope.ID)
	}
	targets := h.targetsLocked(event.Scope)
	if event.Name == events.GroupDeleted && event.Scope.Kind == events.ScopeGroup {
		// The channel has no future traffic once the group is gone
		delete(h.groups, event.Scope.ID)
	}
	h.mu.Unlock()

	for _, session := range targets {
		session.Send(message)
	}
}

// subscribeUserLocked adds all of a user's live sessions to a group
// channel. Caller holds the write lock.
func (h *Hub) subscribeUserLocked(userID, groupID uuid.UUID) {
	sessions, ok := h.users[userID]
	if !ok {
		return
	}
	if h.groups[groupID] == nil {
		h.groups[groupID] = make(map[*Session]struct{})
	}
	for session := range sessions {
		h.groups[groupID][session] = struct{}{}
	}
}

// targetsLocked snapshots the sessions subscribed to a scope. Caller
// holds the lock.
func (h *Hub) targetsLocked(scope events.Scope) []*Session {
	var source map[*Session]struct{}
	switch scope.Kind {
	case events.ScopeGroup:
		source = h.groups[scope.ID]
	case events.ScopeUser:
		source = h.users[scope.ID]
	}

	targets := make([]*Session, 0, len(source))
	for session := range source {
		targets = append(targets, session)
	}
	return targets
}

// GroupSessionCount returns the number of sessions on a group channel
func (h *Hub) GroupSessionCount(groupID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[groupID])
}

// UserSessionCount returns the number of sessions on an identity channel
func (h *Hub) UserSessionCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}
