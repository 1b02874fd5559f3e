package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 64
)

// Session is a single websocket connection owned by one authenticated
// user. Outbound messages go through a buffered channel drained by the
// write pump; a full buffer marks the session as slow and closes it.
type Session struct {
	userID uuid.UUID
	conn   *websocket.Conn
	send   chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

// NewSession creates a session for an upgraded connection
func NewSession(userID uuid.UUID, conn *websocket.Conn) *Session {
	return &Session{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
	}
}

// UserID returns the owning user's ID
func (s *Session) UserID() uuid.UUID {
	return s.userID
}

// Send queues a message for delivery. It never blocks: when the buffer
// is full the session is closed instead.
func (s *Session) Send(message []byte) {
	select {
	case <-s.done:
	case s.send <- message:
	default:
		s.Close()
	}
}

// Close shuts the session down. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}

// writePump drains the send buffer onto the connection and keeps the
// connection alive with pings. Runs as a goroutine per session.
func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.Close()
	}()

	for {
		select {
		case <-s.done:
			return
		case message := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump consumes inbound frames. Clients do not send application
// messages; the read loop exists to process control frames and to detect
// a dropped peer.
func (s *Session) readPump(onClose func()) {
	defer func() {
		onClose()
		s.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}
