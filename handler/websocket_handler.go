package handler

import (
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"real-time-dm-api/config/logger"
	"real-time-dm-api/dto"
	"real-time-dm-api/hub"
	"real-time-dm-api/middleware"
)

const (
	defaultHeartbeat    = 30 * time.Second
	defaultWriteTimeout = 10 * time.Second
)

type WebSocketHandler struct {
	*hub.Hub
	Log          *logger.AppLogger
	heartbeat    time.Duration
	writeTimeout time.Duration
}

func NewWebSocketHandler(h *hub.Hub, log *logger.AppLogger, heartbeat, writeTimeout time.Duration) *WebSocketHandler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	return &WebSocketHandler{
		Hub:          h,
		Log:          log,
		heartbeat:    heartbeat,
		writeTimeout: writeTimeout,
	}
}

// Upgrade rejects plain HTTP requests on the live endpoint.
func (handler *WebSocketHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// HandleWebSocket registers the connection as the user's live channel and
// blocks until the peer goes away. Inbound frames are only used as liveness.
func (handler *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	userID, _ := c.Locals(middleware.UserIDKey).(string)
	if userID == "" {
		handler.Log.WS.Warning.Warn().Msg("Rejected live connection without user")
		_ = c.Close()
		return
	}

	ch := newWSChannel(c, handler.writeTimeout)
	handler.Hub.Connect(userID, ch)

	done := make(chan struct{})
	defer func() {
		close(done)
		handler.Hub.Release(userID, ch)
		_ = ch.Close()
	}()
	go handler.keepAlive(userID, ch, done)

	readTimeout := 2 * handler.heartbeat
	extend := func() error {
		return c.SetReadDeadline(time.Now().Add(readTimeout))
	}
	_ = extend()
	c.SetPongHandler(func(string) error { return extend() })

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			handler.Log.WS.Info.Info().Str("userId", userID).Err(err).Msg("Live connection closed")
			return
		}
		_ = extend()
	}
}

func (handler *WebSocketHandler) keepAlive(userID string, ch *wsChannel, done <-chan struct{}) {
	ticker := time.NewTicker(handler.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := ch.Ping(); err != nil {
				handler.Log.WS.Warning.Warn().Str("userId", userID).Err(err).Msg("Heartbeat failed")
				handler.Hub.Release(userID, ch)
				_ = ch.Close()
				return
			}
		}
	}
}

// wsChannel adapts a websocket connection to hub.Channel. Writes are
// serialized because the publisher and the heartbeat run on different
// goroutines.
type wsChannel struct {
	conn         *websocket.Conn
	writeTimeout time.Duration
	mu           sync.Mutex
	closeOnce    sync.Once
	closeErr     error
}

func newWSChannel(conn *websocket.Conn, writeTimeout time.Duration) *wsChannel {
	return &wsChannel{conn: conn, writeTimeout: writeTimeout}
}

func (ch *wsChannel) Send(event dto.LiveEvent) error {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	if err := ch.conn.SetWriteDeadline(time.Now().Add(ch.writeTimeout)); err != nil {
		return err
	}
	return ch.conn.WriteJSON(event)
}

func (ch *wsChannel) Ping() error {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	return ch.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(ch.writeTimeout))
}

func (ch *wsChannel) Close() error {
	ch.closeOnce.Do(func() {
		ch.closeErr = ch.conn.Close()
	})
	return ch.closeErr
}
