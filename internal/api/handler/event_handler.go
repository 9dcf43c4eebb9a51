package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"school-attendance/internal/event"
)

const (
	eventWriteWait  = 10 * time.Second
	eventPongWait   = 60 * time.Second
	eventPingPeriod = 30 * time.Second
)

// EventSource live change notifications
type EventSource interface {
	Subscribe() (<-chan event.Event, func())
}

// EventHandler pushes change notifications over a websocket
type EventHandler struct {
	events   EventSource
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewEventHandler origins mirrors the CORS allow-list; empty allows all
func NewEventHandler(events EventSource, origins []string, logger *zap.Logger) *EventHandler {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return &EventHandler{
		events: events,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed[origin] || allowed["*"]
			},
		},
		logger: logger,
	}
}

// Stream GET /api/v1/events (websocket)
func (h *EventHandler) Stream(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the error response
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	events, cancel := h.events.Subscribe()
	defer cancel()

	// reader: only pongs and close frames are expected
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(eventPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(eventPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	h.logger.Debug("event stream opened", zap.String("user_id", userID))
	ticker := time.NewTicker(eventPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			h.logger.Debug("event stream closed", zap.String("user_id", userID))
			return
		case <-c.Request.Context().Done():
			return
		case e, open := <-events:
			if !open {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(eventWriteWait))
			if err := conn.WriteJSON(e); err != nil {
				h.logger.Debug("event write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(eventWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
