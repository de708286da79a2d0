package handler

import (
	"net/http"
	"time"

	"tutor-portal/internal/delivery/http/middleware"
	"tutor-portal/internal/infrastructure/metrics"
	"tutor-portal/internal/service"
	"tutor-portal/pkg/response"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = (streamPongWait * 9) / 10
)

// StreamHandler pushes the caller's new and read events over a websocket.
type StreamHandler struct {
	hub      *service.EventHub
	log      *logrus.Logger
	upgrader websocket.Upgrader
}

func NewStreamHandler(hub *service.EventHub, log *logrus.Logger, allowedOrigin string) *StreamHandler {
	return &StreamHandler{
		hub: hub,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowedOrigin == "" || allowedOrigin == "*" || origin == "" || origin == allowedOrigin
			},
		},
	}
}

func (h *StreamHandler) Connect(w http.ResponseWriter, r *http.Request) {
	tutorID, ok := middleware.GetTutorIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.log.WithField("tutor_id", tutorID).Debugf("Websocket upgrade failed: %v", err)
		return
	}

	sub := h.hub.Subscribe(tutorID)
	metrics.StreamClients.Inc()
	defer metrics.StreamClients.Dec()

	go h.writePump(conn, sub)
	h.readPump(conn, sub)
}

// readPump only watches for pongs and the client closing the connection.
func (h *StreamHandler) readPump(conn *websocket.Conn, sub *service.Subscriber) {
	defer func() {
		h.hub.Unsubscribe(sub)
		conn.Close()
	}()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *StreamHandler) writePump(conn *websocket.Conn, sub *service.Subscriber) {
	ticker := time.NewTicker(streamPingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-sub.Send:
			conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
