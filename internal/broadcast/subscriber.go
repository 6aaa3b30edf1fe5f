package broadcast

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The demo frontend is served from another origin.
	CheckOrigin: func(*http.Request) bool { return true },
}

// subscriber is one connected websocket client.
type subscriber struct {
	conn   *websocket.Conn
	send   chan []byte
	remote string
}

// ServeWS upgrades the request and registers the connection with the hub.
// The subscriber stays registered until the peer disconnects or falls behind.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade", zap.Error(err))
		return
	}

	s := &subscriber{
		conn:   conn,
		send:   make(chan []byte, sendQueueLen),
		remote: conn.RemoteAddr().String(),
	}
	h.add(s)
	h.logger.Info("subscriber connected", zap.String("remote", s.remote))

	go s.writePump()
	go h.readPump(s)
}

// readPump drains (and discards) client frames so pings/pongs and close
// frames are processed. The push channel is server→client only.
func (h *Hub) readPump(s *subscriber) {
	defer func() {
		h.remove(s)
		_ = s.conn.Close()
		h.logger.Info("subscriber disconnected", zap.String("remote", s.remote))
	}()

	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *subscriber) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
