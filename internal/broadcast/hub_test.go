package broadcast

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func dialHub(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitSubscribers(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.SubscriberCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("subscriber count: got %d, want %d", h.SubscriberCount(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_PublishWithoutSubscribersDoesNotBlock(t *testing.T) {
	t.Parallel()

	h := NewHub(zap.NewNop())
	done := make(chan struct{})
	go func() {
		h.Publish(EventSensorUpdate, map[string]any{"sensorId": "S-001"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked with no subscribers")
	}
}

func TestHub_FanOutToAllSubscribers(t *testing.T) {
	t.Parallel()

	h := NewHub(zap.NewNop())
	c1 := dialHub(t, h)
	c2 := dialHub(t, h)
	waitSubscribers(t, h, 2)

	h.Publish(EventNewAlert, map[string]any{"sensorId": "S-005", "level": "CRITICAL"})

	for _, c := range []*websocket.Conn{c1, c2} {
		require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, msg, err := c.ReadMessage()
		require.NoError(t, err)

		var env struct {
			Event string         `json:"event"`
			Data  map[string]any `json:"data"`
		}
		require.NoError(t, json.Unmarshal(msg, &env))
		require.Equal(t, EventNewAlert, env.Event)
		require.Equal(t, "S-005", env.Data["sensorId"])
		require.Equal(t, "CRITICAL", env.Data["level"])
	}
}

func TestHub_DisconnectedSubscriberIsRemoved(t *testing.T) {
	t.Parallel()

	h := NewHub(zap.NewNop())
	c := dialHub(t, h)
	waitSubscribers(t, h, 1)

	require.NoError(t, c.Close())
	waitSubscribers(t, h, 0)

	// Publishing after the disconnect must not panic or block.
	h.Publish(EventNewReport, map[string]any{"type": "dust"})
}
