package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgirmay/attendance/pkg/logging"
	"github.com/jgirmay/attendance/pkg/models"
)

func startHub(t *testing.T) (*Hub, string) {
	hub := NewHub(logging.NewNop(), nil, nil)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r)
	}))
	t.Cleanup(func() {
		hub.Close()
		server.Close()
	})
	return hub, "ws" + strings.TrimPrefix(server.URL, "http")
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	require.Eventually(t, func() bool { return hub.ClientCount() == n }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_BroadcastsToAllClients(t *testing.T) {
	hub, url := startHub(t)

	first, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer first.Close()
	second, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer second.Close()

	waitForClients(t, hub, 2)

	hub.Publish(Event{
		Type:   EventCheckIn,
		Record: &models.AttendanceRecord{ID: "rec-1", UserID: "u-1", Status: models.StatusLate},
	})

	for _, conn := range []*websocket.Conn{first, second} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err)

		var ev Event
		require.NoError(t, json.Unmarshal(payload, &ev))
		assert.Equal(t, EventCheckIn, ev.Type)
		assert.Equal(t, "rec-1", ev.Record.ID)
		assert.Equal(t, models.StatusLate, ev.Record.Status)
		assert.False(t, ev.At.IsZero())
	}
}

func TestHub_ClientDisconnectIsRemoved(t *testing.T) {
	hub, url := startHub(t)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	waitForClients(t, hub, 1)

	require.NoError(t, conn.Close())
	waitForClients(t, hub, 0)
}

func TestHub_PublishWithoutClients(t *testing.T) {
	hub := NewHub(logging.NewNop(), nil, nil)
	assert.NotPanics(t, func() {
		hub.Publish(Event{Type: EventCheckOut})
	})
	hub.Close()
	assert.Equal(t, 0, hub.ClientCount())
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NotPanics(t, func() { p.Publish(Event{Type: EventCheckIn}) })
}
