package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"

	"github.com/safe-connect/sos-api/api/handlers"
)

func dialHub(t *testing.T, hub *handlers.NotificationHub, userID string) (*websocket.Conn, func()) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(hub.HandleNotificationsWebSocket))
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "?userId=" + userID

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		server.Close()
		t.Fatalf("websocket dial failed: %v", err)
	}

	// registration happens on the server goroutine after the handshake
	deadline := time.Now().Add(2 * time.Second)
	for !hub.Connected(userID) {
		if time.Now().After(deadline) {
			conn.Close()
			server.Close()
			t.Fatalf("client %s never registered", userID)
		}
		time.Sleep(5 * time.Millisecond)
	}

	return conn, func() {
		conn.Close()
		server.Close()
	}
}

func TestNotificationHub_PublishCaseEvent(t *testing.T) {
	hub := handlers.NewNotificationHub()
	conn, teardown := dialHub(t, hub, "reporter-1")
	defer teardown()

	hub.PublishCaseEvent("reporter-1", "sos_case_accepted", map[string]interface{}{
		"caseCode": "SOS1700000000000ABCD",
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg map[string]interface{}
	assert.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "sos_case_accepted", msg["event"])
}

func TestNotificationHub_PublishUnknownUserIsNoop(t *testing.T) {
	hub := handlers.NewNotificationHub()

	// nobody connected, must not panic
	hub.PublishCaseEvent("ghost", "sos_case_accepted", nil)
}

func TestNotificationHub_ConcurrentPublishSameUser(t *testing.T) {
	hub := handlers.NewNotificationHub()
	conn, teardown := dialHub(t, hub, "volunteer-1")
	defer teardown()

	// concurrent case events for one user share a single connection; every
	// frame must arrive intact
	const events = 20
	var wg sync.WaitGroup
	for i := 0; i < events; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.PublishCaseEvent("volunteer-1", "sos_case_update", map[string]interface{}{
				"status": "SEARCHING",
			})
		}()
	}
	wg.Wait()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for i := 0; i < events; i++ {
		var msg map[string]interface{}
		if !assert.NoError(t, conn.ReadJSON(&msg)) {
			return
		}
		assert.Equal(t, "sos_case_update", msg["event"])
	}
}

func TestNotificationHub_Broadcast(t *testing.T) {
	hub := handlers.NewNotificationHub()
	first, teardownFirst := dialHub(t, hub, "volunteer-1")
	defer teardownFirst()
	second, teardownSecond := dialHub(t, hub, "volunteer-2")
	defer teardownSecond()

	hub.BroadcastCaseEvent("sos_case_urgent", map[string]interface{}{"caseCode": "SOS1"})

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var msg map[string]interface{}
		assert.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, "sos_case_urgent", msg["event"])
	}
}
