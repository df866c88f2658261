package websocket

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const goodToken = "good-token"

func startHub(t *testing.T) (*Hub, string, primitive.ObjectID) {
	t.Helper()
	userID := primitive.NewObjectID()
	parse := func(token string) (primitive.ObjectID, string, error) {
		if token != goodToken {
			return primitive.NilObjectID, "", errors.New("bad token")
		}
		return userID, "teller", nil
	}

	hub := NewHub()
	go hub.Run()

	e := echo.New()
	e.GET("/api/ws", func(c echo.Context) error {
		return HandleWebSocket(c, hub, parse)
	})
	srv := httptest.NewServer(e)
	t.Cleanup(func() {
		srv.Close()
		hub.Stop()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws", userID
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readNotification(t *testing.T, conn *websocket.Conn) Notification {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var n Notification
	require.NoError(t, conn.ReadJSON(&n))
	return n
}

func TestHandleWebSocket_GreetsAndBroadcasts(t *testing.T) {
	hub, url, _ := startHub(t)
	conn := dial(t, url)

	hello := readNotification(t, conn)
	assert.Equal(t, "connected", hello.Type)
	assert.True(t, hello.RequiresAuth)

	hub.Broadcast(EventPayrollUpdated, map[string]string{"payrollId": "abc"})

	n := readNotification(t, conn)
	assert.Equal(t, EventPayrollUpdated, n.Type)
	assert.Equal(t, map[string]interface{}{"payrollId": "abc"}, n.Data)
}

func TestHandleWebSocket_Auth(t *testing.T) {
	hub, url, userID := startHub(t)
	conn := dial(t, url)
	readNotification(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("AUTH:nope")))
	reply := readNotification(t, conn)
	assert.Equal(t, "auth_response", reply.Type)
	assert.True(t, reply.RequiresAuth)
	assert.False(t, hub.SendToUser(userID, Notification{Type: "ping"}))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("AUTH:"+goodToken)))
	reply = readNotification(t, conn)
	assert.Equal(t, "auth_response", reply.Type)
	assert.Equal(t, userID.Hex(), reply.UserID)

	require.True(t, hub.SendToUser(userID, Notification{Type: "payroll_approved", Message: "approved"}))
	n := readNotification(t, conn)
	assert.Equal(t, "payroll_approved", n.Type)
}

func TestHub_DisconnectUnregisters(t *testing.T) {
	hub, url, _ := startHub(t)
	conn := dial(t, url)
	readNotification(t, conn)
	assert.Equal(t, 1, hub.ClientCount())

	conn.Close()
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_BroadcastNeverBlocks(t *testing.T) {
	hub := NewHub() // not running: the queue fills and extra events are dropped
	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			hub.Broadcast(EventSettingsUpdated, i)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked on a full queue")
	}
}
