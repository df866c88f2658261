package websocket

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// TokenParser validates an "AUTH:<token>" message and returns who sent it.
type TokenParser func(token string) (userID primitive.ObjectID, userType string, err error)

// HandleWebSocket upgrades the request and serves the connection until it
// closes. Clients receive broadcasts immediately and may authenticate later
// with "AUTH:<jwt>" to receive user-targeted messages.
func HandleWebSocket(c echo.Context, hub *Hub, parse TokenParser) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &Client{
		Conn: conn,
		send: make(chan Notification, sendBuffer),
	}
	if !hub.add(client) {
		conn.Close()
		return nil
	}

	hub.deliver(client, Notification{
		Type:         "connected",
		Message:      "WebSocket connection established",
		RequiresAuth: true,
	})

	go writePump(client)
	go readPump(hub, client, parse)
	return nil
}

func readPump(hub *Hub, client *Client, parse TokenParser) {
	defer func() {
		hub.remove(client)
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(4096)
	_ = client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		return client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, message, err := client.Conn.ReadMessage()
		if err != nil {
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		msg := string(message)
		if !strings.HasPrefix(msg, "AUTH:") {
			continue
		}

		reply := Notification{Type: "auth_response"}
		userID, userType, err := parse(strings.TrimPrefix(msg, "AUTH:"))
		if err != nil {
			reply.Message = "Invalid or expired token"
			reply.RequiresAuth = true
		} else {
			hub.AuthenticateClient(client, userID, userType)
			reply.Message = "Authenticated"
			reply.UserID = userID.Hex()
		}
		hub.deliver(client, reply)
	}
}

func writePump(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case n, ok := <-client.send:
			_ = client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteJSON(n); err != nil {
				return
			}
		case <-ticker.C:
			_ = client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
