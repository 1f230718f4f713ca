package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"kanban-board-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendQueue  = 16
)

// boardConn is one board listening on /api/ws. Events are queued and written
// by a single goroutine; a full queue drops the event for that board only.
type boardConn struct {
	conn *websocket.Conn
	send chan []byte

	closeOnce sync.Once
	closed    chan struct{}
}

func newBoardConn(conn *websocket.Conn) *boardConn {
	return &boardConn{
		conn:   conn,
		send:   make(chan []byte, sendQueue),
		closed: make(chan struct{}),
	}
}

// Send implements realtime.Client.
func (b *boardConn) Send(message []byte) bool {
	select {
	case <-b.closed:
		return false
	default:
	}
	select {
	case b.send <- message:
		return true
	default:
		return false
	}
}

// Close implements realtime.Client.
func (b *boardConn) Close() {
	b.closeOnce.Do(func() {
		close(b.closed)
		_ = b.conn.Close()
	})
}

// writeLoop writes queued events and keepalive pings until the connection
// is closed.
func (b *boardConn) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-b.closed:
			return
		case msg := <-b.send:
			_ = b.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := b.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				b.Close()
				return
			}
		case <-ticker.C:
			if err := b.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				b.Close()
				return
			}
		}
	}
}

// readLoop discards incoming frames; it exists to process pongs and notice
// when the peer goes away.
func (b *boardConn) readLoop() {
	b.conn.SetReadLimit(1024)
	_ = b.conn.SetReadDeadline(time.Now().Add(pongWait))
	b.conn.SetPongHandler(func(string) error {
		return b.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := b.conn.ReadMessage(); err != nil {
			return
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS is handled in front of gin
	CheckOrigin: func(r *http.Request) bool { return true },
}

// BoardEvents upgrades GET /api/ws and streams board change events to the
// connection until it goes away.
func BoardEvents(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Println("websocket upgrade error:", err)
			return
		}

		board := newBoardConn(conn)
		id := hub.Register(board)
		defer hub.Unregister(id)

		go board.writeLoop()
		board.readLoop()
	}
}
