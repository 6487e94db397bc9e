package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-sessions/internal/entity"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096

	sendBuffer      = 64
	broadcastBuffer = 256
)

// AllGames - topic of clients subscribed to every game.
const AllGames int64 = 0

type client struct {
	id     string
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	gameID int64
}

type direct struct {
	client *client
	data   []byte
}

// Hub - fans game events out to subscribed clients. Only Run touches the subscriber map
// and the clients' send channels.
type Hub struct {
	logger *slog.Logger

	topics map[int64]map[*client]struct{}

	broadcast  chan entity.GameEvent
	direct     chan direct
	register   chan *client
	unregister chan *client
	done       chan struct{}
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger.With("component", "websocket_hub"),

		topics:     make(map[int64]map[*client]struct{}),
		broadcast:  make(chan entity.GameEvent, broadcastBuffer),
		direct:     make(chan direct),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
	}
}

// Run - event loop; returns when ctx is cancelled and disconnects every client.
func (that *Hub) Run(ctx context.Context) {
	defer close(that.done)

	for {
		select {
		case <-ctx.Done():
			for _, clients := range that.topics {
				for c := range clients {
					that.drop(c)
				}
			}

			return
		case c := <-that.register:
			that.add(c)
		case c := <-that.unregister:
			that.drop(c)
		case msg := <-that.direct:
			if that.has(msg.client) {
				that.deliver(msg.client, msg.data)
			}
		case event := <-that.broadcast:
			that.fanOut(event)
		}
	}
}

// Publish - queues an event without blocking. Events are dropped when the queue is full.
func (that *Hub) Publish(event entity.GameEvent) {
	select {
	case that.broadcast <- event:
	default:
		that.logger.Warn("event queue is full, dropping event", "type", event.Type, "game_id", event.GameID)
	}
}

// subscribers - must only be called from the Run goroutine or while Run is not running.
func (that *Hub) subscribers(gameID int64) int {
	return len(that.topics[gameID])
}

func (that *Hub) add(c *client) {
	if that.topics[c.gameID] == nil {
		that.topics[c.gameID] = make(map[*client]struct{})
	}
	that.topics[c.gameID][c] = struct{}{}

	that.logger.Debug("client subscribed", "client_id", c.id, "game_id", c.gameID,
		"subscribers", len(that.topics[c.gameID]))
}

func (that *Hub) has(c *client) bool {
	_, ok := that.topics[c.gameID][c]

	return ok
}

func (that *Hub) drop(c *client) {
	clients, ok := that.topics[c.gameID]
	if !ok {
		return
	}

	if _, ok = clients[c]; !ok {
		return
	}

	delete(clients, c)
	close(c.send)

	if len(clients) == 0 {
		delete(that.topics, c.gameID)
	}

	that.logger.Debug("client unsubscribed", "client_id", c.id, "game_id", c.gameID)
}

func (that *Hub) fanOut(event entity.GameEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		that.logger.Error("failed to marshal event", "type", event.Type, "error", err)
		return
	}

	for c := range that.topics[event.GameID] {
		that.deliver(c, data)
	}

	if event.GameID != AllGames {
		for c := range that.topics[AllGames] {
			that.deliver(c, data)
		}
	}
}

// deliver - slow clients whose buffer is full are disconnected.
func (that *Hub) deliver(c *client, data []byte) {
	select {
	case c.send <- data:
	default:
		that.logger.Warn("client is too slow, disconnecting", "client_id", c.id)
		that.drop(c)
	}
}

func (that *Hub) attach(conn *websocket.Conn, gameID int64) *client {
	c := &client{
		id:     uuid.NewString(),
		hub:    that,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		gameID: gameID,
	}

	select {
	case that.register <- c:
	case <-that.done:
		close(c.send)
	}

	return c
}

func (that *Hub) reply(c *client, data []byte) {
	select {
	case that.direct <- direct{client: c, data: data}:
	case <-that.done:
	}
}

func (that *Hub) detach(c *client) {
	select {
	case that.unregister <- c:
	case <-that.done:
	}
}

func (that *client) readPump(handle func(c *client, data []byte)) {
	defer func() {
		that.hub.detach(that)
		_ = that.conn.Close()
	}()

	that.conn.SetReadLimit(maxMessageSize)
	_ = that.conn.SetReadDeadline(time.Now().Add(pongWait))
	that.conn.SetPongHandler(func(string) error {
		return that.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := that.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				that.hub.logger.Warn("websocket read failed", "client_id", that.id, "error", err)
			}

			return
		}

		handle(that, data)
	}
}

func (that *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = that.conn.Close()
	}()

	for {
		select {
		case message, ok := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = that.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := that.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
