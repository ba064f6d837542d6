package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/flowbench/pkg/errors"
	"github.com/matzehuels/flowbench/pkg/observability"
	"github.com/matzehuels/flowbench/pkg/playground"
)

// Websocket message types.
const (
	MessageState = "state"
	MessageEvent = "event"
	MessageError = "error"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 16
)

// Message is the websocket envelope in both directions. The server sends
// state and error messages; the page sends event messages.
type Message struct {
	Type  string            `json:"type"`
	State *playground.State `json:"state,omitempty"`
	Event *playground.Event `json:"event,omitempty"`
	Error string            `json:"error,omitempty"`
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan Message
}

// hub fans session state out to every connected page.
type hub struct {
	session  *playground.Session
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

func newHub(sess *playground.Session, logger *log.Logger) *hub {
	h := &hub{
		session: sess,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients: map[*client]struct{}{},
	}
	sess.Subscribe(h.broadcast)
	return h
}

func (h *hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade", "err", err)
		return
	}
	c := &client{id: uuid.NewString(), conn: conn, send: make(chan Message, sendBuffer)}
	h.add(c)

	st := h.session.State()
	h.reply(c, Message{Type: MessageState, State: &st})

	go h.writeLoop(c)
	h.readLoop(c)
}

func (h *hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	observability.Playground().OnClients(n)
	h.logger.Debug("client connected", "client", c.id[:8], "clients", n)
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	close(c.send)
	n := len(h.clients)
	h.mu.Unlock()
	observability.Playground().OnClients(n)
	h.logger.Debug("client disconnected", "client", c.id[:8], "clients", n)
}

// broadcast queues st for every client. Slow clients whose buffer is full
// are dropped.
func (h *hub) broadcast(st playground.State) {
	msg := Message{Type: MessageState, State: &st}
	h.mu.Lock()
	var slow []*client
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.Unlock()
	for _, c := range slow {
		h.remove(c)
		_ = c.conn.Close()
	}
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *hub) closeAll() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()
	for _, c := range clients {
		h.remove(c)
		_ = c.conn.Close()
	}
}

func (h *hub) readLoop(c *client) {
	defer func() {
		h.remove(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxBody)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read", "client", c.id[:8], "err", err)
			}
			return
		}
		if msg.Type != MessageEvent || msg.Event == nil {
			h.reply(c, Message{Type: MessageError, Error: "expected an event message"})
			continue
		}
		if err := h.session.Dispatch(context.Background(), *msg.Event); err != nil {
			h.reply(c, Message{Type: MessageError, Error: errors.UserMessage(err)})
		}
	}
}

// reply queues msg for c alone, dropping it if c is gone or saturated.
func (h *hub) reply(c *client, msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

func (h *hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
