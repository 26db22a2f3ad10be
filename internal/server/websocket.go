package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/zeusync/hvactwin/internal/core/command"
	"github.com/zeusync/hvactwin/internal/core/observability/log"
	"github.com/zeusync/hvactwin/internal/core/projector"
)

type MessageType string

const (
	MessageView    MessageType = "view"
	MessageOutcome MessageType = "outcome"
	MessageError   MessageType = "error"
)

// Message is one websocket frame from server to client.
type Message struct {
	Type    MessageType          `json:"type"`
	View    *projector.ViewState `json:"view,omitempty"`
	Outcome *command.Outcome     `json:"outcome,omitempty"`
	Error   string               `json:"error,omitempty"`
}

const sendBuffer = 16

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Origins are enforced by the CORS middleware configuration.
	CheckOrigin: func(*http.Request) bool { return true },
}

// session is one connected client. Output goes through send so only the
// writer goroutine writes to the connection.
type session struct {
	id   string
	conn *websocket.Conn
	send chan Message

	mu     sync.Mutex
	closed bool
}

// push queues m without blocking. It reports false if the session is closed
// or its buffer is full.
func (c *session) push(m Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- m:
		return true
	default:
		return false
	}
}

func (c *session) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
}

type hub struct {
	mu           sync.RWMutex
	sessions     map[string]*session
	maxClients   int
	writeTimeout time.Duration
	log          log.Log
}

func newHub(maxClients int, writeTimeout time.Duration, logger log.Log) *hub {
	return &hub{
		sessions:     make(map[string]*session),
		maxClients:   maxClients,
		writeTimeout: writeTimeout,
		log:          logger,
	}
}

func (h *hub) size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

func (h *hub) add(conn *websocket.Conn) (*session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.maxClients > 0 && len(h.sessions) >= h.maxClients {
		return nil, ErrMaxClientsReached
	}
	c := &session{id: uuid.NewString(), conn: conn, send: make(chan Message, sendBuffer)}
	h.sessions[c.id] = c
	return c, nil
}

func (h *hub) remove(c *session) {
	h.mu.Lock()
	delete(h.sessions, c.id)
	h.mu.Unlock()
	c.close()
}

// broadcast queues m for every client. Slow clients drop the message.
func (h *hub) broadcast(m Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.sessions {
		if !c.push(m) {
			h.log.Debug("message dropped", log.String("session", c.id))
		}
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	sessions := h.sessions
	h.sessions = make(map[string]*session)
	h.mu.Unlock()
	for _, c := range sessions {
		c.close()
	}
}

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", log.Error(err))
		return
	}
	sess, err := s.hub.add(conn)
	if err != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error()),
			time.Now().Add(time.Second))
		_ = conn.Close()
		return
	}
	s.log.Info("websocket client connected", log.String("session", sess.id))

	view := s.View()
	sess.push(Message{Type: MessageView, View: &view})

	go s.writeLoop(sess)
	s.readLoop(sess)

	s.hub.remove(sess)
	s.log.Info("websocket client disconnected", log.String("session", sess.id))
}

// readLoop turns client frames into commands until the connection closes.
func (s *Server) readLoop(sess *session) {
	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd command.Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			s.reply(sess, Message{Type: MessageError, Error: ErrInvalidMessage.Error() + ": " + err.Error()})
			continue
		}
		out, err := s.dispatcher.Dispatch(cmd)
		if err != nil {
			s.reply(sess, Message{Type: MessageError, Error: err.Error()})
			continue
		}
		s.reply(sess, Message{Type: MessageOutcome, Outcome: &out})
	}
}

func (s *Server) reply(sess *session, m Message) {
	if !sess.push(m) {
		s.log.Debug("reply dropped", log.String("session", sess.id), log.String("type", string(m.Type)))
	}
}

func (s *Server) writeLoop(sess *session) {
	for m := range sess.send {
		_ = sess.conn.SetWriteDeadline(time.Now().Add(s.hub.writeTimeout))
		if err := sess.conn.WriteJSON(m); err != nil {
			s.log.Debug("websocket write failed", log.String("session", sess.id), log.Error(err))
			_ = sess.conn.Close()
			return
		}
	}
}
