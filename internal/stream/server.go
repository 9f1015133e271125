package stream

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/san-kum/synapse/internal/engine"
	"github.com/san-kum/synapse/internal/graph"
)

const (
	sendBuffer   = 8
	writeTimeout = 10 * time.Second
	readTimeout  = 60 * time.Second
	pingPeriod   = 45 * time.Second
)

// Frame is one outbound snapshot message.
type Frame struct {
	Type  string         `json:"type"` // always "scene"
	State string         `json:"state"`
	Scene graph.Snapshot `json:"scene"`
}

// Command is an inbound client message.
type Command struct {
	Type string  `json:"type"` // pointer, pointer_clear, pause, resume
	X    float64 `json:"x,omitempty"`
	Y    float64 `json:"y,omitempty"`
}

// Server broadcasts scene snapshots to every connected client at a fixed
// rate. A client whose send buffer is full misses frames rather than
// stalling the broadcast.
type Server struct {
	eng      *engine.Engine
	log      *slog.Logger
	interval time.Duration
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func NewServer(eng *engine.Engine, interval time.Duration, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &Server{
		eng:      eng,
		log:      log,
		interval: interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Run drives the broadcast loop until ctx is done. Connections outlive
// missed frames but not the loop: on return every client is closed.
func (s *Server) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return ctx.Err()
		case <-ticker.C:
			s.broadcast()
		}
	}
}

// ServeHTTP upgrades the request and attaches the client to the
// broadcast set.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	c := &client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	n := len(s.clients)
	s.mu.Unlock()
	s.log.Debug("client connected", "remote", r.RemoteAddr, "clients", n)

	go s.writePump(c)
	go s.readPump(c, r.RemoteAddr)
}

// ClientCount reports how many connections are attached.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) broadcast() {
	frame := Frame{
		Type:  "scene",
		State: s.eng.State().String(),
		Scene: s.eng.Snapshot(),
	}
	data, err := json.Marshal(frame)
	if err != nil {
		s.log.Warn("snapshot encode failed", "error", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			// Slow client: skip this frame for it.
		}
	}
}

func (s *Server) writePump(c *client) {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()
	for {
		select {
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.drop(c)
				return
			}
		case <-ping.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.drop(c)
				return
			}
		case <-c.done:
			return
		}
	}
}

func (s *Server) readPump(c *client, remote string) {
	defer s.drop(c)
	c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("client read error", "remote", remote, "error", err)
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(readTimeout))
		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			s.log.Debug("bad client message", "remote", remote, "error", err)
			continue
		}
		s.apply(cmd)
	}
}

func (s *Server) apply(cmd Command) {
	switch cmd.Type {
	case "pointer":
		s.eng.SetPointer(cmd.X, cmd.Y)
	case "pointer_clear":
		s.eng.ClearPointer()
	case "pause":
		s.eng.Pause()
	case "resume":
		s.eng.Resume()
	}
}

func (s *Server) drop(c *client) {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
}

func (s *Server) closeAll() {
	s.mu.Lock()
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()
	for _, c := range clients {
		s.drop(c)
	}
}
