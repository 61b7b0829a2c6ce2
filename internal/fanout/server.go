// Package fanout streams session events to presentation clients over
// WebSocket. The same HTTP server carries /metrics and /healthz.
package fanout

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/pitchside/pitchside/internal/events"
	"github.com/pitchside/pitchside/internal/telemetry"
)

const (
	clientSendBuf = 256
	writeDeadline = 5 * time.Second
	pongWait      = 30 * time.Second
	pingInterval  = 20 * time.Second

	// Snapshots arrive once per simulated second; clients only need a
	// few frames a second even when tests spin the clock fast.
	snapshotRate  = 5
	snapshotBurst = 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(_ *http.Request) bool { return true },
}

type client struct {
	sessionID string // "" subscribes to all sessions
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
}

// Server fans out bus events to connected WebSocket clients.
type Server struct {
	mu       sync.Mutex
	clients  map[*client]struct{}
	snapshot *rate.Limiter
}

func NewServer(bus *events.Bus) *Server {
	s := &Server{
		clients:  make(map[*client]struct{}),
		snapshot: rate.NewLimiter(snapshotRate, snapshotBurst),
	}
	bus.SubscribeAll(s.forward)
	return s
}

// forward is called on the publisher's goroutine. It serializes the event
// and enqueues it to matching clients' send channels (non-blocking).
// Snapshot frames are rate-limited; everything else passes through.
func (s *Server) forward(evt events.Event) error {
	if evt.Type == events.EventSnapshot && !s.snapshot.Allow() {
		return nil
	}

	data, err := MarshalEvent(evt)
	if err != nil {
		telemetry.Warnf("fanout: marshal error: %v", err)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for c := range s.clients {
		if c.sessionID != "" && c.sessionID != evt.SessionID {
			continue
		}
		select {
		case c.send <- data:
		default:
			telemetry.Metrics.FanoutDropped.Inc()
			telemetry.Warnf("fanout: dropping message for slow client")
		}
	}
	return nil
}

// HandleWS is the HTTP handler for WebSocket upgrade requests.
// Clients may filter with ?session=<id>; no filter streams everything.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		telemetry.Warnf("fanout: upgrade failed: %v", err)
		return
	}

	c := &client{
		sessionID: r.URL.Query().Get("session"),
		conn:      conn,
		send:      make(chan []byte, clientSendBuf),
		done:      make(chan struct{}),
	}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	telemetry.Metrics.FanoutClients.Inc()
	telemetry.Plainf("fanout: client connected (session=%q)", c.sessionID)

	go s.writePump(c)
	go s.readPump(c)
}

// writePump drains the client's send channel and writes to the WS
// connection. It owns the client lifecycle: on exit it removes the client
// from the map (so forward never sends to a stale channel) and closes the
// connection.
func (s *Server) writePump(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		s.removeClient(c)
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				telemetry.Warnf("fanout: write error: %v", err)
				return
			}
		case <-c.done:
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump keeps the connection alive by reading pongs / close frames.
// No upstream messages are expected from presentation clients.
// On exit it signals writePump via c.done (never closes c.send).
func (s *Server) readPump(c *client) {
	defer close(c.done)

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
	telemetry.Metrics.FanoutClients.Dec()
	telemetry.Plainf("fanout: client disconnected (session=%q)", c.sessionID)
}

// Handler builds the HTTP mux: /ws for the event stream, /metrics for
// prometheus, /healthz for liveness.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleWS)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Start runs the fanout HTTP server on its own goroutine and returns it
// so the caller can Shutdown on exit.
func (s *Server) Start(port int) *http.Server {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.Handler(),
	}

	go func() {
		telemetry.Plainf("fanout: server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			telemetry.Errorf("fanout: server: %v", err)
		}
	}()

	return srv
}
