// This file contains the minimal HTTP/WebSocket surface spec.md §2 calls
// out as the "event log / telemetry sink" external adapter: a debug
// websocket stream of events, a Prometheus scrape endpoint, and a JSON
// snapshot of session state. None of this is a production observability
// product (explicitly out of scope); it exists so a developer driving the
// emulator locally has something to look at.

package telemetry

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gbxlink/tradecenter/tradeengine"
)

// SnapshotFunc returns the current session snapshot for the /snapshot
// route. Kept as a func rather than a *tradeengine.Session dependency so
// telemetry never needs to know about session internals.
type SnapshotFunc func() tradeengine.Snapshot

// Server exposes /ws/events, /metrics and /snapshot.
type Server struct {
	router   chi.Router
	sink     *Sink
	snapshot SnapshotFunc
	log      zerolog.Logger

	upgrader websocket.Upgrader
}

// NewServer builds a Server. sink is subscribed to automatically so every
// connected websocket client receives live events.
func NewServer(sink *Sink, snapshot SnapshotFunc, log zerolog.Logger) *Server {
	s := &Server{
		sink:     sink,
		snapshot: snapshot,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}

	r := chi.NewRouter()
	r.Get("/ws/events", s.handleWS)
	r.Get("/snapshot", s.handleSnapshot)
	r.Handle("/metrics", promhttp.Handler())
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.snapshot())
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	sub := &wsSubscriber{conn: conn, log: s.log}
	s.sink.Subscribe(sub)
	defer s.sink.Unsubscribe(sub)

	// Drain client reads so a disconnect is detected; this connection is
	// write-only from the server's side.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			conn.Close()
			return
		}
	}
}

// wsSubscriber adapts one websocket connection to Subscriber.
type wsSubscriber struct {
	mu   sync.Mutex
	conn *websocket.Conn
	log  zerolog.Logger
}

// eventPayload is the JSON shape sent over /ws/events, a flattened view
// over whichever concrete Event arrived since the interface itself has no
// exported fields to marshal generically.
type eventPayload struct {
	Kind string      `json:"kind"`
	Data interface{} `json:"data"`
}

func (w *wsSubscriber) Notify(ev tradeengine.Event) {
	payload := eventPayload{Data: ev}
	switch ev.(type) {
	case tradeengine.StateChange:
		payload.Kind = "state_change"
	case tradeengine.ByteExchanged:
		payload.Kind = "byte_exchanged"
	case tradeengine.BlockReceived:
		payload.Kind = "block_received"
	case tradeengine.Committed:
		payload.Kind = "committed"
	case tradeengine.Aborted:
		payload.Kind = "aborted"
	default:
		payload.Kind = "unknown"
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.conn.WriteJSON(payload); err != nil {
		w.log.Debug().Err(err).Msg("dropping websocket subscriber")
	}
}
