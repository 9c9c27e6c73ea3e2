// This file contains the structured event log: a tradeengine.EventSink
// that logs every event except ByteExchanged via zerolog (byte exchanges
// are only counted) and fans each event out to connected debug websocket
// clients, plus a small set of Prometheus counters.

package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/gbxlink/tradecenter/tradeengine"
)

var (
	tradesCommitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tradecenter_trades_committed_total",
		Help: "Number of trades that reached COMMIT.",
	})
	tradesAborted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tradecenter_trades_aborted_total",
		Help: "Number of trades that reached ABORT, by cause.",
	}, []string{"cause"})
	bytesExchanged = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tradecenter_bytes_exchanged_total",
		Help: "Total number of byte exchanges processed by Step.",
	})
)

func init() {
	prometheus.MustRegister(tradesCommitted, tradesAborted, bytesExchanged)
}

// Subscriber receives a JSON-ready copy of every event, used to fan out to
// websocket clients without coupling Sink to net/http.
type Subscriber interface {
	Notify(tradeengine.Event)
}

// Sink is a tradeengine.EventSink that logs structured events and forwards
// them to any registered Subscribers (Server's websocket hub).
type Sink struct {
	log zerolog.Logger

	mu          sync.Mutex
	subscribers []Subscriber
}

// NewSink constructs a Sink that logs through log.
func NewSink(log zerolog.Logger) *Sink {
	return &Sink{log: log}
}

// Subscribe registers s to receive every future event. Not safe to call
// concurrently with Publish for the same subscriber twice; intended for
// startup-time wiring and the websocket hub's connect handler.
func (sk *Sink) Subscribe(s Subscriber) {
	sk.mu.Lock()
	defer sk.mu.Unlock()
	sk.subscribers = append(sk.subscribers, s)
}

// Unsubscribe removes s, added by the websocket hub's disconnect handler so
// a closed connection's Subscriber doesn't keep accumulating failed
// Notify/WriteJSON attempts forever.
func (sk *Sink) Unsubscribe(s Subscriber) {
	sk.mu.Lock()
	defer sk.mu.Unlock()
	for i, sub := range sk.subscribers {
		if sub == s {
			sk.subscribers = append(sk.subscribers[:i], sk.subscribers[i+1:]...)
			return
		}
	}
}

// Publish implements tradeengine.EventSink.
func (sk *Sink) Publish(ev tradeengine.Event) {
	switch e := ev.(type) {
	case tradeengine.StateChange:
		sk.log.Debug().Str("from", e.From.Name).Str("to", e.To.Name).Msg("state change")
	case tradeengine.ByteExchanged:
		bytesExchanged.Inc()
	case tradeengine.BlockReceived:
		sk.log.Info().Msg("trade block received")
	case tradeengine.Committed:
		tradesCommitted.Inc()
		sk.log.Info().Msg("trade committed")
	case tradeengine.Aborted:
		cause := "unknown"
		if e.Cause != nil {
			cause = e.Cause.Error()
		}
		tradesAborted.WithLabelValues(cause).Inc()
		sk.log.Warn().Err(e.Cause).Msg("trade aborted")
	}

	sk.mu.Lock()
	subs := append([]Subscriber(nil), sk.subscribers...)
	sk.mu.Unlock()
	for _, s := range subs {
		s.Notify(ev)
	}
}
