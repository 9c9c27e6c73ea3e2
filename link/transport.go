// This file contains the Link Byte Transport interface: the boundary
// between the protocol engine and whatever actually clocks bytes over a
// Game Boy link cable. Modeled on the teacher's repdecoder.Decoder — a
// small, pluggable interface with io.Closer-style resource semantics —
// with context.Context added on the blocking calls, since a real transport
// can wait indefinitely for the peer's next clock edge.

package link

import (
	"context"
	"errors"
)

// ErrNoData is returned by Recv when the transport has no byte available
// and none is coming (a disconnect, a timeout, a scripted sequence run
// dry). It is a distinct signal from any wire byte value, including 0xFF,
// so "no data" is never conflated with the in-band patch terminator.
var ErrNoData = errors.New("link: no data available")

// Transport exchanges single bytes with a link-cable peer. Implementations
// need not be safe for concurrent use; driver.Run owns a Transport from a
// single goroutine.
type Transport interface {
	// Recv blocks until a byte arrives from the peer, ctx is cancelled, or
	// no further data will ever arrive (ErrNoData).
	Recv(ctx context.Context) (byte, error)

	// Send transmits a byte to the peer.
	Send(ctx context.Context, b byte) error
}
