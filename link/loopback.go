package link

import "context"

// Loopback is an in-memory Transport pair: bytes sent on one end arrive as
// Recv on the other. Used in tests that need two cooperating sessions
// without a real cable.
type Loopback struct {
	send chan byte
	recv chan byte
}

// NewLoopbackPair returns two Transports, each other's peer.
func NewLoopbackPair() (a, b *Loopback) {
	ab := make(chan byte, 1)
	ba := make(chan byte, 1)
	a = &Loopback{send: ab, recv: ba}
	b = &Loopback{send: ba, recv: ab}
	return
}

func (l *Loopback) Recv(ctx context.Context) (byte, error) {
	select {
	case b := <-l.recv:
		return b, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func (l *Loopback) Send(ctx context.Context, b byte) error {
	select {
	case l.send <- b:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
