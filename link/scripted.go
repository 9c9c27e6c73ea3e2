package link

import "context"

// Scripted replays a fixed sequence of inbound bytes and records every
// outbound byte sent to it. Used to drive the driver package's end-to-end
// S4 test and the cmd/tradecenterd "simulate" subcommand without real
// hardware.
type Scripted struct {
	in  []byte
	pos int

	Sent []byte
}

// NewScripted returns a Scripted transport that will yield in, in order,
// then ErrNoData once exhausted.
func NewScripted(in []byte) *Scripted {
	return &Scripted{in: in}
}

func (s *Scripted) Recv(ctx context.Context) (byte, error) {
	if s.pos >= len(s.in) {
		return 0, ErrNoData
	}
	b := s.in[s.pos]
	s.pos++
	return b, nil
}

func (s *Scripted) Send(ctx context.Context, b byte) error {
	s.Sent = append(s.Sent, b)
	return nil
}

// Remaining reports how many scripted bytes have not yet been consumed.
func (s *Scripted) Remaining() int {
	return len(s.in) - s.pos
}
