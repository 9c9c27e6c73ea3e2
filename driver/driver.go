// This file contains the run loop that wires a link.Transport to a
// tradeengine.Session: recv a byte, Step it, send the tx byte, forward
// events, repeat. Modeled on repparser.parseProtected's recover-wrapped
// loop — the one place in this module a panic from foreign code (an
// EventSink, a CommitHandler) is recovered rather than crashing the
// process. The recovered panic ends the loop: Run returns it as an error
// and does not continue with the next byte.

package driver

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gbxlink/tradecenter/link"
	"github.com/gbxlink/tradecenter/tradeengine"
)

// CommitHandler is invoked for every Committed event the session raises,
// giving the driver's caller a chance to persist the trade. It runs inline
// on the driver's goroutine; slow handlers will stall the byte loop.
type CommitHandler func(tradeengine.Committed)

// Run drives sess from transport t until ctx is cancelled or t.Recv
// returns an error other than link.ErrNoData (which just ends the loop
// cleanly — the peer has nothing left to say). Every step's events are
// logged (state changes at debug, byte exchanges at trace, received blocks
// and commits at info, aborts at warn) and, for Committed events, handed to
// onCommit if non-nil.
func Run(ctx context.Context, t link.Transport, sess *tradeengine.Session, log zerolog.Logger, onCommit CommitHandler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("driver: recovered from panic: %v", r)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			if sess.State() != tradeengine.StateIdle {
				sess.WatchdogReset()
				log.Warn().Msg("watchdog reset: context cancelled mid-trade")
			}
			return ctx.Err()
		default:
		}

		rx, recvErr := t.Recv(ctx)
		if recvErr != nil {
			if recvErr == link.ErrNoData {
				return nil
			}
			return recvErr
		}

		tx, events := sess.Step(rx)

		if sendErr := t.Send(ctx, tx); sendErr != nil {
			return sendErr
		}

		for _, ev := range events {
			logEvent(log, ev)
			if c, ok := ev.(tradeengine.Committed); ok && onCommit != nil {
				onCommit(c)
			}
		}
	}
}

func logEvent(log zerolog.Logger, ev tradeengine.Event) {
	switch e := ev.(type) {
	case tradeengine.StateChange:
		log.Debug().Str("from", e.From.Name).Str("to", e.To.Name).Msg("state change")
	case tradeengine.ByteExchanged:
		log.Trace().Hex("rx", []byte{e.RX}).Hex("tx", []byte{e.TX}).Str("phase", e.Phase.Name).Int("index", e.Index).Msg("byte exchanged")
	case tradeengine.BlockReceived:
		log.Info().Msg("trade block received")
	case tradeengine.Committed:
		log.Info().Msg("trade committed")
	case tradeengine.Aborted:
		log.Warn().Err(e.Cause).Msg("trade aborted")
	}
}
