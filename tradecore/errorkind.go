// This file contains the error taxonomy of spec.md §7, expressed as a
// closed set of sentinel errors (the teacher's ErrNotReplayFile / ErrParsing
// style) so callers can use errors.Is against a specific cause.

package tradecore

import "errors"

var (
	// ErrUnexpectedInPreamble indicates a non-PREAMBLE byte was received
	// while counting PREAMBLE_IN bytes.
	ErrUnexpectedInPreamble = errors.New("unexpected byte during preamble")

	// ErrBlockInvalid indicates the incoming trade block failed validation
	// after BLOCK_SWAP completed.
	ErrBlockInvalid = errors.New("trade block invalid")

	// ErrPeerCancelled indicates the peer sent a cancel or table-leave byte.
	ErrPeerCancelled = errors.New("peer cancelled trade")

	// ErrStorageFull indicates COMMIT could not allocate a storage slot.
	ErrStorageFull = errors.New("storage full")

	// ErrWatchdogReset indicates an external reset occurred in a non-IDLE state.
	ErrWatchdogReset = errors.New("watchdog reset")
)
