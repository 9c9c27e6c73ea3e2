package tradeengine

import "time"

// Clock supplies the current time to a Session. Step takes it from the
// injected Clock rather than calling time.Now() directly, keeping Step a
// pure function of (session, rx) the way the teacher's parse functions
// take no hidden inputs.
type Clock interface {
	Now() time.Time
}

// SystemClock is the Clock backed by time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
