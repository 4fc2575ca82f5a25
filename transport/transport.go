// Package transport defines the adapter boundary the SDI-12 engine drives
// but does not implement: a byte-granular UART and a direction-control
// GPIO (spec §1, §4.1). Concrete adapters live in sub-packages
// (serialuart, gpiodirection); transport/faketransport provides an
// in-memory stand-in for tests.
package transport

import (
	"errors"
	"time"
)

// Baud is a line speed the core requests of the UART. Only two values are
// ever asked for: 1200 Bd for normal command/response traffic, and 750 Bd
// to synthesize a break (spec §6).
type Baud int

const (
	BaudBreak Baud = 750
	BaudData  Baud = 1200
)

// ErrBufferFull is returned by RX when the caller-supplied buffer filled
// before a terminator was observed.
var ErrBufferFull = errors.New("transport: receive buffer full")

// ErrTimeout is returned by RX when first-byte or total timeout elapses
// before the transfer completed.
var ErrTimeout = errors.New("transport: receive timeout")

// Line is the byte-granular UART contract the core requires (spec §4.1).
// Implementations must configure 7 data bits, even parity, 1 stop bit, no
// flow control, at whatever Baud is requested.
type Line interface {
	// Configure sets the line speed. Called with BaudBreak immediately
	// before sending the break byte, and with BaudData immediately after.
	Configure(baud Baud) error

	// TX blocks until every byte of b has been clocked onto the wire.
	TX(b []byte) error

	// RX fills buf with a contiguous run of received bytes, stopping when
	// (a) buf fills (ErrBufferFull), (b) the two-byte run CR LF is
	// observed at the tail of what's been received, (c) firstByteTimeout
	// elapses before the first byte arrives (ErrTimeout), or (d)
	// totalTimeout elapses (ErrTimeout). Implementations must discard
	// bytes echoed back while TX-enable is asserted.
	RX(buf []byte, firstByteTimeout, totalTimeout time.Duration) (n int, err error)
}

// DirectionControl toggles the half-duplex transceiver's TX-enable line.
// Active polarity is an adapter-level compile-time choice (spec §6).
type DirectionControl interface {
	SetTXEnable(on bool) error
}

// Clock is the monotonic time source the engine uses to decide whether a
// break is needed (spec §4.5's inactivity timer) and to sleep between
// retries. The standard library's time package satisfies this directly;
// it is named as an interface so tests can use a fake clock.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock is the production Clock backed by the time package.
type SystemClock struct{}

func (SystemClock) Now() time.Time        { return time.Now() }
func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }
