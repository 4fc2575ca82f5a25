// Package faketransport is an in-memory stand-in for the transport.Line /
// transport.DirectionControl contract, used to unit test the engine and
// measurement procedure without real hardware. Grounded on the teacher's
// virtual CAN bus (pkg/can/virtual): a scripted loopback that records what
// was sent and plays back a pre-loaded script of what to "receive".
package faketransport

import (
	"time"

	"github.com/go-sdi12/sdi12/transport"
)

// Step is one scripted RX outcome.
type Step struct {
	Data []byte // bytes to return; ignored if Err is set
	Err  error
}

// Line is a scripted fake satisfying transport.Line and
// transport.DirectionControl.
type Line struct {
	steps []Step
	pos   int

	TXCalls        [][]byte
	ConfigureCalls []transport.Baud
	TXEnableCalls  []bool
}

// New returns a fake Line that will answer successive RX calls with steps,
// in order. Once steps are exhausted, RX returns transport.ErrTimeout.
func New(steps ...Step) *Line {
	return &Line{steps: steps}
}

func (l *Line) Configure(baud transport.Baud) error {
	l.ConfigureCalls = append(l.ConfigureCalls, baud)
	return nil
}

func (l *Line) TX(b []byte) error {
	cp := append([]byte(nil), b...)
	l.TXCalls = append(l.TXCalls, cp)
	return nil
}

func (l *Line) RX(buf []byte, firstByteTimeout, totalTimeout time.Duration) (int, error) {
	if l.pos >= len(l.steps) {
		return 0, transport.ErrTimeout
	}
	step := l.steps[l.pos]
	l.pos++
	if step.Err != nil {
		return 0, step.Err
	}
	if len(step.Data) > len(buf) {
		n := copy(buf, step.Data)
		return n, transport.ErrBufferFull
	}
	n := copy(buf, step.Data)
	return n, nil
}

func (l *Line) SetTXEnable(on bool) error {
	l.TXEnableCalls = append(l.TXEnableCalls, on)
	return nil
}

// BreakCount returns how many times Configure(transport.BaudBreak) was
// called, i.e. how many breaks the engine sent.
func (l *Line) BreakCount() int {
	count := 0
	for _, b := range l.ConfigureCalls {
		if b == transport.BaudBreak {
			count++
		}
	}
	return count
}

// Clock is a transport.Clock whose Sleep advances a virtual clock instead
// of blocking the test, so retry-timing logic can be exercised without
// making tests slow.
type Clock struct {
	now time.Time
}

// NewClock returns a Clock starting at an arbitrary fixed instant.
func NewClock() *Clock {
	return &Clock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time { return c.now }

func (c *Clock) Sleep(d time.Duration) { c.now = c.now.Add(d) }

// Advance moves the virtual clock forward without sleeping, to simulate
// time passing between transactions (e.g. crossing the break-needed
// inactivity window).
func (c *Clock) Advance(d time.Duration) { c.now = c.now.Add(d) }
