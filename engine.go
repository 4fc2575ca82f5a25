package sdi12

import (
	"errors"
	"time"

	"github.com/go-sdi12/sdi12/internal/sdi12meta"
	"github.com/go-sdi12/sdi12/pkg/framer"
	"github.com/go-sdi12/sdi12/pkg/metrics"
	"github.com/go-sdi12/sdi12/pkg/response"
	"github.com/go-sdi12/sdi12/transport"
	log "github.com/sirupsen/logrus"
)

// Timing constants (spec §4.5).
const (
	markingTime      = 9 * time.Millisecond
	breakNeededTime  = 87 * time.Millisecond
	respStartTimeout = 26 * time.Millisecond
	respEndTimeout   = 780 * time.Millisecond
	respRetryDelay   = 27 * time.Millisecond
	retryWindow      = 100 * time.Millisecond
	innerTryMin      = 3
	outerTryMin      = 3
)

// Engine drives one SDI-12 bus: it owns the break-needed inactivity timer
// and the last-addressed-sensor cache, and executes one command/response
// transaction at a time with the inner (fast) / outer (re-break) retry
// policy (spec §4.5).
type Engine struct {
	line  transport.Line
	dir   transport.DirectionControl
	clock transport.Clock

	lastAddress byte // 0 means "no sensor addressed yet"
	lastTxEnd   time.Time
	haveLastTx  bool

	metrics *metrics.Collector // nil is a valid, no-op state
}

// NewEngine wires an Engine to its adapters. The caller owns the adapters'
// lifetime; Engine never closes them.
func NewEngine(line transport.Line, dir transport.DirectionControl, clock transport.Clock) *Engine {
	return &Engine{line: line, dir: dir, clock: clock}
}

// SetMetrics attaches a metrics collector; subsequent transactions update
// its counters and histogram. Pass nil to disable (the default).
func (e *Engine) SetMetrics(c *metrics.Collector) {
	e.metrics = c
}

func (e *Engine) needsBreak(targetAddr byte) bool {
	if !e.haveLastTx || e.lastAddress != targetAddr {
		return true
	}
	return e.clock.Now().Sub(e.lastTxEnd) >= breakNeededTime
}

func (e *Engine) sendBreak() error {
	if err := e.dir.SetTXEnable(true); err != nil {
		return err
	}
	if err := e.line.Configure(transport.BaudBreak); err != nil {
		return err
	}
	if err := e.line.TX([]byte{0x00}); err != nil {
		return err
	}
	if err := e.line.Configure(transport.BaudData); err != nil {
		return err
	}
	e.clock.Sleep(markingTime)
	if e.metrics != nil {
		e.metrics.Breaks.Inc()
	}
	return nil
}

// execute runs one full outer/inner transaction for (kind, addr, param) and
// returns the parsed payload. targetAddr is what the break-needed decision
// keys off: the command's own address for every kind except AddrQuery
// ('?', which never matches the cache, so it always breaks). For ChangeAddr
// it is the *old* address used to reach the sensor; the echo is validated
// against the new address and the cache is updated to it on success.
func (e *Engine) execute(kind sdi12meta.CommandKind, addr byte, param byte) (respAddr byte, payload any, err error) {
	targetAddr := addr
	if kind == sdi12meta.AddrQuery {
		targetAddr = '?'
	}

	cmd, buildErr := framer.Build(kind, addr, param)
	if buildErr != nil {
		return 0, nil, &TransactionError{Addr: addr, Kind: kind, Err: buildErr}
	}
	cmd = append(cmd, '\r', '\n')

	var lastErr error = ErrTimeout

	for outer := 0; outer < outerTryMin; outer++ {
		if outer > 0 && e.metrics != nil {
			e.metrics.OuterRetries.Inc()
		}
		// An outer retry (exhausted inner attempts, a mismatch, or a
		// non-CRC parse error) always re-breaks regardless of the
		// inactivity timer: the first attempt is the only one that gets
		// to skip the break on a cache hit.
		if outer > 0 || e.needsBreak(targetAddr) {
			log.Debugf("[ENGINE][TX] BREAK before %v addr=%c", kind, targetAddr)
			if err := e.sendBreak(); err != nil {
				return 0, nil, &TransactionError{Addr: addr, Kind: kind, Err: err}
			}
		}

		innerStart := e.clock.Now()
		for attempt := 0; ; attempt++ {
			if err := e.dir.SetTXEnable(true); err != nil {
				return 0, nil, &TransactionError{Addr: addr, Kind: kind, Err: err}
			}
			log.Debugf("[ENGINE][TX] %s", cmd)
			txErr := e.line.TX(cmd)
			e.dir.SetTXEnable(false)
			e.lastTxEnd = e.clock.Now()
			e.haveLastTx = true
			if txErr != nil {
				lastErr = &TransactionError{Addr: addr, Kind: kind, Err: txErr}
				break // outer retry
			}

			buf := make([]byte, 128)
			n, rxErr := e.line.RX(buf, respStartTimeout, respEndTimeout)
			if rxErr != nil {
				mapped := mapTransportErr(rxErr)
				if mapped == ErrBufferFull {
					e.observeOutcome(kind, false)
					return 0, nil, &TransactionError{Addr: addr, Kind: kind, Err: mapped}
				}
				if mapped != ErrTimeout {
					lastErr = &TransactionError{Addr: addr, Kind: kind, Err: mapped}
					break // outer retry
				}
				log.Debugf("[ENGINE][RX] timeout on attempt %d", attempt+1)
				if e.metrics != nil {
					e.metrics.Timeouts.Inc()
				}
				e.clock.Sleep(respRetryDelay)
				elapsed := e.clock.Now().Sub(innerStart)
				if attempt+1 < innerTryMin || elapsed < retryWindow {
					if e.metrics != nil {
						e.metrics.InnerRetries.Inc()
					}
					continue // inner retry, no re-break
				}
				lastErr = ErrTimeout
				break // outer retry
			}

			log.Debugf("[ENGINE][RX] %s", buf[:n])
			parsedAddr, parsedPayload, parseErr := response.Parse(buf[:n], kind)
			if parseErr != nil {
				if parseErr == sdi12meta.ErrBadCRC {
					if e.metrics != nil {
						e.metrics.CRCFailures.Inc()
					}
					e.observeOutcome(kind, false)
					return 0, nil, &TransactionError{Addr: addr, Kind: kind, Err: ErrBadCRC}
				}
				lastErr = &TransactionError{Addr: addr, Kind: kind, Err: parseErr}
				break // outer retry
			}

			expectAddr := addr
			if kind == sdi12meta.ChangeAddr {
				expectAddr = param
			}
			if kind != sdi12meta.AddrQuery && parsedAddr != expectAddr {
				lastErr = &TransactionError{Addr: addr, Kind: kind, Err: ErrAddrMismatch}
				break // outer retry
			}

			if kind == sdi12meta.ChangeAddr {
				e.lastAddress = param
			} else if kind != sdi12meta.AddrQuery {
				e.lastAddress = addr
			} else {
				e.lastAddress = parsedAddr
			}
			e.haveLastTx = true
			e.lastTxEnd = e.clock.Now()
			e.observeOutcome(kind, true)
			return parsedAddr, parsedPayload, nil
		}
	}

	e.observeOutcome(kind, false)
	return 0, nil, lastErr
}

func (e *Engine) observeOutcome(kind sdi12meta.CommandKind, ok bool) {
	if e.metrics == nil {
		return
	}
	outcome := "error"
	if ok {
		outcome = "ok"
	}
	e.metrics.Transactions.WithLabelValues(kind.String(), outcome).Inc()
}

func mapTransportErr(err error) error {
	switch {
	case errors.Is(err, transport.ErrTimeout):
		return ErrTimeout
	case errors.Is(err, transport.ErrBufferFull):
		return ErrBufferFull
	default:
		return ErrProtocol
	}
}
