package sdi12

import "github.com/go-sdi12/sdi12/internal/sdi12meta"

// Sentinel errors, one per taxonomy entry in the SDI-12 master error model
// (spec §7), in order of specificity. This mirrors the teacher's flat
// sentinel-error package (its CANopen error set, which this replaces) but
// closed over the SDI-12 taxonomy instead of CANopen's SDO abort codes.
// The values themselves live in internal/sdi12meta so the framer and
// response packages can return them without importing this package.
var (
	// ErrAddrInvalid fires when a response's address byte is neither
	// alphanumeric nor (for AddrQuery) '?'. Outer-retried.
	ErrAddrInvalid = sdi12meta.ErrAddrInvalid

	// ErrAddrMismatch fires when the response address does not match the
	// command's target (or the new address, for ChangeAddr). Outer-retried.
	ErrAddrMismatch = sdi12meta.ErrAddrMismatch

	// ErrBadCRC fires when a CRC-variant response's computed CRC differs
	// from the CRC carried on the wire. Never retried: it indicates a real
	// line or sensor fault rather than a timing race.
	ErrBadCRC = sdi12meta.ErrBadCRC

	// ErrConfig fires on a malformed address/parameter passed to the
	// framer, or on adapter configuration failure. Terminal.
	ErrConfig = sdi12meta.ErrConfig

	// ErrBufferFull fires when the caller's output buffer cannot hold all
	// declared values, or the line driver's receive buffer filled before
	// the terminator was seen. Terminal.
	ErrBufferFull = sdi12meta.ErrBufferFull

	// ErrTimeout fires when no response byte arrives within the start
	// timeout, or the response does not complete within the end timeout.
	// Inner-retried, then outer-retried.
	ErrTimeout = sdi12meta.ErrTimeout

	// ErrProtocol is the generic malformed-response error: missing
	// terminator, wrong payload length, a non-digit in a numeric field.
	// Outer-retried.
	ErrProtocol = sdi12meta.ErrProtocol
)

// TransactionError wraps one of the sentinel errors above with the address
// and command kind that produced it, so callers and logs can tell which
// sensor and operation failed without string-matching the message.
type TransactionError struct {
	Addr byte
	Kind CommandKind
	Err  error
}

func (e *TransactionError) Error() string {
	return "sdi12: address " + string(e.Addr) + " " + e.Kind.String() + ": " + e.Err.Error()
}

func (e *TransactionError) Unwrap() error { return e.Err }
