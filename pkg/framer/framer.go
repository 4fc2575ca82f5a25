// Package framer builds the ASCII command bytes SDI-12 sends on the wire,
// per spec §4.2. It is deliberately ignorant of CR LF and break/marking
// timing: those belong to the transaction engine (spec §9, Open Question
// 1 — this framer does not append the terminator; the engine appends it
// at transmit time).
package framer

import "github.com/go-sdi12/sdi12/internal/sdi12meta"

// Build composes the ASCII command body for kind addressed at addr, with
// an optional parameter byte (ignored if the kind takes none). It does not
// append CR LF after the trailing '!'.
func Build(kind sdi12meta.CommandKind, addr byte, param byte) ([]byte, error) {
	meta, ok := sdi12meta.Lookup(kind)
	if !ok {
		return nil, sdi12meta.ErrConfig
	}

	buf := make([]byte, 0, 8)

	if kind == sdi12meta.AddrQuery {
		buf = append(buf, '?')
	} else {
		if !sdi12meta.IsAlphanumeric(addr) {
			return nil, sdi12meta.ErrConfig
		}
		buf = append(buf, addr)
	}

	if meta.Verb != 0 {
		buf = append(buf, meta.Verb)
	}
	if meta.CRC {
		buf = append(buf, 'C')
	}

	switch meta.Param {
	case sdi12meta.ParamNewAddr:
		if !sdi12meta.IsAlphanumeric(param) {
			return nil, sdi12meta.ErrConfig
		}
		buf = append(buf, param)
	case sdi12meta.ParamDigit:
		if !sdi12meta.IsDigit(param) {
			return nil, sdi12meta.ErrConfig
		}
		buf = append(buf, param)
	}

	buf = append(buf, '!')
	return buf, nil
}
