// Package response tokenizes and validates an SDI-12 reply against the
// shape expected for the command kind that produced it (spec §4.4).
package response

import (
	"bytes"
	"strconv"

	"github.com/go-sdi12/sdi12/internal/sdi12meta"
	"github.com/go-sdi12/sdi12/pkg/crc"
)

// NoPayload is returned for AckActive, ChangeAddr and AddrQuery responses,
// whose entire content is the address byte already consumed as the header.
type NoPayload struct{}

// Identification is the five-subfield reply to SendId.
type Identification struct {
	Version       string // 2 chars, SDI-12 version the sensor supports
	Vendor        string // 8 chars
	Model         string // 6 chars, sensor model
	SensorVersion string // 3 chars
	Other         string // 0-13 chars, vendor-specific
}

// MeasHeader is the reply to a start-measurement command.
type MeasHeader struct {
	ReadyInSec uint16 // 0-999
	MeasNo     uint8  // number of values the sensor will return
}

// ValueList is the reply to SendData / ContMeas[Crc].
type ValueList struct {
	Values []float64
}

// FreeForm is the reply to StartVerify: accepted unconditionally.
type FreeForm struct {
	Raw []byte
}

const maxValueListPayload = 75

// Parse validates raw against the shape expected for kind and returns the
// address byte and the typed payload. raw must include the CR LF
// terminator; it must not include the leading break/marking.
func Parse(raw []byte, kind sdi12meta.CommandKind) (addr byte, payload any, err error) {
	meta, ok := sdi12meta.Lookup(kind)
	if !ok {
		return 0, nil, sdi12meta.ErrConfig
	}
	if len(raw) < 1 {
		return 0, nil, sdi12meta.ErrProtocol
	}

	// 1. Header. A response's address byte is alphanumeric, or, for
	// AddrQuery, alphanumeric or literally '?'.
	addr = raw[0]
	validHeader := sdi12meta.IsAlphanumeric(addr) || (kind == sdi12meta.AddrQuery && addr == '?')
	if !validHeader {
		return 0, nil, sdi12meta.ErrAddrInvalid
	}

	// 2. Terminator: find the last CR LF and let pldEnd be the offset of CR.
	term := bytes.LastIndex(raw, []byte{'\r', '\n'})
	if term < 0 {
		return 0, nil, sdi12meta.ErrProtocol
	}
	pldEnd := term

	// 3. CRC strip, for command kinds that are themselves a CRC variant.
	var crcSlice [3]byte
	haveCrcSlice := false
	if meta.CRC {
		pldEnd -= 3
		if pldEnd <= 1 {
			return 0, nil, sdi12meta.ErrProtocol
		}
		copy(crcSlice[:], raw[pldEnd:pldEnd+3])
		haveCrcSlice = true
	}

	payloadBytes := raw[1:pldEnd]

	// 4. Payload dispatch.
	switch meta.Shape {
	case sdi12meta.ShapeNoPayload:
		if pldEnd != 1 {
			return 0, nil, sdi12meta.ErrProtocol
		}
		payload = NoPayload{}

	case sdi12meta.ShapeIdentification:
		if len(payloadBytes) < 19 || len(payloadBytes) > 32 {
			return 0, nil, sdi12meta.ErrProtocol
		}
		payload = Identification{
			Version:       string(payloadBytes[0:2]),
			Vendor:        string(payloadBytes[2:10]),
			Model:         string(payloadBytes[10:16]),
			SensorVersion: string(payloadBytes[16:19]),
			Other:         string(payloadBytes[19:]),
		}

	case sdi12meta.ShapeMeasHeader:
		if len(payloadBytes) != 4 && len(payloadBytes) != 5 {
			return 0, nil, sdi12meta.ErrProtocol
		}
		for _, b := range payloadBytes {
			if !sdi12meta.IsDigit(b) {
				return 0, nil, sdi12meta.ErrProtocol
			}
		}
		readySec, convErr := strconv.ParseUint(string(payloadBytes[0:3]), 10, 16)
		if convErr != nil {
			return 0, nil, sdi12meta.ErrProtocol
		}
		measNo, convErr := strconv.ParseUint(string(payloadBytes[3:]), 10, 8)
		if convErr != nil {
			return 0, nil, sdi12meta.ErrProtocol
		}
		payload = MeasHeader{ReadyInSec: uint16(readySec), MeasNo: uint8(measNo)}

	case sdi12meta.ShapeValueList:
		// parseValueList needs address+payload (raw[:pldEnd]) because an
		// embedded CRC suffix, when present, is computed over both.
		values, vErr := parseValueList(raw[:pldEnd])
		if vErr != nil {
			return 0, nil, vErr
		}
		payload = ValueList{Values: values}

	case sdi12meta.ShapeFreeForm:
		payload = FreeForm{Raw: append([]byte(nil), payloadBytes...)}

	default:
		return 0, nil, sdi12meta.ErrConfig
	}

	// 5. CRC verify, for command kinds that are themselves a CRC variant.
	if haveCrcSlice {
		if !crc.Verify(raw[:pldEnd], crcSlice) {
			return 0, nil, sdi12meta.ErrBadCRC
		}
	}

	return addr, payload, nil
}

// parseValueList implements the value-list grammar of spec §4.4: a run of
// +/- prefixed decimal floats, optionally followed by an embedded 3-byte
// ASCII CRC suffix (used when the command kind itself is not a CRC
// variant, e.g. SendData following a CRC-protected start-measurement).
// addrAndPayload is the address byte followed by the value-list payload,
// with any outer CRC (from a CRC-variant command kind) already stripped.
func parseValueList(addrAndPayload []byte) ([]float64, error) {
	payload := addrAndPayload[1:]
	if len(payload) > maxValueListPayload {
		return nil, sdi12meta.ErrProtocol
	}
	if len(payload) == 0 {
		return nil, nil
	}
	if payload[0] != '+' && payload[0] != '-' {
		return nil, sdi12meta.ErrProtocol
	}

	var values []float64
	cursor := 0
	for cursor < len(payload) && (payload[cursor] == '+' || payload[cursor] == '-') {
		start := cursor
		cursor++ // sign
		for cursor < len(payload) && sdi12meta.IsDigit(payload[cursor]) {
			cursor++
		}
		if cursor < len(payload) && payload[cursor] == '.' {
			cursor++
			for cursor < len(payload) && sdi12meta.IsDigit(payload[cursor]) {
				cursor++
			}
		}
		v, err := strconv.ParseFloat(string(payload[start:cursor]), 64)
		if err != nil {
			return nil, sdi12meta.ErrProtocol
		}
		values = append(values, v)
	}

	switch {
	case cursor == len(payload):
		return values, nil
	case cursor == len(payload)-3:
		var crcSlice [3]byte
		copy(crcSlice[:], payload[cursor:])
		if !crc.Verify(addrAndPayload[:1+cursor], crcSlice) {
			return nil, sdi12meta.ErrBadCRC
		}
		return values, nil
	default:
		return nil, sdi12meta.ErrProtocol
	}
}
