// Package sdi12meta holds the SDI-12 command-kind metadata table and the
// sentinel error taxonomy shared by the framer, response parser and engine
// packages. It exists so that sub-packages (framer, response) and the root
// package can both depend on the same closed enumeration without the root
// package importing them and creating a cycle; the root package re-exports
// these as its own public names (see command.go, errors.go).
package sdi12meta

import "errors"

// Sentinel errors, one per taxonomy entry (spec §7), in order of
// specificity.
var (
	ErrAddrInvalid  = errors.New("sdi12: invalid address byte in response")
	ErrAddrMismatch = errors.New("sdi12: response address does not match command target")
	ErrBadCRC       = errors.New("sdi12: CRC mismatch")
	ErrConfig       = errors.New("sdi12: invalid configuration or argument")
	ErrBufferFull   = errors.New("sdi12: buffer full")
	ErrTimeout      = errors.New("sdi12: timeout waiting for response")
	ErrProtocol     = errors.New("sdi12: malformed response")
)

// CommandKind is the closed enumeration of SDI-12 command shapes the
// engine knows how to build and parse (spec §3).
type CommandKind uint8

const (
	AckActive CommandKind = iota
	SendId
	ChangeAddr
	AddrQuery
	StartMeas
	StartMeasCrc
	SendData
	AdditMeas
	AdditMeasCrc
	StartVerify
	ConcurMeas
	ConcurMeasCrc
	ConcurAdditMeas
	ConcurAdditMeasCrc
	ContMeas
	ContMeasCrc
)

var commandNames = map[CommandKind]string{
	AckActive:          "AckActive",
	SendId:             "SendId",
	ChangeAddr:         "ChangeAddr",
	AddrQuery:          "AddrQuery",
	StartMeas:          "StartMeas",
	StartMeasCrc:       "StartMeasCrc",
	SendData:           "SendData",
	AdditMeas:          "AdditMeas",
	AdditMeasCrc:       "AdditMeasCrc",
	StartVerify:        "StartVerify",
	ConcurMeas:         "ConcurMeas",
	ConcurMeasCrc:      "ConcurMeasCrc",
	ConcurAdditMeas:    "ConcurAdditMeas",
	ConcurAdditMeasCrc: "ConcurAdditMeasCrc",
	ContMeas:           "ContMeas",
	ContMeasCrc:        "ContMeasCrc",
}

func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return "Unknown"
}

// ResponseShape is the payload shape the parser dispatches to for a given
// command kind (spec §4.4).
type ResponseShape uint8

const (
	ShapeNoPayload ResponseShape = iota
	ShapeIdentification
	ShapeMeasHeader
	ShapeValueList
	ShapeFreeForm
)

// ParamKind distinguishes what a command's trailing parameter byte, if
// any, must be validated as.
type ParamKind uint8

const (
	ParamNone ParamKind = iota
	ParamNewAddr
	ParamDigit
)

// Meta is the single data-driven table the framer and parser both dispatch
// on, keyed by CommandKind (spec §9: "model as a single data-driven
// table... dispatch with a match, not parallel arrays").
type Meta struct {
	Verb  byte // 0 if the command kind has no verb character
	CRC   bool // kind is a CRC variant: append 'C', expect 3-byte CRC suffix
	Param ParamKind
	Shape ResponseShape
}

var table = map[CommandKind]Meta{
	AckActive:          {Verb: 0, CRC: false, Param: ParamNone, Shape: ShapeNoPayload},
	SendId:             {Verb: 'I', CRC: false, Param: ParamNone, Shape: ShapeIdentification},
	ChangeAddr:         {Verb: 'A', CRC: false, Param: ParamNewAddr, Shape: ShapeNoPayload},
	AddrQuery:          {Verb: 0, CRC: false, Param: ParamNone, Shape: ShapeNoPayload},
	StartMeas:          {Verb: 'M', CRC: false, Param: ParamNone, Shape: ShapeMeasHeader},
	StartMeasCrc:       {Verb: 'M', CRC: true, Param: ParamNone, Shape: ShapeMeasHeader},
	SendData:           {Verb: 'D', CRC: false, Param: ParamDigit, Shape: ShapeValueList},
	AdditMeas:          {Verb: 'M', CRC: false, Param: ParamDigit, Shape: ShapeMeasHeader},
	AdditMeasCrc:       {Verb: 'M', CRC: true, Param: ParamDigit, Shape: ShapeMeasHeader},
	StartVerify:        {Verb: 'V', CRC: false, Param: ParamNone, Shape: ShapeFreeForm},
	ConcurMeas:         {Verb: 'C', CRC: false, Param: ParamNone, Shape: ShapeMeasHeader},
	ConcurMeasCrc:      {Verb: 'C', CRC: true, Param: ParamNone, Shape: ShapeMeasHeader},
	ConcurAdditMeas:    {Verb: 'C', CRC: false, Param: ParamDigit, Shape: ShapeMeasHeader},
	ConcurAdditMeasCrc: {Verb: 'C', CRC: true, Param: ParamDigit, Shape: ShapeMeasHeader},
	ContMeas:           {Verb: 'R', CRC: false, Param: ParamDigit, Shape: ShapeValueList},
	ContMeasCrc:        {Verb: 'R', CRC: true, Param: ParamDigit, Shape: ShapeValueList},
}

// Lookup returns the metadata row for kind.
func Lookup(kind CommandKind) (Meta, bool) {
	m, ok := table[kind]
	return m, ok
}

func IsAlphanumeric(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func IsDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
