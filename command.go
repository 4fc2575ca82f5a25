package sdi12

import "github.com/go-sdi12/sdi12/internal/sdi12meta"

// CommandKind is the closed enumeration of SDI-12 command shapes (spec
// §3). Defined in internal/sdi12meta so the framer and response packages
// can share it without importing this package.
type CommandKind = sdi12meta.CommandKind

const (
	AckActive          = sdi12meta.AckActive
	SendId             = sdi12meta.SendId
	ChangeAddr         = sdi12meta.ChangeAddr
	AddrQuery          = sdi12meta.AddrQuery
	StartMeas          = sdi12meta.StartMeas
	StartMeasCrc       = sdi12meta.StartMeasCrc
	SendData           = sdi12meta.SendData
	AdditMeas          = sdi12meta.AdditMeas
	AdditMeasCrc       = sdi12meta.AdditMeasCrc
	StartVerify        = sdi12meta.StartVerify
	ConcurMeas         = sdi12meta.ConcurMeas
	ConcurMeasCrc      = sdi12meta.ConcurMeasCrc
	ConcurAdditMeas    = sdi12meta.ConcurAdditMeas
	ConcurAdditMeasCrc = sdi12meta.ConcurAdditMeasCrc
	ContMeas           = sdi12meta.ContMeas
	ContMeasCrc        = sdi12meta.ContMeasCrc
)
