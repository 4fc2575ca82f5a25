package sdi12

import (
	"testing"

	"github.com/go-sdi12/sdi12/pkg/crc"
)

// buildCrcMeasHeader and buildCrcValueList both produce <addr><body><crc3>
// CR LF, where the 3-byte ASCII CRC covers addr+body — the shape of any
// CRC-protected SDI-12 reply (spec §4.3), whether the CRC comes from a
// CRC-variant command kind (meas-header) or an embedded value-list CRC.

func buildCrcMeasHeader(t *testing.T, body string) []byte {
	t.Helper()
	return withCrc(body)
}

func buildCrcValueList(t *testing.T, body string) []byte {
	t.Helper()
	return withCrc(body[1:]) // body already includes the leading addr char
}

func withCrc(payload string) []byte {
	addrAndPayload := append([]byte{'0'}, []byte(payload)...)
	sum := crc.EncodeASCII(crc.Compute(addrAndPayload))
	raw := append(addrAndPayload, sum[:]...)
	return append(raw, '\r', '\n')
}
