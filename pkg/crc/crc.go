// Package crc implements the SDI-12 16-bit CRC and its 3-character ASCII
// encoding (SDI-12 v1.4 §4.4.12).
package crc

import "github.com/sigurn/crc16"

// table is CRC-16/ARC: poly 0x8005 reflected to 0xA001, init 0x0000,
// refin/refout true, xorout 0x0000 — bit for bit the SDI-12 CRC.
var table = crc16.MakeTable(crc16.CRC16_ARC)

// Compute returns the SDI-12 CRC-16 over data (address + payload, excluding
// any trailing CRC bytes and the CR LF terminator).
func Compute(data []byte) uint16 {
	return crc16.Checksum(data, table)
}

// EncodeASCII packs crc into the three printable ASCII bytes SDI-12 sends
// on the wire immediately before CR LF.
func EncodeASCII(crc uint16) [3]byte {
	return [3]byte{
		byte(0x40 | (crc >> 12)),
		byte(0x40 | ((crc >> 6) & 0x3F)),
		byte(0x40 | (crc & 0x3F)),
	}
}

// DecodeASCII reverses EncodeASCII.
func DecodeASCII(b [3]byte) uint16 {
	return (uint16(b[0]&0x3F) << 12) | (uint16(b[1]&0x3F) << 6) | uint16(b[2]&0x3F)
}

// Verify checks that the 3-byte ASCII suffix matches the CRC of data.
func Verify(data []byte, suffix [3]byte) bool {
	return Compute(data) == DecodeASCII(suffix)
}
