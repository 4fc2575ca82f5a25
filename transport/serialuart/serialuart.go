// Package serialuart implements transport.Line over a host serial port
// using go.bug.st/serial, for SDI-12 masters built on a USB-to-RS485/TTL
// adapter rather than a bare microcontroller UART.
package serialuart

import (
	"bytes"
	"time"

	"go.bug.st/serial"

	"github.com/go-sdi12/sdi12/transport"
)

// Line adapts a go.bug.st/serial port to transport.Line. SDI-12 requires
// 7 data bits / even parity / 1 stop bit at all times (spec §6); only the
// baud rate changes, between BaudData and BaudBreak.
type Line struct {
	port serial.Port
}

// Open opens portName and configures it for SDI-12 data-rate traffic.
func Open(portName string) (*Line, error) {
	port, err := serial.Open(portName, dataMode())
	if err != nil {
		return nil, err
	}
	return &Line{port: port}, nil
}

func dataMode() *serial.Mode {
	return &serial.Mode{
		BaudRate: int(transport.BaudData),
		DataBits: 7,
		Parity:   serial.EvenParity,
		StopBits: serial.OneStopBit,
	}
}

func (l *Line) Configure(baud transport.Baud) error {
	return l.port.SetMode(&serial.Mode{
		BaudRate: int(baud),
		DataBits: 7,
		Parity:   serial.EvenParity,
		StopBits: serial.OneStopBit,
	})
}

func (l *Line) TX(b []byte) error {
	_, err := l.port.Write(b)
	return err
}

// RX reads until the CR LF terminator, the buffer fills, or a timeout
// elapses. go.bug.st/serial only exposes a single read deadline, so RX
// re-arms it per byte: firstByteTimeout gates the first read, totalTimeout
// bounds the whole call.
func (l *Line) RX(buf []byte, firstByteTimeout, totalTimeout time.Duration) (int, error) {
	deadline := time.Now().Add(totalTimeout)
	if err := l.port.SetReadTimeout(firstByteTimeout); err != nil {
		return 0, err
	}

	n := 0
	for n < len(buf) {
		if time.Now().After(deadline) {
			return n, transport.ErrTimeout
		}
		m, err := l.port.Read(buf[n:])
		if err != nil {
			return n, err
		}
		if m == 0 {
			return n, transport.ErrTimeout
		}
		n += m
		if n >= 2 && bytes.Equal(buf[n-2:n], []byte{'\r', '\n'}) {
			return n, nil
		}
		if err := l.port.SetReadTimeout(time.Until(deadline)); err != nil {
			return n, err
		}
	}
	return n, transport.ErrBufferFull
}

func (l *Line) Close() error {
	return l.port.Close()
}
