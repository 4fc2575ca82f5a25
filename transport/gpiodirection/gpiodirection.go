// Package gpiodirection implements transport.DirectionControl over a
// periph.io GPIO pin, for SDI-12 masters running on single-board computers
// (Raspberry Pi and similar) where the RS-485/half-duplex transceiver's
// direction-enable line is wired to a GPIO header pin rather than a
// microcontroller peripheral.
package gpiodirection

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Pin drives one GPIO as the transceiver's TX-enable line. ActiveHigh
// selects the polarity: SDI-12 transceivers wire this either way, and
// spec §6 leaves it a compile-time choice.
type Pin struct {
	pin        gpio.PinIO
	activeHigh bool
}

// Open initializes the periph host drivers (idempotent) and binds name
// (e.g. "GPIO17") as the direction-control output.
func Open(name string, activeHigh bool) (*Pin, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("gpiodirection: host init: %w", err)
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("gpiodirection: unknown pin %q", name)
	}
	initial := gpio.Low
	if !activeHigh {
		initial = gpio.High
	}
	if err := p.Out(initial); err != nil {
		return nil, fmt.Errorf("gpiodirection: initial state: %w", err)
	}
	return &Pin{pin: p, activeHigh: activeHigh}, nil
}

func (d *Pin) SetTXEnable(on bool) error {
	level := gpio.Low
	if on == d.activeHigh {
		level = gpio.High
	}
	return d.pin.Out(level)
}
