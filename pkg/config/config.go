// Package config loads the settings a master needs to open its adapters:
// which serial device to use, which GPIO drives TX-enable, and the
// sensor addresses it should expect to find on the bus. No EDS-style
// object dictionary is involved; SDI-12 has no analog to it.
package config

import "gopkg.in/ini.v1"

// BusConfig is everything needed to open one SDI-12 bus.
type BusConfig struct {
	SerialPort          string // e.g. "/dev/ttyUSB0"
	DirectionGPIO       string // e.g. "GPIO17"; empty if the adapter is auto-direction
	DirectionActiveHigh bool
	ExpectedAddresses   []byte // sensors Discover should find; informational only
}

// Load reads a BusConfig from an ini file shaped like:
//
//	[bus]
//	serial_port = /dev/ttyUSB0
//	direction_gpio = GPIO17
//	direction_active_high = true
//	expected_addresses = 0,1,2
func Load(path string) (*BusConfig, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	section := file.Section("bus")

	cfg := &BusConfig{
		SerialPort:          section.Key("serial_port").String(),
		DirectionGPIO:       section.Key("direction_gpio").String(),
		DirectionActiveHigh: section.Key("direction_active_high").MustBool(true),
	}

	for _, tok := range section.Key("expected_addresses").Strings(",") {
		if len(tok) == 1 {
			cfg.ExpectedAddresses = append(cfg.ExpectedAddresses, tok[0])
		}
	}
	return cfg, nil
}
