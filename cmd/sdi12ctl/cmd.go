package main

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/go-sdi12/sdi12"
	"github.com/go-sdi12/sdi12/pkg/metrics"
	"github.com/go-sdi12/sdi12/transport"
	"github.com/go-sdi12/sdi12/transport/gpiodirection"
	"github.com/go-sdi12/sdi12/transport/serialuart"
)

// context is the context struct required by kong.
type context struct{}

// busFlags are the adapter-selection flags every subcommand shares.
type busFlags struct {
	Port        string `flag:"" required:"" short:"p" help:"Serial device, e.g. /dev/ttyUSB0"`
	GPIO        string `flag:"" optional:"" short:"g" help:"TX-enable GPIO name, e.g. GPIO17; omit for an auto-direction adapter"`
	ActiveHigh  bool   `flag:"" optional:"" default:"true" help:"TX-enable polarity"`
	MetricsAddr string `flag:"" optional:"" help:"If set, serve Prometheus metrics on this address while running"`
}

func (b *busFlags) openMaster() (*sdi12.Master, func(), error) {
	line, err := serialuart.Open(b.Port)
	if err != nil {
		return nil, nil, fmt.Errorf("open serial port: %w", err)
	}

	var dir transport.DirectionControl
	if b.GPIO != "" {
		pin, err := gpiodirection.Open(b.GPIO, b.ActiveHigh)
		if err != nil {
			return nil, nil, fmt.Errorf("open direction gpio: %w", err)
		}
		dir = pin
	} else {
		dir = noopDirection{}
	}

	master, err := sdi12.NewMaster(line, dir, transport.SystemClock{})
	if err != nil {
		return nil, nil, fmt.Errorf("init master: %w", err)
	}

	if b.MetricsAddr != "" {
		collector := metrics.New()
		reg := prometheus.NewRegistry()
		collector.MustRegister(reg)
		master.SetMetrics(collector)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go http.ListenAndServe(b.MetricsAddr, mux) //nolint:errcheck
	}

	return master, func() { line.Close() }, nil
}

// noopDirection satisfies transport.DirectionControl for adapters (e.g.
// RS-485 dongles with automatic direction switching) that need no GPIO.
type noopDirection struct{}

func (noopDirection) SetTXEnable(bool) error { return nil }

type pingCmd struct {
	busFlags
	Addr string `arg:"" help:"Sensor address"`
}

func (c *pingCmd) Run(*context) error {
	m, closeFn, err := c.openMaster()
	if err != nil {
		return err
	}
	defer closeFn()
	if err := m.AckActive(c.Addr[0]); err != nil {
		return err
	}
	fmt.Printf("%c: active\n", c.Addr[0])
	return nil
}

type infoCmd struct {
	busFlags
	Addr string `arg:"" help:"Sensor address"`
}

func (c *infoCmd) Run(*context) error {
	m, closeFn, err := c.openMaster()
	if err != nil {
		return err
	}
	defer closeFn()
	info, err := m.GetInfo(c.Addr[0])
	if err != nil {
		return err
	}
	fmt.Println(info.String())
	return nil
}

type addressCmd struct {
	busFlags
	New string `arg:"" optional:"" help:"New address; omit to just query the single sensor on the bus"`
}

func (c *addressCmd) Run(*context) error {
	m, closeFn, err := c.openMaster()
	if err != nil {
		return err
	}
	defer closeFn()
	if c.New == "" {
		addr, err := m.GetAddress()
		if err != nil {
			return err
		}
		fmt.Printf("%c\n", addr)
		return nil
	}
	addr, err := m.GetAddress()
	if err != nil {
		return err
	}
	if err := m.ChangeAddress(addr, c.New[0]); err != nil {
		return err
	}
	fmt.Printf("%c -> %c\n", addr, c.New[0])
	return nil
}

type measureCmd struct {
	busFlags
	Addr string `arg:"" help:"Sensor address"`
	CRC  bool   `flag:"" optional:"" help:"Request CRC-protected measurement (MC instead of M)"`
}

func (c *measureCmd) Run(*context) error {
	m, closeFn, err := c.openMaster()
	if err != nil {
		return err
	}
	defer closeFn()
	values, err := m.GetMeasurements(c.Addr[0], c.CRC)
	if err != nil {
		return err
	}
	fmt.Println(values)
	return nil
}

type discoverCmd struct {
	busFlags
}

func (c *discoverCmd) Run(*context) error {
	m, closeFn, err := c.openMaster()
	if err != nil {
		return err
	}
	defer closeFn()
	found, err := m.Discover()
	if err != nil {
		return err
	}
	for _, addr := range found {
		fmt.Printf("%c\n", addr)
	}
	return nil
}

// cli is the main command line interface struct required by kong.
var cli struct {
	Ping     pingCmd     `cmd:"" help:"Check whether a sensor responds"`
	Info     infoCmd     `cmd:"" help:"Print a sensor's identification"`
	Address  addressCmd  `cmd:"" help:"Query or change a sensor's address"`
	Measure  measureCmd  `cmd:"" help:"Run a measurement and print the values"`
	Discover discoverCmd `cmd:"" help:"Probe every address for a responding sensor"`
}
