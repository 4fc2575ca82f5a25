// Package sdi12 implements an SDI-12 v1.4 bus master: command framing,
// CRC-16 verification, response parsing and the break/retry transaction
// engine needed to talk to SDI-12 sensors over a half-duplex serial line.
package sdi12

import (
	"errors"
	"fmt"

	"github.com/go-sdi12/sdi12/internal/sdi12meta"
	"github.com/go-sdi12/sdi12/pkg/metrics"
	"github.com/go-sdi12/sdi12/pkg/response"
	"github.com/go-sdi12/sdi12/transport"
	log "github.com/sirupsen/logrus"
)

// SensorInfo is the decoded reply to SendId.
type SensorInfo struct {
	Version       string
	Vendor        string
	Model         string
	SensorVersion string
	Other         string
}

// Master is the public entry point: one Master per physical bus (spec
// §4.7). It wraps an Engine with the typed operations callers use.
type Master struct {
	engine *Engine
}

// NewMaster wires line, dir and clock adapters into a ready-to-use Master.
// The engine starts with no transaction recorded, so needsBreak forces a
// break before the first transaction.
func NewMaster(line transport.Line, dir transport.DirectionControl, clock transport.Clock) (*Master, error) {
	if err := line.Configure(transport.BaudData); err != nil {
		return nil, &TransactionError{Err: ErrConfig}
	}
	if err := dir.SetTXEnable(false); err != nil {
		return nil, &TransactionError{Err: ErrConfig}
	}
	return &Master{engine: NewEngine(line, dir, clock)}, nil
}

// SetMetrics attaches a metrics collector to the underlying engine; see
// Engine.SetMetrics.
func (m *Master) SetMetrics(c *metrics.Collector) {
	m.engine.SetMetrics(c)
}

// AckActive sends the "are you there" command and succeeds iff addr
// acknowledges.
func (m *Master) AckActive(addr byte) error {
	_, _, err := m.engine.execute(sdi12meta.AckActive, addr, 0)
	return err
}

// GetInfo sends SendId and returns the sensor's identification tuple.
func (m *Master) GetInfo(addr byte) (SensorInfo, error) {
	_, payload, err := m.engine.execute(sdi12meta.SendId, addr, 0)
	if err != nil {
		return SensorInfo{}, err
	}
	id, ok := payload.(response.Identification)
	if !ok {
		return SensorInfo{}, &TransactionError{Addr: addr, Kind: sdi12meta.SendId, Err: ErrProtocol}
	}
	return SensorInfo{
		Version:       id.Version,
		Vendor:        id.Vendor,
		Model:         id.Model,
		SensorVersion: id.SensorVersion,
		Other:         id.Other,
	}, nil
}

// GetAddress issues the address-query command (`?!`). It is only
// meaningful with exactly one sensor on the bus; with more than one, the
// first (and only valid) reply wins and the rest collide on the wire.
func (m *Master) GetAddress() (byte, error) {
	addr, _, err := m.engine.execute(sdi12meta.AddrQuery, 0, 0)
	if err != nil {
		return 0, err
	}
	return addr, nil
}

// ChangeAddress reassigns the sensor currently known as oldAddr to
// newAddr.
func (m *Master) ChangeAddress(oldAddr, newAddr byte) error {
	_, _, err := m.engine.execute(sdi12meta.ChangeAddr, oldAddr, newAddr)
	return err
}

// GetMeasurements runs the non-concurrent measurement procedure (M/MC plus
// one or more D retrievals) and returns every value the sensor reports.
func (m *Master) GetMeasurements(addr byte, useCRC bool) ([]float64, error) {
	return m.engine.GetMeasurements(addr, useCRC)
}

// GetConcurrentMeasurements starts a concurrent measurement (C/CC) and
// returns immediately with the sensor's reported readiness delay and
// value count, without waiting for completion (supplements spec §4.6;
// spec §4.7's minimum surface only requires the sequential M/D path).
func (m *Master) GetConcurrentMeasurements(addr byte, useCRC bool) (readyInSec uint16, measNo uint8, err error) {
	return m.engine.GetConcurrentMeasurements(addr, useCRC)
}

// CollectConcurrentData retrieves the values of a measurement previously
// started with GetConcurrentMeasurements.
func (m *Master) CollectConcurrentData(addr byte, measNo uint8) ([]float64, error) {
	return m.engine.CollectConcurrentData(addr, measNo)
}

// StartVerification issues the V command (sensor self-check) and returns
// its free-form diagnostic payload. V is outside the minimum §4.7 surface
// but present in the command table (§3) and worth exposing.
func (m *Master) StartVerification(addr byte) ([]byte, error) {
	_, payload, err := m.engine.execute(sdi12meta.StartVerify, addr, 0)
	if err != nil {
		return nil, err
	}
	ff, ok := payload.(response.FreeForm)
	if !ok {
		return nil, &TransactionError{Addr: addr, Kind: sdi12meta.StartVerify, Err: ErrProtocol}
	}
	return ff.Raw, nil
}

// Discover probes every alphanumeric address for an active sensor. It is
// not part of the SDI-12 wire protocol (there is no broadcast discovery
// command beyond address-query, which only works for a single sensor); it
// is a convenience built from repeated AckActive calls, the way a master
// implementation bootstraps a bus of unknown population.
func (m *Master) Discover() ([]byte, error) {
	var found []byte
	for _, addr := range addressSpace() {
		err := m.AckActive(addr)
		switch {
		case err == nil:
			found = append(found, addr)
		case errors.Is(err, ErrTimeout):
			// no sensor at this address; expected for most of the space
		default:
			log.Debugf("[MASTER] discover: addr %c probe error: %v", addr, err)
		}
	}
	return found, nil
}

func addressSpace() []byte {
	addrs := make([]byte, 0, 62)
	for c := byte('0'); c <= '9'; c++ {
		addrs = append(addrs, c)
	}
	for c := byte('a'); c <= 'z'; c++ {
		addrs = append(addrs, c)
	}
	for c := byte('A'); c <= 'Z'; c++ {
		addrs = append(addrs, c)
	}
	return addrs
}

func (i SensorInfo) String() string {
	return fmt.Sprintf("%s/%s v%s (sdi-12 v%s) %q", i.Vendor, i.Model, i.SensorVersion, i.Version, i.Other)
}
