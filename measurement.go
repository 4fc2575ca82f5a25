package sdi12

import (
	"time"

	"github.com/go-sdi12/sdi12/internal/sdi12meta"
	"github.com/go-sdi12/sdi12/pkg/response"
	log "github.com/sirupsen/logrus"
)

// GetMeasurements runs the start-measurement / service-request / send-data
// procedure of spec §4.6 against addr and returns the values collected, in
// order. useCRC selects MC over M and DC-protected SendData replies are
// accepted transparently by the response parser regardless.
func (e *Engine) GetMeasurements(addr byte, useCRC bool) ([]float64, error) {
	startTime := e.clock.Now()
	startKind := sdi12meta.StartMeas
	if useCRC {
		startKind = sdi12meta.StartMeasCrc
	}

	_, payload, err := e.execute(startKind, addr, 0)
	if err != nil {
		return nil, err
	}
	hdr, ok := payload.(response.MeasHeader)
	if !ok {
		return nil, &TransactionError{Addr: addr, Kind: startKind, Err: ErrProtocol}
	}

	if hdr.ReadyInSec > 0 {
		e.awaitServiceRequest(addr, time.Duration(hdr.ReadyInSec)*time.Second)
	}

	values := make([]float64, 0, hdr.MeasNo)
	for portion := 0; uint8(len(values)) < hdr.MeasNo; portion++ {
		if portion > 9 {
			return nil, &TransactionError{Addr: addr, Kind: sdi12meta.SendData, Err: ErrProtocol}
		}
		_, dataPayload, err := e.execute(sdi12meta.SendData, addr, byte('0'+portion))
		if err != nil {
			return nil, err
		}
		vl, ok := dataPayload.(response.ValueList)
		if !ok {
			return nil, &TransactionError{Addr: addr, Kind: sdi12meta.SendData, Err: ErrProtocol}
		}
		values = append(values, vl.Values...)
	}

	if uint8(len(values)) > hdr.MeasNo {
		return nil, &TransactionError{Addr: addr, Kind: sdi12meta.SendData, Err: ErrBufferFull}
	}
	if e.metrics != nil {
		e.metrics.MeasurementLatency.Observe(e.clock.Now().Sub(startTime).Seconds())
	}
	return values, nil
}

// awaitServiceRequest listens for the sensor-initiated <addr>CR LF frame
// announcing early readiness (spec §4.6 step 3). It is best-effort: a
// timeout just means the sensor takes the full window, which is the
// expected case, so no error is returned either way.
func (e *Engine) awaitServiceRequest(addr byte, window time.Duration) {
	buf := make([]byte, 8)
	n, err := e.line.RX(buf, window, window)
	if err != nil {
		log.Debugf("[ENGINE][RX] no service request from %c within %v, proceeding", addr, window)
		return
	}
	respAddr, _, parseErr := response.Parse(buf[:n], sdi12meta.AckActive)
	if parseErr != nil || respAddr != addr {
		log.Debugf("[ENGINE][RX] malformed or mismatched service request from %c, ignoring", addr)
		return
	}
	log.Debugf("[ENGINE][RX] service request from %c, sensor ready early", addr)
}

// GetConcurrentMeasurements issues a concurrent-measurement start (C/CC) and
// immediately returns the measurement header without waiting: a concurrent
// measurement runs in the background on the sensor while the master talks
// to other sensors on the bus, and values are retrieved later with
// SendData once the caller knows the sensor is ready (supplements the
// sequential-only procedure of spec §4.6 for multi-sensor buses).
func (e *Engine) GetConcurrentMeasurements(addr byte, useCRC bool) (readyInSec uint16, measNo uint8, err error) {
	kind := sdi12meta.ConcurMeas
	if useCRC {
		kind = sdi12meta.ConcurMeasCrc
	}
	_, payload, err := e.execute(kind, addr, 0)
	if err != nil {
		return 0, 0, err
	}
	hdr, ok := payload.(response.MeasHeader)
	if !ok {
		return 0, 0, &TransactionError{Addr: addr, Kind: kind, Err: ErrProtocol}
	}
	return hdr.ReadyInSec, hdr.MeasNo, nil
}

// CollectConcurrentData retrieves measNo values from addr via SendData,
// for use after GetConcurrentMeasurements once the sensor is known ready.
func (e *Engine) CollectConcurrentData(addr byte, measNo uint8) ([]float64, error) {
	values := make([]float64, 0, measNo)
	for portion := 0; uint8(len(values)) < measNo; portion++ {
		if portion > 9 {
			return nil, &TransactionError{Addr: addr, Kind: sdi12meta.SendData, Err: ErrProtocol}
		}
		_, dataPayload, err := e.execute(sdi12meta.SendData, addr, byte('0'+portion))
		if err != nil {
			return nil, err
		}
		vl, ok := dataPayload.(response.ValueList)
		if !ok {
			return nil, &TransactionError{Addr: addr, Kind: sdi12meta.SendData, Err: ErrProtocol}
		}
		values = append(values, vl.Values...)
	}
	if uint8(len(values)) > measNo {
		return nil, &TransactionError{Addr: addr, Kind: sdi12meta.SendData, Err: ErrBufferFull}
	}
	return values, nil
}
