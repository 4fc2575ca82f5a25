package sdi12

import (
	"errors"
	"testing"

	"github.com/go-sdi12/sdi12/internal/sdi12meta"
	"github.com/go-sdi12/sdi12/pkg/crc"
	"github.com/go-sdi12/sdi12/pkg/response"
	"github.com/go-sdi12/sdi12/transport"
	"github.com/go-sdi12/sdi12/transport/faketransport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutePingBreaksOnFirstTransaction(t *testing.T) {
	fake := faketransport.New(faketransport.Step{Data: []byte("0\r\n")})
	clk := faketransport.NewClock()
	e := NewEngine(fake, fake, clk)

	addr, payload, err := e.execute(sdi12meta.AckActive, '0', 0)
	require.NoError(t, err)
	assert.Equal(t, byte('0'), addr)
	assert.IsType(t, response.NoPayload{}, payload)
	assert.Equal(t, 1, fake.BreakCount())
	require.Len(t, fake.TXCalls, 1)
	assert.Equal(t, "0!\r\n", string(fake.TXCalls[0]))
}

func TestExecuteNoBreakWhenSameAddressWithinWindow(t *testing.T) {
	fake := faketransport.New(
		faketransport.Step{Data: []byte("0\r\n")},
		faketransport.Step{Data: []byte("0\r\n")},
	)
	clk := faketransport.NewClock()
	e := NewEngine(fake, fake, clk)

	_, _, err := e.execute(sdi12meta.AckActive, '0', 0)
	require.NoError(t, err)
	_, _, err = e.execute(sdi12meta.AckActive, '0', 0)
	require.NoError(t, err)

	assert.Equal(t, 1, fake.BreakCount())
}

func TestExecuteBreaksOnDifferentAddress(t *testing.T) {
	fake := faketransport.New(
		faketransport.Step{Data: []byte("0\r\n")},
		faketransport.Step{Data: []byte("1\r\n")},
	)
	clk := faketransport.NewClock()
	e := NewEngine(fake, fake, clk)

	_, _, err := e.execute(sdi12meta.AckActive, '0', 0)
	require.NoError(t, err)
	_, _, err = e.execute(sdi12meta.AckActive, '1', 0)
	require.NoError(t, err)

	assert.Equal(t, 2, fake.BreakCount())
}

func TestExecuteBreaksAfterInactivityWindow(t *testing.T) {
	fake := faketransport.New(
		faketransport.Step{Data: []byte("0\r\n")},
		faketransport.Step{Data: []byte("0\r\n")},
	)
	clk := faketransport.NewClock()
	e := NewEngine(fake, fake, clk)

	_, _, err := e.execute(sdi12meta.AckActive, '0', 0)
	require.NoError(t, err)
	clk.Advance(breakNeededTime)
	_, _, err = e.execute(sdi12meta.AckActive, '0', 0)
	require.NoError(t, err)

	assert.Equal(t, 2, fake.BreakCount())
}

func TestExecuteInnerRetryOnTimeoutThenSucceeds(t *testing.T) {
	fake := faketransport.New(
		faketransport.Step{Err: transport.ErrTimeout},
		faketransport.Step{Err: transport.ErrTimeout},
		faketransport.Step{Data: []byte("00103\r\n")},
	)
	clk := faketransport.NewClock()
	e := NewEngine(fake, fake, clk)

	_, payload, err := e.execute(sdi12meta.StartMeas, '0', 0)
	require.NoError(t, err)
	hdr, ok := payload.(response.MeasHeader)
	require.True(t, ok)
	assert.EqualValues(t, 10, hdr.ReadyInSec)
	assert.EqualValues(t, 3, hdr.MeasNo)

	assert.Equal(t, 1, fake.BreakCount())
	assert.Len(t, fake.TXCalls, 3)
}

func TestExecuteAddrMismatchCausesOuterRetry(t *testing.T) {
	fake := faketransport.New(
		faketransport.Step{Data: []byte("9\r\n")},
		faketransport.Step{Data: []byte("0\r\n")},
	)
	clk := faketransport.NewClock()
	e := NewEngine(fake, fake, clk)

	addr, _, err := e.execute(sdi12meta.AckActive, '0', 0)
	require.NoError(t, err)
	assert.Equal(t, byte('0'), addr)
	assert.Equal(t, 2, fake.BreakCount())
}

func TestExecuteBadCrcIsNotRetried(t *testing.T) {
	payload := []byte("00003")
	good := crc.EncodeASCII(crc.Compute(append([]byte{'0'}, payload...)))
	good[0] ^= 0x01
	raw := append(append([]byte{'0'}, payload...), good[:]...)
	raw = append(raw, '\r', '\n')

	fake := faketransport.New(faketransport.Step{Data: raw})
	clk := faketransport.NewClock()
	e := NewEngine(fake, fake, clk)

	_, _, err := e.execute(sdi12meta.StartMeasCrc, '0', 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadCRC))
	assert.Equal(t, 1, fake.BreakCount())
	assert.Len(t, fake.TXCalls, 1)
}

func TestExecuteChangeAddressUpdatesCache(t *testing.T) {
	fake := faketransport.New(
		faketransport.Step{Data: []byte("7\r\n")},
		faketransport.Step{Data: []byte("7\r\n")},
	)
	clk := faketransport.NewClock()
	e := NewEngine(fake, fake, clk)

	_, _, err := e.execute(sdi12meta.ChangeAddr, '0', '7')
	require.NoError(t, err)

	_, _, err = e.execute(sdi12meta.AckActive, '7', 0)
	require.NoError(t, err)
	// same instant, same (new) address: cache carries the rename, so the
	// second transaction does not need a fresh break.
	assert.Equal(t, 1, fake.BreakCount())
}

func TestExecuteExhaustsOuterRetriesOnPersistentTimeout(t *testing.T) {
	fake := faketransport.New()
	clk := faketransport.NewClock()
	e := NewEngine(fake, fake, clk)

	_, _, err := e.execute(sdi12meta.AckActive, '0', 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.Equal(t, outerTryMin, fake.BreakCount())
}
