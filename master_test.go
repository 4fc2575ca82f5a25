package sdi12

import (
	"testing"

	"github.com/go-sdi12/sdi12/transport/faketransport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMasterGetInfo(t *testing.T) {
	fake := faketransport.New(faketransport.Step{Data: []byte("014MANUFAC SENSOR0010extra\r\n")})
	clk := faketransport.NewClock()
	m, err := NewMaster(fake, fake, clk)
	require.NoError(t, err)

	info, err := m.GetInfo('0')
	require.NoError(t, err)
	assert.Equal(t, "14", info.Version)
	assert.Equal(t, "MANUFAC ", info.Vendor)
	assert.Equal(t, "SENSOR", info.Model)
	assert.Equal(t, "001", info.SensorVersion)
	assert.Equal(t, "0extra", info.Other)
}

func TestMasterChangeAddressThenQuery(t *testing.T) {
	fake := faketransport.New(
		faketransport.Step{Data: []byte("7\r\n")},
		faketransport.Step{Data: []byte("7\r\n")},
	)
	clk := faketransport.NewClock()
	m, err := NewMaster(fake, fake, clk)
	require.NoError(t, err)

	require.NoError(t, m.ChangeAddress('0', '7'))

	addr, err := m.GetAddress()
	require.NoError(t, err)
	assert.Equal(t, byte('7'), addr)
}

func TestMasterStartVerification(t *testing.T) {
	fake := faketransport.New(faketransport.Step{Data: []byte("0Passed all self-checks\r\n")})
	clk := faketransport.NewClock()
	m, err := NewMaster(fake, fake, clk)
	require.NoError(t, err)

	raw, err := m.StartVerification('0')
	require.NoError(t, err)
	assert.Equal(t, "Passed all self-checks", string(raw))
}

func TestMasterDiscoverFindsRespondingAddresses(t *testing.T) {
	fake := faketransport.New(
		faketransport.Step{Data: []byte("0\r\n")},
		faketransport.Step{Data: []byte("1\r\n")},
		faketransport.Step{Data: []byte("2\r\n")},
	)
	clk := faketransport.NewClock()
	m, err := NewMaster(fake, fake, clk)
	require.NoError(t, err)

	found, err := m.Discover()
	require.NoError(t, err)
	assert.Equal(t, []byte{'0', '1', '2'}, found)
}
