package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bus.ini")
	content := "[bus]\n" +
		"serial_port = /dev/ttyUSB0\n" +
		"direction_gpio = GPIO17\n" +
		"direction_active_high = false\n" +
		"expected_addresses = 0,1,2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", cfg.SerialPort)
	assert.Equal(t, "GPIO17", cfg.DirectionGPIO)
	assert.False(t, cfg.DirectionActiveHigh)
	assert.Equal(t, []byte{'0', '1', '2'}, cfg.ExpectedAddresses)
}

func TestLoadDefaultsActiveHighTrue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bus.ini")
	require.NoError(t, os.WriteFile(path, []byte("[bus]\nserial_port = /dev/ttyUSB1\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.DirectionActiveHigh)
}
