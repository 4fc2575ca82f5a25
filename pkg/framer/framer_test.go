package framer

import (
	"bytes"
	"testing"

	"github.com/go-sdi12/sdi12/internal/sdi12meta"
)

func TestBuildCommands(t *testing.T) {
	cases := []struct {
		name  string
		kind  sdi12meta.CommandKind
		addr  byte
		param byte
		want  string
	}{
		{"ping", sdi12meta.AckActive, '0', 0, "0!"},
		{"identify", sdi12meta.SendId, '0', 0, "0I!"},
		{"addr query", sdi12meta.AddrQuery, 0, 0, "?!"},
		{"change addr", sdi12meta.ChangeAddr, '0', '7', "0A7!"},
		{"start measurement", sdi12meta.StartMeas, '0', 0, "0M!"},
		{"start measurement crc", sdi12meta.StartMeasCrc, '0', 0, "0MC!"},
		{"send data", sdi12meta.SendData, '0', '2', "0D2!"},
		{"additional measurement", sdi12meta.AdditMeas, '0', '3', "0M3!"},
		{"continuous measurement", sdi12meta.ContMeas, 'a', '1', "aR1!"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Build(tc.kind, tc.addr, tc.param)
			if err != nil {
				t.Fatalf("Build returned error: %v", err)
			}
			if !bytes.Equal(got, []byte(tc.want)) {
				t.Errorf("Build(%v, %q, %q) = %q, want %q", tc.kind, tc.addr, tc.param, got, tc.want)
			}
		})
	}
}

func TestBuildRejectsBadAddress(t *testing.T) {
	_, err := Build(sdi12meta.AckActive, '!', 0)
	if err != sdi12meta.ErrConfig {
		t.Errorf("expected ErrConfig for bad address, got %v", err)
	}
}

func TestBuildRejectsBadParam(t *testing.T) {
	_, err := Build(sdi12meta.SendData, '0', 'x')
	if err != sdi12meta.ErrConfig {
		t.Errorf("expected ErrConfig for non-digit param, got %v", err)
	}
	_, err = Build(sdi12meta.ChangeAddr, '0', '!')
	if err != sdi12meta.ErrConfig {
		t.Errorf("expected ErrConfig for non-alphanumeric new address, got %v", err)
	}
}

func TestBuildIdempotent(t *testing.T) {
	a, err := Build(sdi12meta.StartMeas, '3', 0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build(sdi12meta.StartMeas, '3', 0)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Errorf("Build is not idempotent: %q != %q", a, b)
	}
}
