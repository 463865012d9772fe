package ines

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteROMHeaderAndLength(t *testing.T) {
	hdr := Header{PRGBanks: 1, CHRBanks: 0, Flags6: 0x00, Flags7: 0x00}
	prg := make([]byte, 0x4000)
	prg[0] = 0xA9

	var buf bytes.Buffer
	require.NoError(t, WriteROM(&buf, hdr, prg, nil))

	out := buf.Bytes()
	assert.Equal(t, []byte{0x4E, 0x45, 0x53, 0x1A}, out[0:4], "iNES magic")
	assert.Equal(t, byte(1), out[4], "PRG banks byte")
	assert.Equal(t, byte(0), out[5], "CHR banks byte")
	for i := 8; i < 16; i++ {
		assert.Equalf(t, byte(0), out[i], "reserved byte %d", i)
	}
	assert.Equal(t, 16+0x4000, len(out), "total ROM length")
	assert.Equal(t, byte(0xA9), out[16], "first PRG byte")
}

func TestWriteROMWithCHR(t *testing.T) {
	hdr := Header{PRGBanks: 1, CHRBanks: 1}
	prg := make([]byte, 0x4000)
	chr := make([]byte, 0x2000)
	chr[0] = 0x42

	var buf bytes.Buffer
	require.NoError(t, WriteROM(&buf, hdr, prg, chr))

	out := buf.Bytes()
	assert.Equal(t, 16+0x4000+0x2000, len(out))
	assert.Equal(t, byte(0x42), out[16+0x4000], "first CHR byte")
}

func TestWriteROMOmitsEmptyCHR(t *testing.T) {
	hdr := Header{PRGBanks: 2, CHRBanks: 0}
	prg := make([]byte, 0x8000)

	var buf bytes.Buffer
	require.NoError(t, WriteROM(&buf, hdr, prg, nil))
	assert.Equal(t, 16+0x8000, buf.Len())
}
