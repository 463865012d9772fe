// Package ines writes the 16-byte iNES container: magic, bank counts, flag
// bytes, zero-filled reserved bytes, PRG-ROM, and (if present) CHR-ROM.
package ines

import (
	"fmt"
	"io"
)

var magic = [4]byte{0x4E, 0x45, 0x53, 0x1A} // "NES\x1A"

// Header holds the fields of an iNES header that this assembler's feature
// set populates. Bytes 8-15 are always written as zero: no PRG-RAM size,
// no NES 2.0 extensions, no TV system flag.
type Header struct {
	PRGBanks uint8
	CHRBanks uint8
	Flags6   byte
	Flags7   byte
}

// WriteROM writes hdr followed by prg and, if non-empty, chr to w.
func WriteROM(w io.Writer, hdr Header, prg, chr []byte) error {
	var raw [16]byte
	copy(raw[0:4], magic[:])
	raw[4] = hdr.PRGBanks
	raw[5] = hdr.CHRBanks
	raw[6] = hdr.Flags6
	raw[7] = hdr.Flags7
	// raw[8:16] stay zero.

	if _, err := w.Write(raw[:]); err != nil {
		return fmt.Errorf("writing iNES header: %w", err)
	}
	if _, err := w.Write(prg); err != nil {
		return fmt.Errorf("writing PRG-ROM: %w", err)
	}
	if len(chr) > 0 {
		if _, err := w.Write(chr); err != nil {
			return fmt.Errorf("writing CHR-ROM: %w", err)
		}
	}
	return nil
}
