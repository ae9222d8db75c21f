// Package loader reads and writes ROM images and their symbol sidecar
// files.
package loader

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/lookbusy1344/uxn-assembler/parser"
)

// MaxRomSize is the largest ROM a cartridge can hold: the full address
// space minus the zeroth page.
const MaxRomSize = parser.RomCapacity - parser.PageSize

// SaveROM writes the ROM image to path.
func SaveROM(path string, rom []byte) error {
	if len(rom) > MaxRomSize {
		return fmt.Errorf("ROM is %d bytes; the maximum is %d", len(rom), MaxRomSize)
	}
	if err := os.WriteFile(path, rom, 0o644); err != nil {
		return fmt.Errorf("failed to write ROM: %w", err)
	}
	return nil
}

// LoadROM reads a ROM image from path, rejecting images that cannot fit
// in the address space.
func LoadROM(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ROM: %w", err)
	}
	if info.Size() > MaxRomSize {
		return nil, fmt.Errorf("%s is %d bytes; a ROM can hold at most %d", path, info.Size(), MaxRomSize)
	}
	rom, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ROM: %w", err)
	}
	return rom, nil
}

// SaveSymbols writes a symbol sidecar next to the ROM: for each symbol a
// big-endian 16-bit address followed by the name and a NUL terminator,
// ordered by address. Debuggers and disassemblers in the ecosystem read
// this format.
func SaveSymbols(path string, defs *parser.Definitions) error {
	ids := append([]parser.ScopedIdentifier(nil), defs.All()...)
	sort.Slice(ids, func(i, j int) bool {
		a, _ := defs.Lookup(ids[i])
		b, _ := defs.Lookup(ids[j])
		if a.Address != b.Address {
			return a.Address < b.Address
		}
		return ids[i].String() < ids[j].String()
	})

	var buf bytes.Buffer
	for _, id := range ids {
		def, _ := defs.Lookup(id)
		buf.WriteByte(byte(def.Address >> 8))
		buf.WriteByte(byte(def.Address))
		buf.WriteString(id.String())
		buf.WriteByte(0x00)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write symbols: %w", err)
	}
	return nil
}

// Symbol is one entry of a loaded symbol sidecar.
type Symbol struct {
	Address uint16
	Name    string
}

// LoadSymbols reads a symbol sidecar file.
func LoadSymbols(path string) ([]Symbol, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read symbols: %w", err)
	}

	var symbols []Symbol
	for len(data) > 0 {
		if len(data) < 3 {
			return nil, fmt.Errorf("%s: truncated symbol entry", path)
		}
		address := uint16(data[0])<<8 | uint16(data[1])
		end := bytes.IndexByte(data[2:], 0x00)
		if end < 0 {
			return nil, fmt.Errorf("%s: unterminated symbol name", path)
		}
		symbols = append(symbols, Symbol{
			Address: address,
			Name:    string(data[2 : 2+end]),
		})
		data = data[3+end:]
	}
	return symbols, nil
}
