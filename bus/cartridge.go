package bus

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	bankSize   = 0x4000
	titleAddr  = 0x0134
	titleLen   = 11
)

// Cartridge is the immutable byte image of a loaded ROM file, along with the
// handful of header fields useful for diagnostics.
//
// Header parsing is limited to the title, exposed through Title; no other
// header field is read, and the CLI does not log the title.
type Cartridge struct {
	data  []byte
	title string
}

// NewCartridge validates and wraps a raw ROM image. The size must be a
// positive multiple of 0x4000 (16 KiB); the bank count is len(data)/0x4000.
func NewCartridge(data []byte) (*Cartridge, error) {
	if len(data) == 0 || len(data)%bankSize != 0 {
		return nil, fmt.Errorf("bus: cartridge image size %d is not a positive multiple of 0x4000", len(data))
	}

	title := "(untitled)"
	if len(data) >= titleAddr+titleLen {
		title = cleanTitle(data[titleAddr : titleAddr+titleLen])
	}

	cart := &Cartridge{
		data:  make([]byte, len(data)),
		title: title,
	}
	copy(cart.data, data)

	return cart, nil
}

// BankCount returns the number of 16 KiB ROM banks in the image, including
// the fixed bank 0.
func (c *Cartridge) BankCount() int {
	return len(c.data) / bankSize
}

// Title returns the cleaned-up cartridge title from the ROM header.
func (c *Cartridge) Title() string {
	return c.title
}

// ReadByte returns the byte at the given absolute offset into the ROM
// image, or 0xFF if out of range.
func (c *Cartridge) ReadByte(offset int) byte {
	if offset < 0 || offset >= len(c.data) {
		return 0xFF
	}
	return c.data[offset]
}

func cleanTitle(raw []byte) string {
	runes := make([]rune, 0, len(raw))
	for _, b := range raw {
		r := rune(b)
		switch {
		case r == 0:
			r = ' '
		case !unicode.IsPrint(r):
			r = '?'
		}
		runes = append(runes, r)
	}
	title := strings.TrimSpace(string(runes))
	if title == "" {
		return "(untitled)"
	}
	return title
}
