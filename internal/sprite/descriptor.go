// Package sprite builds the hardware sprite attribute table (SAT) for one
// frame. Entities append descriptors into a fixed arena during the frame
// and the table is terminated and queued for DMA at the end of it.
package sprite

import "encoding/binary"

// DescriptorBytes is the size of one encoded SAT entry.
const DescriptorBytes = 8

// DescriptorWords is the size of one SAT entry in 16-bit DMA units.
const DescriptorWords = DescriptorBytes / 2

// ScreenOffset is added to screen coordinates in X and Y: the visible
// area starts at 128 in sprite space.
const ScreenOffset = 128

// Size field helpers: width and height in 8 pixel cells, 1..4 each.
const (
	sizeWShift = 2
	sizeMask   = 0x03
)

// Attribute bits.
const (
	AttrPriority  uint16 = 0x8000
	AttrPalShift         = 13
	AttrPalMask   uint16 = 0x03
	AttrVFlip     uint16 = 0x1000
	AttrHFlip     uint16 = 0x0800
	AttrTileMask  uint16 = 0x07FF
	linkFieldMask        = 0x7F
)

// Descriptor is one sprite attribute table entry.
type Descriptor struct {
	Y    int16
	Size uint8
	Link uint8
	Attr uint16
	X    int16
}

// SizeCells packs a width and height in cells (1..4) into a size field.
func SizeCells(w, h int) uint8 {
	return uint8((clampCells(w)-1)<<sizeWShift | (clampCells(h) - 1))
}

func clampCells(n int) int {
	if n < 1 {
		return 1
	}
	if n > 4 {
		return 4
	}
	return n
}

// Cells returns the width and height of the sprite in 8 pixel cells.
func (d Descriptor) Cells() (w, h int) {
	return int(d.Size>>sizeWShift&sizeMask) + 1, int(d.Size&sizeMask) + 1
}

// Attribute builds an attribute word.
func Attribute(tile uint16, pal uint8, priority, hflip, vflip bool) uint16 {
	a := tile&AttrTileMask | (uint16(pal)&AttrPalMask)<<AttrPalShift
	if priority {
		a |= AttrPriority
	}
	if hflip {
		a |= AttrHFlip
	}
	if vflip {
		a |= AttrVFlip
	}
	return a
}

// Tile returns the first tile index of the sprite.
func (d Descriptor) Tile() uint16 {
	return d.Attr & AttrTileMask
}

// Palette returns the palette line of the sprite.
func (d Descriptor) Palette() uint8 {
	return uint8(d.Attr >> AttrPalShift & AttrPalMask)
}

// HFlip reports whether the sprite is mirrored horizontally.
func (d Descriptor) HFlip() bool {
	return d.Attr&AttrHFlip != 0
}

// Encode writes the descriptor into dst in hardware order.
// dst must hold at least DescriptorBytes.
func (d Descriptor) Encode(dst []byte) {
	binary.BigEndian.PutUint16(dst[0:], uint16(d.Y))
	dst[2] = d.Size
	dst[3] = d.Link & linkFieldMask
	binary.BigEndian.PutUint16(dst[4:], d.Attr)
	binary.BigEndian.PutUint16(dst[6:], uint16(d.X))
}

// Decode reads one descriptor from src.
func Decode(src []byte) Descriptor {
	return Descriptor{
		Y:    int16(binary.BigEndian.Uint16(src[0:])),
		Size: src[2],
		Link: src[3] & linkFieldMask,
		Attr: binary.BigEndian.Uint16(src[4:]),
		X:    int16(binary.BigEndian.Uint16(src[6:])),
	}
}

// Chain walks an encoded table from entry 0 following link fields and
// returns the descriptors in display order. The walk stops at the
// terminator, at a link outside the data, or after as many steps as the
// data has entries, so a corrupted table cannot loop forever.
func Chain(data []byte) []Descriptor {
	n := len(data) / DescriptorBytes
	if n == 0 {
		return nil
	}
	out := make([]Descriptor, 0, n)
	idx := 0
	for steps := 0; steps < n; steps++ {
		d := Decode(data[idx*DescriptorBytes:])
		out = append(out, d)
		if d.Link == 0 || int(d.Link) >= n {
			break
		}
		idx = int(d.Link)
	}
	return out
}
