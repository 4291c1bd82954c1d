package io

import (
	"slices"
)

// Ram is a word addressed store with a registered read port and byte
// granular writes. Word indexes outside of the store wrap modulo its size.
type Ram struct {
	Data []uint32

	rdata uint32
}

var _ Device = (*Ram)(nil)

// NewRam creates a zeroed Ram of the given size in bytes.
func NewRam(size int) (ram *Ram) {
	ram = &Ram{
		Data: make([]uint32, max(size/4, 1)),
	}

	return
}

// index returns the word index of a byte address.
func (ram *Ram) index(addr uint32) int {
	return int((addr >> 2) % uint32(len(ram.Data)))
}

// Reset clears the store and the read register.
func (ram *Ram) Reset() {
	clear(ram.Data)
	ram.rdata = 0
}

// Load copies an image into the store at word zero.
func (ram *Ram) Load(image []uint32) (err error) {
	if len(image) > len(ram.Data) {
		err = ErrRamOverflow
		return
	}

	copy(ram.Data, image)

	return
}

// ReadData returns the word latched by the last read strobe.
func (ram *Ram) ReadData(addr uint32) uint32 {
	return ram.rdata
}

// Clock latches read data on a read strobe, and applies masked writes.
func (ram *Ram) Clock(req Request) {
	if len(ram.Data) == 0 {
		return
	}

	index := ram.index(req.Addr)

	if req.Read {
		ram.rdata = ram.Data[index]
	}

	if req.Write() {
		word := ram.Data[index]
		for lane := range 4 {
			if req.WriteMask&(1<<lane) != 0 {
				mask := uint32(0xff) << (8 * lane)
				word = (word &^ mask) | (req.WriteData & mask)
			}
		}
		ram.Data[index] = word
	}
}

// Peek returns the word at a byte address, without a clock.
func (ram *Ram) Peek(addr uint32) uint32 {
	return ram.Data[ram.index(addr)]
}

// Marshal returns a copy of the store.
func (ram *Ram) Marshal() (words []uint32) {
	return slices.Clone(ram.Data)
}

// Unmarshal replaces the store contents, keeping its size.
func (ram *Ram) Unmarshal(words []uint32) (err error) {
	if len(ram.Data) == 0 {
		err = ErrRamEmpty
		return
	}

	if len(words) > len(ram.Data) {
		err = ErrRamOverflow
		return
	}

	clear(ram.Data)
	copy(ram.Data, words)
	ram.rdata = 0

	return
}
