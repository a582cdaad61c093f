package core

// mem.go is the memory map: it routes a global address to the device that owns it, translating
// to that device's local offset. Regions are registered once at construction time; the routing
// table itself is a slice in registration order, scanned linearly on every access, since an RV32I system maps at
// most a handful of devices and a binary search buys nothing worth the complexity.

import (
	"errors"
	"fmt"

	"rv32i/internal/log"
)

// region is one mapped span of address space.
type region struct {
	start, end uint32 // inclusive start, exclusive end
	dev        Device
}

// MemoryMap dispatches loads and stores to the device that owns a given address.
type MemoryMap struct {
	regions []region
	log     *log.Logger
}

// NewMemoryMap creates an empty memory map.
func NewMemoryMap() *MemoryMap {
	return &MemoryMap{log: log.DefaultLogger()}
}

var errOverlap = errors.New("memory map")

// OverlapError is returned by AddDevice when the requested range intersects an already-mapped
// region.
type OverlapError struct {
	Start, End                 uint32
	ConflictStart, ConflictEnd uint32
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("%s: range [%#x, %#x) overlaps existing [%#x, %#x)",
		errOverlap, e.Start, e.End, e.ConflictStart, e.ConflictEnd)
}

func (e *OverlapError) Is(err error) bool {
	if err == errOverlap {
		return true
	}

	_, ok := err.(*OverlapError)

	return ok
}

// AddDevice maps dev at [start, start+dev.Size()) in the address space. It returns an
// *OverlapError if the range intersects any previously-mapped region.
func (m *MemoryMap) AddDevice(start uint32, dev Device) error {
	end := start + dev.Size()

	for _, r := range m.regions {
		if start < r.end && r.start < end {
			return &OverlapError{Start: start, End: end, ConflictStart: r.start, ConflictEnd: r.end}
		}
	}

	m.regions = append(m.regions, region{start: start, end: end, dev: dev})

	m.log.Debug("mapped device", "START", Word(start), "END", Word(end))

	return nil
}

// find returns the region owning addr, or nil if no device is mapped there.
func (m *MemoryMap) find(addr uint32) *region {
	for i := range m.regions {
		r := &m.regions[i]
		if addr >= r.start && addr < r.end {
			return r
		}
	}

	return nil
}

// Load reads size bytes (1, 2, or 4) starting at addr. An access whose base address falls outside
// every mapped region reads as zero. An access that spans into another region is routed by its
// base address alone: only the device owning addr is consulted, and the full requested size is
// forwarded to it.
func (m *MemoryMap) Load(addr Word, size uint32) Word {
	r := m.find(uint32(addr))
	if r == nil {
		m.log.Debug("load: unmapped address", "ADDR", addr)
		return 0
	}

	return Word(r.dev.Load(uint32(addr)-r.start, size))
}

// Store writes the low size bytes of val to addr. Stores to unmapped addresses are silently
// discarded.
func (m *MemoryMap) Store(addr Word, size uint32, val Word) {
	r := m.find(uint32(addr))
	if r == nil {
		m.log.Debug("store: unmapped address", "ADDR", addr)
		return
	}

	r.dev.Store(uint32(addr)-r.start, size, uint32(val))
}

// Tick advances every mapped device that implements Tickable, in registration order.
func (m *MemoryMap) Tick() {
	for _, r := range m.regions {
		if t, ok := r.dev.(Tickable); ok {
			t.Tick()
		}
	}
}
