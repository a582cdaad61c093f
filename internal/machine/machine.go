// Package machine assembles the simulator container: the processor core, the canonical
// memory-mapped address space, and the executable image that seeds it. It plays the role the
// reference project's internal/vm package plays for its LC-3, generalized to RV32I's device set
// and simpler (trap-free, privilege-free) execution model.
package machine

import (
	"errors"
	"fmt"
	"os"

	"rv32i/internal/core"
	"rv32i/internal/loader"
	"rv32i/internal/log"
)

// Canonical memory map (§4.4): ROM holds the loaded image, RAM is working memory initialized by
// copying ROM, the text sink and halt register sit at fixed high addresses.
const (
	ROMBase core.Word = 0x00000000
	ROMSize uint32    = 0x00010000 // 64 KiB

	MainMemBase core.Word = 0x00010000
	MainMemSize uint32    = 0x00100000 // 1 MiB

	TextSinkBase core.Word = 0x10000000
	HaltBase     core.Word = 0xfffffff0
)

// ErrImage wraps errors reading or decoding an executable image.
var ErrImage = errors.New("image error")

// Machine is a fully wired RV32I simulator: a processor core executing against the canonical
// memory map.
type Machine struct {
	Core *core.Processor
	Mem  *core.MemoryMap

	rom  *core.ROM
	ram  *core.RAM
	sink *core.TextSink
	halt *core.HaltRegister

	log *log.Logger
}

// config collects what the options below mutate before New does its work.
type config struct {
	loader   loader.Loader
	logger   *log.Logger
	listener func(byte)
}

// Option customizes machine construction.
type Option func(*config)

// WithLogger overrides the logger used by the machine and the processor core it wires up.
func WithLogger(l *log.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithLoader overrides how the image file is decoded. The default is a flat binary loader
// originating at ROMBase.
func WithLoader(ld loader.Loader) Option {
	return func(c *config) { c.loader = ld }
}

// WithDisplayListener registers a callback invoked with every byte the text sink receives.
func WithDisplayListener(fn func(byte)) Option {
	return func(c *config) { c.listener = fn }
}

// New reads the image at imagePath, wires the canonical memory map, loads the image, and returns a
// Machine with its program counter set to the image's entry point. Construction errors (image not
// found, image malformed, or an overlapping memory map) are returned to the caller.
func New(imagePath string, opts ...Option) (*Machine, error) {
	cfg := config{
		loader: loader.NewFlatLoader(ROMBase),
		logger: log.DefaultLogger(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImage, err)
	}

	img, err := cfg.loader.Load(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImage, err)
	}

	// ROM discards stores, so the image is laid out into the ROM's initial contents here rather
	// than written through the memory map.
	romImage := make([]byte, ROMSize)
	for _, r := range img.Regions {
		off := uint32(r.Orig) - uint32(ROMBase)
		for _, w := range r.Code {
			if off < ROMSize && ROMSize-off >= 4 {
				for i := uint32(0); i < 4; i++ {
					romImage[off+i] = byte(uint32(w) >> (8 * i))
				}
			}
			off += 4
		}
	}

	m := &Machine{
		rom:  core.NewROM(ROMSize, romImage),
		ram:  core.NewRAM(MainMemSize),
		sink: core.NewTextSink(),
		halt: core.NewHaltRegister(),
		log:  cfg.logger,
	}

	if cfg.listener != nil {
		m.sink.Listen(cfg.listener)
	}

	mem := core.NewMemoryMap()

	for _, dev := range []struct {
		base core.Word
		dev  core.Device
	}{
		{ROMBase, m.rom},
		{MainMemBase, m.ram},
		{TextSinkBase, m.sink},
		{HaltBase, m.halt},
	} {
		if err := mem.AddDevice(uint32(dev.base), dev.dev); err != nil {
			return nil, err
		}
	}

	m.Mem = mem

	img.StoreTo(mem)
	m.copyROMToRAM()

	entryOffset := uint32(img.Entry) - uint32(ROMBase)
	m.Core = core.New(mem,
		core.WithEntryPoint(core.Word(uint32(MainMemBase)+entryOffset)),
		core.WithLogger(cfg.logger),
	)

	m.log.Info("Machine initialized", "entry", m.Core.PC)

	return m, nil
}

// copyROMToRAM mirrors the loaded image into working memory, the usual way the RAM device gets its
// initial contents (§4.4, "often initialized by copying ROM contents").
func (m *Machine) copyROMToRAM() {
	for off := uint32(0); off < ROMSize; off += 4 {
		m.ram.Store(off, 4, m.rom.Load(off, 4))
	}
}

// Step advances up to n ticks, stopping early if the halt register is written. It returns the
// number of ticks actually executed.
func (m *Machine) Step(n int) (int, error) {
	for i := 0; i < n; i++ {
		if m.halt.Halted() {
			return i, nil
		}

		if err := m.Core.Step(); err != nil {
			return i, err
		}
	}

	return n, nil
}

// ArchState returns a snapshot of the processor's architectural state.
func (m *Machine) ArchState() core.ArchState {
	return m.Core.ArchState()
}

// SetArchState overwrites the processor's architectural state.
func (m *Machine) SetArchState(s core.ArchState) {
	m.Core.SetArchState(s)
}

// Halted reports whether the halt register has been written since construction.
func (m *Machine) Halted() bool {
	return m.halt.Halted()
}

// TextSink exposes the accumulated display output, e.g. for the CLI to drain on exit.
func (m *Machine) TextSink() string {
	return m.sink.String()
}
