package core

// cpu.go assembles the processor core: architectural state plus the memory map it executes
// against.

import (
	"fmt"

	"rv32i/internal/log"
)

// Processor is a single-hart RV32I core.
type Processor struct {
	PC  Word        // Program counter.
	IR  Instruction // Instruction register, for debugging and LogValue.
	GPR RegisterFile

	Mem *MemoryMap

	nextPC uint32 // Computed once per Step; committed to PC at the end of the cycle.

	log *log.Logger
}

// New creates a processor wired to mem. PC starts at zero; callers typically follow with
// SetArchState or rely on a Loader-supplied entry point via the machine package.
func New(mem *MemoryMap, opts ...OptionFn) *Processor {
	p := &Processor{
		Mem: mem,
		log: log.DefaultLogger(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// OptionFn customizes a Processor at construction time.
type OptionFn func(*Processor)

// WithEntryPoint sets the initial program counter.
func WithEntryPoint(pc Word) OptionFn {
	return func(p *Processor) { p.PC = pc }
}

// WithLogger overrides the processor's logger.
func WithLogger(l *log.Logger) OptionFn {
	return func(p *Processor) { p.log = l }
}

func (p *Processor) String() string {
	return fmt.Sprintf("PC: %s  IR: %s\n%s", p.PC, p.IR, p.GPR)
}

func (p *Processor) LogValue() log.Value {
	return log.GroupValue(
		log.String("PC", p.PC.String()),
		log.String("IR", p.IR.String()),
	)
}

// ArchState is a snapshot of the processor's architectural registers, independent of any memory
// content. It is used by the step CLI command and by tests to set up or assert on processor state
// directly.
type ArchState struct {
	PC  Word
	GPR [NumGPR]Word
}

// ArchState returns a snapshot of the current architectural state.
func (p *Processor) ArchState() ArchState {
	return ArchState{PC: p.PC, GPR: p.GPR}
}

// SetArchState overwrites the processor's architectural state. Register zero is forced to zero
// regardless of the value supplied.
func (p *Processor) SetArchState(s ArchState) {
	p.PC = s.PC
	p.GPR = s.GPR
	p.GPR[0] = 0
}
