package core

// exec.go drives the fetch/decode/execute/commit cycle.

import (
	"context"
	"errors"

	"rv32i/internal/log"
)

// ErrHalted is a sentinel for reporting that the processor has halted. Run does not return it:
// when Run stops because the halt register was written, it returns nil.
var ErrHalted = errors.New("halted")

// Halter is implemented by whatever device in the memory map signals the processor should stop.
// The machine package wires the canonical halt register; tests may supply their own.
type Halter interface {
	Halted() bool
}

// Run executes Step in a loop until halt is detected, the context is cancelled, or a step
// returns an error.
func (p *Processor) Run(ctx context.Context, halt Halter) error {
	p.log.Info("START", log.Group("STATE", p))

	for {
		select {
		case <-ctx.Done():
			p.log.Warn("CANCELLED")
			return ctx.Err()
		default:
		}

		if halt != nil && halt.Halted() {
			break
		}

		if err := p.Step(); err != nil {
			p.log.Error("HALTED (error)", "ERR", err, log.Group("STATE", p))
			return err
		}
	}

	p.log.Info("HALTED", log.Group("STATE", p))

	return nil
}

// Step runs a single fetch/decode/execute/commit cycle. The new PC defaults to PC+4 and is
// overridden by any taken branch or jump; register zero is forced back to zero after the
// instruction has run, regardless of what it wrote during execution.
func (p *Processor) Step() error {
	p.Fetch()

	op := p.Decode()
	p.nextPC = uint32(p.PC) + 4

	op.Execute(p)

	p.GPR[0] = 0
	p.PC = Word(p.nextPC)

	p.Mem.Tick()

	p.log.Debug("executed", "OP", op)

	return nil
}

// Fetch loads the instruction word at PC into IR. Per spec, no alignment is enforced: an
// unaligned PC is read as-is through the memory map, which on real hardware would fault but in
// this simulator simply performs the access the address implies.
func (p *Processor) Fetch() {
	p.IR = Instruction(p.Mem.Load(p.PC, 4))
}

// Decode dispatches IR to its operation.
func (p *Processor) Decode() operation {
	op := Decode(p.IR)
	p.log.Debug("decoded", "OP", op)

	return op
}
