package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"rv32i/internal/cli"
	"rv32i/internal/core"
	"rv32i/internal/log"
	"rv32i/internal/machine"
	"rv32i/internal/tty"
)

// Step returns the "step" sub-command: an interactive single-stepper that dumps architectural
// state between instructions, advancing a batch at a time on a keypress when stdin is a
// terminal, or automatically when it is not (e.g. piped input in a test harness).
func Step() cli.Command {
	return &stepper{batch: 1}
}

type stepper struct {
	batch int
}

func (stepper) Description() string {
	return "single-step an executable, dumping state between instructions"
}

func (stepper) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, `step [-n count] image.bin

Loads image.bin and executes count instructions (default 1) at a time,
printing the program counter and register file after each batch. When
standard input is a terminal, press any key to advance; otherwise it free-runs
to halt, printing after every batch.`)

	return err
}

func (s *stepper) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("step", flag.ExitOnError)
	fs.IntVar(&s.batch, "n", s.batch, "instructions to execute per step")

	return fs
}

func (s *stepper) Run(ctx context.Context, args []string, out io.Writer, logger *log.Logger) int {
	if len(args) != 1 {
		logger.Error("step: expected exactly one image path argument")
		return 2
	}

	console, consoleErr := tty.NewConsole(os.Stdin, os.Stdout, os.Stderr)
	interactive := consoleErr == nil

	opts := []machine.Option{machine.WithLogger(logger)}

	if interactive {
		defer console.Restore()

		opts = append(opts, machine.WithDisplayListener(func(b byte) {
			fmt.Fprintf(console.Writer(), "%c", b)
		}))
	}

	m, err := machine.New(args[0], opts...)
	if err != nil {
		logger.Error("step: failed to load image", "err", err)
		return 1
	}

	for !m.Halted() {
		n, err := m.Step(s.batch)
		if err != nil {
			logger.Error("step: execution error", "err", err)
			return 1
		}

		state := m.ArchState()
		fmt.Fprintf(out, "PC %s  %s\n%s\n", state.PC, core.Disassemble(m.Core.IR), core.RegisterFile(state.GPR))

		if n < s.batch || m.Halted() {
			break
		}

		if interactive {
			if _, err := console.ReadKey(ctx); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return 2
				}

				return 1
			}
		}
	}

	if !interactive {
		if sink := m.TextSink(); sink != "" {
			fmt.Fprint(out, sink)
		}
	}

	return 0
}
