package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"rv32i/internal/cli"
	"rv32i/internal/log"
	"rv32i/internal/machine"
)

// stepBatch bounds how many ticks Run executes between checks of the context deadline.
const stepBatch = 4096

// Run returns the "run" sub-command: load an image and execute it to halt. This is the CLI
// surface named in spec.md §6 — one positional argument, the image path, exit status 0 on a
// normal halt with x10 (a0) == 0 and nonzero otherwise.
func Run() cli.Command {
	return &runner{steps: 10_000_000, timeout: 10 * time.Second}
}

type runner struct {
	steps   int
	timeout time.Duration
}

func (runner) Description() string {
	return "run an executable to halt"
}

func (runner) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, `run [-steps N] [-timeout D] image.bin

Loads image.bin into the simulator and steps it until the halt register is
written, the step budget is exhausted, or timeout elapses. Text-sink output is
written to stdout as the program emits it.`)

	return err
}

func (r *runner) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	fs.IntVar(&r.steps, "steps", r.steps, "maximum instructions to execute")
	fs.DurationVar(&r.timeout, "timeout", r.timeout, "wall-clock budget before giving up")

	return fs
}

// Run loads the image and steps the machine to halt, relaying text-sink output to out as it is
// produced and deriving the process exit status from x10 (the a0 calling-convention register) per
// spec.md §6.
func (r *runner) Run(ctx context.Context, args []string, out io.Writer, logger *log.Logger) int {
	if len(args) != 1 {
		logger.Error("run: expected exactly one image path argument")
		return 2
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	m, err := machine.New(args[0],
		machine.WithLogger(logger),
		machine.WithDisplayListener(func(b byte) {
			fmt.Fprintf(out, "%c", b)
		}),
	)
	if err != nil {
		logger.Error("run: failed to load image", "err", err)
		return 1
	}

	remaining := r.steps

	for !m.Halted() && remaining > 0 {
		select {
		case <-ctx.Done():
			logger.Error("run: timed out before halt")
			return 2
		default:
		}

		n := stepBatch
		if n > remaining {
			n = remaining
		}

		ran, err := m.Step(n)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("run: execution error", "err", err)
			return 1
		}

		remaining -= ran
	}

	if !m.Halted() {
		logger.Warn("run: step budget exhausted without halt")
		return 2
	}

	a0 := m.ArchState().GPR[10]
	logger.Info("run: halted", "a0", a0)

	if a0 == 0 {
		return 0
	}

	if code := int(a0 & 0xff); code != 0 {
		return code
	}

	return 1
}
