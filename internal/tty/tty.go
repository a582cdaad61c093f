// Package tty provides terminal emulation for the CLI's interactive step command.
package tty

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"rv32i/internal/core"
)

// Console is a serial console for the simulator, backed by Unix terminal I/O[^1]. Unlike the
// reference project's console, there is no keyboard device to feed: RV32I as modeled here has no
// input MMIO. Console's job is narrower — put the terminal in raw mode so the step command can
// advance on a single keypress rather than a full line, drain the text sink's output to the
// terminal as it is written, and restore terminal state on exit.
//
// [1]: See: tty(4), termios(4).
type Console struct {
	in    *os.File
	out   *term.Terminal
	fd    int
	state *term.State

	keyCh chan byte
}

// ErrNoTTY is returned if standard input is not a terminal. In this case, asynchronous I/O is
// not supported by the console.
var ErrNoTTY error = errors.New("console: not a TTY")

// NewConsole creates a Console using the provided streams. If the input stream is not a terminal,
// ErrNoTTY is returned. Callers are responsible for calling [Console.Restore] to return the
// terminal to its initial state.
func NewConsole(sin, sout, serr *os.File) (*Console, error) {
	fd := int(sin.Fd())

	if !term.IsTerminal(fd) {
		return nil, ErrNoTTY
	}

	saved, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoTTY, err)
	}

	cons := &Console{
		fd:    fd,
		in:    sin,
		out:   term.NewTerminal(sout, ""),
		state: saved,
		keyCh: make(chan byte, 1),
	}

	if err := cons.setTerminalParams(1, 0); err != nil {
		return nil, err
	}

	return cons, nil
}

// Writer returns an io.Writer that writes to the terminal.
func (c *Console) Writer() io.Writer {
	return c.out
}

// ListenSink registers the console as the sink's listener: every byte the sink receives is
// echoed to the terminal immediately, the way the reference project's display driver pushes
// characters to the console as the machine writes them.
func (c *Console) ListenSink(sink *core.TextSink) {
	sink.Listen(func(b byte) {
		fmt.Fprintf(c.out, "%c", b)
	})
}

// ReadKey blocks until a single byte is read from the input stream or ctx is cancelled. It is
// used by the step command to advance one instruction per keypress.
func (c *Console) ReadKey(ctx context.Context) (byte, error) {
	go c.readOne()

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case b := <-c.keyCh:
		return b, nil
	}
}

func (c *Console) readOne() {
	buf := bufio.NewReader(c.in)

	b, err := buf.ReadByte()
	if err != nil {
		return
	}

	c.keyCh <- b
}

// Restore returns the terminal to its initial state and unblocks any in-progress read.
func (c *Console) Restore() {
	_ = os.Stdin.SetReadDeadline(time.Now())
	_ = term.Restore(c.fd, c.state)
}

func (c *Console) setTerminalParams(vmin, vtime byte) error {
	_ = syscall.SetNonblock(c.fd, true)

	termIO, err := unix.IoctlGetTermios(c.fd, getTermiosIoctl)
	if err != nil {
		return err
	}

	termIO.Cc[unix.VMIN] = vmin
	termIO.Cc[unix.VTIME] = vtime

	if err := unix.IoctlSetTermios(c.fd, setTermiosIoctl, termIO); err != nil {
		return err
	}

	_ = os.Stdin.SetReadDeadline(time.Time{})

	return nil
}
