package core

import (
	"io"
	"strings"
	"testing"

	ilog "rv32i/internal/log"
)

// testHarness wires a *testing.T as the destination for a processor's log output, following the
// reference project's pattern of routing component logs through `t.Log` instead of stderr.
type testHarness struct {
	*testing.T
}

func newTestHarness(t *testing.T) *testHarness {
	t.Parallel()
	return &testHarness{t}
}

func (h *testHarness) Write(b []byte) (int, error) {
	h.T.Helper()
	h.T.Log(strings.TrimSuffix(string(b), "\n"))

	return len(b), nil
}

func (h *testHarness) logger() *ilog.Logger {
	return ilog.NewFormattedLogger(io.Writer(h))
}

// flatMemory returns a memory map with a single RAM region covering [0, size), suitable for ALU,
// branch, and jump tests that only need instruction and data storage.
func flatMemory(size uint32) *MemoryMap {
	mem := NewMemoryMap()
	if err := mem.AddDevice(0, NewRAM(size)); err != nil {
		panic(err)
	}

	return mem
}

// storeWord writes a 32-bit word to mem at addr, little-endian, bypassing the processor.
func storeWord(mem *MemoryMap, addr uint32, w uint32) {
	mem.Store(Word(addr), 4, Word(w))
}
