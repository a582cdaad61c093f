package machine

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"rv32i/internal/core"
)

// assembleFlat turns a sequence of already-encoded instructions into the bytes a Flat loader
// expects: little-endian 32-bit words, one per instruction, in order.
func assembleFlat(t *testing.T, code []core.Instruction) string {
	t.Helper()

	buf := make([]byte, len(code)*4)
	for i, ir := range code {
		binary.LittleEndian.PutUint32(buf[4*i:4*i+4], uint32(ir))
	}

	path := filepath.Join(t.TempDir(), "image.bin")
	if err := os.WriteFile(path, buf, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	return path
}

func TestMachineRunsToHalt(t *testing.T) {
	t.Parallel()

	code := []core.Instruction{
		core.EncodeI(core.OpcodeI, 1, 0x0, 0, 5),  // x1 = 5
		core.EncodeI(core.OpcodeI, 2, 0x0, 0, 3),  // x2 = 3
		core.EncodeR(core.OpcodeR, 3, 0x0, 1, 2, 0x00), // x3 = x1 + x2 = 8
		// -16, sign-extended from a 12-bit immediate, lands exactly on 0xfffffff0: the halt
		// register address fits an ADDI immediate directly, no LUI needed.
		core.EncodeI(core.OpcodeI, 5, 0x0, 0, -16),
		core.EncodeI(core.OpcodeI, 6, 0x0, 0, 1),
		core.EncodeS(core.OpcodeStore, 0x2, 5, 6, 0), // halt
	}

	path := assembleFlat(t, code)

	m, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 0; i < 100 && !m.Halted(); i++ {
		if _, err := m.Step(1); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}

	if !m.Halted() {
		t.Fatal("machine did not halt")
	}

	state := m.ArchState()
	if state.GPR[3] != 8 {
		t.Errorf("gpr[3] = %d, want 8", state.GPR[3])
	}

	if state.PC < MainMemBase {
		t.Errorf("PC = %#x, expected it to have advanced into RAM (>= %#x)", uint32(state.PC), uint32(MainMemBase))
	}
}

func TestMachineEntryPointIsMainMemBase(t *testing.T) {
	t.Parallel()

	code := []core.Instruction{
		core.EncodeI(core.OpcodeI, 1, 0x0, 0, 1),
	}

	path := assembleFlat(t, code)

	m, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if m.ArchState().PC != MainMemBase {
		t.Errorf("entry PC = %#x, want %#x", uint32(m.ArchState().PC), uint32(MainMemBase))
	}
}

func TestMachineTextSinkCapturesOutput(t *testing.T) {
	t.Parallel()

	code := []core.Instruction{
		core.EncodeU(core.OpcodeLUI, 1, uint32(TextSinkBase)), // x1 = text sink base
		core.EncodeI(core.OpcodeI, 2, 0x0, 0, 'H'),
		core.EncodeS(core.OpcodeStore, 0x0, 1, 2, 0), // *(x1) = 'H'
		core.EncodeI(core.OpcodeI, 5, 0x0, 0, -16),
		core.EncodeI(core.OpcodeI, 6, 0x0, 0, 1),
		core.EncodeS(core.OpcodeStore, 0x2, 5, 6, 0), // halt
	}

	path := assembleFlat(t, code)

	var got []byte

	m, err := New(path, WithDisplayListener(func(b byte) { got = append(got, b) }))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 0; i < 100 && !m.Halted(); i++ {
		if _, err := m.Step(1); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}

	if string(got) != "H" {
		t.Errorf("listener saw %q, want %q", got, "H")
	}

	if m.TextSink() != "H" {
		t.Errorf("TextSink() = %q, want %q", m.TextSink(), "H")
	}
}

func TestMachineMissingImageErrorSurfaced(t *testing.T) {
	t.Parallel()

	// An overlap error is not triggerable through the public canonical layout (it never overlaps);
	// this instead confirms that the image error from a missing file is surfaced rather than
	// panicking.
	path := filepath.Join(t.TempDir(), "missing.bin")

	if _, err := New(path); err == nil {
		t.Error("New with a missing file should return an error")
	}
}

func TestMachineRejectsMisalignedImage(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "image.bin")
	if err := os.WriteFile(path, []byte{1, 2, 3}, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := New(path); err == nil {
		t.Error("New with a misaligned image should return an error")
	}
}
