package core

import "testing"

func TestROMDiscardsWrites(t *testing.T) {
	t.Parallel()

	rom := NewROM(0x10, []byte{1, 2, 3, 4})
	rom.Store(0, 4, 0xffffffff)

	if got := rom.Load(0, 4); got != 0x04030201 {
		t.Errorf("ROM store had an effect: got %#x, want 0x04030201", got)
	}
}

func TestRAMRoundTrip(t *testing.T) {
	t.Parallel()

	ram := NewRAM(0x10)
	ram.Store(4, 2, 0xbeef)

	if got := ram.Load(4, 2); got != 0xbeef {
		t.Errorf("RAM round trip = %#x, want 0xbeef", got)
	}
}

func TestTextSinkAppendsAndNotifies(t *testing.T) {
	t.Parallel()

	sink := NewTextSink()

	var seen []byte
	sink.Listen(func(b byte) { seen = append(seen, b) })

	sink.Store(0, 1, 'A')
	sink.Store(0, 1, 'B')

	if sink.String() != "AB" {
		t.Errorf("TextSink.String() = %q, want %q", sink.String(), "AB")
	}

	if string(seen) != "AB" {
		t.Errorf("listener saw %q, want %q", seen, "AB")
	}

	if got := sink.Load(0, 1); got != 0 {
		t.Errorf("TextSink load = %#x, want 0", got)
	}
}

func TestHaltRegister(t *testing.T) {
	t.Parallel()

	h := NewHaltRegister()

	if h.Halted() {
		t.Fatal("halt register should start clear")
	}

	h.Store(0, 4, 1)

	if !h.Halted() {
		t.Error("halt register should be set after a nonzero store")
	}
}

func TestHaltRegisterHaltsOnZeroStore(t *testing.T) {
	t.Parallel()

	h := NewHaltRegister()
	h.Store(0, 4, 0)

	if !h.Halted() {
		t.Error("halt register should be set after any store, including a store of zero")
	}
}
