// Package loader reads an executable image off disk and produces the object code the simulator
// container stores into memory. It mirrors the reference project's object loader, generalized from
// a single fixed-origin LC-3 object format to two RV32I image formats: a flat binary and a
// hex-text, multi-region format.
package loader

import (
	"encoding/binary"
	"errors"
	"fmt"

	"rv32i/internal/core"
	"rv32i/internal/encoding"
)

// ErrImage is wrapped by every error this package returns describing a malformed image.
var ErrImage = errors.New("image error")

// Region is a contiguous run of words sharing a common origin address.
type Region struct {
	Orig core.Word
	Code []core.Word
}

// Image is the decoded contents of an executable: one or more regions of words plus the address
// execution should begin at.
type Image struct {
	Entry   core.Word
	Regions []Region
}

// StoreTo writes every region of the image into mem, word by word.
func (img Image) StoreTo(mem *core.MemoryMap) {
	for _, r := range img.Regions {
		addr := r.Orig
		for _, w := range r.Code {
			mem.Store(addr, 4, w)
			addr += 4
		}
	}
}

// Loader turns raw file bytes into an Image.
type Loader interface {
	Load(data []byte) (Image, error)
}

// Flat loads a file as one contiguous region of little-endian 32-bit words, originating at base.
// The entry point is base itself: a flat image has no header to say otherwise.
type Flat struct {
	Base core.Word
}

// NewFlatLoader creates a Flat loader whose image originates at base.
func NewFlatLoader(base core.Word) *Flat {
	return &Flat{Base: base}
}

func (f *Flat) Load(data []byte) (Image, error) {
	if len(data) == 0 {
		return Image{}, fmt.Errorf("%w: empty image", ErrImage)
	}

	if len(data)%4 != 0 {
		return Image{}, fmt.Errorf("%w: length %d is not a multiple of 4", ErrImage, len(data))
	}

	code := make([]core.Word, len(data)/4)
	for i := range code {
		code[i] = core.Word(binary.LittleEndian.Uint32(data[4*i : 4*i+4]))
	}

	return Image{
		Entry:   f.Base,
		Regions: []Region{{Orig: f.Base, Code: code}},
	}, nil
}

// Hex loads a hex-text image (internal/encoding.HexEncoding): one or more origin-tagged regions.
// The entry point is the lowest origin among the decoded regions.
type Hex struct{}

// NewHexLoader creates a Hex loader.
func NewHexLoader() *Hex {
	return &Hex{}
}

func (h *Hex) Load(data []byte) (Image, error) {
	var enc encoding.HexEncoding

	if err := enc.UnmarshalText(data); err != nil {
		return Image{}, fmt.Errorf("%w: %w", ErrImage, err)
	}

	img := Image{Regions: make([]Region, len(enc.Code))}
	entry := ^core.Word(0)

	for i, rec := range enc.Code {
		img.Regions[i] = Region{Orig: rec.Orig, Code: rec.Code}

		if rec.Orig < entry {
			entry = rec.Orig
		}
	}

	img.Entry = entry

	return img, nil
}
