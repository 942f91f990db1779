package formats

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	gomath "math"
	"os"
	"path/filepath"
	"strings"
)

// RAW texture errors.
var (
	ErrAmbiguousDimensions = errors.New("cannot determine RAW image size")
	ErrMissingPalette      = errors.New("missing ACT palette")
	ErrPaletteIndexRange   = errors.New("palette index out of range")
	// ErrDiscardedOpacity is a warning: the OPA buffer was ignored.
	ErrDiscardedOpacity = errors.New("opacity data size mismatch, discarded")
)

// ACTPaletteSize is the size of a full 256-color RGB palette.
const ACTPaletteSize = 256 * 3

// PaletteImage is a decoded RAW texture. Pixels are RGBA in [0,1], row-major,
// top row first.
type PaletteImage struct {
	Size     int // width and height
	Pix      []float32
	HasAlpha bool    // an OPA buffer was applied
	Warnings []error // recovered problems, such as ErrDiscardedOpacity
}

// At returns the RGBA value of pixel (x, y).
func (p *PaletteImage) At(x, y int) [4]float32 {
	i := (y*p.Size + x) * 4
	return [4]float32{p.Pix[i], p.Pix[i+1], p.Pix[i+2], p.Pix[i+3]}
}

// NRGBA converts the image to 8-bit non-premultiplied RGBA.
func (p *PaletteImage) NRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.Size, p.Size))
	for y := 0; y < p.Size; y++ {
		for x := 0; x < p.Size; x++ {
			c := p.At(x, y)
			img.SetNRGBA(x, y, color.NRGBA{
				R: unitToByte(c[0]),
				G: unitToByte(c[1]),
				B: unitToByte(c[2]),
				A: unitToByte(c[3]),
			})
		}
	}
	return img
}

func unitToByte(f float32) uint8 {
	return uint8(gomath.Round(float64(f) * 255))
}

// squareSide returns floor(sqrt(n)).
func squareSide(n int) int {
	s := int(gomath.Sqrt(float64(n)))
	for s*s > n {
		s--
	}
	for (s+1)*(s+1) <= n {
		s++
	}
	return s
}

// DecodePaletteImage decodes a RAW index buffer with its ACT palette and an
// optional OPA opacity buffer.
//
// RAW rows are stored bottom-up, so output row y takes its palette indices from
// row size-y-1. Opacity is sampled from the unflipped row y.
func DecodePaletteImage(index, palette, opacity []byte) (*PaletteImage, error) {
	if len(index)%2 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrAmbiguousDimensions, len(index))
	}
	if palette == nil {
		return nil, ErrMissingPalette
	}

	img := &PaletteImage{Size: squareSide(len(index))}
	if opacity != nil && len(opacity) != len(index) {
		img.Warnings = append(img.Warnings,
			fmt.Errorf("%w: %d opacity bytes, %d index bytes", ErrDiscardedOpacity, len(opacity), len(index)))
		opacity = nil
	}
	img.HasAlpha = opacity != nil

	size := img.Size
	img.Pix = make([]float32, size*size*4)
	for y := 0; y < size; y++ {
		flippedY := size - y - 1
		for x := 0; x < size; x++ {
			ci := int(index[flippedY*size+x]) * 3
			if ci+3 > len(palette) {
				return nil, fmt.Errorf("%w: index %d, palette has %d colors", ErrPaletteIndexRange, ci/3, len(palette)/3)
			}

			alpha := float32(1)
			if opacity != nil {
				alpha = float32(opacity[y*size+x]) / 255
			}

			o := (y*size + x) * 4
			img.Pix[o] = float32(palette[ci]) / 255
			img.Pix[o+1] = float32(palette[ci+1]) / 255
			img.Pix[o+2] = float32(palette[ci+2]) / 255
			img.Pix[o+3] = alpha
		}
	}

	return img, nil
}

// LoadPaletteImage reads a .RAW file and its sibling .ACT and optional .OPA.
func LoadPaletteImage(rawPath string) (*PaletteImage, error) {
	index, err := os.ReadFile(rawPath)
	if err != nil {
		return nil, fmt.Errorf("reading RAW file: %w", err)
	}

	actPath, ok := siblingFile(rawPath, ".ACT")
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingPalette, rawPath)
	}
	palette, err := os.ReadFile(actPath)
	if err != nil {
		return nil, fmt.Errorf("reading ACT file: %w", err)
	}

	var opacity []byte
	if opaPath, ok := siblingFile(rawPath, ".OPA"); ok {
		if opacity, err = os.ReadFile(opaPath); err != nil {
			return nil, fmt.Errorf("reading OPA file: %w", err)
		}
	}

	return DecodePaletteImage(index, palette, opacity)
}

// siblingFile finds path with its extension replaced by ext, trying the
// upper-case spelling first and then the lower-case one.
func siblingFile(path, ext string) (string, bool) {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	for _, candidate := range []string{base + strings.ToUpper(ext), base + strings.ToLower(ext)} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}
	return "", false
}
