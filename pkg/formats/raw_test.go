package formats

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// rgbwPalette maps index 0..3 to red, green, blue, white.
var rgbwPalette = []byte{
	255, 0, 0,
	0, 255, 0,
	0, 0, 255,
	255, 255, 255,
}

func TestDecodePaletteImage(t *testing.T) {
	img, err := DecodePaletteImage([]byte{0, 1, 2, 3}, rgbwPalette, nil)
	if err != nil {
		t.Fatalf("DecodePaletteImage: %v", err)
	}
	if img.Size != 2 {
		t.Fatalf("expected size 2, got %d", img.Size)
	}
	if img.HasAlpha {
		t.Error("expected no alpha without an opacity buffer")
	}

	tests := []struct {
		x, y int
		want [4]float32
	}{
		{0, 0, [4]float32{0, 0, 1, 1}}, // blue
		{1, 0, [4]float32{1, 1, 1, 1}}, // white
		{0, 1, [4]float32{1, 0, 0, 1}}, // red
		{1, 1, [4]float32{0, 1, 0, 1}}, // green
	}
	for _, tt := range tests {
		if got := img.At(tt.x, tt.y); got != tt.want {
			t.Errorf("At(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestDecodePaletteImageOpacityRows(t *testing.T) {
	// Opacity is not flipped: row 0 of the OPA buffer lands on output row 0.
	opacity := []byte{0, 51, 255, 255}
	img, err := DecodePaletteImage([]byte{0, 1, 2, 3}, rgbwPalette, opacity)
	if err != nil {
		t.Fatalf("DecodePaletteImage: %v", err)
	}
	if !img.HasAlpha {
		t.Error("expected HasAlpha")
	}
	if len(img.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", img.Warnings)
	}

	wantAlpha := map[[2]int]float32{
		{0, 0}: 0,
		{1, 0}: 0.2,
		{0, 1}: 1,
		{1, 1}: 1,
	}
	for pos, want := range wantAlpha {
		if got := img.At(pos[0], pos[1])[3]; got != want {
			t.Errorf("alpha at %v = %f, want %f", pos, got, want)
		}
	}
}

func TestDecodePaletteImageDiscardsMismatchedOpacity(t *testing.T) {
	img, err := DecodePaletteImage([]byte{0, 1, 2, 3}, rgbwPalette, []byte{0, 0})
	if err != nil {
		t.Fatalf("DecodePaletteImage: %v", err)
	}
	if img.HasAlpha {
		t.Error("mismatched opacity should be discarded")
	}
	if len(img.Warnings) != 1 || !errors.Is(img.Warnings[0], ErrDiscardedOpacity) {
		t.Fatalf("expected one ErrDiscardedOpacity warning, got %v", img.Warnings)
	}
	if a := img.At(0, 0)[3]; a != 1 {
		t.Errorf("alpha = %f, want 1", a)
	}
}

func TestDecodePaletteImageErrors(t *testing.T) {
	tests := []struct {
		name    string
		index   []byte
		palette []byte
		want    error
	}{
		{"odd length", []byte{0, 1, 2}, rgbwPalette, ErrAmbiguousDimensions},
		{"missing palette", []byte{0, 1, 2, 3}, nil, ErrMissingPalette},
		{"index past palette", []byte{0, 1, 2, 4}, rgbwPalette, ErrPaletteIndexRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePaletteImage(tt.index, tt.palette, nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDecodePaletteImageNonSquare(t *testing.T) {
	// 6 bytes: side is floor(sqrt(6)) = 2, trailing bytes are ignored.
	img, err := DecodePaletteImage([]byte{0, 1, 2, 3, 3, 3}, rgbwPalette, nil)
	if err != nil {
		t.Fatalf("DecodePaletteImage: %v", err)
	}
	if img.Size != 2 {
		t.Errorf("expected size 2, got %d", img.Size)
	}
}

func TestSquareSide(t *testing.T) {
	tests := []struct{ n, want int }{
		{0, 0}, {4, 2}, {8, 2}, {16, 4}, {65536, 256}, {65534, 255},
	}
	for _, tt := range tests {
		if got := squareSide(tt.n); got != tt.want {
			t.Errorf("squareSide(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestPaletteImageNRGBA(t *testing.T) {
	img, err := DecodePaletteImage([]byte{0, 1, 2, 3}, rgbwPalette, []byte{0, 51, 255, 255})
	if err != nil {
		t.Fatalf("DecodePaletteImage: %v", err)
	}
	nrgba := img.NRGBA()
	if b := nrgba.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Fatalf("bounds = %v", b)
	}
	c := nrgba.NRGBAAt(1, 0)
	if c.R != 255 || c.G != 255 || c.B != 255 || c.A != 51 {
		t.Errorf("pixel (1,0) = %+v, want white with alpha 51", c)
	}
	c = nrgba.NRGBAAt(0, 1)
	if c.R != 255 || c.G != 0 || c.B != 0 || c.A != 255 {
		t.Errorf("pixel (0,1) = %+v, want opaque red", c)
	}
}

func TestLoadPaletteImage(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, data []byte) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			t.Fatal(err)
		}
	}

	write("hull.RAW", []byte{0, 1, 2, 3})
	rawPath := filepath.Join(dir, "hull.RAW")

	if _, err := LoadPaletteImage(rawPath); !errors.Is(err, ErrMissingPalette) {
		t.Fatalf("expected ErrMissingPalette, got %v", err)
	}

	// Lower-case siblings are found when the upper-case ones are missing.
	write("hull.act", rgbwPalette)
	write("hull.opa", []byte{255, 255, 0, 0})

	img, err := LoadPaletteImage(rawPath)
	if err != nil {
		t.Fatalf("LoadPaletteImage: %v", err)
	}
	if !img.HasAlpha {
		t.Error("expected opacity from hull.opa")
	}
	if got := img.At(0, 0); got != [4]float32{0, 0, 1, 1} {
		t.Errorf("At(0, 0) = %v, want opaque blue", got)
	}

	if _, err := LoadPaletteImage(filepath.Join(dir, "missing.RAW")); err == nil {
		t.Error("expected error for missing RAW file")
	}
}
