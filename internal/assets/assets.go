// Package assets loads and caches the textures SMF materials reference.
package assets

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/evo-smf/pkg/formats"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// ErrTextureNotFound is returned when no search path holds the texture.
var ErrTextureNotFound = errors.New("texture not found")

// Texture is a decoded texture ready to be embedded or written out.
type Texture struct {
	Name     string // base name as referenced by the material
	Path     string // file it was loaded from
	Image    *image.NRGBA
	HasAlpha bool
	Warnings []error // recovered decode problems
}

// Manager resolves texture base names against an ordered list of
// directories. Earlier directories take priority. The search list is fixed
// at creation.
type Manager struct {
	searchPaths []string
	cache       *Cache
}

// NewManager creates a manager searching the given directories.
func NewManager(searchPaths ...string) *Manager {
	return &Manager{
		searchPaths: append([]string(nil), searchPaths...),
		cache:       NewCache(),
	}
}

// SearchPaths returns a copy of the search list.
func (m *Manager) SearchPaths() []string {
	return append([]string(nil), m.searchPaths...)
}

// Cache returns the manager's texture cache.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// Texture loads the texture a material of the given dialect references by
// base name: "<name>.RAW" with its palette for legacy materials, "<name>.TIF"
// for v1 materials.
func (m *Manager) Texture(name string, dialect formats.MaterialDialect) (*Texture, error) {
	ext := dialect.TextureExt()
	key := strings.ToLower(name + ext)

	if entry, ok := m.cache.Get(key); ok {
		return entry.Texture, entry.Err
	}

	tex, err := m.load(name, ext)
	entry := m.cache.Set(key, Entry{Texture: tex, Err: err})
	return entry.Texture, entry.Err
}

func (m *Manager) load(name, ext string) (*Texture, error) {
	path, ok := m.find(name, ext)
	if !ok {
		return nil, fmt.Errorf("%w: %s%s in %v", ErrTextureNotFound, name, ext, m.SearchPaths())
	}

	var (
		tex *Texture
		err error
	)
	if strings.EqualFold(ext, ".TIF") {
		tex, err = loadTIFF(path)
	} else {
		tex, err = loadRAW(path)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	tex.Name = name
	tex.Path = path
	return tex, nil
}

// find returns the first existing "<dir>/<name><ext>", trying the extension
// in upper and lower case.
func (m *Manager) find(name, ext string) (string, bool) {
	for _, dir := range m.SearchPaths() {
		for _, e := range []string{strings.ToUpper(ext), strings.ToLower(ext)} {
			candidate := filepath.Join(dir, name+e)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, true
			}
		}
	}
	return "", false
}

func loadRAW(path string) (*Texture, error) {
	img, err := formats.LoadPaletteImage(path)
	if err != nil {
		return nil, err
	}
	return &Texture{Image: img.NRGBA(), HasAlpha: img.HasAlpha, Warnings: img.Warnings}, nil
}

func loadTIFF(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, err := tiff.Decode(f)
	if err != nil {
		return nil, err
	}
	img := toNRGBA(src)
	return &Texture{Image: img, HasAlpha: !img.Opaque()}, nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
