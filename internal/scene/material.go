package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/evo-smf/internal/assets"
	"github.com/Faultbox/evo-smf/pkg/encoding"
	"github.com/Faultbox/evo-smf/pkg/formats"
)

// Materials with a metallic factor above this are exported as reflective.
const reflectiveThreshold = 0.01

// Metallic factor given to reflective materials on import.
const reflectiveMetallic = 0.1

// ExtractParameters reads the SMF material parameters of a glTF material.
// A nil index yields the zero descriptor.
//
// Texture names come from the image behind the base color and normal
// textures, with the file extension removed. When a texture is absent the
// "diffuse" and "bump" material extras written on import are used instead.
func ExtractParameters(doc *gltf.Document, material *uint32) formats.MaterialDescriptor {
	var desc formats.MaterialDescriptor
	if material == nil || int(*material) >= len(doc.Materials) {
		return desc
	}
	m := doc.Materials[*material]
	extras := extrasMap(m.Extras)

	metallic := float32(1)
	if pbr := m.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorTexture != nil {
			desc.Diffuse = textureName(doc, pbr.BaseColorTexture.Index)
		}
		if pbr.MetallicFactor != nil {
			metallic = *pbr.MetallicFactor
		}
	}
	if m.NormalTexture != nil && m.NormalTexture.Index != nil {
		desc.Bump = textureName(doc, *m.NormalTexture.Index)
	}

	if desc.Diffuse == "" {
		desc.Diffuse = extraName(extras, "diffuse")
	}
	if desc.Bump == "" {
		desc.Bump = extraName(extras, "bump")
	}

	desc.Reflective = metallic > reflectiveThreshold
	desc.Transparent = m.AlphaMode != gltf.AlphaOpaque
	return desc
}

func textureName(doc *gltf.Document, texture uint32) string {
	if int(texture) >= len(doc.Textures) {
		return ""
	}
	src := doc.Textures[texture].Source
	if src == nil || int(*src) >= len(doc.Images) {
		return ""
	}
	img := doc.Images[*src]

	name := img.Name
	if img.URI != "" && !strings.HasPrefix(img.URI, "data:") {
		name = path.Base(filepath.ToSlash(img.URI))
	}
	name = strings.TrimSuffix(name, path.Ext(name))
	return encoding.SanitizeName(encoding.UTF8ToWindows1252(name))
}

func extrasMap(extras interface{}) map[string]interface{} {
	switch e := extras.(type) {
	case map[string]interface{}:
		return e
	case json.RawMessage:
		var m map[string]interface{}
		if json.Unmarshal(e, &m) == nil {
			return m
		}
	}
	return nil
}

func extraName(extras map[string]interface{}, key string) string {
	s, _ := extras[key].(string)
	return encoding.SanitizeName(encoding.UTF8ToWindows1252(s))
}

// MaterialCache creates glTF materials for SMF material descriptors and
// reuses any material, existing or created, whose extracted parameters match
// a descriptor exactly. Textures are loaded through one asset manager per
// search path and embedded as PNG images.
type MaterialCache struct {
	doc      *gltf.Document
	log      *zap.Logger
	byDesc   map[formats.MaterialDescriptor]uint32
	managers map[string]*assets.Manager
	textures map[string]uint32 // search path + file name -> glTF texture
}

// NewMaterialCache indexes the materials already present in doc.
func NewMaterialCache(doc *gltf.Document, log *zap.Logger) *MaterialCache {
	c := &MaterialCache{
		doc:      doc,
		log:      componentLogger(log),
		byDesc:   make(map[formats.MaterialDescriptor]uint32),
		managers: make(map[string]*assets.Manager),
		textures: make(map[string]uint32),
	}
	for i := range doc.Materials {
		idx := uint32(i)
		desc := ExtractParameters(doc, &idx)
		if _, ok := c.byDesc[desc]; !ok {
			c.byDesc[desc] = idx
		}
	}
	return c
}

// Len returns the number of distinct descriptors known to the cache.
func (c *MaterialCache) Len() int {
	return len(c.byDesc)
}

// FindOrCreate returns the material for desc, creating it when no material
// with the same parameters exists. Texture files are looked up in searchPath
// with the extension the dialect uses. A texture that cannot be loaded is
// logged and left off the material.
func (c *MaterialCache) FindOrCreate(desc formats.MaterialDescriptor, dialect formats.MaterialDialect, searchPath string) (uint32, error) {
	if idx, ok := c.byDesc[desc]; ok {
		c.log.Debug("reusing material", zap.String("diffuse", desc.Diffuse), zap.Uint32("material", idx))
		return idx, nil
	}

	diffuse, err := c.texture(desc.Diffuse, dialect, searchPath)
	if err != nil {
		return 0, err
	}
	bump, err := c.texture(desc.Bump, dialect, searchPath)
	if err != nil {
		return 0, err
	}

	metallic := float32(0)
	if desc.Reflective {
		metallic = reflectiveMetallic
	}
	roughness := float32(0)

	name := encoding.Windows1252ToUTF8(desc.Diffuse)
	if name == "" {
		name = fmt.Sprintf("material_%d", len(c.doc.Materials))
	}

	extras := map[string]interface{}{"dialect": dialect.String()}
	if desc.Diffuse != "" {
		extras["diffuse"] = encoding.Windows1252ToUTF8(desc.Diffuse)
	}
	if desc.Bump != "" {
		extras["bump"] = encoding.Windows1252ToUTF8(desc.Bump)
	}

	mat := &gltf.Material{
		Name: name,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float32{1, 1, 1, 1},
			MetallicFactor:  &metallic,
			RoughnessFactor: &roughness,
		},
		DoubleSided: false,
		Extras:      extras,
	}
	if diffuse != nil {
		mat.PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{Index: *diffuse}
	}
	if bump != nil {
		mat.NormalTexture = &gltf.NormalTexture{Index: gltf.Index(*bump)}
	}
	if desc.Transparent {
		mat.AlphaMode = gltf.AlphaBlend
	}

	idx := uint32(len(c.doc.Materials))
	c.doc.Materials = append(c.doc.Materials, mat)
	c.byDesc[desc] = idx

	c.log.Debug("created material",
		zap.String("name", name),
		zap.Bool("reflective", desc.Reflective),
		zap.Bool("transparent", desc.Transparent),
		zap.Stringer("dialect", dialect))
	return idx, nil
}

// TextureStats sums the texture lookups of every search path used so far:
// distinct files looked up, and cache hits and misses.
func (c *MaterialCache) TextureStats() (files, hits, misses int) {
	for _, m := range c.managers {
		h, ms := m.Cache().Stats()
		files += m.Cache().Len()
		hits += h
		misses += ms
	}
	return files, hits, misses
}

func (c *MaterialCache) manager(searchPath string) *assets.Manager {
	m, ok := c.managers[searchPath]
	if !ok {
		m = assets.NewManager(searchPath)
		c.managers[searchPath] = m
	}
	return m
}

// texture returns the glTF texture for an SMF texture base name, embedding
// the image on first use. It returns nil when name is empty or the file could
// not be loaded.
func (c *MaterialCache) texture(name string, dialect formats.MaterialDialect, searchPath string) (*uint32, error) {
	if name == "" {
		return nil, nil
	}
	file := name + dialect.TextureExt()
	key := searchPath + "\x00" + strings.ToLower(file)
	if idx, ok := c.textures[key]; ok {
		return gltf.Index(idx), nil
	}

	tex, err := c.manager(searchPath).Texture(name, dialect)
	if err != nil {
		c.log.Warn("texture not loaded", zap.String("texture", file), zap.Error(err))
		return nil, nil
	}
	for _, w := range tex.Warnings {
		c.log.Warn("texture loaded with warnings", zap.String("texture", file), zap.Error(w))
	}

	var buf bytes.Buffer
	if err := assets.EncodeImage(&buf, tex.Image, assets.FormatPNG); err != nil {
		return nil, errors.Wrapf(err, "failed to encode texture %q", file)
	}
	imageName := encoding.Windows1252ToUTF8(name) + ".png"
	img, err := modeler.WriteImage(c.doc, imageName, assets.MIMEType(assets.FormatPNG), &buf)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to write gltf image %q", imageName)
	}

	idx := uint32(len(c.doc.Textures))
	c.doc.Textures = append(c.doc.Textures, &gltf.Texture{
		Name:   encoding.Windows1252ToUTF8(name),
		Source: gltf.Index(img),
	})
	c.textures[key] = idx
	return gltf.Index(idx), nil
}
