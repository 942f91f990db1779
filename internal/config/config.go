// Package config handles smftool configuration loading and management.
package config

// Config holds all smftool settings.
type Config struct {
	Export  ExportConfig  `yaml:"export"`
	Import  ImportConfig  `yaml:"import"`
	Texture TextureConfig `yaml:"texture"`
	Logging LoggingConfig `yaml:"logging"`
}

// ExportConfig holds settings for writing SMF containers.
type ExportConfig struct {
	V1Materials   bool    `yaml:"v1_materials"`   // write the v1 (.TIF + bump) material block
	LODSwitching  bool    `yaml:"lod_switching"`  // written to the container header only
	SwitchHeight  float32 `yaml:"switch_height"`  // LOD switch height
	SkipTransform bool    `yaml:"skip_transform"` // keep host coordinates
}

// ImportConfig holds settings for reading SMF containers into glTF.
type ImportConfig struct {
	ArtDir string `yaml:"art_dir"` // texture directory; empty means <smf dir>/../ART
	Binary bool   `yaml:"binary"`  // write .glb instead of .gltf when the output has no extension
}

// TextureConfig holds settings for decoded texture output.
type TextureConfig struct {
	Format string `yaml:"format"` // png, webp or tga
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			SwitchHeight: 50,
		},
		Import: ImportConfig{
			Binary: true,
		},
		Texture: TextureConfig{
			Format: "png",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
