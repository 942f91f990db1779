package config

import "flag"

var (
	flagConfig       = flag.String("config", "", "Path to config file")
	flagDebug        = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile      = flag.String("log-file", "", "Write logs to a rotating file")
	flagV1           = flag.Bool("v1", false, "Export v1 materials (.TIF textures with bump map)")
	flagLOD          = flag.Bool("lod", false, "Enable LOD switching in the exported header")
	flagSwitchHeight = flag.Float64("switch-height", 0, "LOD switch height")
	flagArt          = flag.String("art", "", "Texture directory for import")
	flagFormat       = flag.String("format", "", "Decoded texture format when the output has no extension (png, webp, tga)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via -config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagV1 {
		cfg.Export.V1Materials = true
	}
	if *flagLOD {
		cfg.Export.LODSwitching = true
	}
	if *flagSwitchHeight > 0 {
		cfg.Export.SwitchHeight = float32(*flagSwitchHeight)
	}
	if *flagArt != "" {
		cfg.Import.ArtDir = *flagArt
	}
	if *flagFormat != "" {
		cfg.Texture.Format = *flagFormat
	}
}
