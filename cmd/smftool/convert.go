package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/evo-smf/internal/config"
	"github.com/Faultbox/evo-smf/internal/logger"
	"github.com/Faultbox/evo-smf/internal/scene"
	"github.com/Faultbox/evo-smf/pkg/formats"
)

func cmdExport(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	rawCoords := fs.Bool("raw-coords", false, "Write glTF coordinates without the SMF axis conversion")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: smftool export [-raw-coords] <scene.glb|gltf> <out.smf>")
		os.Exit(1)
	}
	log := logger.Named("export")

	doc, err := scene.Load(fs.Arg(0))
	if err != nil {
		fatalf("%v", err)
	}

	dialect := formats.DialectLegacy
	if cfg.Export.V1Materials {
		dialect = formats.DialectV1
	}
	opts := scene.ExportOptions{
		Encode: formats.EncodeOptions{
			Dialect:       dialect,
			SkipTransform: cfg.Export.SkipTransform || *rawCoords,
			LODSwitch:     cfg.Export.LODSwitching,
			SwitchHeight:  cfg.Export.SwitchHeight,
		},
		Log: log,
	}

	res, err := scene.ExportFile(doc, fs.Arg(1), opts)
	if err != nil {
		fatalf("%v", err)
	}
	fmt.Printf("Exported %d objects (%d triangles) to %s in %.4f sec\n",
		res.Objects, res.Triangles, fs.Arg(1), res.Elapsed.Seconds())
}

func cmdImport(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	rawCoords := fs.Bool("raw-coords", false, "Keep SMF coordinates without the axis conversion")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: smftool import [-raw-coords] <file.smf> <out.glb|gltf>")
		os.Exit(1)
	}
	log := logger.Named("import")

	opts := scene.ImportOptions{
		ArtDir: cfg.Import.ArtDir,
		Decode: formats.DecodeOptions{SkipTransform: *rawCoords},
		Log:    log,
	}
	doc, res, importErr := scene.ImportFile(fs.Arg(0), opts)
	if doc == nil {
		fatalf("%v", importErr)
	}
	if importErr != nil {
		// Objects read before the error are still written.
		log.Error("import stopped early", zap.Error(importErr), zap.Int("objects", res.Objects))
	}

	if err := scene.Save(doc, fs.Arg(1), cfg.Import.Binary); err != nil {
		fatalf("%v", err)
	}
	fmt.Printf("Imported %d objects (%d -> %d vertices, %d faces skipped, %d materials, %d textures) to %s\n",
		res.Objects, res.SourceVerts, res.WeldedVerts, res.SkippedFaces, res.Materials, res.Textures, fs.Arg(1))

	if importErr != nil {
		os.Exit(1)
	}
}
