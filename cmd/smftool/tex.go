package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/evo-smf/internal/assets"
	"github.com/Faultbox/evo-smf/internal/config"
	"github.com/Faultbox/evo-smf/internal/logger"
	"github.com/Faultbox/evo-smf/pkg/formats"
)

func cmdTex(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("tex", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: smftool tex <file.RAW> [out.png|webp|tga]")
		os.Exit(1)
	}
	log := logger.Named("tex")

	input := fs.Arg(0)
	output := texOutputPath(input, cfg.Texture.Format)
	if fs.NArg() > 1 {
		output = fs.Arg(1)
	}

	img, err := formats.LoadPaletteImage(input)
	if err != nil {
		fatalf("%v", err)
	}
	for _, w := range img.Warnings {
		log.Warn("texture decoded with warnings", zap.String("texture", input), zap.Error(w))
	}

	format := assets.FormatFromPath(output, cfg.Texture.Format)
	if err := assets.SaveImage(output, img.NRGBA(), format); err != nil {
		fatalf("%v", err)
	}
	fmt.Printf("Decoded %s (%dx%d, alpha %v) to %s\n", input, img.Size, img.Size, img.HasAlpha, output)
}

// texOutputPath replaces the RAW extension with the output format's.
func texOutputPath(input, format string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + strings.ToLower(format)
}
