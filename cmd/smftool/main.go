// smftool is a CLI utility for 4x4 Evolution SMF models and RAW textures.
package main

import (
	"fmt"
	"os"

	"github.com/Faultbox/evo-smf/internal/config"
	"github.com/Faultbox/evo-smf/internal/logger"
)

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	command := args[0]
	args = args[1:]

	switch command {
	case "info":
		cmdInfo(args)
	case "export":
		cmdExport(cfg, args)
	case "import":
		cmdImport(cfg, args)
	case "tex", "texture":
		cmdTex(cfg, args)
	case "dump":
		cmdDump(args)
	case "config":
		cmdConfig(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`smftool - 4x4 Evolution SMF model and texture utility

Usage:
  smftool [global options] <command> [options]

Commands:
  info   <file.smf>                  Show container header and objects
  export <scene.glb|gltf> <out.smf>  Write a glTF scene as SMF
  import <file.smf> <out.glb|gltf>   Convert SMF to glTF with textures
  tex    <file.RAW> [out.png]        Decode a RAW/ACT/OPA texture
  dump   <file.smf>                  Dump parsed records
  config [-save | -o FILE]           Show or save the effective config

Global options:
  -config FILE         Config file (default ./smftool.yaml)
  -debug               Debug logging
  -log-file FILE       Also log to a rotating file
  -v1                  Export v1 materials (.TIF + bump)
  -lod                 Set the LOD switching flag on export
  -switch-height N     LOD switch height written on export
  -art DIR             Texture directory for import (default <smf dir>/../ART)
  -format FMT          Texture output format: png, webp, tga

Examples:
  smftool info MODELS/truck.smf
  smftool -v1 export truck.glb MODELS/truck.smf
  smftool import MODELS/truck.smf truck.glb
  smftool -format webp tex ART/hull.RAW`)
}

func fatalf(format string, args ...interface{}) {
	logger.Sync()
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
