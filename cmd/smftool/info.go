package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/Faultbox/evo-smf/pkg/encoding"
	"github.com/Faultbox/evo-smf/pkg/formats"
)

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: smftool info <file.smf>")
		os.Exit(1)
	}

	model, err := formats.ParseSMFFile(fs.Arg(0))
	if err != nil {
		fatalf("%v", err)
	}

	lod := "off"
	if model.LODSwitch {
		lod = "on"
	}

	fmt.Printf("File:     %s\n", fs.Arg(0))
	fmt.Printf("Version:  %d\n", model.Version)
	fmt.Printf("Objects:  %d\n", len(model.Objects))
	if model.Version >= 4 {
		fmt.Printf("LOD:      %s (switch height %.2f)\n", lod, model.SwitchHeight)
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tName\tVisible\tVerts\tFaces\tFrames\tMaterial\tDiffuse\tBump\tFlags")
	for i, obj := range model.Objects {
		fmt.Fprintf(w, "%d\t%s\t%v\t%d\t%d\t%d\t%s\t%s\t%s\t%s\n",
			i,
			encoding.Windows1252ToUTF8(obj.Name),
			obj.Visible,
			len(obj.Vertices),
			len(obj.Faces),
			obj.FrameCount,
			obj.Dialect,
			textureLabel(obj.Material.Diffuse),
			textureLabel(obj.Material.Bump),
			materialFlags(obj.Material),
		)
	}
	w.Flush()
}

func textureLabel(name string) string {
	if name == "" {
		return "-"
	}
	return encoding.Windows1252ToUTF8(name)
}

func materialFlags(m formats.MaterialDescriptor) string {
	flags := ""
	if m.Reflective {
		flags += "R"
	}
	if m.Transparent {
		flags += "T"
	}
	if flags == "" {
		return "-"
	}
	return flags
}
