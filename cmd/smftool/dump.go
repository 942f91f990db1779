package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"

	"github.com/Faultbox/evo-smf/pkg/formats"
)

var spewConfig = func() *spew.ConfigState {
	c := spew.NewDefaultConfig()
	c.DisableCapacities = true
	c.DisablePointerAddresses = true
	return c
}()

func cmdDump(args []string) {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	limit := fs.Int("n", 8, "Vertices and faces shown per object (0 = all)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: smftool dump [-n N] <file.smf>")
		os.Exit(1)
	}

	model, err := formats.ParseSMFFile(fs.Arg(0))
	if err != nil {
		fatalf("%v", err)
	}
	spewConfig.Fdump(os.Stdout, truncateModel(model, *limit))
}

// truncateModel returns a copy of model keeping at most limit vertices and
// faces per object.
func truncateModel(model *formats.SMFModel, limit int) *formats.SMFModel {
	if limit <= 0 {
		return model
	}
	out := *model
	out.Objects = make([]*formats.SMFObject, len(model.Objects))
	for i, obj := range model.Objects {
		o := *obj
		if len(o.Vertices) > limit {
			o.Vertices = o.Vertices[:limit]
		}
		if len(o.Faces) > limit {
			o.Faces = o.Faces[:limit]
		}
		out.Objects[i] = &o
	}
	return &out
}
