package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Faultbox/evo-smf/internal/config"
)

func cmdConfig(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	save := fs.Bool("save", false, "Write the effective config to the user config directory")
	output := fs.String("o", "", "Write the effective config to this file")
	fs.Parse(args)

	switch {
	case *output != "":
		if err := cfg.SaveTo(*output); err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("Config written to %s\n", *output)
	case *save:
		path, err := cfg.Save()
		if err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("Config written to %s\n", path)
	default:
		if err := cfg.Write(os.Stdout); err != nil {
			fatalf("%v", err)
		}
	}
}
