package main

import (
	"flag"
	"fmt"
	"os"

	"punchd/internal/di"
	"punchd/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "/etc/punchd/config.yaml", "path to the daemon config file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "log to console in addition to files")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "punchd: %s\n", err)
		os.Exit(1)
	}
}
