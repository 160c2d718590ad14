package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/de-tools/relief-atlas/pkg/runtime/terminal"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	defaultConfig := os.Getenv("RELIEF_CONFIG")
	if defaultConfig == "" {
		if home, err := os.UserHomeDir(); err == nil {
			defaultConfig = filepath.Join(home, ".reliefcfg")
		}
	}

	cli := terminal.NewCLI(terminal.Options{
		DefaultConfigPath: defaultConfig,
		Output:            os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
