package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/funvibe/dynconv/internal/config"
)

// Options are the dynconv commands.
type Options struct {
	Run     *RunCommand     `command:"run" description:"bind every call of a scenario and check the expectations"`
	Version *VersionCommand `command:"version" description:"print the version"`
}

type VersionCommand struct{}

func (c *VersionCommand) Execute(_ []string) error {
	fmt.Printf("dynconv version %s\n", config.Version)
	return nil
}

func main() {
	parser := flags.NewParser(&Options{}, flags.Default)
	// flags.Default prints parse and command errors itself.
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
