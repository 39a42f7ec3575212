package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/wattanit/wcm/cmd"
)

// Set with -ldflags "-X main.version=...".
var version = "0.1.0-dev"

func main() {
	root := cmd.NewRootCmd()

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
