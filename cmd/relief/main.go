// relief - tactile relief generator
// Turn a grid of normalized heights into a printable STL or GLB solid.
//
// Usage:
//
//	relief generate heights.json           # writes heights_tactile.stl
//	relief generate -f glb heights.json    # writes heights_tactile.glb
//	relief validate heights_tactile.stl    # prints a YAML report
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
)

// version is set at build time.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(version)); err != nil {
		stop()
		os.Exit(1)
	}
}
