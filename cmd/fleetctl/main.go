package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bmgraphics/fleetops/internal/cli"
)

func main() {
	app := cli.NewApp(os.Stdout)
	if err := app.Run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "fleetctl: %v\n", err)
		os.Exit(1)
	}
}
