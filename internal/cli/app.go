package cli

import (
	"context"
	"fmt"
	"io"
)

// App dispatches fleetctl subcommands.
type App struct {
	out io.Writer
}

func NewApp(out io.Writer) *App {
	return &App{out: out}
}

const usage = `usage: fleetctl <command> [flags]

commands:
  create-user   provision a user (prompts for a password)
  scan          run a barcode scan session over a directory of frame images
  export        write the XLSX report of unexported vehicles
`

// Run executes the subcommand named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return fmt.Errorf("missing command")
	}

	switch args[0] {
	case "create-user":
		return a.runCreateUser(ctx, args[1:])
	case "scan":
		return a.runScan(ctx, args[1:])
	case "export":
		return a.runExport(ctx, args[1:])
	default:
		fmt.Fprint(a.out, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}
