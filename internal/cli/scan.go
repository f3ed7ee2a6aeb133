package cli

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/bmgraphics/fleetops/internal/scan"
	"github.com/bmgraphics/fleetops/internal/server/config"
	"github.com/bmgraphics/fleetops/internal/vin"
)

// runScan replays captured frame images through the barcode session, exactly
// the pipeline the mobile capture path uses, and decodes the first valid VIN
// it finds.
func (a *App) runScan(ctx context.Context, args []string) error {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	dir := fs.String("dir", "", "directory of frame images (png/jpeg)")
	lookupURL := fs.String("n", cfg.VINLookupURL, "VIN lookup base URL")
	timeout := fs.Duration("timeout", 30*time.Second, "give up after this long")
	noDecode := fs.Bool("no-decode", false, "print the VIN without decoding attributes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" {
		return fmt.Errorf("-dir is required")
	}

	source := scan.NewDirFrameSource(*dir)

	var found string
	session := scan.NewSession(source, scan.DefaultInterval, func(v string) {
		found = v
	})

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	if err := session.Start(ctx); err != nil {
		return fmt.Errorf("scan start error: %w", err)
	}
	session.Wait()
	defer session.Stop()

	if found == "" {
		return fmt.Errorf("no VIN found in %d frames", session.Frames())
	}

	fmt.Fprintf(a.out, "VIN: %s\n", found)
	if *noDecode {
		return nil
	}

	decoder := vin.NewDecoder(*lookupURL, nil, cfg.VINLookupTimeout)
	attrs, err := decoder.Decode(ctx, found)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Year:  %s\n", attrs.Year)
	fmt.Fprintf(a.out, "Make:  %s\n", attrs.Make)
	fmt.Fprintf(a.out, "Model: %s\n", attrs.Model)
	if attrs.BodyClass != "" {
		fmt.Fprintf(a.out, "Body:  %s\n", attrs.BodyClass)
	}
	return nil
}
