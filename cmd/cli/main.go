package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/amirasaad/ledgersync/infra/ingest"
	"github.com/amirasaad/ledgersync/infra/initializer"
	"github.com/amirasaad/ledgersync/pkg/app"
	"github.com/amirasaad/ledgersync/pkg/config"
	"github.com/amirasaad/ledgersync/pkg/decoder"
	"github.com/amirasaad/ledgersync/pkg/domain"
)

const usage = `Usage: cli <command> [arguments]
Commands:
  replay <block.json>   reconcile one block read from a file
  sweep                 retry unfinished compensations once
  cursor                print the last reconciled block`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		return
	}
	if err := run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(cmd string, args []string) error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}
	rt, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return err
	}
	defer rt.Close() //nolint:errcheck

	application, err := app.New(rt.Deps, cfg)
	if err != nil {
		return err
	}
	ctx := context.Background()

	switch cmd {
	case "replay":
		if len(args) != 1 {
			return fmt.Errorf("replay needs exactly one file")
		}
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var block decoder.Block
		if err := json.Unmarshal(raw, &block); err != nil {
			return fmt.Errorf("parse block: %w", err)
		}
		if err := application.Pump.ProcessBlock(ctx, block); err != nil {
			return err
		}
		fmt.Printf("block %d reconciled (%d events)\n", block.Number, len(block.Events))
	case "sweep":
		n, err := application.Sweeper.SweepOnce(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%d compensations completed\n", n)
	case "cursor":
		n, err := rt.Cursor.Get(ctx, ingest.Stream)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		fmt.Println(n)
	default:
		fmt.Println(usage)
	}
	return nil
}
