package main

import (
	"fmt"
	"os"

	"github.com/nbilal/homepin/internal/config"
	"github.com/nbilal/homepin/internal/engine/storage"
	"github.com/nbilal/homepin/internal/logger"
	"github.com/nbilal/homepin/internal/tui"
)

var version = "dev"

func main() {
	if len(os.Args) > 1 && os.Args[0] != "" {
		switch os.Args[1] {
		case "submit":
			if err := runSubmit(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
			return
		case "export":
			if err := runExport(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
			return
		case "version":
			fmt.Println("homepin " + version)
			return
		case "help", "--help", "-h":
			printUsage()
			return
		}
	}

	// No subcommand → launch TUI
	cfg := config.Load()
	log := logger.New(cfg)
	defer log.Sync()

	store, err := storage.NewStore(cfg.DBPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: opening listings store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := tui.Run(cfg, log, store); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `homepin - real-estate listings in your terminal

Usage:
  homepin                 Launch interactive TUI
  homepin submit [flags]  Submit a listing headlessly
  homepin export [flags]  Export local listings to CSV
  homepin version         Show version

Run 'homepin submit --help' or 'homepin export --help' for flags.
`)
}
