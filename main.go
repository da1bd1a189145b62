package main

import (
	"fmt"
	"os"

	"github.com/mrlokans/gong/internal/cli"
	"github.com/mrlokans/gong/internal/config"
	"github.com/mrlokans/gong/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

type command interface {
	ParseFlags(args []string) error
	Run() error
}

func main() {
	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	name := os.Args[1]
	args := os.Args[2:]

	var cmd command
	switch name {
	case "migrate":
		cmd = cli.NewMigrateCommand()
	case "backup-export":
		cmd = cli.NewBackupExportCommand()
	case "backup-import":
		cmd = cli.NewBackupImportCommand()
	case "summary":
		cmd = cli.NewSummaryCommand()
	case "notes-export":
		cmd = cli.NewNotesExportCommand()
	case "version":
		fmt.Printf("gong %s (%s)\n", Version, Commit)
		return
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}

	if err := cmd.ParseFlags(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve           Start the HTTP server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  migrate         Create the database and apply pending migrations\n")
	fmt.Fprintf(os.Stderr, "  backup-export   Write a JSON snapshot of the store\n")
	fmt.Fprintf(os.Stderr, "  backup-import   Replace the store with a JSON snapshot\n")
	fmt.Fprintf(os.Stderr, "  summary         Print the reading log for a month\n")
	fmt.Fprintf(os.Stderr, "  notes-export    Write one markdown file per book\n")
	fmt.Fprintf(os.Stderr, "  version         Print the build version\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
