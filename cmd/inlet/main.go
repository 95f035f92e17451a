package main

import (
	"fmt"
	"os"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "serve":
		os.Exit(runServe(args))
	case "watch":
		os.Exit(runWatch(args))
	case "doctor":
		os.Exit(runDoctor(args))
	case "version":
		fmt.Printf("inlet version %s\n", version)
		os.Exit(0)
	case "help", "--help", "-h":
		printUsage()
		os.Exit(0)

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`inlet - HMAC-authenticated webhook ingestion endpoint

Usage:
  inlet <command> [flags]

Commands:
  serve     Start the ingestion server in foreground
  watch     Live terminal monitor of stats and recent messages
  doctor    Check environment and storage before serving
  version   Print version

Serve flags:
  -config FILE   Optional YAML config file
  -listen ADDR   Listen address (overrides LISTEN)
  -db PATH       SQLite database path (overrides DATABASE_URL)

Watch flags:
  -api URL       Base URL of a running inlet server (default http://127.0.0.1:8080)

Configuration (environment):
  WEBHOOK_SECRET   Shared HMAC-SHA256 secret (required for serve)
  DATABASE_URL     Storage location (default sqlite:///./data/inlet.db)
  LOG_LEVEL        DEBUG, INFO, WARN, ERROR (default INFO)
  LISTEN           Listen address (default :8080)
`)
}
