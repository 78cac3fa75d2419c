package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/drawing-extract/internal/config"
	"github.com/ironsheep/drawing-extract/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("dwg-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("dwg-mcp - MCP server for inspecting drawing extraction")
			fmt.Println()
			fmt.Println("Usage: dwg-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  DWG_EXTRACT_LOG_LEVEL=debug    Log level (debug, info, warn, error)")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			return
		}
	}

	// stdout is reserved for the MCP protocol
	log := config.NewLogger(os.Stderr)
	log.WithFields(logrus.Fields{
		"version": Version,
		"built":   BuildTime,
		"commit":  GitCommit,
	}).Debug("dwg-mcp starting")

	server.Version = Version
	srv := server.New(log)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
