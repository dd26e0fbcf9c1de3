package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ocrtools/paddleocr-mcp/internal/config"
	"github.com/ocrtools/paddleocr-mcp/internal/server"
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
			fmt.Printf("paddleocr-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("paddleocr-mcp - MCP server for image OCR")
			fmt.Println()
			fmt.Println("Usage: paddleocr-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  OCR_MCP_LOG_LEVEL=debug        Enable debug logging")
			fmt.Println("  OCR_MCP_DEFAULT_LANGUAGE=ch    Default OCR language code")
			fmt.Println("  OCR_MCP_MAX_IMAGE_SIZE=1920    Max dimension before downscaling")
			fmt.Println("  OCR_MCP_JPEG_QUALITY=95        Preprocessed image JPEG quality")
			fmt.Println("  OCR_MCP_TESSDATA_PREFIX=       Tesseract training-data directory")
			fmt.Println("  OCR_MCP_SNAPSHOT=true          Also write a YAML snapshot file")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	if cfg.Debug() {
		log.Printf("%s v%s (built %s, commit %s)", cfg.ServerName, Version, BuildTime, GitCommit)
	}

	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
