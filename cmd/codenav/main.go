package main

import (
	"log"
	"os"
)

func main() {
	// Logging goes to stderr; stdout carries reports and MCP protocol
	log.SetOutput(os.Stderr)

	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
