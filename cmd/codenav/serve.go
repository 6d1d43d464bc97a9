package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/codenav/codenav/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, cfg, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		server, err := mcp.NewServer(eng)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

		if cfg.Indexer.RescanInterval > 0 {
			go eng.RunBackgroundIndexer(ctx)
		}

		errChan := make(chan error, 1)
		go func() {
			log.Println("MCP server ready, listening on stdio...")
			errChan <- server.Serve(ctx)
		}()

		select {
		case sig := <-sigChan:
			log.Printf("received signal %v, shutting down...", sig)
			cancel()
			return nil
		case err := <-errChan:
			return err
		}
	},
}
