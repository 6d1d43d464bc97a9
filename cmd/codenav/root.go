package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codenav/codenav/internal/config"
	"github.com/codenav/codenav/internal/engine"
	"github.com/codenav/codenav/internal/store"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "codenav",
	Short: "Query-driven navigation assistant over code and documentation",
	Long: `codenav indexes code and documentation corpora with embeddings and
answers natural-language navigation questions with structured reports.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: ./codenav.yaml)")

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(feedbackCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// newEngine loads configuration and assembles the engine for one command
func newEngine() (*engine.Engine, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	eng, err := engine.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return eng, cfg, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("codenav\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Build Mode: %s\n", store.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", store.DriverName)
	},
}
