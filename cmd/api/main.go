// Package main is the entry point for the chat API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gencraft/chat-api/internal/config"
	"github.com/gencraft/chat-api/pkg/logger"
)

const serviceName = "gencraft-chat-api"

var envFile string

var rootCmd = &cobra.Command{
	Use:           "chatd",
	Short:         "GenCraft chat API",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger.
func setup() (*config.Config, *logger.Logger, error) {
	cfg := config.Load(envFile)

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return cfg, log, nil
}
