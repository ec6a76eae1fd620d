// Package main provides the proposalgen CLI: the HTTP API server plus
// one-shot commands that write proposal documents locally.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "proposalgen",
	Short: "TalentCraft partnership proposal generator",
	Long:  "proposalgen researches a prospect company, writes a five-reason partnership proposal with a language model and renders it as a one-page Word document.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, nil))
}
