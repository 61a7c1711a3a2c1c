// Package main provides the resume_screener CLI: one-off analysis, the HTTP
// API, the queue worker and the MCP tool server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:     "resume_screener",
	Short:   "ATS-style resume screener",
	Long:    "Resume Screener scores resumes against job descriptions by skill coverage and years of experience, and suggests resume bullets for the gaps.",
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
