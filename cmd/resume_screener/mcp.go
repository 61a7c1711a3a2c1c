package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-screener/internal/mcptool"
)

var mcpVocab vocabFlags

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the analyzer as MCP tools over stdio",
	RunE:  runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpVocab.path, "vocab", "", "Vocabulary JSON file")
	mcpCmd.Flags().BoolVar(&mcpVocab.database, "vocab-db", false, "Load the vocabulary from DATABASE_URL")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(configPath)
	if err != nil {
		return err
	}

	vocab, closeVocab, err := loadVocabulary(cmd.Context(), cfg, mcpVocab)
	if err != nil {
		return err
	}
	defer closeVocab()

	analyzer, err := buildAnalyzer(vocab, cfg, "", nil)
	if err != nil {
		return err
	}

	tools := mcptool.New(analyzer, buildFetcher(cfg))
	return mcptool.ServeStdio(tools.Server(version))
}
