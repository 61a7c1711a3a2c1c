package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-screener/internal/db"
	"github.com/jonathan/resume-screener/internal/observability"
	"github.com/jonathan/resume-screener/internal/skills"
)

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Inspect and manage the skill vocabulary",
}

var (
	vocabListFlags vocabFlags
	vocabListJSON  bool
	vocabImportIn  string
	vocabSource    string
)

var vocabListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the effective skill vocabulary",
	RunE:  runVocabList,
}

var vocabImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace the database vocabulary with a vocabulary JSON file",
	RunE:  runVocabImport,
}

func init() {
	vocabListCmd.Flags().StringVar(&vocabListFlags.path, "vocab", "", "Vocabulary JSON file")
	vocabListCmd.Flags().BoolVar(&vocabListFlags.database, "vocab-db", false, "Load the vocabulary from DATABASE_URL")
	vocabListCmd.Flags().BoolVar(&vocabListJSON, "json", false, "Print JSON")

	vocabImportCmd.Flags().StringVarP(&vocabImportIn, "file", "f", "", "Vocabulary JSON file (required)")
	vocabImportCmd.Flags().StringVar(&vocabSource, "source", "", "Source label stored with each phrase (defaults to the file name)")
	_ = vocabImportCmd.MarkFlagRequired("file")

	vocabCmd.AddCommand(vocabListCmd, vocabImportCmd)
	rootCmd.AddCommand(vocabCmd)
}

func runVocabList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(configPath)
	if err != nil {
		return err
	}

	vocab, closeVocab, err := loadVocabulary(cmd.Context(), cfg, vocabListFlags)
	if err != nil {
		return err
	}
	defer closeVocab()

	return listVocabulary(cmd.OutOrStdout(), vocab, vocabSourceName(vocabListFlags, cfg.VocabularyPath), vocabListJSON)
}

func listVocabulary(out io.Writer, vocab *skills.Vocabulary, source string, asJSON bool) error {
	if vocab == nil {
		vocab = skills.DefaultVocabulary()
	}
	if asJSON {
		return writeJSON(out, skills.File{Name: source, Skills: vocab.Phrases()})
	}
	observability.NewPrinter(out).PrintVocabulary(source, vocab.Phrases())
	return nil
}

func vocabSourceName(flags vocabFlags, configured string) string {
	switch {
	case flags.database:
		return "database"
	case flags.path != "":
		return flags.path
	case configured != "":
		return configured
	default:
		return "built-in"
	}
}

func runVocabImport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(configPath)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	data, err := os.ReadFile(vocabImportIn)
	if err != nil {
		return fmt.Errorf("failed to read vocabulary file: %w", err)
	}
	vocab, err := skills.ParseVocabulary(vocabImportIn, data)
	if err != nil {
		return err
	}

	source := vocabSource
	if source == "" {
		source = filepath.Base(vocabImportIn)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}
	n, err := database.ReplaceVocabulary(ctx, source, vocab.Phrases())
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d skills from %s\n", n, source)
	return nil
}
