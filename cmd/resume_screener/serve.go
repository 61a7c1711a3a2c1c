package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-screener/internal/metrics"
	"github.com/jonathan/resume-screener/internal/server"
)

var (
	servePort       int
	serveVocab      vocabFlags
	serveBatchLimit int
	serveNoFetch    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes endpoints for analyzing resumes against job descriptions.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveVocab.path, "vocab", "", "Vocabulary JSON file")
	serveCmd.Flags().BoolVar(&serveVocab.database, "vocab-db", false, "Load the vocabulary from DATABASE_URL")
	serveCmd.Flags().IntVar(&serveBatchLimit, "batch-limit", 0, "Concurrent analyses per batch request (0 uses the default)")
	serveCmd.Flags().BoolVar(&serveNoFetch, "no-fetch", false, "Reject job_url requests")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(configPath)
	if err != nil {
		return err
	}

	vocab, closeVocab, err := loadVocabulary(cmd.Context(), cfg, serveVocab)
	if err != nil {
		return err
	}
	defer closeVocab()

	m := metrics.New()
	analyzer, err := buildAnalyzer(vocab, cfg, "", m)
	if err != nil {
		return err
	}

	srvCfg := server.Config{
		Port:       servePort,
		Analyzer:   analyzer,
		Metrics:    m,
		BatchLimit: serveBatchLimit,
	}
	if !serveNoFetch {
		srvCfg.Fetcher = buildFetcher(cfg)
	}

	srv, err := server.New(srvCfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
