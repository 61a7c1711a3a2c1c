package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-screener/internal/config"
	"github.com/jonathan/resume-screener/internal/metrics"
	"github.com/jonathan/resume-screener/internal/queue"
	"github.com/jonathan/resume-screener/internal/storage"
)

var (
	workerVocab       vocabFlags
	workerConcurrency int
	workerMetricsPort int
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume analysis requests from RabbitMQ",
	Long: `Consume analysis requests from the request queue, download referenced resumes
from object storage, and publish reports to the reply queue.`,
	RunE: runWorker,
}

func init() {
	workerCmd.Flags().StringVar(&workerVocab.path, "vocab", "", "Vocabulary JSON file")
	workerCmd.Flags().BoolVar(&workerVocab.database, "vocab-db", false, "Load the vocabulary from DATABASE_URL")
	workerCmd.Flags().IntVar(&workerConcurrency, "concurrency", 0, "Number of consumers (overrides WORKER_CONCURRENCY)")
	workerCmd.Flags().IntVar(&workerMetricsPort, "metrics-port", 0, "Serve /metrics on this port (0 disables)")
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(configPath)
	if err != nil {
		return err
	}
	if cfg.AMQPURL == "" {
		return fmt.Errorf("AMQP_URL environment variable is required")
	}
	if workerConcurrency > 0 {
		cfg.WorkerConcurrency = workerConcurrency
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	vocab, closeVocab, err := loadVocabulary(ctx, cfg, workerVocab)
	if err != nil {
		return err
	}
	defer closeVocab()

	m := metrics.New()
	analyzer, err := buildAnalyzer(vocab, cfg, "", m)
	if err != nil {
		return err
	}

	var store queue.Downloader
	if cfg.S3Bucket != "" {
		s, err := storage.New(ctx, storage.Config{
			Bucket:    cfg.S3Bucket,
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: config.GetEnvString("S3_ACCESS_KEY_ID", ""),
			SecretKey: config.GetEnvString("S3_SECRET_ACCESS_KEY", ""),
		})
		if err != nil {
			return err
		}
		store = s
	}

	if workerMetricsPort > 0 {
		go serveMetrics(ctx, workerMetricsPort, m)
	}

	w := queue.NewWorker(queue.Config{
		URL:          cfg.AMQPURL,
		RequestQueue: cfg.RequestQueue,
		ResultQueue:  cfg.ResultQueue,
		Concurrency:  cfg.WorkerConcurrency,
	}, queue.NewProcessor(analyzer, store), m)

	err = w.Run(ctx)
	log.Println("[worker] stopped")
	return err
}

func serveMetrics(ctx context.Context, port int, m *metrics.Metrics) {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", m.Handler())
	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("[worker] metrics server: %v", err)
	}
}
