package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonathan/resume-screener/internal/analysis"
	"github.com/jonathan/resume-screener/internal/config"
	"github.com/jonathan/resume-screener/internal/db"
	"github.com/jonathan/resume-screener/internal/fetch"
	"github.com/jonathan/resume-screener/internal/scoring"
	"github.com/jonathan/resume-screener/internal/skills"
)

// vocabFlags selects where the skill vocabulary comes from.
type vocabFlags struct {
	path     string
	database bool
}

// loadSettings resolves configuration: config file over environment over
// built-in defaults. Command flags are applied by the caller.
func loadSettings(path string) (config.Config, error) {
	env := config.FromEnv()

	var file config.Config
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return config.Config{}, err
		}
		file = *loaded
	}

	cfg := file.MergeWithDefaults(env)
	cfg.UseBrowser = cfg.UseBrowser || env.UseBrowser
	cfg.Verbose = cfg.Verbose || env.Verbose

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// loadVocabulary returns the vocabulary named by flags or cfg, or nil for the
// built-in one. The returned close func is never nil.
func loadVocabulary(ctx context.Context, cfg config.Config, flags vocabFlags) (*skills.Vocabulary, func(), error) {
	noop := func() {}

	if flags.database {
		if cfg.DatabaseURL == "" {
			return nil, noop, fmt.Errorf("DATABASE_URL is required to load the vocabulary from the database")
		}
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to connect to database: %w", err)
		}
		vocab, err := skills.LoadVocabulary(ctx, "postgres", database)
		if err != nil {
			database.Close()
			return nil, noop, err
		}
		return vocab, database.Close, nil
	}

	path := flags.path
	if path == "" {
		path = cfg.VocabularyPath
	}
	if path == "" {
		return nil, noop, nil
	}
	vocab, err := skills.LoadVocabularyFile(path)
	if err != nil {
		return nil, noop, err
	}
	return vocab, noop, nil
}

// buildAnalyzer wires an Analyzer from resolved settings.
func buildAnalyzer(vocab *skills.Vocabulary, cfg config.Config, strategy string, observer analysis.Observer) (*analysis.Analyzer, error) {
	if strategy == "" {
		strategy = cfg.Strategy
	}
	opts := []analysis.Option{
		analysis.WithStrategy(strategy),
		analysis.WithWeights(scoring.Weights{Skill: cfg.SkillWeight, Experience: cfg.ExperienceWeight}),
	}
	if observer != nil {
		opts = append(opts, analysis.WithObserver(observer))
	}

	analyzer, err := analysis.New(vocab, opts...)
	if err != nil {
		return nil, err
	}
	if cfg.Verbose {
		log.Printf("[config] strategy=%s vocabulary=%d skills weights=%.0f/%.0f",
			analyzer.Strategy(), analyzer.Vocabulary().Len(), cfg.SkillWeight, cfg.ExperienceWeight)
	}
	return analyzer, nil
}

// buildFetcher returns a job page fetcher, rendering thin pages in Chrome
// when use_browser is set.
func buildFetcher(cfg config.Config) *fetch.Fetcher {
	opts := fetch.DefaultOptions()
	opts.Verbose = cfg.Verbose
	if cfg.UseBrowser {
		opts.Render = fetch.ChromeRenderer(60*time.Second, cfg.Verbose)
	}
	return fetch.New(opts)
}
