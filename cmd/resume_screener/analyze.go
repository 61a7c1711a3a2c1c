package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-screener/internal/analysis"
	"github.com/jonathan/resume-screener/internal/config"
	"github.com/jonathan/resume-screener/internal/fetch"
	"github.com/jonathan/resume-screener/internal/observability"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score one or more resumes against a job description",
	Long: `Score a resume against a job description and print the match percentage,
matched and missing skills, the experience check and suggested resume bullets.

Pass --resume more than once to rank several resumes against the same job.`,
	RunE: runAnalyze,
}

type analyzeOptions struct {
	resumes    []string
	resumeText string
	jobFile    string
	jobText    string
	jobURL     string
	strategy   string
	vocab      vocabFlags
	jsonOutput bool
	verbose    bool
}

var analyzeOpts analyzeOptions

func init() {
	f := analyzeCmd.Flags()
	f.StringArrayVarP(&analyzeOpts.resumes, "resume", "r", nil, "Resume file (.txt, .pdf, .docx); repeat to rank several")
	f.StringVar(&analyzeOpts.resumeText, "resume-text", "", "Resume text")
	f.StringVarP(&analyzeOpts.jobFile, "job", "j", "", "Job description text file")
	f.StringVar(&analyzeOpts.jobText, "job-text", "", "Job description text")
	f.StringVar(&analyzeOpts.jobURL, "job-url", "", "Job posting URL")
	f.StringVarP(&analyzeOpts.strategy, "strategy", "s", "", "Scoring strategy: overlap or statistical")
	f.StringVar(&analyzeOpts.vocab.path, "vocab", "", "Vocabulary JSON file")
	f.BoolVar(&analyzeOpts.vocab.database, "vocab-db", false, "Load the vocabulary from DATABASE_URL")
	f.BoolVar(&analyzeOpts.jsonOutput, "json", false, "Print JSON instead of a formatted report")
	f.BoolVarP(&analyzeOpts.verbose, "verbose", "v", false, "Print detailed debug information")

	analyzeCmd.MarkFlagsMutuallyExclusive("job", "job-text", "job-url")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(configPath)
	if err != nil {
		return err
	}
	cfg.Verbose = cfg.Verbose || analyzeOpts.verbose

	return analyze(cmd.Context(), cfg, analyzeOpts, cmd.OutOrStdout())
}

func analyze(ctx context.Context, cfg config.Config, opts analyzeOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	vocab, closeVocab, err := loadVocabulary(ctx, cfg, opts.vocab)
	if err != nil {
		return err
	}
	defer closeVocab()

	analyzer, err := buildAnalyzer(vocab, cfg, opts.strategy, nil)
	if err != nil {
		return err
	}

	jobText, err := readJobText(ctx, opts, buildFetcher(cfg))
	if err != nil {
		return err
	}

	if len(opts.resumes) > 1 {
		if opts.resumeText != "" {
			return fmt.Errorf("--resume-text cannot be combined with several --resume files")
		}
		candidates, err := candidatesFromFiles(opts.resumes)
		if err != nil {
			return err
		}
		items, err := analyzer.AnalyzeBatch(ctx, jobText, candidates, 0)
		if err != nil {
			return err
		}
		if opts.jsonOutput {
			return writeJSON(out, items)
		}
		observability.NewPrinter(out).PrintBatch(items)
		return nil
	}

	req := analysis.Request{ResumeText: opts.resumeText, JobText: jobText, Strategy: opts.strategy}
	if len(opts.resumes) == 1 {
		candidates, err := candidatesFromFiles(opts.resumes)
		if err != nil {
			return err
		}
		req.ResumeFile = candidates[0].File
	}

	report, err := analyzer.AnalyzeRequest(ctx, req)
	if err != nil {
		return err
	}
	if opts.jsonOutput {
		return writeJSON(out, report)
	}
	observability.NewPrinter(out).PrintReport(report)
	return nil
}

// readJobText returns the job description from whichever of --job,
// --job-text and --job-url was given.
func readJobText(ctx context.Context, opts analyzeOptions, fetcher *fetch.Fetcher) (string, error) {
	switch {
	case opts.jobFile != "":
		data, err := os.ReadFile(opts.jobFile)
		if err != nil {
			return "", fmt.Errorf("failed to read job file: %w", err)
		}
		return string(data), nil
	case opts.jobURL != "":
		page, err := fetcher.JobText(ctx, opts.jobURL)
		if err != nil {
			return "", err
		}
		return page.Text, nil
	default:
		return opts.jobText, nil
	}
}

func candidatesFromFiles(paths []string) ([]analysis.Candidate, error) {
	candidates := make([]analysis.Candidate, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read resume file: %w", err)
		}
		name := filepath.Base(path)
		candidates = append(candidates, analysis.Candidate{
			Name: name,
			File: &analysis.ResumeFile{Name: name, Data: data},
		})
	}
	return candidates, nil
}

func writeJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
