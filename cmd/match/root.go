package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/resume-matcher/internal/config"
	"alfredoptarigan/resume-matcher/internal/logger"
	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/repositories"
	"alfredoptarigan/resume-matcher/internal/services"
)

const app = "match"

type matcherFactory func(ctx context.Context, log *zap.Logger) (services.MatcherService, error)

type options struct {
	job     string
	jobFile string
	json    bool
	debug   bool
}

func newRootCmd(newMatcher matcherFactory) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           app + " [flags] RESUME...",
		Short:         "Score resumes against a job description",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args, newMatcher)
		},
	}

	cmd.Flags().StringVar(&opts.job, "job", "", "job description text")
	cmd.Flags().StringVar(&opts.jobFile, "job-file", "", "file containing the job description")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print results as JSON")
	cmd.Flags().BoolVarP(&opts.debug, "debug", "d", false, "verbose/debug output")
	cmd.MarkFlagsMutuallyExclusive("job", "job-file")

	return cmd
}

func run(cmd *cobra.Command, opts *options, args []string, newMatcher matcherFactory) error {
	stderr := cmd.ErrOrStderr()

	jobDescription, err := loadJobDescription(opts)
	if err != nil {
		fmt.Fprintf(stderr, "❌ %v\n", err)
		return err
	}

	log, err := logger.New(false, opts.debug, "stderr")
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer log.Sync()

	uploads := make([]models.UploadedFile, 0, len(args))
	for _, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(stderr, "❌ failed to read %s: %v\n", path, err)
			return err
		}
		uploads = append(uploads, models.UploadedFile{
			Filename: filepath.Base(path),
			Content:  content,
		})
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	matcher, err := newMatcher(ctx, log)
	if err != nil {
		var cfgErr *config.ConfigurationError
		if errors.As(err, &cfgErr) {
			fmt.Fprintf(stderr, "❌ %v\n", cfgErr)
		} else {
			fmt.Fprintf(stderr, "❌ failed to initialize: %v\n", err)
		}
		return err
	}

	analysis, err := matcher.Analyze(ctx, jobDescription, uploads)
	if err != nil {
		fmt.Fprintln(stderr, "❌ Failed to analyze the resumes. See the log for details.")
		return err
	}

	return printResults(cmd.OutOrStdout(), analysis, opts.json)
}

func loadJobDescription(opts *options) (string, error) {
	job := opts.job
	if opts.jobFile != "" {
		data, err := os.ReadFile(opts.jobFile)
		if err != nil {
			return "", fmt.Errorf("read job description: %w", err)
		}
		job = string(data)
	}

	if strings.TrimSpace(job) == "" {
		return "", errors.New("a job description is required (--job or --job-file)")
	}
	return job, nil
}

func printResults(w io.Writer, analysis *services.Analysis, asJSON bool) error {
	if asJSON {
		resp := models.AnalyzeResponse{TaskID: analysis.TaskID.String()}
		for _, r := range analysis.Results {
			resp.Results = append(resp.Results, models.CandidateResult{Candidate: r.Ordinal, Result: r.Text})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	for _, r := range analysis.Results {
		fmt.Fprintf(w, "=== Candidate %d ===\n%s\n\n", r.Ordinal, strings.TrimSpace(r.Text))
	}
	return nil
}

// buildMatcher wires the same pipeline as the API server, with a temporary
// working area and no task run persistence.
func buildMatcher(ctx context.Context, log *zap.Logger) (services.MatcherService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	storage := services.NewStorageService(filepath.Join(os.TempDir(), "resume-matcher"))
	if err := storage.EnsureUploadDir(); err != nil {
		return nil, err
	}

	generator, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Temperature, log)
	if err != nil {
		return nil, err
	}

	return services.NewMatcherService(
		storage,
		services.NewExtractorService(nil),
		services.NewScorerService(generator, cfg.Worker.ScoringTimeout, cfg.Worker.MaxCandidateChars, log),
		services.NewCandidatePool(cfg.Worker.Concurrency),
		repositories.NewNoopTaskRunRepository(),
		log,
	), nil
}
