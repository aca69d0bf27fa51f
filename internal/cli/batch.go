package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/pitchprophet/internal/pipeline"
	"github.com/ppiankov/pitchprophet/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchFormat  string
	batchFile    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [league...]",
	Short: "Predict several leagues and write one report per league",
	Long: `Batch predicts each given league (all leagues when none are given) and
writes one report per league into the output directory.

Calls to the backend are rate limited per provider (rate_limiting in the
config) and run one at a time unless --concurrency says otherwise.

Example:
  pitchprophet batch
  pitchprophet batch "Premier League" serie-a --format html
  pitchprophet batch --file leagues.txt --output-dir ./predictions`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "parallel predictions (default from config, 1)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./pitchprophet-reports", "output directory for reports")
	batchCmd.Flags().StringVarP(&batchFormat, "format", "f", "json", "report format: text, json, yaml, html")
	batchCmd.Flags().StringVar(&batchFile, "file", "", "read league names from a file (one per line)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 15*time.Minute, "total timeout for the batch")
}

func runBatch(cmd *cobra.Command, args []string) error {
	names := args
	if batchFile != "" {
		fromFile, err := worker.ReadLeaguesFromFile(batchFile)
		if err != nil {
			return err
		}
		names = append(names, fromFile...)
	}

	leagues, err := worker.ResolveLeagues(names)
	if err != nil {
		return err
	}

	format, err := pipeline.ParseFormat(batchFormat)
	if err != nil {
		return err
	}

	workers := cfg.Concurrency.Workers
	if concurrency > 0 {
		workers = concurrency
	}

	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, batchTimeout)
	defer cancel()

	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "  Leagues:     %d\n", len(leagues))
	fmt.Fprintf(stderr, "  Workers:     %d\n", workers)
	fmt.Fprintf(stderr, "  Provider:    %s\n", firstNonEmpty(cfg.LLM.Provider, "gemini"))
	fmt.Fprintf(stderr, "  Output dir:  %s\n", outputDir)
	fmt.Fprintf(stderr, "\n")

	processor := worker.NewBatchProcessor(p, workers, cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize).
		WithProvider(firstNonEmpty(cfg.LLM.Provider, "gemini")).
		WithDelay(cfg.RateLimiting.Delay).
		WithLogger(logger)

	results := processor.ProcessLeagues(ctx, leagues)

	successCount := 0
	for _, result := range results {
		if result.Error != nil {
			fmt.Fprintf(stderr, "✗ %s: %v\n", result.League.Name, result.Error)
			continue
		}

		path := filepath.Join(outputDir, string(result.League.ID)+format.Extension())
		if err := p.Renderer().WriteFile(path, result.Outcome, format); err != nil {
			fmt.Fprintf(stderr, "✗ %s: %v\n", result.League.Name, err)
			continue
		}

		successCount++
		fmt.Fprintf(stderr, "✓ %s: %d matches, %d sources (%s)\n",
			result.League.Name, len(result.Outcome.Tree.Cards), len(result.Outcome.Tree.Sources), result.Elapsed.Round(time.Millisecond))
	}

	fmt.Fprintf(stderr, "\n  Success: %d/%d\n\n", successCount, len(results))

	if successCount == 0 && len(results) > 0 {
		return fmt.Errorf("all %d predictions failed", len(results))
	}
	return nil
}
