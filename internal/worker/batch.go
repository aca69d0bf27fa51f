package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ppiankov/pitchprophet/internal/model"
	"github.com/ppiankov/pitchprophet/internal/pipeline"
)

// Predictor predicts one league
type Predictor interface {
	Predict(ctx context.Context, leagueName string) (*pipeline.Outcome, error)
}

var _ Predictor = (*pipeline.Pipeline)(nil)

// LeagueResult is the outcome of one league in a batch
type LeagueResult struct {
	Index   int
	League  model.LeagueOption
	Outcome *pipeline.Outcome
	Error   error
	Elapsed time.Duration
}

// BatchProcessor predicts several leagues with bounded concurrency.
// Calls share one rate-limit bucket keyed by provider.
type BatchProcessor struct {
	predictor   Predictor
	concurrency int
	limiter     *Limiter
	limitKey    string
	delay       time.Duration
	logger      *logrus.Logger
}

// NewBatchProcessor creates a batch processor. rps <= 0 disables rate limiting.
func NewBatchProcessor(predictor Predictor, concurrency int, rps float64, burst int) *BatchProcessor {
	return &BatchProcessor{
		predictor:   predictor,
		concurrency: concurrency,
		limiter:     NewLimiter(rps, burst),
		limitKey:    "default",
		logger:      logrus.StandardLogger(),
	}
}

// WithProvider keys the rate limit by provider name
func (b *BatchProcessor) WithProvider(name string) *BatchProcessor {
	b.limitKey = name
	return b
}

// WithDelay adds a pause after each rate-limit token before the call is made
func (b *BatchProcessor) WithDelay(d time.Duration) *BatchProcessor {
	b.delay = d
	return b
}

// WithLogger sets the logger
func (b *BatchProcessor) WithLogger(logger *logrus.Logger) *BatchProcessor {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// ProcessLeagues predicts every league and returns results in input order
func (b *BatchProcessor) ProcessLeagues(ctx context.Context, leagues []model.LeagueOption) []*LeagueResult {
	if len(leagues) == 0 {
		return []*LeagueResult{}
	}

	tasks := make([]Task[*LeagueResult], 0, len(leagues))
	for i, league := range leagues {
		tasks = append(tasks, b.task(i, league))
	}

	results := Collect(ctx, b.concurrency, tasks)

	// leagues never reached because ctx ended still get a result
	done := make(map[int]bool, len(results))
	for _, r := range results {
		done[r.Index] = true
	}
	for i, league := range leagues {
		if !done[i] {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			results = append(results, &LeagueResult{Index: i, League: league, Error: err})
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })
	return results
}

func (b *BatchProcessor) task(index int, league model.LeagueOption) Task[*LeagueResult] {
	return func(ctx context.Context) *LeagueResult {
		res := &LeagueResult{Index: index, League: league}
		log := b.logger.WithFields(logrus.Fields{
			"component": "batch",
			"league":    league.Name,
		})

		if err := b.limiter.WaitWithDelay(ctx, b.limitKey, b.delay); err != nil {
			res.Error = fmt.Errorf("rate limit: %w", err)
			return res
		}

		start := time.Now()
		res.Outcome, res.Error = b.predictor.Predict(ctx, league.Name)
		res.Elapsed = time.Since(start)

		if res.Error != nil {
			log.WithField("elapsed", res.Elapsed).Warn("League prediction failed")
		} else {
			log.WithField("elapsed", res.Elapsed).Info("League prediction done")
		}
		return res
	}
}

// ResolveLeagues maps names or ids to leagues; no names means every league
func ResolveLeagues(names []string) ([]model.LeagueOption, error) {
	if len(names) == 0 {
		return model.Leagues(), nil
	}

	var leagues []model.LeagueOption
	seen := make(map[model.LeagueID]bool)
	for _, name := range names {
		league, ok := model.LookupLeague(name)
		if !ok {
			return nil, fmt.Errorf("unknown league %q (available: %s)", name, strings.Join(model.LeagueNames(), ", "))
		}
		if seen[league.ID] {
			continue
		}
		seen[league.ID] = true
		leagues = append(leagues, league)
	}
	return leagues, nil
}

// ReadLeaguesFromFile reads league names or ids (one per line).
// Blank lines and # comments are skipped.
func ReadLeaguesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var names []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return names, nil
}
