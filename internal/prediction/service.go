// Package prediction turns a league name into a normalized prediction result
// by asking a generative backend with web-search grounding.
package prediction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/ppiankov/pitchprophet/internal/llm"
	"github.com/ppiankov/pitchprophet/internal/model"
)

const (
	// Temperature is fixed low to favor factual output
	Temperature = 0.3

	// NoAnalysisText replaces an empty backend answer
	NoAnalysisText = "No analysis generated."

	// FailureMessage is the only failure text callers ever see
	FailureMessage = "Failed to generate predictions. Please try again later."
)

// PredictionError is returned for every backend or transport fault.
// Error() is always FailureMessage; the cause stays in the operator log.
type PredictionError struct {
	RequestID string
	cause     error
}

func (e *PredictionError) Error() string {
	return FailureMessage
}

// Unwrap exposes the cause to errors.Is / errors.As for diagnostics
func (e *PredictionError) Unwrap() error {
	return e.cause
}

// Options tunes a Service
type Options struct {
	EnableSearch bool
	Model        string
	MaxTokens    int
	Breaker      model.BreakerConfig
}

// OptionsFromConfig extracts service options from the application config
func OptionsFromConfig(cfg *model.Config) Options {
	return Options{
		EnableSearch: cfg.LLM.EnableSearch,
		Model:        cfg.LLM.Model,
		MaxTokens:    cfg.LLM.MaxTokens,
		Breaker:      cfg.Breaker,
	}
}

// Service is the prediction service client
type Service struct {
	provider llm.Provider
	breaker  *gobreaker.CircuitBreaker
	logger   *logrus.Logger
	opts     Options
	now      func() time.Time
}

// NewService creates a service around a backend provider
func NewService(provider llm.Provider, logger *logrus.Logger, opts Options) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	settings := gobreaker.Settings{
		Name:    "llm-" + provider.Name(),
		Timeout: opts.Breaker.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if opts.Breaker.MaxFailures == 0 {
				return false
			}
			return counts.ConsecutiveFailures >= opts.Breaker.MaxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"component": "circuit_breaker",
				"service":   name,
				"from":      from.String(),
				"to":        to.String(),
			}).Warn("Circuit breaker state changed")
		},
	}

	return &Service{
		provider: provider,
		breaker:  gobreaker.NewCircuitBreaker(settings),
		logger:   logger,
		opts:     opts,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Provider returns the backend name
func (s *Service) Provider() string {
	return s.provider.Name()
}

// FetchPrediction asks the backend for the league's top-3 match analysis.
// Any failure is logged and returned as *PredictionError.
func (s *Service) FetchPrediction(ctx context.Context, leagueName string) (*model.PredictionResult, error) {
	requestID := uuid.NewString()
	log := s.logger.WithFields(logrus.Fields{
		"component":  "prediction",
		"request_id": requestID,
		"league":     leagueName,
		"provider":   s.provider.Name(),
	})

	req := llm.GenerateRequest{
		Prompt:       BuildPrompt(leagueName),
		EnableSearch: s.opts.EnableSearch,
		Temperature:  Temperature,
		Model:        s.opts.Model,
		MaxTokens:    s.opts.MaxTokens,
	}

	log.WithField("search", req.EnableSearch).Debug("Requesting prediction")
	start := time.Now()

	out, err := s.breaker.Execute(func() (interface{}, error) {
		return s.provider.Generate(ctx, req)
	})
	if err == nil && out == nil {
		err = errors.New("backend returned no response")
	}
	if err != nil {
		log.WithError(err).WithField("elapsed", time.Since(start)).Error("Prediction request failed")
		return nil, &PredictionError{RequestID: requestID, cause: err}
	}

	resp, ok := out.(*llm.GenerateResponse)
	if !ok || resp == nil {
		err := fmt.Errorf("unexpected backend response type %T", out)
		log.WithError(err).Error("Prediction request failed")
		return nil, &PredictionError{RequestID: requestID, cause: err}
	}

	result := &model.PredictionResult{
		RawText:     resp.Text,
		Citations:   resp.Citations,
		League:      leagueName,
		Provider:    s.provider.Name(),
		Model:       resp.Model,
		GeneratedAt: s.now(),
	}
	if result.RawText == "" {
		result.RawText = NoAnalysisText
	}
	if result.Citations == nil {
		result.Citations = []model.CitationRecord{}
	}

	log.WithFields(logrus.Fields{
		"elapsed":   time.Since(start),
		"citations": len(result.Citations),
		"tokens":    resp.TokensUsed,
		"model":     resp.Model,
	}).Info("Prediction received")

	return result, nil
}
