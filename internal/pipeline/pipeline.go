package pipeline

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ppiankov/pitchprophet/internal/llm"
	"github.com/ppiankov/pitchprophet/internal/model"
	"github.com/ppiankov/pitchprophet/internal/parse"
	"github.com/ppiankov/pitchprophet/internal/prediction"
	"github.com/ppiankov/pitchprophet/internal/render"
)

// Pipeline orchestrates one prediction: backend call, parse, display tree
type Pipeline struct {
	service  *prediction.Service
	parser   *parse.Parser
	renderer *Renderer
	config   *model.Config
	logger   *logrus.Logger
}

// NewPipeline creates a pipeline with the provider named in the configuration.
// A missing API key fails here, before any request is made.
func NewPipeline(cfg *model.Config, logger *logrus.Logger) (*Pipeline, error) {
	llmConfig := llm.ConfigFromModel(cfg)
	if err := llm.LoadAPIKeyFromEnv(&llmConfig); err != nil {
		return nil, err
	}

	provider, err := llm.NewProvider(llmConfig)
	if err != nil {
		return nil, fmt.Errorf("init provider: %w", err)
	}

	return NewWithProvider(cfg, provider, logger), nil
}

// NewWithProvider creates a pipeline around an existing provider
func NewWithProvider(cfg *model.Config, provider llm.Provider, logger *logrus.Logger) *Pipeline {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	memoTTL := cfg.Cache.TTL
	if !cfg.Cache.Enabled {
		memoTTL = 0
	}

	return &Pipeline{
		service:  prediction.NewService(provider, logger, prediction.OptionsFromConfig(cfg)),
		parser:   parse.NewParser(memoTTL),
		renderer: NewRenderer(render.TextOptions{Color: cfg.Output.Color}),
		config:   cfg,
		logger:   logger,
	}
}

// Outcome is a prediction result together with its display tree
type Outcome struct {
	Result *model.PredictionResult
	Tree   render.DisplayTree
}

// Service returns the prediction service, e.g. for an interactive controller
func (p *Pipeline) Service() *prediction.Service {
	return p.service
}

// Renderer returns the output renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// Present builds the display tree for a result
func (p *Pipeline) Present(result *model.PredictionResult) render.DisplayTree {
	return render.BuildResult(result, p.parser)
}

// Predict fetches a prediction for a league and builds its display tree.
// The error is a *prediction.PredictionError on backend failure.
func (p *Pipeline) Predict(ctx context.Context, leagueName string) (*Outcome, error) {
	result, err := p.service.FetchPrediction(ctx, leagueName)
	if err != nil {
		return nil, err
	}

	tree := p.Present(result)
	p.logger.WithFields(logrus.Fields{
		"component": "pipeline",
		"league":    leagueName,
		"cards":     len(tree.Cards),
		"fallback":  tree.Fallback != nil,
		"sources":   len(tree.Sources),
	}).Debug("Prediction parsed")

	return &Outcome{Result: result, Tree: tree}, nil
}
