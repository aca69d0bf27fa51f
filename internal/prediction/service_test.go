package prediction

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/pitchprophet/internal/llm"
	"github.com/ppiankov/pitchprophet/internal/model"
	"github.com/ppiankov/pitchprophet/internal/parse"
)

type mockProvider struct {
	resp  *llm.GenerateResponse
	err   error
	calls atomic.Int32
	last  llm.GenerateRequest
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	m.calls.Add(1)
	m.last = req
	return m.resp, m.err
}

func (m *mockProvider) IsAvailable(context.Context) bool { return true }

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("La Liga")

	assert.Contains(t, prompt, "top 3 teams currently in the La Liga.")
	assert.Contains(t, prompt, `"`+parse.Delimiter+`"`)

	// headers appear in the fixed order
	last := -1
	for _, f := range fieldHints {
		idx := strings.Index(prompt, f.marker+" ")
		require.GreaterOrEqual(t, idx, 0, "missing %s", f.marker)
		assert.Greater(t, idx, last, "%s out of order", f.marker)
		last = idx
	}
}

func TestBuildPrompt_InterpolatesVerbatim(t *testing.T) {
	assert.Contains(t, BuildPrompt("Made Up League %s"), "in the Made Up League %s.")
}

func TestFetchPrediction_Success(t *testing.T) {
	provider := &mockProvider{resp: &llm.GenerateResponse{
		Text:      "analysis",
		Citations: []model.CitationRecord{{URI: "https://example.com", Title: "Ex"}},
		Model:     "m-1",
	}}
	logger, _ := logtest.NewNullLogger()
	svc := NewService(provider, logger, Options{EnableSearch: true})

	result, err := svc.FetchPrediction(context.Background(), "Serie A")
	require.NoError(t, err)

	assert.Equal(t, "analysis", result.RawText)
	assert.Len(t, result.Citations, 1)
	assert.Equal(t, "Serie A", result.League)
	assert.Equal(t, "mock", result.Provider)
	assert.Equal(t, "m-1", result.Model)
	assert.False(t, result.GeneratedAt.IsZero())

	assert.True(t, provider.last.EnableSearch)
	assert.Equal(t, 0.3, provider.last.Temperature)
	assert.Contains(t, provider.last.Prompt, "Serie A")
}

func TestFetchPrediction_EmptyTextAndNoCitations(t *testing.T) {
	provider := &mockProvider{resp: &llm.GenerateResponse{}}
	logger, _ := logtest.NewNullLogger()
	svc := NewService(provider, logger, Options{})

	result, err := svc.FetchPrediction(context.Background(), "Premier League")
	require.NoError(t, err)

	assert.Equal(t, NoAnalysisText, result.RawText)
	assert.NotNil(t, result.Citations)
	assert.Empty(t, result.Citations)
	assert.False(t, provider.last.EnableSearch)
}

func TestFetchPrediction_ErrorIsOpaque(t *testing.T) {
	cause := errors.New("401 invalid api key sk-secret")
	provider := &mockProvider{err: cause}
	logger, hook := logtest.NewNullLogger()
	svc := NewService(provider, logger, Options{})

	result, err := svc.FetchPrediction(context.Background(), "Liga Portugal")
	assert.Nil(t, result)
	require.Error(t, err)

	assert.Equal(t, FailureMessage, err.Error())
	assert.NotContains(t, err.Error(), "sk-secret")

	var perr *PredictionError
	require.ErrorAs(t, err, &perr)
	assert.NotEmpty(t, perr.RequestID)
	assert.ErrorIs(t, err, cause)

	// the detail goes to the operator log
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, cause, entry.Data[logrus.ErrorKey])
	assert.Equal(t, perr.RequestID, entry.Data["request_id"])
}

func TestFetchPrediction_NilResponse(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	svc := NewService(&mockProvider{}, logger, Options{})

	_, err := svc.FetchPrediction(context.Background(), "Serie A")
	var perr *PredictionError
	assert.ErrorAs(t, err, &perr)
}

func TestFetchPrediction_BreakerOpens(t *testing.T) {
	provider := &mockProvider{err: errors.New("quota exceeded")}
	logger, _ := logtest.NewNullLogger()
	svc := NewService(provider, logger, Options{
		Breaker: model.BreakerConfig{MaxFailures: 2, OpenTimeout: time.Minute},
	})

	for i := 0; i < 2; i++ {
		_, err := svc.FetchPrediction(context.Background(), "La Liga")
		require.Error(t, err)
	}

	_, err := svc.FetchPrediction(context.Background(), "La Liga")
	require.Error(t, err)
	assert.Equal(t, FailureMessage, err.Error())
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(2), provider.calls.Load(), "open breaker must not reach the backend")
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := model.DefaultConfig()
	opts := OptionsFromConfig(cfg)

	assert.True(t, opts.EnableSearch)
	assert.Equal(t, cfg.Breaker, opts.Breaker)
}
