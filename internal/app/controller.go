// Package app holds the interactive session state: the selected league,
// the current result, and the loading and error flags.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ppiankov/pitchprophet/internal/model"
	"github.com/ppiankov/pitchprophet/internal/prediction"
)

var (
	// ErrBusy is returned when a prediction is already outstanding
	ErrBusy = errors.New("a prediction is already in progress")

	// ErrNoLeagueSelected is returned by Generate before any selection
	ErrNoLeagueSelected = errors.New("no league selected")

	// ErrUnknownLeague is returned when selecting a league outside the static list
	ErrUnknownLeague = errors.New("unknown league")
)

const unexpectedError = "An unexpected error occurred"

// Predictor fetches a prediction for a league name
type Predictor interface {
	FetchPrediction(ctx context.Context, leagueName string) (*model.PredictionResult, error)
}

// State is an immutable snapshot of the session
type State struct {
	SelectedLeague string                  `json:"selected_league"`
	Result         *model.PredictionResult `json:"result"`
	IsLoading      bool                    `json:"is_loading"`
	Error          string                  `json:"error,omitempty"`
}

// ActionLabel is the caption of the generate action for this state
func (s State) ActionLabel() string {
	switch {
	case s.IsLoading:
		return "Analyzing Data..."
	case s.SelectedLeague != "":
		return "Predict " + s.SelectedLeague
	default:
		return "Select a League"
	}
}

// CanGenerate reports whether the generate action is enabled
func (s State) CanGenerate() bool {
	return s.SelectedLeague != "" && !s.IsLoading
}

// Controller wires user actions to the prediction service
type Controller struct {
	predictor Predictor
	logger    *logrus.Logger

	mu        sync.Mutex
	state     State
	seq       uint64
	observers []func(State)
}

// NewController creates a controller with no league selected
func NewController(predictor Predictor, logger *logrus.Logger) *Controller {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Controller{
		predictor: predictor,
		logger:    logger,
	}
}

// State returns the current snapshot
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers an observer called with the new state after every change.
// Observers run synchronously and must not call back into the controller.
func (c *Controller) Subscribe(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// SelectLeague selects a league by display name or id and clears the previous
// result and error. A prediction still in flight is left running but its
// answer will be discarded.
func (c *Controller) SelectLeague(name string) error {
	league, ok := model.LookupLeague(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLeague, name)
	}

	c.mu.Lock()
	c.seq++
	c.state.SelectedLeague = league.Name
	c.state.Result = nil
	c.state.Error = ""
	c.mu.Unlock()

	c.notify()
	return nil
}

// begin validates and marks a prediction as started. It returns the sequence
// number and league that finish expects.
func (c *Controller) begin() (uint64, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.SelectedLeague == "" {
		return 0, "", ErrNoLeagueSelected
	}
	if c.state.IsLoading {
		return 0, "", ErrBusy
	}

	c.seq++
	c.state.IsLoading = true
	c.state.Error = ""
	c.state.Result = nil
	return c.seq, c.state.SelectedLeague, nil
}

func (c *Controller) finish(seq uint64, league string, result *model.PredictionResult, err error) {
	c.mu.Lock()
	c.state.IsLoading = false

	if seq != c.seq {
		c.mu.Unlock()
		c.logger.WithFields(logrus.Fields{
			"component": "controller",
			"league":    league,
		}).Debug("Discarding superseded prediction")
		c.notify()
		return
	}

	if err != nil {
		var perr *prediction.PredictionError
		if errors.As(err, &perr) {
			c.state.Error = perr.Error()
		} else {
			c.state.Error = unexpectedError
			c.logger.WithError(err).WithField("league", league).Error("Prediction failed")
		}
		c.state.Result = nil
	} else {
		c.state.Result = result
		c.state.Error = ""
	}
	c.mu.Unlock()

	c.notify()
}

// Generate requests a prediction for the selected league and blocks until the
// answer arrives. Failures are reflected in State().Error; the returned error
// only reports whether the request could be started.
func (c *Controller) Generate(ctx context.Context) error {
	seq, league, err := c.begin()
	if err != nil {
		return err
	}
	c.notify()

	result, err := c.predictor.FetchPrediction(ctx, league)
	c.finish(seq, league, result, err)
	return nil
}

// Start is Generate without waiting for the answer. The request runs on ctx,
// so callers pass a context that outlives their own request.
func (c *Controller) Start(ctx context.Context) error {
	seq, league, err := c.begin()
	if err != nil {
		return err
	}
	c.notify()

	go func() {
		result, err := c.predictor.FetchPrediction(ctx, league)
		c.finish(seq, league, result, err)
	}()
	return nil
}

func (c *Controller) notify() {
	c.mu.Lock()
	state := c.state
	observers := append([]func(State){}, c.observers...)
	c.mu.Unlock()

	for _, fn := range observers {
		fn(state)
	}
}

type timeoutPredictor struct {
	next    Predictor
	timeout time.Duration
}

func (p timeoutPredictor) FetchPrediction(ctx context.Context, leagueName string) (*model.PredictionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.next.FetchPrediction(ctx, leagueName)
}

// WithTimeout bounds every prediction made through p. A non-positive
// timeout returns p unchanged.
func WithTimeout(p Predictor, timeout time.Duration) Predictor {
	if timeout <= 0 {
		return p
	}
	return timeoutPredictor{next: p, timeout: timeout}
}
