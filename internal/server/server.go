// Package server exposes the interactive session over HTTP: a server-rendered
// page driven by form posts and a small JSON API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ppiankov/pitchprophet/internal/app"
	"github.com/ppiankov/pitchprophet/internal/model"
	"github.com/ppiankov/pitchprophet/internal/render"
)

// Presenter builds the display tree for a result
type Presenter interface {
	Present(result *model.PredictionResult) render.DisplayTree
}

// Options configures the server
type Options struct {
	Provider string // shown in the page header and /healthz
	Debug    bool
}

// Server serves one shared session
type Server struct {
	controller *app.Controller
	presenter  Presenter
	logger     *logrus.Logger
	opts       Options
	engine     *gin.Engine

	// predictions outlive the HTTP request that started them
	baseCtx context.Context
}

// New creates a server around a controller
func New(ctx context.Context, controller *app.Controller, presenter Presenter, logger *logrus.Logger, opts Options) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if opts.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		controller: controller,
		presenter:  presenter,
		logger:     logger,
		opts:       opts,
		baseCtx:    ctx,
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	router.GET("/", s.handleIndex)
	router.POST("/select", s.handleSelectForm)
	router.POST("/generate", s.handleGenerateForm)
	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api")
	api.GET("/leagues", s.handleLeagues)
	api.GET("/state", s.handleState)
	api.POST("/select", s.handleSelect)
	api.POST("/generate", s.handleGenerate)

	s.engine = router
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on addr until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("Server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"component": "http",
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start),
			"client_ip": c.ClientIP(),
		})

		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("Request failed")
		case status >= 400:
			entry.Warn("Client error")
		default:
			entry.Debug("Request completed")
		}
	}
}
