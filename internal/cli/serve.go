package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/pitchprophet/internal/app"
	"github.com/ppiankov/pitchprophet/internal/pipeline"
	"github.com/ppiankov/pitchprophet/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive league picker in the browser",
	Long: `Serve starts a local web page: pick a league, request a prediction and
read the match cards with their live data sources.

Example:
  pitchprophet serve
  pitchprophet serve --addr :9000 --provider openai`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	predictor := app.WithTimeout(p.Service(), cfg.Server.RequestTimeout)
	controller := app.NewController(predictor, logger)

	srv := server.New(ctx, controller, p, logger, server.Options{
		Provider: p.Service().Provider(),
		Debug:    verbose,
	})

	return srv.Run(ctx, firstNonEmpty(serveAddr, cfg.Server.Addr))
}
