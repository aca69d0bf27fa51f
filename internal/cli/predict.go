package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/pitchprophet/internal/model"
	"github.com/ppiankov/pitchprophet/internal/pipeline"
)

var (
	outFormat      string
	outPath        string
	noColor        bool
	predictTimeout time.Duration
	noSearch       bool
)

// predictCmd represents the predict command
var predictCmd = &cobra.Command{
	Use:   "predict <league>",
	Short: "Predict the next matches of a league's top 3 teams",
	Long: `Predict asks the configured model, grounded with web search, for the
current top 3 teams of the league and a prediction of each team's next match.

The league is a display name or id (see 'pitchprophet leagues').

Example:
  pitchprophet predict "Premier League"
  pitchprophet predict serie-a --format json --out serie-a.json
  pitchprophet predict la-liga --provider anthropic`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPredict,
}

func init() {
	rootCmd.AddCommand(predictCmd)

	predictCmd.Flags().StringVarP(&outFormat, "format", "f", "", "output format: text, json, yaml, html (default from config)")
	predictCmd.Flags().StringVarP(&outPath, "out", "o", "", "write to this file instead of stdout")
	predictCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored terminal output")
	predictCmd.Flags().DurationVar(&predictTimeout, "timeout", 3*time.Minute, "overall prediction timeout")
	predictCmd.Flags().BoolVar(&noSearch, "no-search", false, "do not ask the backend to ground with web search")
}

// lookupLeague resolves a league argument or explains the choices
func lookupLeague(name string) (model.LeagueOption, error) {
	league, ok := model.LookupLeague(name)
	if !ok {
		return model.LeagueOption{}, fmt.Errorf("unknown league %q (available: %s)", name, strings.Join(model.LeagueNames(), ", "))
	}
	return league, nil
}

func runPredict(cmd *cobra.Command, args []string) error {
	league, err := lookupLeague(strings.Join(args, " "))
	if err != nil {
		return err
	}

	format, err := pipeline.ParseFormat(firstNonEmpty(outFormat, cfg.Output.Format))
	if err != nil {
		return err
	}
	if noColor {
		cfg.Output.Color = false
	}
	if noSearch {
		cfg.LLM.EnableSearch = false
	}

	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, predictTimeout)
	defer cancel()

	logger.WithField("league", league.Name).Info("Scouting matches...")

	outcome, err := p.Predict(ctx, league.Name)
	if err != nil {
		return err
	}

	if outPath != "" {
		if err := p.Renderer().WriteFile(outPath, outcome, format); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote %s: %s\n", format, outPath)
		return nil
	}

	return p.Renderer().Write(cmd.OutOrStdout(), outcome, format)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
