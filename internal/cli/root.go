package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/pitchprophet/internal/logging"
	"github.com/ppiankov/pitchprophet/internal/model"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=..."
var Version = "v0.1.0"

var (
	cfgFile  string
	verbose  bool
	logLevel string

	// populated by the root PersistentPreRunE
	cfg       *model.Config
	logger    *logrus.Logger
	configErr error
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pitchprophet",
	Short: "PitchProphet - football match predictions grounded in live web search",
	Long: `PitchProphet asks a generative model, grounded with web search, to find
the top 3 teams of a football league, look up their next opponents and
predict each match: form, head-to-head, home/away splits, squad news,
likely scorers and a final score.

Predictions are estimates based on available data.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pitchprophet %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.pitchprophet/config.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	flags.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.String("provider", "", "LLM provider: gemini, anthropic, openai, ollama")
	flags.String("model", "", "model name (provider default when empty)")

	_ = viper.BindPFlag("llm.provider", flags.Lookup("provider"))
	_ = viper.BindPFlag("llm.model", flags.Lookup("model"))

	rootCmd.AddCommand(versionCmd)
}

// configDir returns $HOME/.pitchprophet
func configDir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".pitchprophet"), nil
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		viper.AddConfigPath(dir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// PITCHPROPHET_LLM_PROVIDER overrides llm.provider, and so on
	viper.SetEnvPrefix("PITCHPROPHET")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults(model.DefaultConfig())

	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		configErr = fmt.Errorf("read config %s: %w", cfgFile, err)
	}
}

// setDefaults registers every key so env overrides reach Unmarshal
func setDefaults(d *model.Config) {
	viper.SetDefault("llm.provider", d.LLM.Provider)
	viper.SetDefault("llm.model", d.LLM.Model)
	viper.SetDefault("llm.api_key", "")
	viper.SetDefault("llm.base_url", d.LLM.BaseURL)
	viper.SetDefault("llm.timeout", d.LLM.Timeout)
	viper.SetDefault("llm.max_tokens", d.LLM.MaxTokens)
	viper.SetDefault("llm.enable_search", d.LLM.EnableSearch)
	viper.SetDefault("http.http_proxy", d.HTTP.HTTPProxy)
	viper.SetDefault("http.https_proxy", d.HTTP.HTTPSProxy)
	viper.SetDefault("http.no_proxy", d.HTTP.NoProxy)
	viper.SetDefault("cache.enabled", d.Cache.Enabled)
	viper.SetDefault("cache.ttl", d.Cache.TTL)
	viper.SetDefault("breaker.max_failures", d.Breaker.MaxFailures)
	viper.SetDefault("breaker.open_timeout", d.Breaker.OpenTimeout)
	viper.SetDefault("rate_limiting.requests_per_second", d.RateLimiting.RequestsPerSecond)
	viper.SetDefault("rate_limiting.burst_size", d.RateLimiting.BurstSize)
	viper.SetDefault("rate_limiting.delay", d.RateLimiting.Delay)
	viper.SetDefault("concurrency.workers", d.Concurrency.Workers)
	viper.SetDefault("server.addr", d.Server.Addr)
	viper.SetDefault("server.request_timeout", d.Server.RequestTimeout)
	viper.SetDefault("output.format", d.Output.Format)
	viper.SetDefault("output.color", d.Output.Color)
	viper.SetDefault("log.level", d.Log.Level)
	viper.SetDefault("log.format", d.Log.Format)
}

// loadConfig merges defaults, config file, env and flags
func loadConfig() (*model.Config, error) {
	c := model.DefaultConfig()
	if err := viper.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return c, nil
}

func setup(cmd *cobra.Command, args []string) error {
	if configErr != nil {
		return configErr
	}

	var err error
	if cfg, err = loadConfig(); err != nil {
		return err
	}

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	if verbose {
		level = "debug"
	}

	if logger, err = logging.New(level, cfg.Log.Format); err != nil {
		return err
	}

	if used := viper.ConfigFileUsed(); used != "" {
		logger.WithField("file", used).Debug("Using config file")
	}
	return nil
}
