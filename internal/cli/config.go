package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/pitchprophet/internal/llm"
	"github.com/ppiankov/pitchprophet/internal/model"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage PitchProphet configuration",
	Long: `Manage PitchProphet configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (PITCHPROPHET_*)
3. Config file (~/.pitchprophet/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if used := viper.ConfigFileUsed(); used != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Configuration file: %s\n\n", used)
		} else {
			fmt.Fprintf(cmd.ErrOrStderr(), "No configuration file found (using defaults)\n\n")
		}

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		fmt.Fprintln(out, string(yamlData))

		if envs := llm.APIKeyEnv(cfg.LLM.Provider); len(envs) > 0 {
			status := "not set"
			for _, env := range envs {
				if os.Getenv(env) != "" {
					status = "set via " + env
					break
				}
			}
			if cfg.LLM.APIKey != "" {
				status = "set via PITCHPROPHET_LLM_API_KEY"
			}
			fmt.Fprintf(out, "API key (%s): %s\n", envs[0], status)
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Long:  `Create ~/.pitchprophet/config.yaml with every option at its default value.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := configDir()
		if err != nil {
			return err
		}
		path := filepath.Join(dir, "config.yaml")

		if err := writeDefaultConfig(path); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Created default configuration: %s\n", path)
		fmt.Fprintf(cmd.OutOrStdout(), "\nTo view it:\n  pitchprophet config show\n")
		return nil
	},
}

// writeDefaultConfig refuses to overwrite an existing file
func writeDefaultConfig(path string) (err error) {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s (delete it first to recreate)", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close config file: %w", closeErr)
		}
	}()

	header := `# PitchProphet configuration
#
# Configuration hierarchy (highest to lowest priority):
#   1. CLI flags
#   2. Environment variables (PITCHPROPHET_*, e.g. PITCHPROPHET_LLM_PROVIDER)
#   3. This config file
#   4. Built-in defaults
#
# API keys are read from the environment, never from this file:
#   export GEMINI_API_KEY=...      (or API_KEY)
#   export ANTHROPIC_API_KEY=...
#   export OPENAI_API_KEY=...
#   export OLLAMA_BASE_URL=http://localhost:11434

`
	if _, err := f.WriteString(header); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(model.DefaultConfig()); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return enc.Close()
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
