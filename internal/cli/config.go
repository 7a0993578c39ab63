package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/alnah/go-shortscript/internal/config"
	"github.com/alnah/go-shortscript/internal/prompt"
)

// configEnvVars maps each config key to its environment fallback.
var configEnvVars = map[string]string{
	config.KeyProvider:    config.EnvProvider,
	config.KeyModel:       config.EnvModel,
	config.KeyPromptStyle: config.EnvPromptStyle,
	config.KeyPromptFile:  config.EnvPromptFile,
	config.KeyListenAddr:  config.EnvListenAddr,
	config.KeySessionTTL:  config.EnvSessionTTL,
	config.KeyLogFormat:   config.EnvLogFormat,
	config.KeyOutputDir:   config.EnvOutputDir,
}

// ConfigCmd creates the config command with subcommands.
// The env parameter provides injectable dependencies for testing.
func ConfigCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage persistent configuration settings.

Configuration is stored in ~/.config/go-shortscript/config.
Settings can also be provided via environment variables.

Supported settings:
  provider      Text generation backend: gemini, openai, offline (env: SHORTSCRIPT_PROVIDER)
  model         Model name for the provider (env: SHORTSCRIPT_MODEL)
  prompt-style  Prompt style: sections, lines (env: SHORTSCRIPT_PROMPT_STYLE)
  prompt-file   YAML file overriding the prompt templates (env: SHORTSCRIPT_PROMPT_FILE)
  listen-addr   Address for "serve" (env: SHORTSCRIPT_LISTEN_ADDR)
  session-ttl   Idle time before a web session is discarded (env: SHORTSCRIPT_SESSION_TTL)
  log-format    Server log format: text, json (env: SHORTSCRIPT_LOG_FORMAT)
  output-dir    Default directory for output files (env: SHORTSCRIPT_OUTPUT_DIR)`,
		Example: `  shortscript config set provider openai
  shortscript config set output-dir ~/Documents/scripts
  shortscript config get provider
  shortscript config list`,
	}

	cmd.AddCommand(configSetCmd(env))
	cmd.AddCommand(configGetCmd(env))
	cmd.AddCommand(configListCmd(env))

	return cmd
}

// configSetCmd creates the "config set" subcommand.
func configSetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value.

Values are validated before saving. For output-dir the directory is
created if it doesn't exist.`,
		Example: `  shortscript config set provider gemini
  shortscript config set session-ttl 30m`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(env, args[0], args[1])
		},
	}
}

// configGetCmd creates the "config get" subcommand.
func configGetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Get a configuration value.

Prints the value to stdout, or nothing if not set.`,
		Example: `  shortscript config get provider`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(env, args[0])
		},
	}
}

// configListCmd creates the "config list" subcommand.
func configListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long: `List all configuration values.

Shows both values from the config file and environment variable fallbacks.`,
		Example: `  shortscript config list`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigList(env)
		},
	}
}

// runConfigSet handles the "config set" command.
func runConfigSet(env *Env, key, value string) error {
	if err := config.Validate(key, value); err != nil {
		return err
	}

	// Key-specific validation owned by other packages.
	switch key {
	case config.KeyProvider:
		if _, err := ParseProvider(value); err != nil {
			return err
		}
	case config.KeyPromptStyle:
		if _, err := prompt.ParseStyle(value); err != nil {
			return err
		}
	case config.KeyPromptFile:
		if _, err := prompt.LoadFile(config.ExpandPath(value), prompt.DefaultStyle); err != nil {
			return fmt.Errorf("invalid prompt-file: %w", err)
		}
		value = config.ExpandPath(value)
	case config.KeyOutputDir:
		// Store the expanded path for consistency.
		value = config.ExpandPath(value)
	}

	if err := config.Save(key, value); err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Set %s = %s\n", key, value)
	return nil
}

// runConfigGet handles the "config get" command.
func runConfigGet(env *Env, key string) error {
	if !config.IsKey(key) {
		return fmt.Errorf("%q: %w", key, config.ErrUnknownKey)
	}

	value, err := config.Get(key)
	if err != nil {
		return err
	}

	// Check environment variable fallback.
	if value == "" {
		value = env.Getenv(configEnvVars[key])
	}

	if value != "" {
		fmt.Fprintln(env.Stdout, value)
	}

	return nil
}

// runConfigList handles the "config list" command.
func runConfigList(env *Env) error {
	data, err := config.List()
	if err != nil {
		return err
	}

	// Add environment variable values for completeness.
	for _, key := range config.Keys() {
		if _, ok := data[key]; ok {
			continue
		}
		if envVal := env.Getenv(configEnvVars[key]); envVal != "" {
			data[key] = envVal + " (from env)"
		}
	}

	if len(data) == 0 {
		fmt.Fprintln(env.Stdout, "No configuration set.")
		fmt.Fprintln(env.Stdout, "\nAvailable settings:")
		for _, key := range config.Keys() {
			fmt.Fprintf(env.Stdout, "  %s\n", key)
		}
		return nil
	}

	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fmt.Fprintf(env.Stdout, "%s=%s\n", key, data[key])
	}

	return nil
}
