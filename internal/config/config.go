// Package config reads and writes the user configuration file
// (~/.config/go-shortscript/config) with environment variable fallbacks.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Config keys.
const (
	KeyProvider    = "provider"
	KeyModel       = "model"
	KeyPromptStyle = "prompt-style"
	KeyPromptFile  = "prompt-file"
	KeyListenAddr  = "listen-addr"
	KeySessionTTL  = "session-ttl"
	KeyLogFormat   = "log-format"
	KeyOutputDir   = "output-dir"
)

// Environment variable fallbacks.
const (
	EnvProvider    = "SHORTSCRIPT_PROVIDER"
	EnvModel       = "SHORTSCRIPT_MODEL"
	EnvPromptStyle = "SHORTSCRIPT_PROMPT_STYLE"
	EnvPromptFile  = "SHORTSCRIPT_PROMPT_FILE"
	EnvListenAddr  = "SHORTSCRIPT_LISTEN_ADDR"
	EnvSessionTTL  = "SHORTSCRIPT_SESSION_TTL"
	EnvLogFormat   = "SHORTSCRIPT_LOG_FORMAT"
	EnvOutputDir   = "SHORTSCRIPT_OUTPUT_DIR"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Sentinel errors.
var (
	// ErrInvalidKey indicates a key that cannot be stored in the file format.
	ErrInvalidKey = errors.New("invalid config key")
	// ErrInvalidSyntax indicates a config file line without "=".
	ErrInvalidSyntax = errors.New("invalid config syntax")
	// ErrUnknownKey indicates a key that is not a recognized setting.
	ErrUnknownKey = errors.New("unknown config key")
	// ErrInvalidValue indicates a value rejected by its key's validator.
	ErrInvalidValue = errors.New("invalid config value")
	// ErrNotDirectory indicates the output-dir path exists but is a file.
	ErrNotDirectory = errors.New("path is not a directory")
	// ErrNotWritable indicates the output-dir cannot be written to.
	ErrNotWritable = errors.New("directory is not writable")
)

// keyEnv maps each key to its environment fallback, in display order.
var keyEnv = []struct{ key, env string }{
	{KeyProvider, EnvProvider},
	{KeyModel, EnvModel},
	{KeyPromptStyle, EnvPromptStyle},
	{KeyPromptFile, EnvPromptFile},
	{KeyListenAddr, EnvListenAddr},
	{KeySessionTTL, EnvSessionTTL},
	{KeyLogFormat, EnvLogFormat},
	{KeyOutputDir, EnvOutputDir},
}

// Config holds user configuration. Empty fields mean "use the default".
type Config struct {
	Provider    string
	Model       string
	PromptStyle string
	PromptFile  string
	ListenAddr  string
	SessionTTL  string
	LogFormat   string
	OutputDir   string
}

// field returns a pointer to the Config field for key.
func (c *Config) field(key string) *string {
	switch key {
	case KeyProvider:
		return &c.Provider
	case KeyModel:
		return &c.Model
	case KeyPromptStyle:
		return &c.PromptStyle
	case KeyPromptFile:
		return &c.PromptFile
	case KeyListenAddr:
		return &c.ListenAddr
	case KeySessionTTL:
		return &c.SessionTTL
	case KeyLogFormat:
		return &c.LogFormat
	case KeyOutputDir:
		return &c.OutputDir
	}
	return nil
}

// Keys returns the recognized keys in display order.
func Keys() []string {
	keys := make([]string, len(keyEnv))
	for i, ke := range keyEnv {
		keys[i] = ke.key
	}
	return keys
}

// IsKey reports whether key is a recognized setting.
func IsKey(key string) bool {
	for _, ke := range keyEnv {
		if ke.key == key {
			return true
		}
	}
	return false
}

// Validate checks a value for key. Provider and prompt-style names are
// validated by their owning packages at startup; here only keys whose format
// config itself knows are checked.
func Validate(key, value string) error {
	if !IsKey(key) {
		return fmt.Errorf("%q (valid keys: %s): %w", key, strings.Join(Keys(), ", "), ErrUnknownKey)
	}
	switch key {
	case KeySessionTTL:
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fmt.Errorf("%s must be a positive duration like 2h or 30m, got %q: %w", key, value, ErrInvalidValue)
		}
	case KeyLogFormat:
		if value != LogFormatText && value != LogFormatJSON {
			return fmt.Errorf("%s must be %q or %q, got %q: %w", key, LogFormatText, LogFormatJSON, value, ErrInvalidValue)
		}
	case KeyOutputDir:
		return EnsureOutputDir(value)
	}
	return nil
}

// SessionTTLDuration parses SessionTTL. Returns zero if unset.
func (c Config) SessionTTLDuration() (time.Duration, error) {
	if c.SessionTTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.SessionTTL)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s %q: %w", KeySessionTTL, c.SessionTTL, ErrInvalidValue)
	}
	return d, nil
}

// dir returns the configuration directory path.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/go-shortscript.
func dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "go-shortscript"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "go-shortscript"), nil
}

// path returns the full path to the config file.
func path() (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config"), nil
}

// Path returns the config file location.
func Path() (string, error) {
	return path()
}

// Load reads the configuration file and environment variables.
// Precedence: config file values, then environment variable fallbacks.
// Returns an empty Config if the file doesn't exist (not an error).
// Unknown keys in the file are ignored.
func Load() (Config, error) {
	var cfg Config

	p, err := path()
	if err != nil {
		return cfg, err
	}

	// Read config file if it exists.
	if data, err := parseFile(p); err == nil {
		for key, value := range data {
			if f := cfg.field(key); f != nil {
				*f = value
			}
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	// Environment variable fallback (only if not set in config).
	for _, ke := range keyEnv {
		if f := cfg.field(ke.key); *f == "" {
			*f = os.Getenv(ke.env)
		}
	}

	return cfg, nil
}

// parseFile reads a key=value config file.
// Format: one key=value per line, # comments, empty lines ignored.
func parseFile(p string) (map[string]string, error) {
	f, err := os.Open(p) // #nosec G304 -- config path is constructed from home dir
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	data := make(map[string]string)
	scanner := bufio.NewScanner(f)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: %q: %w", lineNum, line, ErrInvalidSyntax)
		}
		data[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return data, nil
}

// Save writes a single key=value to the config file.
// Creates the config directory and file if they don't exist.
// Preserves existing key=value pairs but discards comments.
func Save(key, value string) error {
	if key == "" || strings.ContainsAny(key, "=\n\r#") {
		return fmt.Errorf("%q: %w", key, ErrInvalidKey)
	}
	if strings.ContainsAny(value, "\n\r") {
		return fmt.Errorf("%s value contains a newline: %w", key, ErrInvalidValue)
	}

	p, err := path()
	if err != nil {
		return err
	}

	// Ensure config directory exists.
	if err := os.MkdirAll(filepath.Dir(p), 0750); err != nil { // #nosec G301 -- user config dir
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	existing, err := parseFile(p)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if existing == nil {
		existing = make(map[string]string)
	}

	existing[key] = value
	return writeFile(p, existing)
}

// writeFile writes the config map to a file, keys sorted.
func writeFile(p string, data map[string]string) (err error) {
	// #nosec G302 G304 -- config file with standard permissions, path from home dir
	f, err := os.OpenFile(p, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("cannot write config file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to write config: %w", cerr)
		}
	}()

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, err := fmt.Fprintf(f, "%s=%s\n", key, data[key]); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

// Get reads a single value from the config file.
// Returns empty string if the key doesn't exist.
func Get(key string) (string, error) {
	p, err := path()
	if err != nil {
		return "", err
	}

	data, err := parseFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}

	return data[key], nil
}

// List returns all config values as a map.
func List() (map[string]string, error) {
	p, err := path()
	if err != nil {
		return nil, err
	}

	data, err := parseFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}

	return data, nil
}

// ResolveOutputPath resolves the final output path using the following precedence:
//  1. If output is absolute, use it as-is
//  2. If output is relative and outputDir is set, join them
//  3. If output is empty, use defaultName in outputDir (or cwd if no outputDir)
func ResolveOutputPath(output, outputDir, defaultName string) string {
	if output != "" && filepath.IsAbs(output) {
		return filepath.Clean(output)
	}

	if output != "" {
		if outputDir != "" {
			return filepath.Clean(filepath.Join(outputDir, output))
		}
		return filepath.Clean(output)
	}

	if outputDir != "" {
		return filepath.Clean(filepath.Join(outputDir, defaultName))
	}
	return filepath.Clean(defaultName)
}

// EnsureOutputDir checks that d is usable as output-dir, creating it if missing.
func EnsureOutputDir(d string) error {
	if d == "" {
		return fmt.Errorf("output-dir cannot be empty: %w", ErrInvalidValue)
	}
	d = ExpandPath(d)

	info, err := os.Stat(d)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("cannot access directory: %w", err)
		}
		if err := os.MkdirAll(d, 0750); err != nil { // #nosec G301 -- user output dir
			return fmt.Errorf("cannot create directory: %w", err)
		}
		return nil
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", d, ErrNotDirectory)
	}

	// Check if writable by attempting to create a temp file.
	testFile := filepath.Join(d, ".go-shortscript-write-test")
	f, err := os.Create(testFile) // #nosec G304 -- path is constructed from validated dir
	if err != nil {
		return fmt.Errorf("%s: %w", d, ErrNotWritable)
	}
	_ = f.Close()
	_ = os.Remove(testFile)
	return nil
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(p string) string {
	if p == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return p
	}
	if strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, p[2:])
	}
	return p
}
