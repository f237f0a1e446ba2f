package gateway

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/papercomputeco/torngate/pkg/torn"
)

// Environment variables read by LoadConfig.
const (
	EnvAPIKey   = "TORN_API_KEY"
	EnvMode     = "TORNGATE_MODE"
	EnvUpstream = "TORNGATE_UPSTREAM"
	EnvListen   = "TORNGATE_LISTEN"
)

// Mode selects development or production runtime behaviour.
type Mode string

const (
	// ModeDevelopment exposes error details, logs at debug level and
	// hot-reloads a directory-backed userscript catalog.
	ModeDevelopment Mode = "development"

	// ModeProduction hides error details behind status text.
	ModeProduction Mode = "production"
)

// ParseMode parses a mode name. "dev" and "prod" are accepted as short forms.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "development", "dev":
		return ModeDevelopment, nil
	case "production", "prod":
		return ModeProduction, nil
	default:
		return "", fmt.Errorf("invalid mode %q: must be %q or %q", s, ModeDevelopment, ModeProduction)
	}
}

// Development reports whether m is ModeDevelopment.
func (m Mode) Development() bool {
	return m == ModeDevelopment
}

func (m Mode) String() string {
	return string(m)
}

// Config is the gateway configuration. It is read once at startup and never
// modified afterwards.
type Config struct {
	// Address to listen on (e.g., "0.0.0.0:5000")
	ListenAddr string

	// Upstream Torn API base URL (e.g., "https://api.torn.com")
	UpstreamURL string

	// APIKey is used when a request carries no key query parameter.
	APIKey string

	// Timeout bounds each upstream call.
	Timeout time.Duration

	// Mode is the runtime mode.
	Mode Mode

	// LogDir holds app.log. Empty logs to the console only.
	LogDir string

	// UserscriptsDir serves userscripts from a directory instead of the
	// built-in catalog when set.
	UserscriptsDir string
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		ListenAddr:  "0.0.0.0:5000",
		UpstreamURL: torn.DefaultBaseURL,
		Timeout:     torn.DefaultTimeout,
		Mode:        ModeDevelopment,
		LogDir:      "logs",
	}
}

// Validate checks that c can be used to build a Gateway.
func (c Config) Validate() error {
	if c.ListenAddr == "" {
		return errors.New("listen address cannot be empty")
	}
	if c.UpstreamURL == "" {
		return errors.New("upstream URL cannot be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if _, err := ParseMode(string(c.Mode)); err != nil {
		return err
	}
	return nil
}

// fileConfig is the on-disk TOML layout.
type fileConfig struct {
	Listen         string `toml:"listen"`
	Upstream       string `toml:"upstream"`
	APIKey         string `toml:"api_key"`
	Timeout        string `toml:"timeout"`
	Mode           string `toml:"mode"`
	LogDir         string `toml:"log_dir"`
	UserscriptsDir string `toml:"userscripts_dir"`
}

// LoadConfig builds a Config from, in increasing precedence: defaults, the
// TOML file at path, the dotenv file at envFile, and the process environment.
// Either path may be empty. A missing envFile is not an error.
func LoadConfig(path, envFile string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		var fc fileConfig
		if _, err := toml.DecodeFile(path, &fc); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if err := fc.apply(&cfg); err != nil {
			return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
		}
	}

	dotenv := map[string]string{}
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to read env file %s: %w", envFile, err)
		}
		if vars != nil {
			dotenv = vars
		}
	}

	lookup := func(name string) (string, bool) {
		if v, ok := os.LookupEnv(name); ok {
			return v, true
		}
		v, ok := dotenv[name]
		return v, ok
	}

	if v, ok := lookup(EnvAPIKey); ok {
		cfg.APIKey = v
	}
	if v, ok := lookup(EnvUpstream); ok && v != "" {
		cfg.UpstreamURL = v
	}
	if v, ok := lookup(EnvListen); ok && v != "" {
		cfg.ListenAddr = v
	}
	if v, ok := lookup(EnvMode); ok && v != "" {
		mode, err := ParseMode(v)
		if err != nil {
			return Config{}, err
		}
		cfg.Mode = mode
	}

	return cfg, nil
}

func (fc fileConfig) apply(cfg *Config) error {
	if fc.Listen != "" {
		cfg.ListenAddr = fc.Listen
	}
	if fc.Upstream != "" {
		cfg.UpstreamURL = fc.Upstream
	}
	if fc.APIKey != "" {
		cfg.APIKey = fc.APIKey
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if fc.Mode != "" {
		mode, err := ParseMode(fc.Mode)
		if err != nil {
			return err
		}
		cfg.Mode = mode
	}
	if fc.LogDir != "" {
		cfg.LogDir = fc.LogDir
	}
	if fc.UserscriptsDir != "" {
		cfg.UserscriptsDir = fc.UserscriptsDir
	}
	return nil
}
