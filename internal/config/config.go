// Package config loads the importer settings from defaults, an optional YAML
// file, the environment and command-line flags, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"sndcds/uranus-tools/internal/constants"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

var (
	ErrMissingRequired = errors.New("missing required option")
	ErrInvalidOption   = errors.New("invalid option")
)

// RequiredKeys must be supplied by some layer. An empty value counts as
// supplied, so an empty --password is accepted.
var RequiredKeys = []string{"csv", "db", "user", "password"}

// pgEnv maps the PG_* variables to config keys.
var pgEnv = map[string]string{
	"PG_HOST":     "host",
	"PG_PORT":     "port",
	"PG_DB":       "db",
	"PG_USER":     "user",
	"PG_PASSWORD": "password",
	"PG_SSLMODE":  "sslmode",
}

// Config holds the settings of one importer run.
type Config struct {
	CSV         string  `koanf:"csv"`
	City        *string `koanf:"city"`
	Country     *string `koanf:"country"`
	Host        string  `koanf:"host"`
	Port        int     `koanf:"port"`
	Database    string  `koanf:"db"`
	User        string  `koanf:"user"`
	Password    string  `koanf:"password"`
	SSLMode     string  `koanf:"sslmode"`
	Table       string  `koanf:"table"`
	BatchSize   int     `koanf:"batch_size"`
	MetricsFile string  `koanf:"metrics_file"`
	Verbose     bool    `koanf:"verbose"`
	AppEnv      string  `koanf:"app_env"`
}

// LoadDotEnv loads .env style files into the process environment. Missing
// files are ignored and variables already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load builds the configuration. cfgFile may be empty; flags may be nil.
// Only flags the user actually set override the lower layers.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"host":       constants.DefaultPGHost,
		"port":       constants.DefaultPGPort,
		"sslmode":    constants.DefaultPGSSLMode,
		"table":      constants.DefaultStationTable,
		"batch_size": constants.DefaultBatchSize,
		"verbose":    false,
		"app_env":    "development",
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// 3. Environment: PG_* as the server uses them, URANUS_* for the rest
	if err := k.Load(env.Provider("PG_", ".", func(s string) string {
		return pgEnv[s]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}
	if err := k.Load(env.Provider("URANUS_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "URANUS_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}
	if appEnv, ok := os.LookupEnv("APP_ENV"); ok {
		_ = k.Set("app_env", appEnv)
	}

	// 4. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var missing []string
	for _, key := range RequiredKeys {
		if !k.Exists(key) {
			missing = append(missing, "--"+key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, strings.Join(missing, ", "))
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would only fail later against the database.
func (c *Config) Validate() error {
	if c.CSV == "" {
		return fmt.Errorf("%w: csv path is empty", ErrInvalidOption)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidOption, c.Port)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch_size must be positive, got %d", ErrInvalidOption, c.BatchSize)
	}
	if strings.TrimSpace(c.Table) == "" {
		return fmt.Errorf("%w: table is empty", ErrInvalidOption)
	}
	return nil
}

// DSN returns the postgres:// connection URL for lib/pq.
func (c *Config) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Database,
	}
	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{c.SSLMode}}.Encode()
	}
	return u.String()
}

// Redacted returns the DSN with the password masked, for logs.
func (c *Config) Redacted() string {
	u, err := url.Parse(c.DSN())
	if err != nil {
		return ""
	}
	return u.Redacted()
}
