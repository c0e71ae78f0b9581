// Package config loads polisher settings from a TOML file and the
// environment.
//
// Settings are resolved in order: built-in defaults, then the config file
// ($XDG_CONFIG_HOME/polisher/config.toml unless a path is given), then
// POLISHER_* environment variables. Command-line flags override all three
// and are applied by the caller.
//
// Example file:
//
//	brands_file = "~/brands.yaml"
//	parallel = 8
//
//	[server]
//	addr = ":8080"
//	redis_addr = "localhost:6379"
//
//	[quality]
//	runt_words = 3
//	policy = { review = "ACCEPTABLE" }
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/polisher/pkg/errors"
	"github.com/matzehuels/polisher/pkg/quality"
)

// Defaults.
const (
	DefaultAddr           = ":8080"
	DefaultParallel       = 4
	DefaultTimeoutSeconds = 60
	DefaultMaxUploadMB    = 32
	DefaultMongoDB        = "polisher"
)

// Environment variable names.
const (
	EnvBrandsFile = "POLISHER_BRANDS_FILE"
	EnvCacheDir   = "POLISHER_CACHE_DIR"
	EnvNoCache    = "POLISHER_NO_CACHE"
	EnvParallel   = "POLISHER_PARALLEL"
	EnvAddr       = "POLISHER_ADDR"
	EnvRedisAddr  = "POLISHER_REDIS_ADDR"
	EnvMongoURI   = "POLISHER_MONGO_URI"
	EnvMongoDB    = "POLISHER_MONGO_DB"
)

// Config holds all settings.
type Config struct {
	BrandsFile string        `toml:"brands_file"`
	CacheDir   string        `toml:"cache_dir"`
	NoCache    bool          `toml:"no_cache"`
	Parallel   int           `toml:"parallel"`
	Server     ServerConfig  `toml:"server"`
	Quality    QualityConfig `toml:"quality"`
}

// ServerConfig configures `polisher serve`.
type ServerConfig struct {
	Addr           string `toml:"addr"`
	RedisAddr      string `toml:"redis_addr"`
	MongoURI       string `toml:"mongo_uri"`
	MongoDB        string `toml:"mongo_db"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxUploadMB    int    `toml:"max_upload_mb"`
}

// QualityConfig tunes the validator.
type QualityConfig struct {
	RuntWords int `toml:"runt_words"`
	// Policy maps severity names to verdict names and overrides the
	// default mapping per key.
	Policy map[string]string `toml:"policy"`
}

// DefaultPath returns the config file location under the user config
// directory, honoring XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "polisher", "config.toml"), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "polisher", "config.toml"), nil
}

// Load reads the config file at path, or the default location when path is
// empty, then applies the environment and defaults. A missing default file
// is not an error; a missing explicit file is.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if !explicit && os.IsNotExist(err) {
				cfg = &Config{}
			} else {
				return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "load config %s", path)
			}
		}
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from POLISHER_* variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	setString(&c.BrandsFile, EnvBrandsFile)
	setString(&c.CacheDir, EnvCacheDir)
	setString(&c.Server.Addr, EnvAddr)
	setString(&c.Server.RedisAddr, EnvRedisAddr)
	setString(&c.Server.MongoURI, EnvMongoURI)
	setString(&c.Server.MongoDB, EnvMongoDB)

	if v := strings.TrimSpace(getenv(EnvParallel)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeConfiguration, err, "%s", EnvParallel)
		}
		c.Parallel = n
	}
	if v := strings.TrimSpace(getenv(EnvNoCache)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeConfiguration, err, "%s", EnvNoCache)
		}
		c.NoCache = b
	}
	return nil
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Parallel <= 0 {
		c.Parallel = DefaultParallel
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.MongoDB == "" {
		c.Server.MongoDB = DefaultMongoDB
	}
	if c.Server.TimeoutSeconds <= 0 {
		c.Server.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if c.Server.MaxUploadMB <= 0 {
		c.Server.MaxUploadMB = DefaultMaxUploadMB
	}
	c.BrandsFile = expandHome(c.BrandsFile)
	c.CacheDir = expandHome(c.CacheDir)
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	if c.Quality.RuntWords < 0 {
		return errors.New(errors.ErrCodeConfiguration, "quality.runt_words must not be negative")
	}
	_, err := c.Policy()
	return err
}

// Policy returns the verdict policy: the default mapping with the
// configured overrides applied.
func (c *Config) Policy() (quality.Policy, error) {
	p := quality.DefaultPolicy()
	for sev, lvl := range c.Quality.Policy {
		var s quality.Severity
		if err := s.UnmarshalText([]byte(sev)); err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "quality.policy")
		}
		l, err := quality.ParseLevel(lvl)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "quality.policy.%s", sev)
		}
		p[s] = l
	}
	return p, nil
}

// ValidatorOptions translates the quality settings into validator options.
func (c *Config) ValidatorOptions() ([]quality.Option, error) {
	p, err := c.Policy()
	if err != nil {
		return nil, err
	}
	opts := []quality.Option{quality.WithPolicy(p)}
	if c.Quality.RuntWords > 0 {
		opts = append(opts, quality.WithRuntThreshold(c.Quality.RuntWords))
	}
	return opts, nil
}

// String renders the effective configuration as TOML.
func (c *Config) String() string {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return b.String()
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
