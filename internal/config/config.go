// Package config loads the playground configuration.
//
// Values come from, in increasing priority: built-in defaults, an optional
// playground.yaml (current directory or /etc/playground) and environment
// variables. Keys in the YAML file are the lower-case environment names,
// e.g. rate_limit_max_requests.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sakif/python-playground/internal/executor/docker"
	"github.com/sakif/python-playground/internal/ratelimit"
	"github.com/sakif/python-playground/internal/service"
)

// Executor backends.
const (
	ExecutorProcess = "process"
	ExecutorDocker  = "docker"
)

const (
	keyHost             = "host"
	keyPort             = "port"
	keyLogLevel         = "log_level"
	keyExecutor         = "executor"
	keyPythonBin        = "python_bin"
	keyDockerImage      = "docker_image"
	keyDBPath           = "db_path"
	keyTemplateDir      = "template_dir"
	keyStaticDir        = "static_dir"
	keyWindowSeconds    = "rate_limit_window_seconds"
	keyMaxRequests      = "rate_limit_max_requests"
	keyInputLine        = "default_input_line"
	keyInputLinesCount  = "default_input_lines_count"
	defaultPort         = 8000
	defaultWindowSecond = 60
)

// Config is the fully resolved configuration.
type Config struct {
	Host     string
	Port     int
	LogLevel string

	Executor    string // ExecutorProcess or ExecutorDocker
	PythonBin   string
	DockerImage string

	// DBPath is the run journal database. Empty disables the journal.
	DBPath      string
	TemplateDir string
	StaticDir   string

	RateLimitWindow      time.Duration
	RateLimitMaxRequests int

	DefaultInputLine       string
	DefaultInputLinesCount int
}

// Load reads the configuration. configFile, when non-empty, names the YAML
// file to use instead of searching for playground.yaml; a named file that
// cannot be read is an error, a missing searched-for file is not.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("playground")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/playground")
	}

	v.SetDefault(keyHost, "0.0.0.0")
	v.SetDefault(keyPort, defaultPort)
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyExecutor, ExecutorProcess)
	v.SetDefault(keyPythonBin, "python3")
	v.SetDefault(keyDockerImage, docker.DefaultConfig().Image)
	v.SetDefault(keyDBPath, "data/playground.db")
	v.SetDefault(keyTemplateDir, "web/templates")
	v.SetDefault(keyStaticDir, "web/static")
	v.SetDefault(keyWindowSeconds, defaultWindowSecond)
	v.SetDefault(keyMaxRequests, ratelimit.DefaultMaxRequests)
	v.SetDefault(keyInputLine, service.DefaultInputLine)
	v.SetDefault(keyInputLinesCount, service.DefaultInputLinesCount)

	// DB_PATH= disables the journal, so an empty variable must count.
	v.AllowEmptyEnv(true)
	for _, key := range []string{
		keyHost, keyPort, keyLogLevel, keyExecutor, keyPythonBin, keyDockerImage,
		keyDBPath, keyTemplateDir, keyStaticDir, keyWindowSeconds, keyMaxRequests,
		keyInputLine, keyInputLinesCount,
	} {
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{
		Host:        v.GetString(keyHost),
		Port:        intOr(v, keyPort, defaultPort),
		LogLevel:    strings.ToLower(v.GetString(keyLogLevel)),
		Executor:    strings.ToLower(v.GetString(keyExecutor)),
		PythonBin:   v.GetString(keyPythonBin),
		DockerImage: v.GetString(keyDockerImage),
		DBPath:      v.GetString(keyDBPath),
		TemplateDir: v.GetString(keyTemplateDir),
		StaticDir:   v.GetString(keyStaticDir),

		RateLimitWindow:      time.Duration(intOr(v, keyWindowSeconds, defaultWindowSecond)) * time.Second,
		RateLimitMaxRequests: intOr(v, keyMaxRequests, ratelimit.DefaultMaxRequests),

		DefaultInputLine:       v.GetString(keyInputLine),
		DefaultInputLinesCount: intOr(v, keyInputLinesCount, service.DefaultInputLinesCount),
	}

	switch cfg.Executor {
	case ExecutorProcess, ExecutorDocker:
	default:
		return nil, fmt.Errorf("unknown executor %q (want %q or %q)", cfg.Executor, ExecutorProcess, ExecutorDocker)
	}

	return cfg, nil
}

// intOr reads key as an integer. A value that does not parse falls back to
// def instead of failing startup.
func intOr(v *viper.Viper, key string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return def
	}
	return n
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// SlogLevel maps LogLevel to a slog level. Unknown names mean Info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// RateLimit returns the limiter configuration.
func (c *Config) RateLimit() ratelimit.Config {
	return ratelimit.Config{
		MaxRequests: c.RateLimitMaxRequests,
		Window:      c.RateLimitWindow,
	}
}

// InputDefaults returns the synthesized-input configuration.
func (c *Config) InputDefaults() service.InputDefaults {
	return service.InputDefaults{
		Line:  c.DefaultInputLine,
		Count: c.DefaultInputLinesCount,
	}
}
