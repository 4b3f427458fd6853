// Package config loads the rover settings with koanf from defaults, an
// optional YAML file and ROVER_* environment variables, in increasing order
// of precedence, and decodes them with mapstructure.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/rover/internal/logging"
	"github.com/aretw0/rover/pkg/domain"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/mitchellh/mapstructure"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ROVER_"

// ErrInvalidConfig is returned when the merged settings fail validation.
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Pattern string        `mapstructure:"pattern" yaml:"pattern"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Start   StartConfig   `mapstructure:"start" yaml:"start"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
	Redis   RedisConfig   `mapstructure:"redis" yaml:"redis"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host" yaml:"host"`
	Port            int           `mapstructure:"port" yaml:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// StartConfig is the pose the robot takes at startup and on reset.
type StartConfig struct {
	X      int              `mapstructure:"x" yaml:"x"`
	Y      int              `mapstructure:"y" yaml:"y"`
	Facing domain.Direction `mapstructure:"facing" yaml:"facing"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// RedisConfig enables the Redis event publisher when Addr is set.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" yaml:"addr"`
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db" yaml:"db"`
	Channel  string `mapstructure:"channel" yaml:"channel"`
}

// Addr returns the listen address of the HTTP server.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Pose returns the configured start pose.
func (c StartConfig) Pose() domain.Pose {
	return domain.NewPose(c.X, c.Y, c.Facing)
}

// defaults is the lowest configuration layer. Every supported key appears
// here; environment variables for keys not listed are ignored.
const defaults = `
pattern: no_pattern
server:
  host: 0.0.0.0
  port: 8080
  shutdown_timeout: 5s
start:
  x: 0
  y: 0
  facing: North
log:
  level: info
  format: text
metrics:
  enabled: true
redis:
  addr: ""
  password: ""
  db: 0
  channel: "rover:pose"
`

// Load reads the settings: defaults, then the YAML file at path (may be
// empty), then ROVER_* environment variables.
//
//	ROVER_PATTERN                  -> pattern
//	ROVER_SERVER_SHUTDOWN_TIMEOUT  -> server.shutdown_timeout
//	ROVER_REDIS_ADDR               -> redis.addr
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider([]byte(defaults)), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config defaults: %w", err)
	}

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		// Split on the first underscore only: SERVER_SHUTDOWN_TIMEOUT -> server.shutdown_timeout
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		if section, field, ok := strings.Cut(key, "_"); ok {
			key = section + "." + field
		}
		if !k.Exists(key) {
			return ""
		}
		return key
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg, err := Decode(k.Raw())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode converts a settings tree into a Config. Unknown keys are an error.
func Decode(tree map[string]any) (*Config, error) {
	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.TextUnmarshallerHookFunc(),
		),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build config decoder: %w", err)
	}
	if err := decoder.Decode(tree); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return &cfg, nil
}

// Validate checks the values that decoding alone cannot.
func (c *Config) Validate() error {
	var errs []error
	if c.Pattern == "" {
		errs = append(errs, errors.New("pattern must not be empty"))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	if c.Server.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("server.shutdown_timeout must not be negative: %s", c.Server.ShutdownTimeout))
	}
	if !c.Start.Facing.IsValid() {
		errs = append(errs, fmt.Errorf("start.facing: %w: %d", domain.ErrUnknownDirection, int(c.Start.Facing)))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	if c.Redis.DB < 0 {
		errs = append(errs, fmt.Errorf("redis.db must not be negative: %d", c.Redis.DB))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
