// Package config loads botgame settings from a YAML file, BOTGAME_*
// environment variables and built-in defaults, in increasing order of
// precedence: defaults, file, environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/chrisjuchem/botgame/internal/game"
)

// Config is the complete settings tree.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Rules   RulesConfig   `mapstructure:"rules"`
	Content ContentConfig `mapstructure:"content"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	TCPAddr       string        `mapstructure:"tcp_addr"`
	WSAddr        string        `mapstructure:"ws_addr"` // empty disables the HTTP/WebSocket listener
	TickInterval  time.Duration `mapstructure:"tick_interval"`
	OutboundQueue int           `mapstructure:"outbound_queue"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	MaxFrameBytes int           `mapstructure:"max_frame_bytes"`
}

type RulesConfig struct {
	GridRows      int `mapstructure:"grid_rows"`
	GridCols      int `mapstructure:"grid_cols"`
	EnergyRegen   int `mapstructure:"energy_regen"`
	MaxBatchSteps int `mapstructure:"max_batch_steps"`
}

// MatchConfig converts the rules section for game.NewMatch. The logger is
// left for the caller.
func (r RulesConfig) MatchConfig() game.MatchConfig {
	return game.MatchConfig{
		Rows:          r.GridRows,
		Cols:          r.GridCols,
		EnergyRegen:   r.EnergyRegen,
		MaxBatchSteps: r.MaxBatchSteps,
	}
}

type ContentConfig struct {
	DecksFile string `mapstructure:"decks_file"`
	CatalogDB string `mapstructure:"catalog_db"` // empty: decks come from DecksFile only
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EnvPrefix prefixes every environment override, e.g. BOTGAME_SERVER_TCP_ADDR.
const EnvPrefix = "BOTGAME"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.tcp_addr", ":7777")
	v.SetDefault("server.ws_addr", ":8080")
	v.SetDefault("server.tick_interval", 20*time.Millisecond)
	v.SetDefault("server.outbound_queue", 64)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.max_frame_bytes", 1<<20)

	v.SetDefault("rules.grid_rows", game.DefaultGridRows)
	v.SetDefault("rules.grid_cols", game.DefaultGridCols)
	v.SetDefault("rules.energy_regen", 1)
	v.SetDefault("rules.max_batch_steps", 10000)

	v.SetDefault("content.decks_file", "decks.yaml")
	v.SetDefault("content.catalog_db", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Default returns the built-in settings.
func Default() (*Config, error) {
	return Load("")
}

// Load reads path (if non-empty) over the defaults and applies environment
// overrides. A missing file is an error; an empty path is not.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every out-of-range setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.TCPAddr == "" && c.Server.WSAddr == "" {
		errs = append(errs, errors.New("server: at least one of tcp_addr and ws_addr is required"))
	}
	if c.Server.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("server: tick_interval must be positive, got %s", c.Server.TickInterval))
	}
	if c.Server.OutboundQueue <= 0 {
		errs = append(errs, fmt.Errorf("server: outbound_queue must be positive, got %d", c.Server.OutboundQueue))
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server: write_timeout must be positive, got %s", c.Server.WriteTimeout))
	}
	if c.Server.MaxFrameBytes <= 0 {
		errs = append(errs, fmt.Errorf("server: max_frame_bytes must be positive, got %d", c.Server.MaxFrameBytes))
	}
	if c.Rules.GridRows <= 0 || c.Rules.GridCols <= 0 {
		errs = append(errs, fmt.Errorf("rules: grid must be at least 1x1, got %dx%d", c.Rules.GridRows, c.Rules.GridCols))
	}
	if c.Rules.EnergyRegen <= 0 {
		errs = append(errs, fmt.Errorf("rules: energy_regen must be positive, got %d", c.Rules.EnergyRegen))
	}
	if c.Rules.MaxBatchSteps < 0 {
		errs = append(errs, fmt.Errorf("rules: max_batch_steps must not be negative, got %d", c.Rules.MaxBatchSteps))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging: format must be json or console, got %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}

// NewLogger builds the process logger from the logging section. Unknown
// levels fall back to info.
func NewLogger(cfg LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	// Keep stdout free for the CLI and the MCP stdio transport.
	zapCfg.OutputPaths = []string{"stderr"}

	return zapCfg.Build()
}
