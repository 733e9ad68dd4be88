// Package config loads server and engine settings with viper: YAML file,
// BROADSIDE_* environment overrides, then defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/broadside/broadside-server-go/internal/game"
	"github.com/broadside/broadside-server-go/internal/game/ai"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// BROADSIDE_AI_DIFFICULTY=hard.
const EnvPrefix = "BROADSIDE"

// Config is the full application configuration.
type Config struct {
	Game     GameConfig     `mapstructure:"game"`
	AI       AIConfig       `mapstructure:"ai"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Server   ServerConfig   `mapstructure:"server"`
	Simulate SimulateConfig `mapstructure:"simulate"`
}

// GameConfig holds the rules knobs.
type GameConfig struct {
	FleetCap            int    `mapstructure:"fleet_cap"`
	ShieldCooldownTurns int    `mapstructure:"shield_cooldown_turns"`
	WinCondition        string `mapstructure:"win_condition"`
	TieBreak            string `mapstructure:"tie_break"`
	StartingHands       []int  `mapstructure:"starting_hands"`
	FirstTurnBonusDraw  bool   `mapstructure:"first_turn_bonus_draw"`
	GuaranteeAce        bool   `mapstructure:"guarantee_ace"`
	HistoryDepth        int    `mapstructure:"history_depth"`
	Seed                int64  `mapstructure:"seed"`
}

// AIConfig controls the computer opponent.
type AIConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Difficulty string        `mapstructure:"difficulty"`
	Player     int           `mapstructure:"player"`
	Delay      time.Duration `mapstructure:"delay"`
}

// LoggingConfig selects the zap level and encoding.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig configures the websocket shell.
type ServerConfig struct {
	WebSocket   WebSocketConfig `mapstructure:"websocket"`
	MaxSessions int             `mapstructure:"max_sessions"`
}

// WebSocketConfig configures the websocket listener.
type WebSocketConfig struct {
	Address         string        `mapstructure:"address"`
	ReadBufferSize  int           `mapstructure:"read_buffer_size"`
	WriteBufferSize int           `mapstructure:"write_buffer_size"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// SimulateConfig configures the headless AI ladder.
type SimulateConfig struct {
	Games    int      `mapstructure:"games"`
	MaxTurns int      `mapstructure:"max_turns"`
	Entrants []string `mapstructure:"entrants"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("game.fleet_cap", 3)
	v.SetDefault("game.shield_cooldown_turns", 1)
	v.SetDefault("game.win_condition", string(game.WinFlagship))
	v.SetDefault("game.tie_break", string(game.TieSuddenDeath))
	v.SetDefault("game.starting_hands", []int{7, 6})
	v.SetDefault("game.first_turn_bonus_draw", true)
	v.SetDefault("game.guarantee_ace", true)
	v.SetDefault("game.history_depth", 80)
	v.SetDefault("game.seed", 0)

	v.SetDefault("ai.enabled", true)
	v.SetDefault("ai.difficulty", string(ai.Normal))
	v.SetDefault("ai.player", 1)
	v.SetDefault("ai.delay", 160*time.Millisecond)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("server.websocket.address", ":8080")
	v.SetDefault("server.websocket.read_buffer_size", 1024)
	v.SetDefault("server.websocket.write_buffer_size", 1024)
	v.SetDefault("server.websocket.write_timeout", 10*time.Second)
	v.SetDefault("server.websocket.allowed_origins", []string{})
	v.SetDefault("server.max_sessions", 64)

	v.SetDefault("simulate.games", 10)
	v.SetDefault("simulate.max_turns", 400)
	v.SetDefault("simulate.entrants", []string{string(ai.Easy), string(ai.Normal), string(ai.Hard)})
}

// Load reads configuration from path. A missing file is not an error: the
// defaults and environment still apply. An empty path skips the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate checks enum values and ranges.
func (c *Config) Validate() error {
	if len(c.Game.StartingHands) != 2 {
		return fmt.Errorf("game.starting_hands needs two entries, got %d", len(c.Game.StartingHands))
	}
	if _, err := ai.ParseDifficulty(c.AI.Difficulty); err != nil {
		return fmt.Errorf("ai.difficulty: %w", err)
	}
	if err := c.GameOptions().Validate(); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	if c.Server.MaxSessions < 1 {
		return fmt.Errorf("server.max_sessions must be at least 1, got %d", c.Server.MaxSessions)
	}
	if c.Simulate.Games < 1 || c.Simulate.MaxTurns < 1 {
		return fmt.Errorf("simulate.games and simulate.max_turns must be positive")
	}
	for _, name := range c.Simulate.Entrants {
		if _, err := ai.ParseDifficulty(name); err != nil {
			return fmt.Errorf("simulate.entrants: %w", err)
		}
	}
	return nil
}

// GameOptions converts the game and ai sections into engine options.
func (c *Config) GameOptions() game.Options {
	opts := game.Options{
		FleetCap:            c.Game.FleetCap,
		ShieldCooldownTurns: c.Game.ShieldCooldownTurns,
		WinCondition:        game.WinCondition(strings.ToLower(c.Game.WinCondition)),
		TieBreak:            game.TieBreak(strings.ToLower(c.Game.TieBreak)),
		FirstTurnBonusDraw:  c.Game.FirstTurnBonusDraw,
		GuaranteeAce:        c.Game.GuaranteeAce,
		HistoryDepth:        c.Game.HistoryDepth,
		Seed:                c.Game.Seed,
		AIEnabled:           c.AI.Enabled,
		AIPlayer:            c.AI.Player,
		AIDelay:             c.AI.Delay,
	}
	copy(opts.StartingHands[:], c.Game.StartingHands)
	return opts
}

// Difficulty returns the parsed AI tier.
func (c *Config) Difficulty() ai.Difficulty {
	d, err := ai.ParseDifficulty(c.AI.Difficulty)
	if err != nil {
		return ai.Normal
	}
	return d
}
