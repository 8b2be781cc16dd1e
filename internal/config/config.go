package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. TRIPRIME_GAME_MAX_ROUNDS.
const EnvPrefix = "TRIPRIME_"

// Player kinds.
const (
	KindConsole   = "console"
	KindHeuristic = "heuristic"
)

// Config holds all game configuration
type Config struct {
	Game      GameConfig      `yaml:"game" envPrefix:"GAME_"`
	Players   []PlayerConfig  `yaml:"players"`
	Log       LogConfig       `yaml:"log" envPrefix:"LOG_"`
	Spectator SpectatorConfig `yaml:"spectator" envPrefix:"SPECTATOR_"`
}

// GameConfig holds rule settings
type GameConfig struct {
	ID             string `yaml:"id" env:"ID"`
	MaxRounds      int    `yaml:"max_rounds" env:"MAX_ROUNDS"`
	PlacementShips int    `yaml:"placement_ships" env:"PLACEMENT_SHIPS"`
	Seed           uint64 `yaml:"seed" env:"SEED"` // 0 draws a random seed
}

// PlayerConfig describes one seat
type PlayerConfig struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
	Kind string `yaml:"kind"` // console or heuristic
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"` // console, plain or json
}

// SpectatorConfig holds the websocket spectator feed settings
type SpectatorConfig struct {
	Enabled    bool    `yaml:"enabled" env:"ENABLED"`
	Host       string  `yaml:"host" env:"HOST"`
	Port       int     `yaml:"port" env:"PORT"`
	HexSize    float64 `yaml:"hex_size" env:"HEX_SIZE"`
	SendBuffer int     `yaml:"send_buffer" env:"SEND_BUFFER"`
}

// Addr returns the listen address.
func (s SpectatorConfig) Addr() string { return fmt.Sprintf("%s:%d", s.Host, s.Port) }

// Load reads configuration from a YAML file, applies TRIPRIME_* environment
// overrides and fills in defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Game.MaxRounds == 0 {
		c.Game.MaxRounds = 9
	}
	if c.Game.PlacementShips == 0 {
		c.Game.PlacementShips = 2
	}
	if len(c.Players) == 0 {
		c.Players = []PlayerConfig{
			{ID: 1, Name: "Player 1", Kind: KindConsole},
			{ID: 2, Name: "Virtual 2", Kind: KindHeuristic},
			{ID: 3, Name: "Virtual 3", Kind: KindHeuristic},
		}
	}
	for i := range c.Players {
		if c.Players[i].Name == "" {
			c.Players[i].Name = fmt.Sprintf("Player %d", c.Players[i].ID)
		}
		if c.Players[i].Kind == "" {
			c.Players[i].Kind = KindHeuristic
		}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Spectator.Port == 0 {
		c.Spectator.Port = 8080
	}
	if c.Spectator.HexSize == 0 {
		c.Spectator.HexSize = 32
	}
	if c.Spectator.SendBuffer == 0 {
		c.Spectator.SendBuffer = 256
	}
}

// Validate checks the settings the engine cannot recover from.
func (c *Config) Validate() error {
	if n := len(c.Players); n < 2 || n > 3 {
		return fmt.Errorf("need 2 or 3 players, got %d", n)
	}
	seen := map[int]bool{}
	for _, p := range c.Players {
		if p.ID < 1 || p.ID > 3 {
			return fmt.Errorf("player %q: id %d out of range 1-3", p.Name, p.ID)
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate player id %d", p.ID)
		}
		seen[p.ID] = true
		if p.Kind != KindConsole && p.Kind != KindHeuristic {
			return fmt.Errorf("player %q: unknown kind %q", p.Name, p.Kind)
		}
	}
	if c.Game.MaxRounds < 1 {
		return fmt.Errorf("max_rounds must be at least 1, got %d", c.Game.MaxRounds)
	}
	if c.Game.PlacementShips < 1 {
		return fmt.Errorf("placement_ships must be at least 1, got %d", c.Game.PlacementShips)
	}
	switch c.Log.Format {
	case "console", "plain", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}
