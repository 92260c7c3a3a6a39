package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// GameServer holds all configuration for the authoritative simulation server.
type GameServer struct {
	// Network
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`

	LogLevel string `yaml:"log_level"`

	// Database
	Database DatabaseConfig `yaml:"database"`

	// Simulation tuning
	Sim SimConfig `yaml:"sim"`

	// Fleet spawned at session start. The database fleet table, when
	// populated, takes priority over this static list.
	Fleet []ShipEntry `yaml:"fleet"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// SimConfig holds every tunable of the motion/ballistics simulation.
// All angles are radians, all rates are per second, so the same values
// drive both the fixed-rate authoritative tick and variable-rate observers.
type SimConfig struct {
	TickMillis int `yaml:"tick_ms"` // authoritative tick period

	// Wheel / rudder
	WheelTurnRate    float64 `yaml:"wheel_turn_rate"`   // rad/s applied while a helm direction is held
	MaxWheelAngle    float64 `yaml:"max_wheel_angle"`   // hard clamp, never wraps
	RudderEfficiency float64 `yaml:"rudder_efficiency"` // wheelAngle -> turnRate linear gain
	TurnRateEpsilon  float64 `yaml:"turn_rate_epsilon"` // |turnRate| below this is exactly zero

	// Speed table indexed by a ship's speed level; level 0 is always 0.
	SpeedTable []float64 `yaml:"speed_table"`

	// Ballistics. Durations are seconds because the closed-form motion is
	// evaluated from elapsed seconds, not ticks.
	Gravity            float64 `yaml:"gravity"`
	MuzzleSpeed        float64 `yaml:"muzzle_speed"`
	ProjectileLifetime float64 `yaml:"projectile_lifetime"` // seconds
	ClaimGracePeriod   float64 `yaml:"claim_grace_period"`  // seconds
	HitTolerance       float64 `yaml:"hit_tolerance"`       // footprint scale for weapon hits (boarding uses 1.0)

	// Rendering projection shared with observers (tile width : height).
	TileAspect float64 `yaml:"tile_aspect"`

	// Playable area; projectiles leaving it by OutOfBoundsMargin expire early.
	WorldWidth        float64 `yaml:"world_width"`
	WorldHeight       float64 `yaml:"world_height"`
	OutOfBoundsMargin float64 `yaml:"out_of_bounds_margin"`

	// Sinking / respawn
	SinkDuration float64 `yaml:"sink_duration"` // seconds
}

// TickInterval returns the authoritative tick period as a duration.
func (s SimConfig) TickInterval() time.Duration {
	return time.Duration(s.TickMillis) * time.Millisecond
}

// ShipEntry describes one platform created at session start.
type ShipEntry struct {
	Name       string  `yaml:"name"`
	Class      string  `yaml:"class"`
	SpawnX     float64 `yaml:"spawn_x"`
	SpawnY     float64 `yaml:"spawn_y"`
	Heading    float64 `yaml:"heading"` // radians
	MaxHealth  int32   `yaml:"max_health"`
	HalfLength float64 `yaml:"half_length"`
	HalfBeam   float64 `yaml:"half_beam"`
	Mounts     int     `yaml:"mounts"` // weapon mounts per side
}

// DefaultGameServer returns GameServer config with sensible defaults.
func DefaultGameServer() GameServer {
	return GameServer{
		BindAddress: "0.0.0.0",
		Port:        7777,
		LogLevel:    "info",
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "seafall",
			Password: "seafall",
			DBName:   "seafall",
			SSLMode:  "disable",
		},
		Sim: DefaultSim(),
		Fleet: []ShipEntry{
			{
				Name:       "Gull",
				Class:      "sloop",
				SpawnX:     1200,
				SpawnY:     800,
				MaxHealth:  100,
				HalfLength: 64,
				HalfBeam:   28,
				Mounts:     2,
			},
			{
				Name:       "Kestrel",
				Class:      "sloop",
				SpawnX:     2400,
				SpawnY:     1600,
				Heading:    math.Pi,
				MaxHealth:  100,
				HalfLength: 64,
				HalfBeam:   28,
				Mounts:     2,
			},
		},
	}
}

// DefaultSim returns the simulation tuning used when the config file omits it.
func DefaultSim() SimConfig {
	return SimConfig{
		TickMillis:         50,
		WheelTurnRate:      1.5,
		MaxWheelAngle:      math.Pi,
		RudderEfficiency:   0.1,
		TurnRateEpsilon:    1e-4,
		SpeedTable:         []float64{0, 30, 60, 100},
		Gravity:            400,
		MuzzleSpeed:        300,
		ProjectileLifetime: 3.0,
		ClaimGracePeriod:   0.5,
		HitTolerance:       1.2,
		TileAspect:         2.0,
		WorldWidth:         8192,
		WorldHeight:        8192,
		OutOfBoundsMargin:  256,
		SinkDuration:       8.0,
	}
}

// LoadGameServer loads game server config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadGameServer(path string) (GameServer, error) {
	cfg := DefaultGameServer()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Sim.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate rejects sim settings the tick loop cannot run with.
func (s SimConfig) Validate() error {
	if s.TickMillis <= 0 {
		return fmt.Errorf("tick_ms must be positive, got %d", s.TickMillis)
	}
	if len(s.SpeedTable) == 0 {
		return fmt.Errorf("speed_table must not be empty")
	}
	if s.SpeedTable[0] != 0 {
		return fmt.Errorf("speed_table[0] must be 0 (anchored), got %v", s.SpeedTable[0])
	}
	if s.MaxWheelAngle <= 0 {
		return fmt.Errorf("max_wheel_angle must be positive, got %v", s.MaxWheelAngle)
	}
	if s.HitTolerance < 1 {
		return fmt.Errorf("hit_tolerance must be >= 1, got %v", s.HitTolerance)
	}
	if s.TileAspect <= 0 {
		return fmt.Errorf("tile_aspect must be positive, got %v", s.TileAspect)
	}
	return nil
}
