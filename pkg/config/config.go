package config

import (
	"time"

	"nav-planner/pkg/behavior"
	"nav-planner/pkg/navgraph"
)

// Config is the complete navsim configuration
type Config struct {
	Navigation NavigationConfig `yaml:"navigation" json:"navigation"`
	Behavior   BehaviorConfig   `yaml:"behavior" json:"behavior"`
	Simulation SimulationConfig `yaml:"simulation" json:"simulation"`
	Logging    LoggingConfig    `yaml:"logging" json:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics" json:"metrics"`
}

// NavigationConfig selects and tunes the graph builder
type NavigationConfig struct {
	Strategy    string  `yaml:"strategy" json:"strategy" validate:"oneof=static grid rooms"`
	Diagonal    bool    `yaml:"diagonal" json:"diagonal"`
	GroundCheck bool    `yaml:"ground_check" json:"ground_check"`
	GridSpacing float64 `yaml:"grid_spacing" json:"grid_spacing" validate:"gt=0"`
	RoomSpacing float64 `yaml:"room_spacing" json:"room_spacing" validate:"gt=0"`
	// Dungeon grid dimensions passed to the room/corridor builder
	DungeonWidth  int `yaml:"dungeon_width" json:"dungeon_width" validate:"min=1"`
	DungeonHeight int `yaml:"dungeon_height" json:"dungeon_height" validate:"min=1"`
	// HidingSpotLinkRadius links hiding spots into the graph; 0 leaves them out
	HidingSpotLinkRadius float64 `yaml:"hiding_spot_link_radius" json:"hiding_spot_link_radius" validate:"gte=0"`
	// Seed for random node selection; 0 picks a random seed
	Seed uint64 `yaml:"seed" json:"seed"`
}

// BehaviorConfig tunes the agent state machine. Durations are in seconds.
type BehaviorConfig struct {
	HealthThreshold           float64 `yaml:"health_threshold" json:"health_threshold" validate:"gte=0,lte=1"`
	ExamineSeconds            float64 `yaml:"examine_seconds" json:"examine_seconds" validate:"gt=0"`
	ExamineExit               string  `yaml:"examine_exit" json:"examine_exit" validate:"oneof=hiding patrol"`
	HidingTerminal            bool    `yaml:"hiding_terminal" json:"hiding_terminal"`
	HideSeconds               float64 `yaml:"hide_seconds" json:"hide_seconds" validate:"gte=0"`
	ArrivalTolerance          float64 `yaml:"arrival_tolerance" json:"arrival_tolerance" validate:"gt=0"`
	HidingSpotRadius          float64 `yaml:"hiding_spot_radius" json:"hiding_spot_radius" validate:"gt=0"`
	FilterUngroundedWaypoints bool    `yaml:"filter_ungrounded_waypoints" json:"filter_ungrounded_waypoints"`
}

// SimulationConfig drives the headless simulator
type SimulationConfig struct {
	TickSeconds     float64 `yaml:"tick_seconds" json:"tick_seconds" validate:"gt=0"`
	Ticks           int     `yaml:"ticks" json:"ticks" validate:"gte=0"`
	Speed           float64 `yaml:"speed" json:"speed" validate:"gt=0"`
	OpponentSpeed   float64 `yaml:"opponent_speed" json:"opponent_speed" validate:"gte=0"`
	SenseRadius     float64 `yaml:"sense_radius" json:"sense_radius" validate:"gt=0"`
	DamagePerSecond float64 `yaml:"damage_per_second" json:"damage_per_second" validate:"gte=0"`
	HealPerSecond   float64 `yaml:"heal_per_second" json:"heal_per_second" validate:"gte=0"`
	// Ground probe ray extents above and below the probed position
	GroundUp   float64 `yaml:"ground_up" json:"ground_up" validate:"gte=0"`
	GroundDown float64 `yaml:"ground_down" json:"ground_down" validate:"gt=0"`
	// WallSimplify is the Douglas-Peucker tolerance applied to wall outlines; 0 keeps them as authored
	WallSimplify float64 `yaml:"wall_simplify" json:"wall_simplify" validate:"gte=0"`
}

// LoggingConfig selects the slog handler
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" json:"format" validate:"oneof=text json"`
}

// MetricsConfig exposes Prometheus metrics when Addr is set
type MetricsConfig struct {
	Addr string `yaml:"addr" json:"addr" validate:"omitempty,hostname_port"`
}

// Default returns the stock configuration
func Default() *Config {
	b := behavior.DefaultConfig()
	return &Config{
		Navigation: NavigationConfig{
			Strategy:             navgraph.StrategyGrid,
			Diagonal:             true,
			GroundCheck:          true,
			GridSpacing:          100,
			RoomSpacing:          500,
			DungeonWidth:         10,
			DungeonHeight:        10,
			HidingSpotLinkRadius: 300,
		},
		Behavior: BehaviorConfig{
			HealthThreshold:           b.HealthThreshold,
			ExamineSeconds:            b.ExamineDuration.Seconds(),
			ExamineExit:               b.ExamineExit.String(),
			HidingTerminal:            b.HidingTerminal,
			HideSeconds:               b.HideDuration.Seconds(),
			ArrivalTolerance:          b.ArrivalTolerance,
			HidingSpotRadius:          b.HidingSpotRadius,
			FilterUngroundedWaypoints: b.FilterUngroundedWaypoints,
		},
		Simulation: SimulationConfig{
			TickSeconds:     0.1,
			Ticks:           600,
			Speed:           600,
			OpponentSpeed:   300,
			SenseRadius:     1500,
			DamagePerSecond: 0.05,
			HealPerSecond:   0.02,
			GroundUp:        50,
			GroundDown:      1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Controller converts the behavior section into the controller's tuning
func (b BehaviorConfig) Controller() behavior.Config {
	exit, err := behavior.ParseState(b.ExamineExit)
	if err != nil {
		exit = behavior.Hiding
	}
	return behavior.Config{
		HealthThreshold:           b.HealthThreshold,
		ExamineDuration:           seconds(b.ExamineSeconds),
		ExamineExit:               exit,
		HidingTerminal:            b.HidingTerminal,
		HideDuration:              seconds(b.HideSeconds),
		ArrivalTolerance:          b.ArrivalTolerance,
		HidingSpotRadius:          b.HidingSpotRadius,
		FilterUngroundedWaypoints: b.FilterUngroundedWaypoints,
	}
}

// TickDuration is the simulated time per tick
func (s SimulationConfig) TickDuration() time.Duration {
	return seconds(s.TickSeconds)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
