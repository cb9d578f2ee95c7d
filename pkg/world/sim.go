package world

import (
	"context"
	"log/slog"
	"time"

	"nav-planner/pkg/behavior"
	"nav-planner/pkg/config"
	"nav-planner/pkg/geom"
)

// Sim is a headless host for one agent: it feeds perception and health into the
// controller and integrates the movement intent it returns.
type Sim struct {
	cfg       config.SimulationConfig
	agent     *behavior.Controller
	health    *Health
	opponent  *Opponent
	sight     behavior.Sight
	authority func() bool

	position geom.Vec3
	ticks    int
	elapsed  time.Duration

	logger *slog.Logger
}

// SimOption configures a Sim
type SimOption func(*Sim)

// WithOpponent adds a scripted opponent
func WithOpponent(o *Opponent) SimOption {
	return func(s *Sim) { s.opponent = o }
}

// WithSight sets the line-of-sight test used for sensing
func WithSight(sight behavior.Sight) SimOption {
	return func(s *Sim) { s.sight = sight }
}

// WithAuthority overrides the authority predicate passed to the agent
func WithAuthority(fn func() bool) SimOption {
	return func(s *Sim) { s.authority = fn }
}

// WithSimLogger sets the structured logger
func WithSimLogger(l *slog.Logger) SimOption {
	return func(s *Sim) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSim places the agent at spawn with the given health
func NewSim(agent *behavior.Controller, health *Health, spawn geom.Vec3, cfg config.SimulationConfig, opts ...SimOption) *Sim {
	s := &Sim{
		cfg:       cfg,
		agent:     agent,
		health:    health,
		position:  spawn,
		authority: func() bool { return true },
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "sim", "agent", agent.ID().String())
	return s
}

// Position is the agent's current position
func (s *Sim) Position() geom.Vec3 {
	return s.position
}

// Ticks is the number of ticks simulated so far
func (s *Sim) Ticks() int {
	return s.ticks
}

// Tick advances the simulation by one step
func (s *Sim) Tick() behavior.Intent {
	dt := s.cfg.TickDuration()

	if s.opponent != nil {
		s.opponent.Advance(dt)
		if s.senses(s.opponent.Position()) {
			s.agent.OnSensed(behavior.Sensed{Kind: behavior.EntityPlayer, Target: s.opponent})
		}
	}

	intent := s.agent.Step(behavior.Tick{
		Delta:     dt,
		Position:  s.position,
		Health:    s.health.Fraction(),
		Authority: s.authority,
	})

	s.position = s.position.Add(intent.Direction.Scale(s.cfg.Speed * dt.Seconds()))
	if intent.State == behavior.Engage {
		s.health.ApplyDamage(s.cfg.DamagePerSecond * dt.Seconds())
	} else {
		s.health.ApplyHealing(s.cfg.HealPerSecond * dt.Seconds())
	}

	s.ticks++
	s.elapsed += dt
	s.logger.Debug("tick",
		"tick", s.ticks,
		"state", intent.State.String(),
		"position", s.position.String(),
		"health", s.health.Fraction())
	return intent
}

func (s *Sim) senses(target geom.Vec3) bool {
	if s.position.Distance(target) > s.cfg.SenseRadius {
		return false
	}
	return s.sight == nil || s.sight.HasLineOfSight(s.position, target)
}

// Summary describes a finished run
type Summary struct {
	Ticks    int
	Elapsed  time.Duration
	Position geom.Vec3
	Health   float64
	Agent    behavior.Snapshot
}

// Run ticks until n ticks have passed, the agent dies or ctx is done
func (s *Sim) Run(ctx context.Context, n int) Summary {
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			s.logger.Info("simulation interrupted", "tick", s.ticks)
			break
		}
		s.Tick()
		if s.health.IsDead() {
			s.logger.Warn("agent died", "tick", s.ticks)
			break
		}
	}
	return Summary{
		Ticks:    s.ticks,
		Elapsed:  s.elapsed,
		Position: s.position,
		Health:   s.health.Fraction(),
		Agent:    s.agent.Snapshot(),
	}
}
