package behavior

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"nav-planner/pkg/geom"
	"nav-planner/pkg/metrics"
	"nav-planner/pkg/navgraph"
)

// Pathfinder is the subset of the navigation graph the controller queries
type Pathfinder interface {
	Path(start, target geom.Vec3) navgraph.Path
	PathAway(start, avoid geom.Vec3) navgraph.Path
	RandomPath(start geom.Vec3) navgraph.Path
}

// Tick is the per-step input from the host simulation
type Tick struct {
	Delta    time.Duration
	Position geom.Vec3
	Health   float64
	// Authority reports whether this instance may run the agent. Nil means yes.
	Authority func() bool
}

// Intent is the per-step output for the locomotion layer
type Intent struct {
	// Direction is normalized, or zero when the agent should stand still
	Direction geom.Vec3
	State     State
}

// Snapshot is a read-only view of the controller
type Snapshot struct {
	Agent      string
	State      State
	PathLength int
	Opponent   string
	Recovering bool
	Spot       string
	AtSpot     bool
	Timer      time.Duration
	LastGood   geom.Vec3
	Examined   int
}

// Controller is the per-agent behavior state machine
type Controller struct {
	mu sync.Mutex

	id     uuid.UUID
	cfg    Config
	paths  Pathfinder
	ground navgraph.GroundProbe
	spots  *HidingSpots

	percept perception
	state   State
	path    navgraph.Path

	lastGood    geom.Vec3
	hasLastGood bool
	recovering  bool

	spot   *Spot
	atSpot bool
	timer  time.Duration

	logger  *slog.Logger
	metrics *metrics.Registry
}

// Option configures a Controller
type Option func(*Controller)

// WithConfig replaces the default tuning
func WithConfig(cfg Config) Option {
	return func(c *Controller) { c.cfg = cfg }
}

// WithSight enables line-of-sight re-validation of the perceived opponent
func WithSight(s Sight) Option {
	return func(c *Controller) { c.percept.sight = s }
}

// WithHidingSpots enables the Examine and Hiding states
func WithHidingSpots(h *HidingSpots) Option {
	return func(c *Controller) { c.spots = h }
}

// WithLogger sets the structured logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics attaches a metrics registry
func WithMetrics(r *metrics.Registry) Option {
	return func(c *Controller) { c.metrics = r }
}

// WithID sets the agent ID instead of a random one
func WithID(id uuid.UUID) Option {
	return func(c *Controller) { c.id = id }
}

// NewController creates an agent in Patrol. ground may be nil, which disables the probe.
func NewController(paths Pathfinder, ground navgraph.GroundProbe, opts ...Option) *Controller {
	c := &Controller{
		id:     uuid.New(),
		cfg:    DefaultConfig(),
		paths:  paths,
		ground: ground,
		state:  Patrol,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cfg.HidingSpotRadius > 0 {
		c.spots.SetRadius(c.cfg.HidingSpotRadius)
	}
	c.logger = c.logger.With("component", "behavior", "agent", c.id.String())
	return c
}

// ID returns the agent ID
func (c *Controller) ID() uuid.UUID {
	return c.id
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// OnSensed feeds a sensing event. Only players are accepted.
func (c *Controller) OnSensed(s Sensed) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.percept.sense(s) {
		return false
	}
	c.logger.Debug("sensed player", "opponent", s.Target.ID())
	return true
}

// Step runs one simulation step: perception, then transitions, then the state body
func (c *Controller) Step(in Tick) Intent {
	if in.Authority != nil && !in.Authority() {
		return Intent{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hasLastGood {
		c.lastGood = in.Position
		c.hasLastGood = true
	}

	if c.percept.update(in.Position) {
		c.logger.Debug("lost sight of opponent")
	}
	c.evaluate(in)

	return Intent{Direction: c.body(in), State: c.state}
}

// evaluate takes at most one transition
func (c *Controller) evaluate(in Tick) {
	opponent := c.percept.opponent
	healthy := in.Health >= c.cfg.HealthThreshold

	switch c.state {
	case Patrol:
		switch {
		case opponent != nil && healthy:
			c.transition(Engage)
		case opponent != nil:
			c.transition(Evade)
		default:
			if s, ok := c.spots.NearestUnexamined(in.Position); ok && in.Position.Distance(s.Position) < c.cfg.HidingSpotRadius {
				c.spot = &s
				c.transition(Examine)
			}
		}

	case Engage:
		switch {
		case opponent == nil:
			c.transition(Patrol)
		case !healthy:
			c.transition(Evade)
		}

	case Evade:
		switch {
		case opponent == nil:
			c.transition(Patrol)
		case healthy:
			c.transition(Engage)
		}

	case Examine:
		switch {
		case c.spot == nil:
			c.transition(Patrol)
		case c.timer >= c.cfg.ExamineDuration:
			c.spots.MarkExamined(c.spot.ID)
			c.metrics.RecordHidingSpotExamined()
			c.logger.Info("examination complete", "spot", c.spot.Label)
			if c.cfg.ExamineExit == Hiding {
				c.transition(Hiding)
			} else {
				c.transition(Patrol)
			}
		}

	case Hiding:
		if c.spot == nil || !c.cfg.HidingTerminal && c.atSpot && c.timer >= c.cfg.HideDuration {
			c.transition(Patrol)
		}
	}
}

// transition clears the path, recovery and timers. The hiding spot survives
// Examine -> Hiding and is dropped otherwise.
func (c *Controller) transition(to State) {
	from := c.state
	if from == to {
		return
	}
	c.state = to
	c.path = nil
	c.recovering = false
	c.timer = 0
	c.atSpot = false
	if to != Examine && to != Hiding {
		c.spot = nil
	}

	c.logger.Info("state transition", "from", from.String(), "to", to.String())
	c.metrics.RecordTransition(from.String(), to.String())
}

func (c *Controller) body(in Tick) geom.Vec3 {
	switch c.state {
	case Patrol:
		return c.followOrRequest(in.Position)
	case Engage, Evade:
		if c.percept.opponent == nil {
			return geom.Vec3{}
		}
		return c.followOrRequest(in.Position)
	case Examine, Hiding:
		return c.steerToSpot(in)
	}
	return geom.Vec3{}
}

func (c *Controller) followOrRequest(pos geom.Vec3) geom.Vec3 {
	if c.path.Empty() && !c.recovering {
		c.requestPath(pos)
	}
	return c.moveAlongPath(pos)
}

// requestPath asks the graph for a fresh path suited to the current state
func (c *Controller) requestPath(pos geom.Vec3) {
	var path navgraph.Path
	switch c.state {
	case Patrol:
		path = c.paths.RandomPath(pos)
	case Engage:
		if c.percept.opponent != nil {
			path = c.paths.Path(pos, c.percept.opponent.Position())
		}
	case Evade:
		if c.percept.opponent != nil {
			path = c.paths.PathAway(pos, c.percept.opponent.Position())
		}
	default:
		return
	}

	if c.cfg.FilterUngroundedWaypoints && c.ground != nil {
		path = path.Filter(c.ground.HasGround)
	}
	c.path = path
	c.logger.Debug("new path", "state", c.state.String(), "waypoints", len(path))
}

// moveAlongPath steers towards the path's tail, popping it on arrival. Losing ground
// abandons the path and starts recovery towards the last position that had ground.
func (c *Controller) moveAlongPath(pos geom.Vec3) geom.Vec3 {
	if c.recovering {
		return c.returnToLastGood(pos)
	}

	next, ok := c.path.Peek()
	if !ok {
		c.logger.Debug("no path available for movement", "state", c.state.String())
		return geom.Vec3{}
	}

	if c.ground != nil && !c.ground.HasGround(pos) {
		c.logger.Warn("not on solid ground, returning to last known good location",
			"position", pos.String(), "last_good", c.lastGood.String())
		c.path = nil
		c.recovering = true
		c.metrics.RecordPathAbandoned()
		return c.returnToLastGood(pos)
	}

	c.lastGood = pos
	direction := next.Sub(pos).Normalize()
	if pos.Distance(next) < c.cfg.ArrivalTolerance {
		c.path.Pop()
	}
	return direction
}

func (c *Controller) returnToLastGood(pos geom.Vec3) geom.Vec3 {
	direction := c.lastGood.Sub(pos).Normalize()
	if pos.Distance(c.lastGood) < c.cfg.ArrivalTolerance {
		c.recovering = false
		c.requestPath(pos)
	}
	return direction
}

// steerToSpot heads straight for the hiding spot, then holds position and runs the timer
func (c *Controller) steerToSpot(in Tick) geom.Vec3 {
	if c.spot == nil {
		return geom.Vec3{}
	}
	if c.atSpot {
		c.timer += in.Delta
		return geom.Vec3{}
	}
	if in.Position.Distance(c.spot.Position) < c.cfg.ArrivalTolerance {
		c.atSpot = true
		c.logger.Debug("reached hiding spot", "spot", c.spot.Label, "state", c.state.String())
	}
	return c.spot.Position.Sub(in.Position).Normalize()
}

// Snapshot returns the controller's current view
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Agent:      c.id.String(),
		State:      c.state,
		PathLength: len(c.path),
		Recovering: c.recovering,
		AtSpot:     c.atSpot,
		Timer:      c.timer,
		LastGood:   c.lastGood,
		Examined:   c.spots.ExaminedCount(),
	}
	if c.percept.opponent != nil {
		s.Opponent = c.percept.opponent.ID()
	}
	if c.spot != nil {
		s.Spot = c.spot.Label
	}
	return s
}
