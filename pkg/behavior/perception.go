package behavior

import (
	"nav-planner/pkg/geom"
)

// EntityKind tags what a sensing event resolved to
type EntityKind uint8

const (
	EntityPlayer EntityKind = iota
	EntityEnemy
	EntityProp
)

func (k EntityKind) String() string {
	switch k {
	case EntityPlayer:
		return "player"
	case EntityEnemy:
		return "enemy"
	case EntityProp:
		return "prop"
	default:
		return "unknown"
	}
}

// Target is anything the agent can perceive and path towards
type Target interface {
	ID() string
	Position() geom.Vec3
}

// Sensed is one sensing event
type Sensed struct {
	Kind   EntityKind
	Target Target
}

// Sight answers line-of-sight queries between two positions
type Sight interface {
	HasLineOfSight(from, to geom.Vec3) bool
}

// perception holds the currently perceived opponent
type perception struct {
	sight    Sight
	opponent Target
}

// sense accepts only player entities
func (p *perception) sense(s Sensed) bool {
	if s.Kind != EntityPlayer || s.Target == nil {
		return false
	}
	p.opponent = s.Target
	return true
}

// update drops the opponent once line of sight is lost and reports whether it did
func (p *perception) update(self geom.Vec3) bool {
	if p.opponent == nil || p.sight == nil {
		return false
	}
	if !p.sight.HasLineOfSight(self, p.opponent.Position()) {
		p.opponent = nil
		return true
	}
	return false
}
