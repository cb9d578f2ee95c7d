package world

import (
	"time"

	"nav-planner/pkg/geom"
)

// Opponent walks a scripted route back and forth. It implements behavior.Target.
type Opponent struct {
	id      string
	route   []geom.Vec3
	speed   float64
	pos     geom.Vec3
	next    int
	forward bool
}

// NewOpponent places the opponent at the start of its route
func NewOpponent(id string, route []geom.Vec3, speed float64) *Opponent {
	o := &Opponent{id: id, route: route, speed: speed, forward: true}
	if len(route) > 0 {
		o.pos = route[0]
	}
	if len(route) > 1 {
		o.next = 1
	}
	return o
}

func (o *Opponent) ID() string {
	return o.id
}

func (o *Opponent) Position() geom.Vec3 {
	return o.pos
}

// Advance moves along the route for dt, turning around at either end
func (o *Opponent) Advance(dt time.Duration) {
	if len(o.route) < 2 || o.speed <= 0 {
		return
	}
	remaining := o.speed * dt.Seconds()
	// bounded so a route of coincident points cannot spin forever
	for i := 0; remaining > 0 && i < 2*len(o.route); i++ {
		target := o.route[o.next]
		d := o.pos.Distance(target)
		if d > remaining {
			o.pos = o.pos.Add(target.Sub(o.pos).Normalize().Scale(remaining))
			return
		}
		o.pos = target
		remaining -= d
		o.turn()
	}
}

func (o *Opponent) turn() {
	if o.forward && o.next == len(o.route)-1 {
		o.forward = false
	} else if !o.forward && o.next == 0 {
		o.forward = true
	}
	if o.forward {
		o.next++
	} else {
		o.next--
	}
}
