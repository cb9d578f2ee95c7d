// Package behavior drives an enemy agent through patrol, engage, evade, examine
// and hiding states on top of a navigation graph.
package behavior

import (
	"fmt"
	"time"
)

// State is the agent's current behavioral state
type State uint8

const (
	Patrol State = iota
	Engage
	Evade
	Examine
	Hiding
)

var stateNames = [...]string{
	Patrol:  "patrol",
	Engage:  "engage",
	Evade:   "evade",
	Examine: "examine",
	Hiding:  "hiding",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// ParseState maps a state name back to its State
func ParseState(name string) (State, error) {
	for i, n := range stateNames {
		if n == name {
			return State(i), nil
		}
	}
	return Patrol, fmt.Errorf("unknown state %q", name)
}

// Config tunes the controller
type Config struct {
	// HealthThreshold splits Engage (>=) from Evade (<)
	HealthThreshold float64
	// ExamineDuration is how long the agent examines a hiding spot once there
	ExamineDuration time.Duration
	// ExamineExit is the state entered after examining: Hiding or Patrol
	ExamineExit State
	// HidingTerminal keeps the agent hidden forever
	HidingTerminal bool
	// HideDuration is how long the agent hides before patrolling again
	HideDuration time.Duration
	// ArrivalTolerance is how close counts as reaching a waypoint or spot
	ArrivalTolerance float64
	// HidingSpotRadius is the "near a hiding spot" threshold; it overrides the radius of the attached HidingSpots
	HidingSpotRadius float64
	// FilterUngroundedWaypoints drops waypoints without ground from new paths
	FilterUngroundedWaypoints bool
}

// DefaultConfig returns the stock tuning
func DefaultConfig() Config {
	return Config{
		HealthThreshold:           0.4,
		ExamineDuration:           5 * time.Second,
		ExamineExit:               Hiding,
		HidingTerminal:            true,
		HideDuration:              10 * time.Second,
		ArrivalTolerance:          150,
		HidingSpotRadius:          200,
		FilterUngroundedWaypoints: true,
	}
}
