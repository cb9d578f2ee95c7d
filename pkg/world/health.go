package world

import "sync"

// Health tracks hit points and exposes them as a fraction
type Health struct {
	mu      sync.RWMutex
	current float64
	max     float64
}

// NewHealth creates full health; a non-positive max is treated as 1
func NewHealth(max float64) *Health {
	if max <= 0 {
		max = 1
	}
	return &Health{current: max, max: max}
}

// Fraction returns current/max in [0,1]
func (h *Health) Fraction() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current / h.max
}

// ApplyDamage subtracts hit points, never below zero
func (h *Health) ApplyDamage(amount float64) {
	if amount <= 0 {
		return
	}
	h.mu.Lock()
	h.current = max(h.current-amount, 0)
	h.mu.Unlock()
}

// ApplyHealing adds hit points, never above max
func (h *Health) ApplyHealing(amount float64) {
	if amount <= 0 {
		return
	}
	h.mu.Lock()
	h.current = min(h.current+amount, h.max)
	h.mu.Unlock()
}

// IsDead reports whether health reached zero
func (h *Health) IsDead() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current <= 0
}
