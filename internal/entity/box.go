// Package entity holds the gameplay objects driven by the scene: the player
// character controller, pooled enemies and the hitbox/hurtbox pair used for
// damage exchange.
package entity

import "github.com/vovakirdan/jam-starter/internal/core"

// Hitbox is an area that deals damage to overlapping hurtboxes.
type Hitbox struct {
	Owner  any
	Area   core.Rect
	Damage int
	Active bool

	// OncePerTarget limits each armed hitbox to one hit per hurtbox,
	// e.g. a sword swing passing through an enemy over several ticks.
	OncePerTarget bool
	hit           map[*Hurtbox]struct{}
}

// Arm clears the per-target hit memory and activates the hitbox.
func (h *Hitbox) Arm() {
	clear(h.hit)
	h.Active = true
}

// Hurtbox is an area that receives damage.
type Hurtbox struct {
	Owner  any
	Area   core.Rect
	Active bool
	OnHit  func(from *Hitbox)
}

// Overlaps reports whether hit can damage hurt this tick: both active,
// different owners, intersecting areas and not already hit this swing.
func Overlaps(hit *Hitbox, hurt *Hurtbox) bool {
	if hit == nil || hurt == nil || !hit.Active || !hurt.Active {
		return false
	}
	if hit.Owner != nil && hit.Owner == hurt.Owner {
		return false
	}
	if hit.OncePerTarget {
		if _, done := hit.hit[hurt]; done {
			return false
		}
	}
	return hit.Area.Intersects(hurt.Area)
}

// ResolveHits delivers every overlapping hit and returns how many landed.
// A hurtbox deactivated by an OnHit callback receives no further hits.
func ResolveHits(hits []*Hitbox, hurts []*Hurtbox) int {
	landed := 0
	for _, hit := range hits {
		for _, hurt := range hurts {
			if !Overlaps(hit, hurt) {
				continue
			}
			if hit.OncePerTarget {
				if hit.hit == nil {
					hit.hit = make(map[*Hurtbox]struct{})
				}
				hit.hit[hurt] = struct{}{}
			}
			landed++
			if hurt.OnHit != nil {
				hurt.OnHit(hit)
			}
		}
	}
	return landed
}
