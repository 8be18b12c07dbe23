package components

import "ecsruntime/internal/ecs"

// DamageTaken is published on the world's message bus whenever ApplyDamage
// reduces an entity's health, carrying the timestamp a Health component no
// longer stores inline. Subscribing systems (a damage-number overlay, a
// combat log) read it through ecs.Subscribe[DamageTaken] instead of
// through the component itself.
type DamageTaken struct {
	Entity       ecs.Entity
	Amount       int
	RemainingHP  int
	OccurredAtNs int64
}

// ApplyDamage deducts damage from e's Health component -- shield first,
// then current health, floored at zero -- and publishes a DamageTaken
// message carrying the amount actually absorbed. Invincible entities and
// non-positive damage absorb nothing and publish no message. occurredAtNs
// is supplied by the caller rather than read from the clock, keeping this
// function deterministic for replay and tests.
func ApplyDamage(w *ecs.World, e ecs.Entity, damage int, occurredAtNs int64) (int, error) {
	h, err := ecs.RefExisting[Health](w, e)
	if err != nil {
		return 0, err
	}
	if h.IsInvincible || damage <= 0 {
		return 0, nil
	}

	absorbed := damage
	if h.Shield > 0 {
		if h.Shield >= damage {
			h.Shield -= damage
			return 0, nil
		}
		absorbed = damage - h.Shield
		h.Shield = 0
	}
	if h.CurrentHealth < absorbed {
		absorbed = h.CurrentHealth
	}
	h.CurrentHealth -= absorbed

	ecs.Publish(w.Bus(), DamageTaken{
		Entity:       e,
		Amount:       absorbed,
		RemainingHP:  h.CurrentHealth,
		OccurredAtNs: occurredAtNs,
	})
	return absorbed, nil
}

// IsDead reports whether h has no health remaining.
func (h Health) IsDead() bool {
	return h.CurrentHealth <= 0
}
