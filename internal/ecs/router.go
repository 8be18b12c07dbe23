package ecs

// Delta is one component-level change dispatched to the binding router.
type Delta struct {
	Entity   Entity
	TypeID   ComponentTypeID
	Kind     DeltaKind
	NewValue any // nil for DeltaRemoved
}

// Binder observes deltas for one (entity, component-type) pair.
type Binder func(Delta)

type binderKey struct {
	entity Entity
	typeID ComponentTypeID
}

// BindingRouter dispatches component deltas to per-entity presentation
// observers, flushed once per frame at the end of late_frame. Binders are
// keyed by the exact (entity, component type) pair they observe, which is
// what a view-binding adapter needs rather than a general pub/sub topic.
type BindingRouter struct {
	pending map[ComponentTypeID][]Delta
	order   []ComponentTypeID
	binders map[binderKey][]Binder
}

// NewBindingRouter returns an empty router pre-sized for initialBinderBuckets
// per-entity binder slots.
func NewBindingRouter(initialBinderBuckets int) *BindingRouter {
	if initialBinderBuckets < 1 {
		initialBinderBuckets = 16
	}
	return &BindingRouter{
		pending: map[ComponentTypeID][]Delta{},
		binders: make(map[binderKey][]Binder, initialBinderBuckets),
	}
}

// Dispatch appends delta to its type's pending list.
func (r *BindingRouter) Dispatch(d Delta) {
	if _, ok := r.pending[d.TypeID]; !ok {
		r.order = append(r.order, d.TypeID)
	}
	r.pending[d.TypeID] = append(r.pending[d.TypeID], d)
}

// Bind registers a binder for one (entity, type) pair.
func (r *BindingRouter) Bind(e Entity, typeID ComponentTypeID, b Binder) {
	key := binderKey{e, typeID}
	r.binders[key] = append(r.binders[key], b)
}

// DetachEntity drops every binder registered for e, across all component
// types. Called as part of destroy_entity's fan-out.
func (r *BindingRouter) DetachEntity(e Entity) {
	for key := range r.binders {
		if key.entity == e {
			delete(r.binders, key)
		}
	}
}

// ApplyAll drains every pending delta list in dispatch order, invoking
// each registered binder for that (entity, type) pair, and returns the
// number of deltas applied. Called exactly once per frame, at the end of
// late_frame before the phase is cleared.
func (r *BindingRouter) ApplyAll() int {
	applied := 0
	for _, typeID := range r.order {
		deltas := r.pending[typeID]
		for _, d := range deltas {
			for _, b := range r.binders[binderKey{d.Entity, d.TypeID}] {
				b(d)
			}
			applied++
		}
	}
	r.pending = map[ComponentTypeID][]Delta{}
	r.order = r.order[:0]
	return applied
}

// Clear drops every pending delta and every binder.
func (r *BindingRouter) Clear() {
	r.pending = map[ComponentTypeID][]Delta{}
	r.order = r.order[:0]
	r.binders = map[binderKey][]Binder{}
}
