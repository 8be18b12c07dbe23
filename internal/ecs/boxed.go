package ecs

// SetBoxedComponent writes value (asserted against the pool's concrete
// type) onto e's slot for typeID, materializing the pool via its
// registered factory if this is the first time typeID has been touched
// by name rather than by a generic type parameter. This is the entry
// point the scripting bridge uses, since a Lua script only knows
// components by string name and can never supply a Go type parameter.
// Runs the same write-policy gate as Add/Replace.
func SetBoxedComponent(w *World, e Entity, typeID ComponentTypeID, value any) error {
	if w.disposed {
		return errWorldDisposed()
	}
	if !w.IsAlive(e) {
		return errInvalidHandle(e)
	}
	pool, err := w.repo.getOrCreateByType(typeID)
	if err != nil {
		return err
	}
	existed := pool.Has(e.ID)
	if gateErr := w.writePolicy.check(w.phase, e, typeID, !existed, value); gateErr != nil {
		return w.writePolicy.handleDenied(gateErr)
	}
	if err := pool.SetBoxed(e.ID, value); err != nil {
		return err
	}
	kind := DeltaAdded
	if existed {
		kind = DeltaChanged
	}
	w.router.Dispatch(Delta{Entity: e, TypeID: typeID, Kind: kind, NewValue: value})
	return nil
}

// HasBoxedComponent reports whether e carries typeID's component, without
// requiring a Go type parameter.
func HasBoxedComponent(w *World, e Entity, typeID ComponentTypeID) bool {
	if !w.IsAlive(e) {
		return false
	}
	pool, ok := w.repo.poolByType(typeID)
	if !ok {
		return false
	}
	return pool.Has(e.ID)
}

// GetBoxedComponent returns a copy of e's typeID component as an any, for
// read-only boxed access (e.g. the scripting bridge, snapshot debugging).
func GetBoxedComponent(w *World, e Entity, typeID ComponentTypeID) (any, bool) {
	if !w.IsAlive(e) {
		return nil, false
	}
	pool, ok := w.repo.poolByType(typeID)
	if !ok {
		return nil, false
	}
	return pool.GetBoxed(e.ID)
}
