package ecs

// poolRepository is the ordered mapping from component type-id to pool.
// Pools are created lazily on first write; a pool that has never been
// written is simply absent, and queries over an absent pool yield
// nothing. One BoxedPool per type replaces the
// map[ComponentType]map[EntityID]Component triple-indirection a
// reflection-based component store would otherwise need.
type poolRepository struct {
	pools          map[ComponentTypeID]BoxedPool
	order          []ComponentTypeID // first-write order; also the deterministic snapshot enumeration order
	factories      map[ComponentTypeID]func(initialCapacity int) BoxedPool
	initialBuckets map[ComponentTypeID]int
}

func newPoolRepository(cfg WorldConfig) *poolRepository {
	buckets := cfg.InitialPoolBuckets
	if buckets == nil {
		buckets = map[ComponentTypeID]int{}
	}
	return &poolRepository{
		pools:          map[ComponentTypeID]BoxedPool{},
		factories:      map[ComponentTypeID]func(initialCapacity int) BoxedPool{},
		initialBuckets: buckets,
	}
}

func (r *poolRepository) initialCapacityFor(id ComponentTypeID) int {
	if n, ok := r.initialBuckets[id]; ok && n > 0 {
		return n
	}
	return 8
}

// poolFor returns T's pool, creating it (eagerly, via the generic
// constructor) if this is the first touch.
func poolFor[T any](r *poolRepository) *Pool[T] {
	id := componentTypeID[T]()
	if existing, ok := r.pools[id]; ok {
		return existing.(*Pool[T])
	}
	p := newPool[T](id, r.initialCapacityFor(id))
	r.pools[id] = p
	r.order = append(r.order, id)
	if _, hasFactory := r.factories[id]; !hasFactory {
		r.factories[id] = func(initialCapacity int) BoxedPool { return newPool[T](id, initialCapacity) }
	}
	return p
}

// tryPoolFor returns T's pool without creating it.
func tryPoolFor[T any](r *poolRepository) (*Pool[T], bool) {
	id := componentTypeID[T]()
	existing, ok := r.pools[id]
	if !ok {
		return nil, false
	}
	return existing.(*Pool[T]), true
}

// registerFactory pre-registers how to construct T's pool by type-id,
// without touching the pool itself. This lets the boxed/snapshot surface
// materialize a pool for a type-id it has only ever seen as a number.
func registerFactory[T any](r *poolRepository) {
	id := componentTypeID[T]()
	if _, ok := r.factories[id]; ok {
		return
	}
	r.factories[id] = func(initialCapacity int) BoxedPool { return newPool[T](id, initialCapacity) }
}

// poolByType returns the boxed pool for a type-id, if it has been created.
func (r *poolRepository) poolByType(id ComponentTypeID) (BoxedPool, bool) {
	p, ok := r.pools[id]
	return p, ok
}

// getOrCreateByType materializes a pool for id via the factory registry,
// erroring if no factory was ever registered for that type-id.
func (r *poolRepository) getOrCreateByType(id ComponentTypeID) (BoxedPool, error) {
	if p, ok := r.pools[id]; ok {
		return p, nil
	}
	factory, ok := r.factories[id]
	if !ok {
		return nil, errSnapshotFormat("no pool factory registered for component type " + TypeName(id))
	}
	p := factory(r.initialCapacityFor(id))
	r.pools[id] = p
	r.order = append(r.order, id)
	return p, nil
}

func (r *poolRepository) setPool(id ComponentTypeID, p BoxedPool) {
	if _, existed := r.pools[id]; !existed {
		r.order = append(r.order, id)
	}
	r.pools[id] = p
}

// removeEntity fans destruction out to every created pool.
func (r *poolRepository) removeEntity(id EntityID) {
	for _, p := range r.pools {
		p.Remove(id, true)
	}
}

func (r *poolRepository) clearAllPools() {
	for _, p := range r.pools {
		p.ClearAll()
	}
}

// orderedPools returns every created pool in first-write order, the
// deterministic enumeration order snapshot I/O relies on.
func (r *poolRepository) orderedPools() []BoxedPool {
	out := make([]BoxedPool, 0, len(r.order))
	for _, id := range r.order {
		if p, ok := r.pools[id]; ok {
			out = append(out, p)
		}
	}
	return out
}
