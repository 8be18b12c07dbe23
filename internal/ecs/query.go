package ecs

// Filter is a three-bucket composable predicate: all_of/any_of/without,
// each a set of component type-ids.
type Filter struct {
	AllOf   []ComponentTypeID
	AnyOf   []ComponentTypeID
	Without []ComponentTypeID
}

type resolvedFilter struct {
	allOf   []BoxedPool
	anyOf   []BoxedPool
	without []BoxedPool
}

// resolveFilter resolves a Filter's type-ids to live pool references. It
// returns ok=false when a required (all_of) pool has never been written,
// or when a non-empty any_of names only pools that have never been
// written, meaning the query yields nothing.
func resolveFilter(repo *poolRepository, f Filter) (resolvedFilter, bool) {
	var rf resolvedFilter
	for _, id := range f.AllOf {
		p, ok := repo.poolByType(id)
		if !ok {
			return resolvedFilter{}, false
		}
		rf.allOf = append(rf.allOf, p)
	}
	for _, id := range f.AnyOf {
		if p, ok := repo.poolByType(id); ok {
			rf.anyOf = append(rf.anyOf, p)
		}
	}
	if len(f.AnyOf) > 0 && len(rf.anyOf) == 0 {
		return resolvedFilter{}, false
	}
	for _, id := range f.Without {
		if p, ok := repo.poolByType(id); ok {
			rf.without = append(rf.without, p)
		}
	}
	return rf, true
}

func (rf resolvedFilter) satisfies(id EntityID) bool {
	for _, p := range rf.allOf {
		if !p.Has(id) {
			return false
		}
	}
	for _, p := range rf.without {
		if p.Has(id) {
			return false
		}
	}
	if len(rf.anyOf) > 0 {
		matched := false
		for _, p := range rf.anyOf {
			if p.Has(id) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// pickSeed picks the smallest live pool, breaking ties by the lowest
// type-id so iteration order stays deterministic across runs.
func pickSeed(pools []BoxedPool) BoxedPool {
	if len(pools) == 0 {
		return nil
	}
	seed := pools[0]
	for _, p := range pools[1:] {
		if p.Count() < seed.Count() || (p.Count() == seed.Count() && p.TypeID() < seed.TypeID()) {
			seed = p
		}
	}
	return seed
}

func (w *World) entityOf(id EntityID) Entity {
	return Entity{ID: id, Gen: w.entities.generation[id]}
}

// --- Query1..Query4: zero-allocation typed multi-component iterators -----
//
// Each holds raw references into pool data rather than boxing matches
// into interface values. Query1..Query4 is one struct per arity since Go
// has no variadic type parameters.

// Query1 iterates entities having T1 plus Filter.
type Query1[T1 any] struct {
	w      *World
	pool1  *Pool[T1]
	filter resolvedFilter
	seed   BoxedPool
}

// QueryFor1 constructs a Query1, resolving pools and picking the seed pool
// once up front so repeated iteration doesn't redo the resolution.
func QueryFor1[T1 any](w *World, filter Filter) Query1[T1] {
	p1, ok := tryPoolFor[T1](w.repo)
	if !ok {
		return Query1[T1]{w: w}
	}
	rf, ok := resolveFilter(w.repo, filter)
	if !ok {
		return Query1[T1]{w: w}
	}
	seed := pickSeed(append([]BoxedPool{p1}, rf.allOf...))
	return Query1[T1]{w: w, pool1: p1, filter: rf, seed: seed}
}

func (q Query1[T1]) matches(id EntityID) bool {
	return q.pool1.Has(id) && q.filter.satisfies(id)
}

// Each scans the seed pool once, yielding (entity, *T1) for every match.
func (q Query1[T1]) Each(fn func(e Entity, c1 *T1)) {
	if q.seed == nil {
		return
	}
	for _, id := range q.seed.EnumerateIDs() {
		if !q.matches(id) {
			continue
		}
		c1, _ := q.pool1.RefExisting(id)
		fn(q.w.entityOf(id), c1)
	}
}

// ToSpan writes matching entity handles into buf, returning the count
// written. Useful when the caller wants to snapshot matches without
// allocating a new slice per call.
func (q Query1[T1]) ToSpan(buf []Entity) int {
	if q.seed == nil {
		return 0
	}
	n := 0
	for _, id := range q.seed.EnumerateIDs() {
		if n >= len(buf) {
			break
		}
		if !q.matches(id) {
			continue
		}
		buf[n] = q.w.entityOf(id)
		n++
	}
	return n
}

// Query2 iterates entities having T1 and T2 plus Filter.
type Query2[T1, T2 any] struct {
	w      *World
	pool1  *Pool[T1]
	pool2  *Pool[T2]
	filter resolvedFilter
	seed   BoxedPool
}

func QueryFor2[T1, T2 any](w *World, filter Filter) Query2[T1, T2] {
	p1, ok1 := tryPoolFor[T1](w.repo)
	p2, ok2 := tryPoolFor[T2](w.repo)
	if !ok1 || !ok2 {
		return Query2[T1, T2]{w: w}
	}
	rf, ok := resolveFilter(w.repo, filter)
	if !ok {
		return Query2[T1, T2]{w: w}
	}
	seed := pickSeed(append([]BoxedPool{p1, p2}, rf.allOf...))
	return Query2[T1, T2]{w: w, pool1: p1, pool2: p2, filter: rf, seed: seed}
}

func (q Query2[T1, T2]) matches(id EntityID) bool {
	return q.pool1.Has(id) && q.pool2.Has(id) && q.filter.satisfies(id)
}

func (q Query2[T1, T2]) Each(fn func(e Entity, c1 *T1, c2 *T2)) {
	if q.seed == nil {
		return
	}
	for _, id := range q.seed.EnumerateIDs() {
		if !q.matches(id) {
			continue
		}
		c1, _ := q.pool1.RefExisting(id)
		c2, _ := q.pool2.RefExisting(id)
		fn(q.w.entityOf(id), c1, c2)
	}
}

func (q Query2[T1, T2]) ToSpan(buf []Entity) int {
	if q.seed == nil {
		return 0
	}
	n := 0
	for _, id := range q.seed.EnumerateIDs() {
		if n >= len(buf) {
			break
		}
		if !q.matches(id) {
			continue
		}
		buf[n] = q.w.entityOf(id)
		n++
	}
	return n
}

// Query3 iterates entities having T1, T2, and T3 plus Filter.
type Query3[T1, T2, T3 any] struct {
	w      *World
	pool1  *Pool[T1]
	pool2  *Pool[T2]
	pool3  *Pool[T3]
	filter resolvedFilter
	seed   BoxedPool
}

func QueryFor3[T1, T2, T3 any](w *World, filter Filter) Query3[T1, T2, T3] {
	p1, ok1 := tryPoolFor[T1](w.repo)
	p2, ok2 := tryPoolFor[T2](w.repo)
	p3, ok3 := tryPoolFor[T3](w.repo)
	if !ok1 || !ok2 || !ok3 {
		return Query3[T1, T2, T3]{w: w}
	}
	rf, ok := resolveFilter(w.repo, filter)
	if !ok {
		return Query3[T1, T2, T3]{w: w}
	}
	seed := pickSeed(append([]BoxedPool{p1, p2, p3}, rf.allOf...))
	return Query3[T1, T2, T3]{w: w, pool1: p1, pool2: p2, pool3: p3, filter: rf, seed: seed}
}

func (q Query3[T1, T2, T3]) matches(id EntityID) bool {
	return q.pool1.Has(id) && q.pool2.Has(id) && q.pool3.Has(id) && q.filter.satisfies(id)
}

func (q Query3[T1, T2, T3]) Each(fn func(e Entity, c1 *T1, c2 *T2, c3 *T3)) {
	if q.seed == nil {
		return
	}
	for _, id := range q.seed.EnumerateIDs() {
		if !q.matches(id) {
			continue
		}
		c1, _ := q.pool1.RefExisting(id)
		c2, _ := q.pool2.RefExisting(id)
		c3, _ := q.pool3.RefExisting(id)
		fn(q.w.entityOf(id), c1, c2, c3)
	}
}

// ToSpan writes matching entity handles into buf, returning the count
// written. Useful when the caller wants to snapshot matches without
// allocating a new slice per call.
func (q Query3[T1, T2, T3]) ToSpan(buf []Entity) int {
	if q.seed == nil {
		return 0
	}
	n := 0
	for _, id := range q.seed.EnumerateIDs() {
		if n >= len(buf) {
			break
		}
		if !q.matches(id) {
			continue
		}
		buf[n] = q.w.entityOf(id)
		n++
	}
	return n
}

// Query4 iterates entities having T1, T2, T3, and T4 plus Filter.
type Query4[T1, T2, T3, T4 any] struct {
	w      *World
	pool1  *Pool[T1]
	pool2  *Pool[T2]
	pool3  *Pool[T3]
	pool4  *Pool[T4]
	filter resolvedFilter
	seed   BoxedPool
}

func QueryFor4[T1, T2, T3, T4 any](w *World, filter Filter) Query4[T1, T2, T3, T4] {
	p1, ok1 := tryPoolFor[T1](w.repo)
	p2, ok2 := tryPoolFor[T2](w.repo)
	p3, ok3 := tryPoolFor[T3](w.repo)
	p4, ok4 := tryPoolFor[T4](w.repo)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return Query4[T1, T2, T3, T4]{w: w}
	}
	rf, ok := resolveFilter(w.repo, filter)
	if !ok {
		return Query4[T1, T2, T3, T4]{w: w}
	}
	seed := pickSeed(append([]BoxedPool{p1, p2, p3, p4}, rf.allOf...))
	return Query4[T1, T2, T3, T4]{w: w, pool1: p1, pool2: p2, pool3: p3, pool4: p4, filter: rf, seed: seed}
}

func (q Query4[T1, T2, T3, T4]) matches(id EntityID) bool {
	return q.pool1.Has(id) && q.pool2.Has(id) && q.pool3.Has(id) && q.pool4.Has(id) && q.filter.satisfies(id)
}

func (q Query4[T1, T2, T3, T4]) Each(fn func(e Entity, c1 *T1, c2 *T2, c3 *T3, c4 *T4)) {
	if q.seed == nil {
		return
	}
	for _, id := range q.seed.EnumerateIDs() {
		if !q.matches(id) {
			continue
		}
		c1, _ := q.pool1.RefExisting(id)
		c2, _ := q.pool2.RefExisting(id)
		c3, _ := q.pool3.RefExisting(id)
		c4, _ := q.pool4.RefExisting(id)
		fn(q.w.entityOf(id), c1, c2, c3, c4)
	}
}

// ToSpan writes matching entity handles into buf, returning the count
// written. Useful when the caller wants to snapshot matches without
// allocating a new slice per call.
func (q Query4[T1, T2, T3, T4]) ToSpan(buf []Entity) int {
	if q.seed == nil {
		return 0
	}
	n := 0
	for _, id := range q.seed.EnumerateIDs() {
		if n >= len(buf) {
			break
		}
		if !q.matches(id) {
			continue
		}
		buf[n] = q.w.entityOf(id)
		n++
	}
	return n
}

// Process calls fn with a mutable reference to T for each alive handle in
// handles that carries T; dead or missing entries are silently skipped.
func Process[T any](w *World, handles []Entity, fn func(*T)) {
	pool, ok := tryPoolFor[T](w.repo)
	if !ok {
		return
	}
	for _, e := range handles {
		if !w.IsAlive(e) {
			continue
		}
		ref, err := pool.RefExisting(e.ID)
		if err != nil {
			continue
		}
		fn(ref)
	}
}
