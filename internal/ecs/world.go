package ecs

// WorldScope names a world: its kernel-assigned id, an optional display
// name, and an optional tag set.
type WorldScope struct {
	ID   WorldID
	Name string
	Tags map[string]struct{}
}

// World composes the entity allocator, pool repository, query support,
// write policy, message bus, binding router, command buffer/worker, and
// scheduler under one scope. It is a single concrete composite rather than
// an interface -- nothing in this module needs a second World
// implementation.
type World struct {
	scope WorldScope
	cfg   WorldConfig

	entities    *entityAllocator
	repo        *poolRepository
	singletons  *singletonIndex
	scheduler   *scheduler
	bus         *MessageBus
	router      *BindingRouter
	cmdWorker   *commandWorker
	extQueue    *ExternalCommandQueue
	writePolicy *writePolicy
	metrics     *WorldMetrics

	phase    Phase
	disposed bool

	fixedAccumulator      float64
	fixedFrameCount       uint64
	totalSimulatedSeconds float64

	entityTags map[string]map[Entity]bool
}

// NewWorld constructs a World under scope, configured by cfg.
func NewWorld(cfg WorldConfig, scope WorldScope) *World {
	if cfg.InitialEntityCapacity <= 0 {
		cfg.InitialEntityCapacity = 1024
	}
	if cfg.InitialPoolBuckets == nil {
		cfg.InitialPoolBuckets = map[ComponentTypeID]int{}
	}
	w := &World{scope: scope, cfg: cfg, phase: PhaseNeutral}
	w.entities = newEntityAllocator(cfg.InitialEntityCapacity)
	w.repo = newPoolRepository(cfg)
	w.singletons = newSingletonIndex()
	w.scheduler = newScheduler()
	w.bus = NewMessageBus()
	w.router = NewBindingRouter(cfg.InitialBinderBuckets)
	w.cmdWorker = newCommandWorker()
	w.extQueue = newExternalCommandQueue()
	w.writePolicy = newWritePolicy(&w.cfg)
	w.metrics = newWorldMetrics()
	w.entityTags = map[string]map[Entity]bool{}
	return w
}

func (w *World) ID() WorldID                  { return w.scope.ID }
func (w *World) Name() string                 { return w.scope.Name }
func (w *World) Tags() map[string]struct{}    { return w.scope.Tags }
func (w *World) Disposed() bool               { return w.disposed }
func (w *World) CurrentPhase() Phase          { return w.phase }
func (w *World) FixedFrameCount() uint64      { return w.fixedFrameCount }
func (w *World) TotalSimulatedSeconds() float64 { return w.totalSimulatedSeconds }
func (w *World) Metrics() *WorldMetrics       { return w.metrics }
func (w *World) Bus() *MessageBus             { return w.bus }
func (w *World) Router() *BindingRouter       { return w.router }
func (w *World) ExternalCommands() *ExternalCommandQueue { return w.extQueue }

// --- entity lifecycle -------------------------------------------------

// CreateEntity allocates a new entity handle.
func (w *World) CreateEntity() Entity { return w.entities.Create() }

// DestroyEntity destroys e, fanning the removal out to every component
// pool, the binding router's binder map, and the singleton index. A
// no-op, reporting false, if e was already dead.
func (w *World) DestroyEntity(e Entity) bool {
	if !w.entities.Destroy(e) {
		return false
	}
	w.repo.removeEntity(e.ID)
	w.router.DetachEntity(e)
	w.singletons.removeEntity(e)
	for _, set := range w.entityTags {
		delete(set, e)
	}
	return true
}

func (w *World) IsAlive(e Entity) bool { return w.entities.IsAlive(e) }
func (w *World) AliveCount() int       { return w.entities.AliveCount() }
func (w *World) AllEntities() []Entity { return w.entities.AllEntities() }

// Reset clears every entity, pool, singleton, and pending router delta.
// Every previously issued handle becomes invalid (see entityAllocator.Reset).
func (w *World) Reset(keepCapacity bool) {
	w.entities.Reset(keepCapacity)
	w.repo.clearAllPools()
	w.singletons = newSingletonIndex()
	w.router.Clear()
	w.entityTags = map[string]map[Entity]bool{}
}

// TagEntity adds tag to e's tag set, a supplemented convenience index
// (see SPEC_FULL.md's SUPPLEMENTED FEATURES).
func (w *World) TagEntity(e Entity, tag string) {
	set, ok := w.entityTags[tag]
	if !ok {
		set = map[Entity]bool{}
		w.entityTags[tag] = set
	}
	set[e] = true
}

// EntitiesWithTag returns every entity currently carrying tag.
func (w *World) EntitiesWithTag(tag string) []Entity {
	set := w.entityTags[tag]
	out := make([]Entity, 0, len(set))
	for e := range set {
		out = append(out, e)
	}
	return out
}

// --- component writes/reads --------------------------------------------

// Add gives e a T value, creating T's pool on first touch. Structural
// write: gated by the phase table's structural column.
func Add[T any](w *World, e Entity, value T) error {
	if w.disposed {
		return errWorldDisposed()
	}
	if !w.IsAlive(e) {
		return errInvalidHandle(e)
	}
	typeID := componentTypeID[T]()
	if w.singletons.isSingleton(typeID) {
		if owner, ok := w.singletons.ownerOf(typeID); ok && owner != e {
			return errSingletonViolation(e, typeID)
		}
	}
	if err := w.writePolicy.check(w.phase, e, typeID, true, value); err != nil {
		return w.writePolicy.handleDenied(err)
	}
	pool := poolFor[T](w.repo)
	existed := pool.Has(e.ID)
	pool.Set(e.ID, value)
	if w.singletons.isSingleton(typeID) {
		w.singletons.setOwner(typeID, e)
	}
	kind := DeltaAdded
	if existed {
		kind = DeltaChanged
	}
	w.router.Dispatch(Delta{Entity: e, TypeID: typeID, Kind: kind, NewValue: value})
	return nil
}

// Replace overwrites an already-present T value. Value write: gated by
// the phase table's value column. MissingComponent if e has no T yet.
func Replace[T any](w *World, e Entity, value T) error {
	if w.disposed {
		return errWorldDisposed()
	}
	if !w.IsAlive(e) {
		return errInvalidHandle(e)
	}
	typeID := componentTypeID[T]()
	if err := w.writePolicy.check(w.phase, e, typeID, false, value); err != nil {
		return w.writePolicy.handleDenied(err)
	}
	pool := poolFor[T](w.repo)
	if !pool.Has(e.ID) {
		return errMissingComponent(e, typeID)
	}
	pool.Set(e.ID, value)
	w.router.Dispatch(Delta{Entity: e, TypeID: typeID, Kind: DeltaChanged, NewValue: value})
	return nil
}

// Remove drops e's T value, if present. Structural write. Removing an
// absent component is a no-op, matching destroy_entity's no-error-on-dead
// idiom.
func Remove[T any](w *World, e Entity) error {
	if w.disposed {
		return errWorldDisposed()
	}
	if !w.IsAlive(e) {
		return errInvalidHandle(e)
	}
	typeID := componentTypeID[T]()
	if err := w.writePolicy.check(w.phase, e, typeID, true, nil); err != nil {
		return w.writePolicy.handleDenied(err)
	}
	pool := poolFor[T](w.repo)
	if !pool.Has(e.ID) {
		return nil
	}
	pool.Remove(e.ID, true)
	if w.singletons.isSingleton(typeID) {
		if owner, ok := w.singletons.ownerOf(typeID); ok && owner == e {
			w.singletons.clearOwner(typeID)
		}
	}
	w.router.Dispatch(Delta{Entity: e, TypeID: typeID, Kind: DeltaRemoved})
	return nil
}

// Get returns a copy of e's T value, if alive and present.
func Get[T any](w *World, e Entity) (T, bool) {
	pool, ok := tryPoolFor[T](w.repo)
	if !ok || !w.IsAlive(e) {
		var zero T
		return zero, false
	}
	return pool.Get(e.ID)
}

// Has reports whether alive entity e carries T. Pure: calling it twice
// yields the same result and never emits a delta.
func Has[T any](w *World, e Entity) bool {
	pool, ok := tryPoolFor[T](w.repo)
	if !ok {
		return false
	}
	return w.IsAlive(e) && pool.Has(e.ID)
}

// RefExisting returns a mutable pointer to e's T value, or
// MissingComponent if absent.
func RefExisting[T any](w *World, e Entity) (*T, error) {
	if !w.IsAlive(e) {
		return nil, errInvalidHandle(e)
	}
	pool := poolFor[T](w.repo)
	return pool.RefExisting(e.ID)
}

// MarkSingleton tags T as a singleton component type: at most one live
// entity may own it. Idempotent.
func MarkSingleton[T any](w *World) {
	w.singletons.mark(componentTypeID[T]())
}

// SetSingleton gives e ownership of the singleton T, failing with
// SingletonViolation (always an error, never silenced by the
// write-failure policy) if a different entity already owns it.
func SetSingleton[T any](w *World, e Entity, value T) error {
	if w.disposed {
		return errWorldDisposed()
	}
	if !w.IsAlive(e) {
		return errInvalidHandle(e)
	}
	typeID := componentTypeID[T]()
	w.singletons.mark(typeID)
	if owner, ok := w.singletons.ownerOf(typeID); ok && owner != e {
		return errSingletonViolation(e, typeID)
	}
	if err := w.writePolicy.check(w.phase, e, typeID, true, value); err != nil {
		return w.writePolicy.handleDenied(err)
	}
	pool := poolFor[T](w.repo)
	existed := pool.Has(e.ID)
	pool.Set(e.ID, value)
	w.singletons.setOwner(typeID, e)
	kind := DeltaAdded
	if existed {
		kind = DeltaChanged
	}
	w.router.Dispatch(Delta{Entity: e, TypeID: typeID, Kind: kind, NewValue: value})
	return nil
}

// RemoveSingleton removes the singleton T from its current owner, if any.
func RemoveSingleton[T any](w *World) error {
	typeID := componentTypeID[T]()
	owner, ok := w.singletons.ownerOf(typeID)
	if !ok {
		return nil
	}
	return Remove[T](w, owner)
}

// GetSingleton returns the singleton T's owner and value, if one exists.
func GetSingleton[T any](w *World) (Entity, T, bool) {
	typeID := componentTypeID[T]()
	owner, ok := w.singletons.ownerOf(typeID)
	if !ok {
		var zero T
		return Entity{}, zero, false
	}
	v, _ := Get[T](w, owner)
	return owner, v, true
}

// --- write-policy registration ------------------------------------------

// RegisterWritePermission adds a permission predicate consulted on every
// structural and value write, in registration order; all must accept.
func RegisterWritePermission(w *World, hook func(e Entity, typeID ComponentTypeID) bool) {
	w.writePolicy.addPermissionHook(hook)
}

// RegisterTypedValidator installs a typed validator for T, consulted after
// permission hooks on every write carrying a T value.
func RegisterTypedValidator[T any](w *World, fn func(*T) bool) {
	id := componentTypeID[T]()
	w.writePolicy.setTypedValidator(id, func(v any) bool {
		val := v.(T)
		return fn(&val)
	})
}

// RegisterObjectValidator installs an any-typed validator for a given
// type-id, for callers operating only on the boxed surface.
func RegisterObjectValidator(w *World, typeID ComponentTypeID, fn func(any) bool) {
	w.writePolicy.setObjectValidator(typeID, fn)
}

// --- systems -------------------------------------------------------------

// AddSystem registers sys under name. It returns an error without
// registering anything if doing so would create an ordering cycle among
// the group's before/after edges.
func (w *World) AddSystem(name string, group Group, sys System, opts ...SystemOption) error {
	return w.scheduler.AddSystem(name, group, sys, opts...)
}

func (w *World) RemoveSystem(name string) { w.scheduler.RemoveSystem(name) }

func (w *World) SystemState(name string) (SystemState, bool) { return w.scheduler.SystemState(name) }

// --- frame loop ------------------------------------------------------------
//
// BeginFrame/FixedStep/LateFrame/PumpAndLateFrame implement the per-tick
// phase flow: plan build + system init, bus pump, FrameInput, FrameSync,
// (fixed-step family), FrameView, FrameUI-under-deny-all, router flush.

// BeginFrame runs step 1 of the per-tick phase flow.
func (w *World) BeginFrame(dt float64) {
	if w.disposed {
		return
	}
	w.scheduler.applyPendingAndInit(w)
	w.bus.PumpAll()

	w.phase = PhaseFrameInput
	w.scheduler.runGroup(w, GroupFrameInput, dt)
	w.cmdWorker.runScheduledJobs(w)

	w.phase = PhaseFrameSync
	w.scheduler.runGroup(w, GroupFrameSync, dt)
	w.cmdWorker.runScheduledJobs(w)

	w.phase = PhaseNeutral
}

// FixedStep runs step 2 of the per-tick phase flow for one fixed-step h.
func (w *World) FixedStep(h float64) {
	if w.disposed {
		return
	}
	w.phase = PhaseSimulation
	w.extQueue.flushToInternal(w)

	for _, g := range [...]Group{GroupFixedInput, GroupFixedDecision, GroupFixedSimulation, GroupFixedPost} {
		w.scheduler.runGroup(w, g, h)
		w.cmdWorker.runScheduledJobs(w)
	}

	w.fixedFrameCount++
	w.totalSimulatedSeconds += h
	w.phase = PhaseNeutral
}

// LateFrame runs step 3 of the per-tick phase flow: FrameView, a
// deny-all-guarded FrameUI, then the router's once-per-frame flush.
func (w *World) LateFrame(alpha float64) {
	if w.disposed {
		return
	}
	w.phase = PhaseFrameView
	w.scheduler.runGroup(w, GroupFrameView, alpha)
	w.cmdWorker.runScheduledJobs(w)

	w.writePolicy.denyAll = true
	w.phase = PhaseFrameUI
	w.scheduler.runGroup(w, GroupFrameUI, alpha)

	w.router.ApplyAll()

	w.phase = PhaseNeutral
	w.writePolicy.denyAll = false
}

// PumpAndLateFrame drives BeginFrame, zero or more FixedStep calls
// (bounded by maxSubsteps), and LateFrame. The alpha passed to LateFrame
// is the leftover accumulator fraction of h, clamped to [0,1].
func (w *World) PumpAndLateFrame(dt, h float64, maxSubsteps int) {
	if w.disposed {
		return
	}
	w.BeginFrame(dt)

	w.fixedAccumulator += dt
	n := 0
	for h > 0 && w.fixedAccumulator >= h && n < maxSubsteps {
		w.FixedStep(h)
		w.fixedAccumulator -= h
		n++
	}

	alpha := 0.0
	if h > 0 {
		alpha = w.fixedAccumulator / h
		if alpha < 0 {
			alpha = 0
		}
		if alpha > 1 {
			alpha = 1
		}
	}
	w.LateFrame(alpha)

	// A backlog that hit maxSubsteps every frame would otherwise grow
	// without bound; cap the carried residual so it never spikes a later
	// frame's substep count.
	if h > 0 {
		if capAcc := float64(maxSubsteps) * h; w.fixedAccumulator > capAcc {
			w.fixedAccumulator = capAcc
		}
	}
}

// Dispose tears the world down in reverse-construction order: systems
// shutdown, router cleared, bus cleared, pools dropped.
func (w *World) Dispose() {
	if w.disposed {
		return
	}
	w.scheduler.shutdownAll(w)
	w.router.Clear()
	w.bus.Clear()
	w.repo.clearAllPools()
	w.disposed = true
}
