package ecs

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// WorldID identifies a world managed by a Kernel, backed by google/uuid
// for a collision-free opaque scope identifier.
type WorldID = uuid.UUID

// KernelEvent names a kernel lifecycle notification.
type KernelEvent uint8

const (
	EventWorldCreated KernelEvent = iota
	EventWorldDestroyed
	EventCurrentWorldChanged
	EventKernelDisposed
)

// KernelListener receives kernel lifecycle notifications. prev is the
// zero UUID where not applicable (e.g. world_created).
type KernelListener func(ev KernelEvent, id WorldID, prev WorldID)

// Kernel is the multi-world registry and frame-tick driver: one host loop
// (an ebiten.Game, typically) drives N independently ticking worlds
// through a single Kernel rather than one loop per world.
type Kernel struct {
	mu sync.Mutex

	cfg KernelConfig

	worlds   map[WorldID]*World
	order    []WorldID // creation order, for GetAll's deterministic enumeration
	byName   map[string]WorldID
	byTag    map[string]map[WorldID]bool
	current  WorldID
	hasCurr  bool
	nextAuto int

	listeners []KernelListener

	paused bool

	frameCount            uint64
	fixedFrameCount       uint64
	totalSimulatedSeconds float64

	disposed bool
}

// NewKernel constructs an empty Kernel.
func NewKernel(cfg KernelConfig) *Kernel {
	if cfg.NewWorldIDFactory == nil {
		cfg.NewWorldIDFactory = uuid.New
	}
	if cfg.AutoNamePrefix == "" {
		cfg.AutoNamePrefix = "world-"
	}
	return &Kernel{
		cfg:    cfg,
		worlds: map[WorldID]*World{},
		byName: map[string]WorldID{},
		byTag:  map[string]map[WorldID]bool{},
	}
}

func (k *Kernel) notify(ev KernelEvent, id, prev WorldID) {
	for _, l := range k.listeners {
		l(ev, id, prev)
	}
}

// OnEvent registers a listener for kernel lifecycle events.
func (k *Kernel) OnEvent(l KernelListener) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.listeners = append(k.listeners, l)
}

// CreateWorld creates and registers a new world. An empty name gets an
// auto-generated one ("<prefix><n>"); tags are attached to the secondary
// tag index. If cfg.AutoSelectNewWorld is set, or no world is currently
// selected, the new world becomes current.
func (k *Kernel) CreateWorld(worldCfg WorldConfig, name string, tags ...string) (*World, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.disposed {
		return nil, errKernelDisposed()
	}

	id := k.cfg.NewWorldIDFactory()
	if _, exists := k.worlds[id]; exists {
		return nil, errDuplicateWorldID(id.String())
	}
	if name == "" {
		k.nextAuto++
		name = k.cfg.AutoNamePrefix + itoa(k.nextAuto)
	}

	tagSet := map[string]struct{}{}
	for _, t := range tags {
		tagSet[t] = struct{}{}
	}

	w := NewWorld(worldCfg, WorldScope{ID: id, Name: name, Tags: tagSet})
	k.worlds[id] = w
	k.order = append(k.order, id)
	k.byName[name] = id
	for t := range tagSet {
		set, ok := k.byTag[t]
		if !ok {
			set = map[WorldID]bool{}
			k.byTag[t] = set
		}
		set[id] = true
	}

	if k.cfg.AutoSelectNewWorld || !k.hasCurr {
		prev := WorldID{}
		if k.hasCurr {
			prev = k.current
		}
		k.current = id
		k.hasCurr = true
		k.notify(EventCurrentWorldChanged, id, prev)
	}

	k.notify(EventWorldCreated, id, WorldID{})
	return w, nil
}

// DestroyWorld disposes and unregisters id's world. A no-op, reporting
// false, if id is not registered.
func (k *Kernel) DestroyWorld(id WorldID) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	w, ok := k.worlds[id]
	if !ok {
		return false
	}
	w.Dispose()
	delete(k.worlds, id)
	delete(k.byName, w.Name())
	for t := range w.Tags() {
		if set, ok := k.byTag[t]; ok {
			delete(set, id)
			if len(set) == 0 {
				delete(k.byTag, t)
			}
		}
	}
	for i, oid := range k.order {
		if oid == id {
			k.order = append(k.order[:i], k.order[i+1:]...)
			break
		}
	}
	if k.hasCurr && k.current == id {
		k.hasCurr = false
		k.current = WorldID{}
		k.notify(EventCurrentWorldChanged, WorldID{}, id)
	}
	k.notify(EventWorldDestroyed, id, WorldID{})
	return true
}

// TryGet returns id's world, if registered.
func (k *Kernel) TryGet(id WorldID) (*World, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	w, ok := k.worlds[id]
	return w, ok
}

// GetAll returns every registered world, in creation order.
func (k *Kernel) GetAll() []*World {
	k.mu.Lock()
	defer k.mu.Unlock()
	out := make([]*World, 0, len(k.order))
	for _, id := range k.order {
		out = append(out, k.worlds[id])
	}
	return out
}

// FindByName returns the world registered under name, if any.
func (k *Kernel) FindByName(name string) (*World, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	id, ok := k.byName[name]
	if !ok {
		return nil, false
	}
	return k.worlds[id], true
}

// FindByNamePrefix returns every registered world whose name has prefix,
// in creation order.
func (k *Kernel) FindByNamePrefix(prefix string) []*World {
	k.mu.Lock()
	defer k.mu.Unlock()
	var out []*World
	for _, id := range k.order {
		w := k.worlds[id]
		if len(w.Name()) >= len(prefix) && w.Name()[:len(prefix)] == prefix {
			out = append(out, w)
		}
	}
	return out
}

// FindByTag returns every world carrying tag, ordered by the string form
// of its world id.
func (k *Kernel) FindByTag(tag string) []*World {
	k.mu.Lock()
	defer k.mu.Unlock()
	set := k.byTag[tag]
	var ids []WorldID
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	out := make([]*World, 0, len(ids))
	for _, id := range ids {
		out = append(out, k.worlds[id])
	}
	return out
}

// FindByAnyTag returns every world carrying at least one of tags, in
// creation order, without duplicates.
func (k *Kernel) FindByAnyTag(tags ...string) []*World {
	k.mu.Lock()
	defer k.mu.Unlock()
	seen := map[WorldID]bool{}
	var out []*World
	for _, id := range k.order {
		w := k.worlds[id]
		for _, t := range tags {
			if w.Tags() != nil {
				if _, ok := w.Tags()[t]; ok && !seen[id] {
					seen[id] = true
					out = append(out, w)
					break
				}
			}
		}
	}
	return out
}

// Current returns the currently selected world, if any.
func (k *Kernel) Current() (*World, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if !k.hasCurr {
		return nil, false
	}
	return k.worlds[k.current], true
}

// SetCurrent selects id as current. Returns false if id is not registered.
func (k *Kernel) SetCurrent(id WorldID) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	if _, ok := k.worlds[id]; !ok {
		return false
	}
	prev := k.current
	k.current = id
	k.hasCurr = true
	k.notify(EventCurrentWorldChanged, id, prev)
	return true
}

// Pause stops the kernel's tick methods from driving any world.
func (k *Kernel) Pause() { k.mu.Lock(); k.paused = true; k.mu.Unlock() }

// Resume re-enables ticking.
func (k *Kernel) Resume() { k.mu.Lock(); k.paused = false; k.mu.Unlock() }

// TogglePause flips the paused flag and returns the new state.
func (k *Kernel) TogglePause() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.paused = !k.paused
	return k.paused
}

func (k *Kernel) Paused() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.paused
}

// targets returns the worlds a tick call should drive, honoring
// StepOnlyCurrentWhenSelected.
func (k *Kernel) targets() []*World {
	if k.cfg.StepOnlyCurrentWhenSelected && k.hasCurr {
		return []*World{k.worlds[k.current]}
	}
	out := make([]*World, 0, len(k.order))
	for _, id := range k.order {
		out = append(out, k.worlds[id])
	}
	return out
}

// PumpAndLateFrame drives BeginFrame/FixedStep.../LateFrame on every
// targeted world (per StepOnlyCurrentWhenSelected), and is a no-op while
// paused or disposed.
func (k *Kernel) PumpAndLateFrame(dt, h float64, maxSubsteps int) {
	k.mu.Lock()
	if k.disposed || k.paused {
		k.mu.Unlock()
		return
	}
	targets := k.targets()
	k.mu.Unlock()

	for _, w := range targets {
		before := w.FixedFrameCount()
		w.PumpAndLateFrame(dt, h, maxSubsteps)
		k.fixedFrameCount += w.FixedFrameCount() - before
	}
	k.frameCount++
	k.totalSimulatedSeconds += dt
}

func (k *Kernel) FrameCount() uint64              { return k.frameCount }
func (k *Kernel) FixedFrameCount() uint64         { return k.fixedFrameCount }
func (k *Kernel) TotalSimulatedSeconds() float64  { return k.totalSimulatedSeconds }

// Dispose tears down every registered world and marks the kernel unusable
// for further CreateWorld calls.
func (k *Kernel) Dispose() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.disposed {
		return
	}
	for _, id := range k.order {
		k.worlds[id].Dispose()
	}
	k.worlds = map[WorldID]*World{}
	k.order = nil
	k.byName = map[string]WorldID{}
	k.byTag = map[string]map[WorldID]bool{}
	k.hasCurr = false
	k.disposed = true
	k.notify(EventKernelDisposed, WorldID{}, WorldID{})
}

// itoa avoids pulling in strconv for a single-digit-heavy counter path.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
