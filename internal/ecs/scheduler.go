package ecs

import "sort"

// SystemState is one of a system's five lifecycle states.
type SystemState uint8

const (
	StatePending SystemState = iota
	StateActive
	StateInitialized
	StateShuttingDown
	StateDisposed
)

// System is the scheduler contract: run(world, dt). Initialize, Shutdown,
// and Enabled are optional, detected via the Initializer/Shutdowner/
// Enabler interfaces below, so a system only need implement what it
// actually uses.
type System interface {
	Run(w *World, dt float64)
}

// Initializer is implemented by systems needing one-time setup before
// their first Run.
type Initializer interface {
	Initialize(w *World) error
}

// Shutdowner is implemented by systems needing teardown at removal or
// world disposal.
type Shutdowner interface {
	Shutdown(w *World) error
}

// Enabler is implemented by systems that can be toggled off without
// leaving the plan.
type Enabler interface {
	Enabled() bool
}

type systemEntry struct {
	name     string
	group    Group
	sys      System
	priority Priority
	state    SystemState
	before   map[string]bool
	after    map[string]bool
}

// SystemOption configures ordering metadata at AddSystem time.
type SystemOption func(*systemEntry)

// OrderBefore declares that this system must run before the named system,
// within the same group.
func OrderBefore(name string) SystemOption {
	return func(e *systemEntry) { e.before[name] = true }
}

// OrderAfter declares that this system must run after the named system,
// within the same group.
func OrderAfter(name string) SystemOption {
	return func(e *systemEntry) { e.after[name] = true }
}

// WithPriority attaches a priority hint carried alongside the system but
// not otherwise consulted by the topological planner (ties are broken by
// name, not priority).
func WithPriority(p Priority) SystemOption {
	return func(e *systemEntry) { e.priority = p }
}

// scheduler owns the plan builder, system lifecycle states, and
// phase-group execution order. Single-threaded by design: systems within a
// phase group run one after another in plan order, never concurrently.
type scheduler struct {
	entries       map[string]*systemEntry
	pendingRemove []string
	plan          map[Group][]string
	initOrder     []string
	dirty         bool
}

func newScheduler() *scheduler {
	return &scheduler{entries: map[string]*systemEntry{}, plan: map[Group][]string{}}
}

// AddSystem registers sys under name, tagged with group. A freshly added
// system is stored as StateActive straight away (StatePending is never
// assigned) and takes part from the next plan rebuild. If adding it would introduce an ordering cycle among the
// before/after edges of the systems already in group, the system is
// rejected and an *ECSError (ErrSchedulerCycle) is returned.
func (s *scheduler) AddSystem(name string, group Group, sys System, opts ...SystemOption) error {
	e := &systemEntry{name: name, group: group, sys: sys, state: StateActive, before: map[string]bool{}, after: map[string]bool{}}
	for _, o := range opts {
		o(e)
	}

	trial := make(map[string]*systemEntry, 1)
	names := make([]string, 0, 1)
	for n, existing := range s.entries {
		if existing.group == group {
			trial[n] = existing
			names = append(names, n)
		}
	}
	trial[name] = e
	names = append(names, name)

	if hasCycle(names, trial) {
		return errSchedulerCycle(name)
	}

	s.entries[name] = e
	s.dirty = true
	return nil
}

// RemoveSystem marks name for shutdown; it is torn down and dropped from
// the plan on the next applyPendingAndInit.
func (s *scheduler) RemoveSystem(name string) {
	if _, ok := s.entries[name]; ok {
		s.pendingRemove = append(s.pendingRemove, name)
		s.dirty = true
	}
}

func (s *scheduler) buildPlanIfDirty() {
	if !s.dirty {
		return
	}
	newPlan := make(map[Group][]string, groupCount)
	var allOrder []string
	for g := Group(0); g < groupCount; g++ {
		var names []string
		for name, e := range s.entries {
			if e.group == g && e.state != StateDisposed {
				names = append(names, name)
			}
		}
		ordered := topoSort(names, s.entries)
		newPlan[g] = ordered
		allOrder = append(allOrder, ordered...)
	}
	s.plan = newPlan
	s.initOrder = allOrder
	s.dirty = false
}

// buildOrderGraph turns each entry's before/after edges into an indegree
// map and adjacency list restricted to names, plus the set of entries
// whose indegree is already zero (ready to run first).
func buildOrderGraph(names []string, entries map[string]*systemEntry) (indegree map[string]int, edges map[string][]string, ready []string) {
	nameSet := make(map[string]bool, len(names))
	indegree = make(map[string]int, len(names))
	edges = make(map[string][]string, len(names))
	for _, n := range names {
		nameSet[n] = true
		indegree[n] = 0
	}
	addEdge := func(from, to string) {
		if !nameSet[from] || !nameSet[to] {
			return
		}
		edges[from] = append(edges[from], to)
		indegree[to]++
	}
	for _, n := range names {
		e := entries[n]
		for before := range e.before {
			addEdge(n, before)
		}
		for after := range e.after {
			addEdge(after, n)
		}
	}
	for _, n := range names {
		if indegree[n] == 0 {
			ready = append(ready, n)
		}
	}
	sort.Strings(ready)
	return
}

// hasCycle reports whether the before/after edges among names contain a
// dependency cycle -- i.e. Kahn's algorithm cannot order every name.
func hasCycle(names []string, entries map[string]*systemEntry) bool {
	indegree, edges, ready := buildOrderGraph(names, entries)
	visited := 0
	for len(ready) > 0 {
		next := ready[len(ready)-1]
		ready = ready[:len(ready)-1]
		visited++
		for _, to := range edges[next] {
			indegree[to]--
			if indegree[to] == 0 {
				ready = append(ready, to)
			}
		}
	}
	return visited != len(names)
}

// topoSort produces a stable topological order over names honoring each
// entry's before/after edges, ties broken lexicographically. Callers are
// expected to have already rejected cycles via hasCycle at AddSystem
// time, but as a last resort an unorderable remainder (one would only
// appear here if systems were mutated in a way AddSystem didn't see) is
// appended in lexicographic order rather than panicking.
func topoSort(names []string, entries map[string]*systemEntry) []string {
	sort.Strings(names)
	indegree, edges, ready := buildOrderGraph(names, entries)

	out := make([]string, 0, len(names))
	for len(ready) > 0 {
		sort.Strings(ready)
		next := ready[0]
		ready = ready[1:]
		out = append(out, next)
		for _, to := range edges[next] {
			indegree[to]--
			if indegree[to] == 0 {
				ready = append(ready, to)
			}
		}
	}
	if len(out) != len(names) {
		seen := make(map[string]bool, len(out))
		for _, n := range out {
			seen[n] = true
		}
		var remaining []string
		for _, n := range names {
			if !seen[n] {
				remaining = append(remaining, n)
			}
		}
		sort.Strings(remaining)
		out = append(out, remaining...)
	}
	return out
}

// applyPendingAndInit rebuilds the plan if dirty, tears down systems
// pending removal, and transitions every newly-Active system to
// Initialized by calling Initialize (if implemented). Called at the start
// of begin_frame.
func (s *scheduler) applyPendingAndInit(w *World) {
	for _, name := range s.pendingRemove {
		e, ok := s.entries[name]
		if !ok {
			continue
		}
		e.state = StateShuttingDown
		if sd, ok := e.sys.(Shutdowner); ok {
			_ = sd.Shutdown(w)
		}
		e.state = StateDisposed
		delete(s.entries, name)
	}
	s.pendingRemove = nil

	s.buildPlanIfDirty()

	for _, name := range s.initOrder {
		e, ok := s.entries[name]
		if !ok || e.state != StateActive {
			continue
		}
		if init, ok := e.sys.(Initializer); ok {
			_ = init.Initialize(w)
		}
		e.state = StateInitialized
	}
}

// runGroup runs every Initialized, enabled system in group g, in plan
// order.
func (s *scheduler) runGroup(w *World, g Group, dt float64) {
	for _, name := range s.plan[g] {
		e, ok := s.entries[name]
		if !ok || e.state != StateInitialized {
			continue
		}
		if en, ok := e.sys.(Enabler); ok && !en.Enabled() {
			continue
		}
		e.sys.Run(w, dt)
	}
}

// shutdownAll tears down every system in reverse initialize order, the
// World's teardown step.
func (s *scheduler) shutdownAll(w *World) {
	for i := len(s.initOrder) - 1; i >= 0; i-- {
		e, ok := s.entries[s.initOrder[i]]
		if !ok || e.state == StateDisposed {
			continue
		}
		e.state = StateShuttingDown
		if sd, ok := e.sys.(Shutdowner); ok {
			_ = sd.Shutdown(w)
		}
		e.state = StateDisposed
	}
}

// SystemState returns name's current lifecycle state, for tests/debug.
func (s *scheduler) SystemState(name string) (SystemState, bool) {
	e, ok := s.entries[name]
	if !ok {
		return 0, false
	}
	return e.state, true
}
