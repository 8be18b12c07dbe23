package ecs

import "sync"

// EntityRef is a handle into a still-open CommandBuffer. It either names
// an already-live Entity or refers to an entity that will be created when
// the buffer's job runs -- recording an operation does not apply it, so a
// buffer-local CreateEntity cannot hand back a real Entity yet.
type EntityRef struct {
	local    int // index into the owning buffer's created slice; -1 means resolved already
	resolved Entity
}

// RefOf wraps an already-live entity for use inside a command buffer.
func RefOf(e Entity) EntityRef { return EntityRef{local: -1, resolved: e} }

func (r EntityRef) resolve(buf *CommandBuffer) Entity {
	if r.local < 0 {
		return r.resolved
	}
	return buf.created[r.local]
}

type bufferedOp func(w *World, buf *CommandBuffer)

// CommandBuffer is an append-only list of deferred operations. Recording
// does not touch the world; closing the buffer schedules one job on the
// world's worker, which replays the recorded ops in FIFO order. The op
// list is a slice of closures built by the typed helper functions below,
// rather than raw tagged structs -- the idiomatic Go equivalent of a
// tagged-union op list.
type CommandBuffer struct {
	w       *World
	ops     []bufferedOp
	created []Entity
	closed  bool
}

// BeginWrite opens a new command buffer against w.
func (w *World) BeginWrite() *CommandBuffer {
	return &CommandBuffer{w: w}
}

// CreateEntity records a deferred entity creation and returns a ref that
// resolves to the real Entity once the buffer's job has run.
func (b *CommandBuffer) CreateEntity() EntityRef {
	idx := len(b.created)
	b.created = append(b.created, Entity{})
	b.ops = append(b.ops, func(w *World, buf *CommandBuffer) {
		buf.created[idx] = w.CreateEntity()
	})
	return EntityRef{local: idx}
}

// DestroyEntity records a deferred destruction.
func (b *CommandBuffer) DestroyEntity(ref EntityRef) {
	b.ops = append(b.ops, func(w *World, buf *CommandBuffer) {
		w.DestroyEntity(ref.resolve(buf))
	})
}

// AddCmd records a deferred Add.
func AddCmd[T any](b *CommandBuffer, ref EntityRef, value T) {
	b.ops = append(b.ops, func(w *World, buf *CommandBuffer) {
		_ = Add(w, ref.resolve(buf), value)
	})
}

// ReplaceCmd records a deferred Replace.
func ReplaceCmd[T any](b *CommandBuffer, ref EntityRef, value T) {
	b.ops = append(b.ops, func(w *World, buf *CommandBuffer) {
		_ = Replace(w, ref.resolve(buf), value)
	})
}

// RemoveCmd records a deferred Remove.
func RemoveCmd[T any](b *CommandBuffer, ref EntityRef) {
	b.ops = append(b.ops, func(w *World, buf *CommandBuffer) {
		_ = Remove[T](w, ref.resolve(buf))
	})
}

// SetSingletonCmd records a deferred SetSingleton.
func SetSingletonCmd[T any](b *CommandBuffer, ref EntityRef, value T) {
	b.ops = append(b.ops, func(w *World, buf *CommandBuffer) {
		_ = SetSingleton(w, ref.resolve(buf), value)
	})
}

// RemoveSingletonCmd records a deferred RemoveSingleton.
func RemoveSingletonCmd[T any](b *CommandBuffer) {
	b.ops = append(b.ops, func(w *World, buf *CommandBuffer) {
		_ = RemoveSingleton[T](w)
	})
}

// Close schedules the buffer's job on the world's worker. Safe to call
// more than once; only the first call schedules anything.
func (b *CommandBuffer) Close() {
	if b.closed {
		return
	}
	b.closed = true
	b.w.cmdWorker.schedule(b)
}

// commandWorker runs scheduled jobs in FIFO order on the caller's thread,
// giving the scheduler deterministic barrier points between phase
// sub-buckets.
type commandWorker struct {
	jobs []*CommandBuffer
}

func newCommandWorker() *commandWorker { return &commandWorker{} }

func (cw *commandWorker) schedule(buf *CommandBuffer) {
	cw.jobs = append(cw.jobs, buf)
}

// runScheduledJobs executes every pending job's recorded ops in order and
// returns the number of jobs run.
func (cw *commandWorker) runScheduledJobs(w *World) int {
	jobs := cw.jobs
	cw.jobs = nil
	for _, buf := range jobs {
		for _, op := range buf.ops {
			op(w, buf)
		}
	}
	return len(jobs)
}

// ExternalCommandQueue is the thread-safe per-world queue for commands
// originating outside the scheduler (editor tools, async tasks, the Lua
// scripting bridge). Multiple producer goroutines may enqueue; it is
// drained exclusively on the simulation phase.
type ExternalCommandQueue struct {
	mu  sync.Mutex
	ops []func(w *World) error
}

func newExternalCommandQueue() *ExternalCommandQueue {
	return &ExternalCommandQueue{}
}

// Enqueue is safe to call from any goroutine.
func (q *ExternalCommandQueue) Enqueue(op func(w *World) error) {
	q.mu.Lock()
	q.ops = append(q.ops, op)
	q.mu.Unlock()
}

// flushToInternal drains the queue and applies every op against w in FIFO
// order, returning the count applied.
func (q *ExternalCommandQueue) flushToInternal(w *World) int {
	q.mu.Lock()
	ops := q.ops
	q.ops = nil
	q.mu.Unlock()
	for _, op := range ops {
		_ = op(w)
	}
	return len(ops)
}
