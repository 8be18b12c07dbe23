// Package scripting exposes a restricted Lua API, backed by gopher-lua,
// over an ecs.World's ExternalCommandQueue: the same sandboxing idiom
// (disable io/os/debug/package globals) and the same restricted-surface
// shape (create/destroy entity, add/has component by name) a
// mod-scripting layer needs without handing scripts direct access to the
// world. Removing components and events are not exposed.
package scripting

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"ecsruntime/internal/ecs"
)

// ComponentCodec lets a named, Lua-table-shaped component be decoded into
// a boxed Go value and written into a world without the bridge needing a
// generic type parameter per component -- Lua scripts only ever know
// components by string name.
type ComponentCodec interface {
	// TypeID is the component's runtime type-id, shared with the rest of
	// the ecs package's reflection-based registry.
	TypeID() ecs.ComponentTypeID
	// FromLua decodes a Lua table into a boxed value suitable for
	// ecs.SetBoxedComponent-style application.
	FromLua(tbl *lua.LTable) (any, error)
	// ToLua encodes a boxed value back into a Lua table, for read APIs.
	ToLua(L *lua.LState, value any) (lua.LValue, error)
}

// Registry maps component names, as Lua scripts spell them, to codecs.
type Registry struct {
	codecs map[string]ComponentCodec
}

// NewRegistry returns an empty component-name registry.
func NewRegistry() *Registry {
	return &Registry{codecs: map[string]ComponentCodec{}}
}

// Register associates name with codec. Re-registering a name replaces it.
func (r *Registry) Register(name string, codec ComponentCodec) {
	r.codecs[name] = codec
}

func (r *Registry) lookup(name string) (ComponentCodec, error) {
	c, ok := r.codecs[name]
	if !ok {
		return nil, fmt.Errorf("scripting: unknown component %q", name)
	}
	return c, nil
}

// ResourceLimits bounds a script VM's resource usage.
type ResourceLimits struct {
	MaxOps int // stored on the Bridge; nothing in this package reads or enforces it
}

// Bridge owns one sandboxed Lua VM wired to a single world's external
// command queue.
type Bridge struct {
	world    *ecs.World
	registry *Registry
	state    *lua.LState
	limits   ResourceLimits
}

// NewBridge creates a sandboxed VM bound to world, with the ecs API table
// registered under the global name "ecs".
func NewBridge(world *ecs.World, registry *Registry, limits ResourceLimits) (*Bridge, error) {
	if world == nil {
		return nil, errors.New("scripting: world is nil")
	}
	if registry == nil {
		registry = NewRegistry()
	}
	L := lua.NewState(lua.Options{SkipOpenLibs: false})
	applySandbox(L)

	b := &Bridge{world: world, registry: registry, state: L, limits: limits}
	b.registerAPI()
	return b, nil
}

// Close releases the underlying Lua state. Safe to call once.
func (b *Bridge) Close() {
	if b.state != nil {
		b.state.Close()
		b.state = nil
	}
}

// LoadString compiles and runs src against this bridge's VM.
func (b *Bridge) LoadString(src string) error {
	if b.state == nil {
		return errors.New("scripting: bridge closed")
	}
	if err := b.state.DoString(src); err != nil {
		return fmt.Errorf("scripting: script error: %w", err)
	}
	return nil
}

// applySandbox strips the globals a mod script has no business touching.
func applySandbox(L *lua.LState) {
	L.SetGlobal("io", lua.LNil)
	L.SetGlobal("os", lua.LNil)
	L.SetGlobal("dofile", lua.LNil)
	L.SetGlobal("loadfile", lua.LNil)
	L.SetGlobal("debug", lua.LNil)
	L.SetGlobal("package", lua.LNil)
	L.SetGlobal("require", lua.LNil)
}

// registerAPI installs the restricted "ecs" table: create_entity,
// destroy_entity, add_component, has_component. Every mutating
// call enqueues a closure onto the world's ExternalCommandQueue rather
// than touching the world directly -- Lua callbacks may run from any
// goroutine that pumps this VM, and only the simulation phase may apply
// external commands.
func (b *Bridge) registerAPI() {
	tbl := b.state.NewTable()

	b.state.SetField(tbl, "create_entity", b.state.NewFunction(b.luaCreateEntity))
	b.state.SetField(tbl, "destroy_entity", b.state.NewFunction(b.luaDestroyEntity))
	b.state.SetField(tbl, "add_component", b.state.NewFunction(b.luaAddComponent))
	b.state.SetField(tbl, "has_component", b.state.NewFunction(b.luaHasComponent))

	b.state.SetGlobal("ecs", tbl)
}

// luaCreateEntity: ecs.create_entity([tag]) -> 0. The create is enqueued
// and the real id is not known until the next simulation phase flush, so
// this always returns 0; the optional tag is attached to the new entity in
// that same flush, so scripts look the entity up by tag instead.
func (b *Bridge) luaCreateEntity(L *lua.LState) int {
	tag := L.OptString(1, "")
	b.world.ExternalCommands().Enqueue(func(w *ecs.World) error {
		e := w.CreateEntity()
		if tag != "" {
			w.TagEntity(e, tag)
		}
		return nil
	})
	L.Push(lua.LNumber(0))
	return 1
}

// luaDestroyEntity: ecs.destroy_entity(tag) destroys every entity
// currently carrying tag.
func (b *Bridge) luaDestroyEntity(L *lua.LState) int {
	tag := L.CheckString(1)
	b.world.ExternalCommands().Enqueue(func(w *ecs.World) error {
		for _, e := range w.EntitiesWithTag(tag) {
			w.DestroyEntity(e)
		}
		return nil
	})
	return 0
}

// luaAddComponent: ecs.add_component(tag, component_name, table).
func (b *Bridge) luaAddComponent(L *lua.LState) int {
	tag := L.CheckString(1)
	name := L.CheckString(2)
	tbl := L.CheckTable(3)

	codec, err := b.registry.lookup(name)
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	value, err := codec.FromLua(tbl)
	if err != nil {
		L.RaiseError("scripting: decode %s: %s", name, err.Error())
		return 0
	}

	b.world.ExternalCommands().Enqueue(func(w *ecs.World) error {
		var firstErr error
		for _, e := range w.EntitiesWithTag(tag) {
			if err := ecs.SetBoxedComponent(w, e, codec.TypeID(), value); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	})
	return 0
}

// luaHasComponent: ecs.has_component(tag, component_name) -> bool, true
// only if every entity tagged with tag has the component (a conservative,
// synchronous read of present state -- it does not see writes from
// commands still queued on the external queue).
func (b *Bridge) luaHasComponent(L *lua.LState) int {
	tag := L.CheckString(1)
	name := L.CheckString(2)
	codec, err := b.registry.lookup(name)
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	entities := b.world.EntitiesWithTag(tag)
	if len(entities) == 0 {
		L.Push(lua.LFalse)
		return 1
	}
	all := true
	for _, e := range entities {
		if !ecs.HasBoxedComponent(b.world, e, codec.TypeID()) {
			all = false
			break
		}
	}
	L.Push(lua.LBool(all))
	return 1
}
