package scripting

import (
	"testing"

	lua "github.com/yuin/gopher-lua"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecsruntime/internal/ecs"
)

type scriptPos struct{ X, Y float64 }

type scriptPosCodec struct{ id ecs.ComponentTypeID }

func (c scriptPosCodec) TypeID() ecs.ComponentTypeID { return c.id }

func (c scriptPosCodec) FromLua(tbl *lua.LTable) (any, error) {
	x, _ := tbl.RawGetString("x").(lua.LNumber)
	y, _ := tbl.RawGetString("y").(lua.LNumber)
	return scriptPos{X: float64(x), Y: float64(y)}, nil
}

func (c scriptPosCodec) ToLua(L *lua.LState, value any) (lua.LValue, error) {
	p := value.(scriptPos)
	tbl := L.NewTable()
	tbl.RawSetString("x", lua.LNumber(p.X))
	tbl.RawSetString("y", lua.LNumber(p.Y))
	return tbl, nil
}

func newTestWorld() *ecs.World {
	return ecs.NewWorld(ecs.DefaultWorldConfig(), ecs.WorldScope{Name: "script-test"})
}

func TestBridge_CreateEntityIsDeferredUntilFixedStep(t *testing.T) {
	w := newTestWorld()
	b, err := NewBridge(w, NewRegistry(), ResourceLimits{})
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, b.LoadString(`ecs.create_entity("spawned")`))
	assert.Empty(t, w.EntitiesWithTag("spawned"), "the entity must not exist before the next simulation flush")

	w.FixedStep(1.0 / 60.0)
	assert.Len(t, w.EntitiesWithTag("spawned"), 1)
}

func TestBridge_DestroyEntityRemovesAllTaggedEntities(t *testing.T) {
	w := newTestWorld()
	b, err := NewBridge(w, NewRegistry(), ResourceLimits{})
	require.NoError(t, err)
	defer b.Close()

	e1 := w.CreateEntity()
	e2 := w.CreateEntity()
	w.TagEntity(e1, "doomed")
	w.TagEntity(e2, "doomed")

	require.NoError(t, b.LoadString(`ecs.destroy_entity("doomed")`))
	w.FixedStep(1.0 / 60.0)

	assert.Empty(t, w.EntitiesWithTag("doomed"))
}

func TestBridge_AddComponentDecodesAndAppliesOnFlush(t *testing.T) {
	w := newTestWorld()
	reg := NewRegistry()
	typeID := ecs.EnsureComponentType[scriptPos](w)
	reg.Register("pos", scriptPosCodec{id: typeID})

	b, err := NewBridge(w, reg, ResourceLimits{})
	require.NoError(t, err)
	defer b.Close()

	e := w.CreateEntity()
	w.TagEntity(e, "player")

	require.NoError(t, b.LoadString(`ecs.add_component("player", "pos", {x = 1, y = 2})`))
	assert.False(t, ecs.HasBoxedComponent(w, e, typeID), "write must be deferred, not synchronous")

	w.FixedStep(1.0 / 60.0)
	assert.True(t, ecs.HasBoxedComponent(w, e, typeID))

	got, ok := ecs.Get[scriptPos](w, e)
	require.True(t, ok)
	assert.Equal(t, scriptPos{X: 1, Y: 2}, got)
}

func TestBridge_AddComponentUnknownNameFailsImmediately(t *testing.T) {
	w := newTestWorld()
	b, err := NewBridge(w, NewRegistry(), ResourceLimits{})
	require.NoError(t, err)
	defer b.Close()

	err = b.LoadString(`ecs.add_component("player", "nope", {x = 1})`)
	assert.Error(t, err, "an unknown component name must fail synchronously, without queuing anything")
}

func TestBridge_HasComponentReadsCurrentStateOnly(t *testing.T) {
	w := newTestWorld()
	reg := NewRegistry()
	typeID := ecs.TypeIDFor[scriptPos]()
	reg.Register("pos", scriptPosCodec{id: typeID})

	b, err := NewBridge(w, reg, ResourceLimits{})
	require.NoError(t, err)
	defer b.Close()

	e := w.CreateEntity()
	w.TagEntity(e, "player")
	require.NoError(t, ecs.Add(w, e, scriptPos{X: 9, Y: 9}))

	require.NoError(t, b.LoadString(`
		result = ecs.has_component("player", "pos")
	`))
	result := b.state.GetGlobal("result")
	assert.Equal(t, lua.LTrue, result)
}

func TestBridge_SandboxStripsIOAndOS(t *testing.T) {
	w := newTestWorld()
	b, err := NewBridge(w, NewRegistry(), ResourceLimits{})
	require.NoError(t, err)
	defer b.Close()

	err = b.LoadString(`return io.write("escape")`)
	assert.Error(t, err, "io must be nil inside the sandboxed VM")

	err = b.LoadString(`return os.execute("true")`)
	assert.Error(t, err, "os must be nil inside the sandboxed VM")
}

func TestBridge_CloseIsSafeToCallAndLoadStringAfterCloseFails(t *testing.T) {
	w := newTestWorld()
	b, err := NewBridge(w, NewRegistry(), ResourceLimits{})
	require.NoError(t, err)

	b.Close()
	err = b.LoadString(`ecs.create_entity("x")`)
	assert.Error(t, err)
}
