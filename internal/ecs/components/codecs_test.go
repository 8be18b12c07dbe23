package components

import (
	"testing"

	lua "github.com/yuin/gopher-lua"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformCodec_FromLuaThenToLuaRoundTrips(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	tbl := L.NewTable()
	tbl.RawSetString("x", lua.LNumber(10))
	tbl.RawSetString("y", lua.LNumber(20))
	tbl.RawSetString("rotation", lua.LNumber(1.5))

	codec := transformCodec{}
	value, err := codec.FromLua(tbl)
	require.NoError(t, err)
	tr := value.(Transform)
	assert.Equal(t, 10.0, tr.Position.X)
	assert.Equal(t, 20.0, tr.Position.Y)
	assert.Equal(t, 1.5, tr.Rotation)
	assert.Equal(t, 1.0, tr.Scale.X, "scale_x absent from the table should keep NewTransform's default")

	back, err := codec.ToLua(L, tr)
	require.NoError(t, err)
	backTbl := back.(*lua.LTable)
	assert.Equal(t, lua.LNumber(10), backTbl.RawGetString("x"))
}

func TestPhysicsCodec_FromLuaAppliesOnlyPresentFields(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	tbl := L.NewTable()
	tbl.RawSetString("vx", lua.LNumber(3))
	tbl.RawSetString("is_static", lua.LTrue)

	value, err := physicsCodec{}.FromLua(tbl)
	require.NoError(t, err)
	p := value.(Physics)
	assert.Equal(t, 3.0, p.Velocity.X)
	assert.True(t, p.IsStatic)
	assert.Equal(t, 1.0, p.Mass, "mass absent from the table should keep NewPhysics's default")
}
