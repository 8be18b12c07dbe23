package components

import (
	lua "github.com/yuin/gopher-lua"

	"ecsruntime/internal/ecs"
	"ecsruntime/internal/ecs/scripting"
)

// transformCodec implements scripting.ComponentCodec for Transform,
// hand-written per field rather than via reflection, since the component
// set here is small and fixed.
type transformCodec struct{}

func (transformCodec) TypeID() ecs.ComponentTypeID { return ecs.TypeIDFor[Transform]() }

func (transformCodec) FromLua(tbl *lua.LTable) (any, error) {
	t := NewTransform()
	t.Position.X = float64(lua.LVAsNumber(tbl.RawGetString("x")))
	t.Position.Y = float64(lua.LVAsNumber(tbl.RawGetString("y")))
	if rot := tbl.RawGetString("rotation"); rot != lua.LNil {
		t.Rotation = float64(lua.LVAsNumber(rot))
	}
	if sx := tbl.RawGetString("scale_x"); sx != lua.LNil {
		t.Scale.X = float64(lua.LVAsNumber(sx))
	}
	if sy := tbl.RawGetString("scale_y"); sy != lua.LNil {
		t.Scale.Y = float64(lua.LVAsNumber(sy))
	}
	return t, nil
}

func (transformCodec) ToLua(L *lua.LState, value any) (lua.LValue, error) {
	t := value.(Transform)
	out := L.NewTable()
	out.RawSetString("x", lua.LNumber(t.Position.X))
	out.RawSetString("y", lua.LNumber(t.Position.Y))
	out.RawSetString("rotation", lua.LNumber(t.Rotation))
	out.RawSetString("scale_x", lua.LNumber(t.Scale.X))
	out.RawSetString("scale_y", lua.LNumber(t.Scale.Y))
	return out, nil
}

// physicsCodec implements scripting.ComponentCodec for Physics.
type physicsCodec struct{}

func (physicsCodec) TypeID() ecs.ComponentTypeID { return ecs.TypeIDFor[Physics]() }

func (physicsCodec) FromLua(tbl *lua.LTable) (any, error) {
	p := NewPhysics()
	if vx := tbl.RawGetString("vx"); vx != lua.LNil {
		p.Velocity.X = float64(lua.LVAsNumber(vx))
	}
	if vy := tbl.RawGetString("vy"); vy != lua.LNil {
		p.Velocity.Y = float64(lua.LVAsNumber(vy))
	}
	if mass := tbl.RawGetString("mass"); mass != lua.LNil {
		p.Mass = float64(lua.LVAsNumber(mass))
	}
	if static := tbl.RawGetString("is_static"); static != lua.LNil {
		p.IsStatic = lua.LVAsBool(static)
	}
	return p, nil
}

func (physicsCodec) ToLua(L *lua.LState, value any) (lua.LValue, error) {
	p := value.(Physics)
	out := L.NewTable()
	out.RawSetString("vx", lua.LNumber(p.Velocity.X))
	out.RawSetString("vy", lua.LNumber(p.Velocity.Y))
	out.RawSetString("mass", lua.LNumber(p.Mass))
	out.RawSetString("is_static", lua.LBool(p.IsStatic))
	return out, nil
}

// RegisterLuaCodecs installs Transform and Physics codecs under the names
// Lua scripts use: "transform", "physics".
func RegisterLuaCodecs(reg *scripting.Registry) {
	reg.Register("transform", transformCodec{})
	reg.Register("physics", physicsCodec{})
}
