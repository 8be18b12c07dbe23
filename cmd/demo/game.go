package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"ecsruntime/internal/ecs"
	"ecsruntime/internal/ecs/components"
	"ecsruntime/internal/ecs/systems"
)

// fixedHz is the fixed-step simulation rate, matching ebiten's default
// 60Hz Update rate; PumpAndLateFrame's accumulator absorbs any drift
// between the two.
const fixedHz = 60.0
const maxSubsteps = 5

// Game is the ebiten host loop: an ebiten.Game whose Update drives a
// Kernel and whose Draw paints whatever the Rendering system collected.
type Game struct {
	kernel *ecs.Kernel
	world  *ecs.World
	render *systems.Rendering
}

// NewGame constructs a Kernel with one populated world and registers the
// movement/physics/rendering systems.
func NewGame() *Game {
	kernel := ecs.NewKernel(ecs.DefaultKernelConfig())
	world, err := kernel.CreateWorld(ecs.DefaultWorldConfig(), "demo")
	if err != nil {
		panic(err)
	}

	components.RegisterValidators(world)
	components.RegisterFactories(world)

	physics := systems.NewPhysics()
	physics.Gravity = components.Vector2{Y: 980}
	movement := systems.NewMovement()
	render := systems.NewRendering()
	audioSys := systems.NewAudio()
	audioSys.Engine = newEbitenEngine()

	mustAddSystem(world, "physics", ecs.GroupFixedSimulation, physics)
	mustAddSystem(world, "movement", ecs.GroupFixedSimulation, movement, ecs.OrderAfter("physics"))
	mustAddSystem(world, "audio", ecs.GroupFixedPost, audioSys)
	mustAddSystem(world, "rendering", ecs.GroupFrameView, render)

	seedDemoEntities(world)

	return &Game{kernel: kernel, world: world, render: render}
}

// mustAddSystem registers sys and panics on an ordering-cycle error; the
// demo's own registration order is static, so a cycle here would be a
// programming mistake, not a runtime condition to recover from.
func mustAddSystem(w *ecs.World, name string, group ecs.Group, sys ecs.System, opts ...ecs.SystemOption) {
	if err := w.AddSystem(name, group, sys, opts...); err != nil {
		panic(err)
	}
}

// seedDemoEntities populates a few falling sprites so the demo has
// something to show.
func seedDemoEntities(w *ecs.World) {
	for i := 0; i < 5; i++ {
		e := w.CreateEntity()
		t := components.NewTransform()
		t.Position = components.Vector2{X: float64(100 + i*150), Y: 50}
		_ = ecs.Add(w, e, t)

		p := components.NewPhysics()
		p.Gravity = true
		_ = ecs.Add(w, e, p)

		s := components.NewSprite()
		s.SourceRect = components.AABB{Max: components.Vector2{X: 32, Y: 32}}
		_ = ecs.Add(w, e, s)
	}
}

func (g *Game) Update() error {
	dt := 1.0 / 60.0 // ebiten calls Update at a fixed 60Hz by default
	g.kernel.PumpAndLateFrame(dt, 1.0/fixedHz, maxSubsteps)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{20, 20, 40, 255})
	for _, r := range g.render.DrawList() {
		w := float32(r.Sprite.SourceRect.Max.X - r.Sprite.SourceRect.Min.X)
		h := float32(r.Sprite.SourceRect.Max.Y - r.Sprite.SourceRect.Min.Y)
		ebitenutil.DrawRect(
			screen,
			r.Transform.Position.X, r.Transform.Position.Y,
			float64(w), float64(h),
			color.RGBA{r.Sprite.Color.R, r.Sprite.Color.G, r.Sprite.Color.B, r.Sprite.Color.A},
		)
	}
	ebitenutil.DebugPrint(screen, "ecsruntime demo")
}

func (g *Game) Layout(_, _ int) (screenWidth, screenHeight int) {
	return 1280, 720
}

// Run starts the ebiten host loop.
func (g *Game) Run() error {
	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowTitle("ecsruntime demo")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	return ebiten.RunGame(g)
}
