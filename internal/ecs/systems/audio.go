package systems

import (
	"ecsruntime/internal/ecs"
	"ecsruntime/internal/ecs/components"
)

// Engine abstracts sound playback so this package has no direct
// dependency on any particular audio backend -- cmd/demo supplies a
// concrete implementation backed by github.com/hajimehoshi/ebiten/v2/audio.
type Engine interface {
	Play(clipID string, volume float64, loop bool) error
	Stop(clipID string) error
	SetVolume(clipID string, volume float64) error
	IsPlaying(clipID string) bool
}

// Audio starts/stops playback to match each Audio component's desired
// state. There is no 3D distance-attenuation bookkeeping here: there is no
// listener-position component to drive it from, so positional audio is
// left to the host's own render-layer mixing.
type Audio struct {
	*Base
	Engine       Engine
	MasterVolume float64
}

// NewAudio returns an Audio system at full master volume with no backing
// engine (Run becomes a no-op until Engine is set).
func NewAudio() *Audio {
	return &Audio{Base: NewBase(), MasterVolume: 1.0}
}

// Run starts playback for every Audio component marked Playing whose clip
// the engine is not playing (clearing Playing if Play fails), and stops
// clips the engine is playing for components not marked Playing.
func (a *Audio) Run(w *ecs.World, dt float64) {
	defer a.Timed()()
	if a.Engine == nil {
		return
	}

	q := ecs.QueryFor1[components.Audio](w, ecs.Filter{})
	q.Each(func(e ecs.Entity, ac *components.Audio) {
		switch {
		case ac.Playing && !a.Engine.IsPlaying(ac.ClipID):
			if err := a.Engine.Play(ac.ClipID, ac.Volume*a.MasterVolume, ac.Loop); err != nil {
				ac.Playing = false
			}
		case !ac.Playing && a.Engine.IsPlaying(ac.ClipID):
			_ = a.Engine.Stop(ac.ClipID)
		}
	})
}
