package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTransform_DefaultsToUnitScale(t *testing.T) {
	tr := NewTransform()
	assert.Equal(t, Vector2{X: 1, Y: 1}, tr.Scale)
	assert.Equal(t, Vector2{}, tr.Position)
}

func TestNewPhysics_Defaults(t *testing.T) {
	p := NewPhysics()
	assert.Equal(t, 1.0, p.Mass)
	assert.Equal(t, 10000.0, p.MaxSpeed)
	assert.False(t, p.Gravity)
}

func TestNewHealth_StartsFull(t *testing.T) {
	h := NewHealth(100)
	assert.Equal(t, 100, h.CurrentHealth)
	assert.Equal(t, 100, h.MaxHealth)
	assert.False(t, h.IsInvincible)
}

func TestNewSprite_DefaultsToOpaqueWhiteVisible(t *testing.T) {
	s := NewSprite()
	assert.Equal(t, Color{R: 255, G: 255, B: 255, A: 255}, s.Color)
	assert.True(t, s.Visible)
}

func TestNewAudio_DefaultsToFullVolumeNotPlaying(t *testing.T) {
	a := NewAudio()
	assert.Equal(t, 1.0, a.Volume)
	assert.False(t, a.Playing)
	assert.False(t, a.Loop)
}
