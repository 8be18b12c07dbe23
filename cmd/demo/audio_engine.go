package main

import (
	"fmt"
	"io"
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

const sampleRate = 44100

// ebitenEngine implements systems.Engine on top of github.com/hajimehoshi/
// ebiten/v2/audio, generating each clip's waveform in memory rather than
// loading assets, so the demo has no file dependencies.
type ebitenEngine struct {
	ctx     *audio.Context
	players map[string]*audio.Player
	tones   map[string]float64 // clipID -> frequency, a stand-in for a real asset catalog
}

func newEbitenEngine() *ebitenEngine {
	return &ebitenEngine{
		ctx:     audio.NewContext(sampleRate),
		players: map[string]*audio.Player{},
		tones: map[string]float64{
			"beep": 440.0,
			"hit":  220.0,
		},
	}
}

func (e *ebitenEngine) playerFor(clipID string) (*audio.Player, error) {
	if p, ok := e.players[clipID]; ok {
		return p, nil
	}
	freq, ok := e.tones[clipID]
	if !ok {
		return nil, fmt.Errorf("audio: unknown clip %q", clipID)
	}
	p, err := e.ctx.NewPlayer(newToneStream(freq))
	if err != nil {
		return nil, err
	}
	e.players[clipID] = p
	return p, nil
}

func (e *ebitenEngine) Play(clipID string, volume float64, loop bool) error {
	p, err := e.playerFor(clipID)
	if err != nil {
		return err
	}
	p.SetVolume(volume)
	_ = loop // tone stream below already loops indefinitely
	p.Rewind()
	p.Play()
	return nil
}

func (e *ebitenEngine) Stop(clipID string) error {
	p, ok := e.players[clipID]
	if !ok {
		return nil
	}
	return p.Pause()
}

func (e *ebitenEngine) SetVolume(clipID string, volume float64) error {
	p, ok := e.players[clipID]
	if !ok {
		return fmt.Errorf("audio: clip %q not playing", clipID)
	}
	p.SetVolume(volume)
	return nil
}

func (e *ebitenEngine) IsPlaying(clipID string) bool {
	p, ok := e.players[clipID]
	return ok && p.IsPlaying()
}

// toneStream is an io.ReadSeeker generating a looping 16-bit stereo sine
// wave, enough PCM for audio.Context.NewPlayer without a sound asset.
type toneStream struct {
	freq float64
	pos  int64
}

func newToneStream(freq float64) *toneStream { return &toneStream{freq: freq} }

func (t *toneStream) Read(p []byte) (int, error) {
	const bytesPerFrame = 4 // 16-bit stereo
	n := 0
	for n+bytesPerFrame <= len(p) {
		frame := t.pos / bytesPerFrame
		sample := int16(math.Sin(2*math.Pi*t.freq*float64(frame)/float64(sampleRate)) * 0.2 * math.MaxInt16)
		p[n] = byte(sample)
		p[n+1] = byte(sample >> 8)
		p[n+2] = p[n]
		p[n+3] = p[n+1]
		n += bytesPerFrame
		t.pos += bytesPerFrame
	}
	return n, nil
}

func (t *toneStream) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		t.pos = offset
	case io.SeekCurrent:
		t.pos += offset
	case io.SeekEnd:
		return 0, fmt.Errorf("audio: tone stream has no fixed length")
	}
	return t.pos, nil
}

var _ io.ReadSeeker = (*toneStream)(nil)
