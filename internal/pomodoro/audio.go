package pomodoro

import (
	"io"
	"sync"
)

// Cue selects a sound.
type Cue int

const (
	CueWork Cue = iota
	CueShortBreak
	CueLongBreak
	CueEnd
)

func cueFor(p Phase) Cue {
	switch p {
	case ShortBreak:
		return CueShortBreak
	case LongBreak:
		return CueLongBreak
	}
	return CueWork
}

// Player plays phase background sounds and the end-of-break cue. Errors
// are logged by the engine and never change timer state.
type Player interface {
	Play(Cue) error
	Pause()
	Stop()
}

type nopPlayer struct{}

func (nopPlayer) Play(Cue) error { return nil }
func (nopPlayer) Pause()         {}
func (nopPlayer) Stop()          {}

// NopPlayer plays nothing.
func NopPlayer() Player { return nopPlayer{} }

// BellPlayer rings the terminal bell for the end cue. Background cues are
// silent.
type BellPlayer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewBellPlayer(w io.Writer) *BellPlayer {
	return &BellPlayer{w: w}
}

func (b *BellPlayer) Play(c Cue) error {
	if c != CueEnd {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := io.WriteString(b.w, "\a")
	return err
}

func (b *BellPlayer) Pause() {}
func (b *BellPlayer) Stop()  {}

// PlayerFor picks a player for the end_sound setting.
func PlayerFor(endSound string, w io.Writer) Player {
	if endSound == "bell" && w != nil {
		return NewBellPlayer(w)
	}
	return NopPlayer()
}
