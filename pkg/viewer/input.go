package viewer

import (
	"sync"

	"github.com/taigrr/glcam/pkg/camera"
)

// Key is a movement key.
type Key int

const (
	KeyForward Key = iota // W
	KeyBack               // S
	KeyLeft               // A
	KeyRight              // D
	numKeys
)

// HoldFrames is how long a pressed key stays down without a release event.
// Terminals that only report presses rely on key repeat to refresh it.
const HoldFrames = 8

// InputState folds device events into one camera.Input per frame. Events
// may arrive on any goroutine; Drain is called by the frame loop.
type InputState struct {
	mu sync.Mutex

	held [numKeys]int // Frames left before a key counts as released

	dx, dy   float64
	lastX    float64
	lastY    float64
	havePrev bool
}

// Press marks k as held for HoldFrames frames.
func (s *InputState) Press(k Key) {
	if k < 0 || k >= numKeys {
		return
	}
	s.mu.Lock()
	s.held[k] = HoldFrames
	s.mu.Unlock()
}

// Release marks k as up.
func (s *InputState) Release(k Key) {
	if k < 0 || k >= numKeys {
		return
	}
	s.mu.Lock()
	s.held[k] = 0
	s.mu.Unlock()
}

// Move adds a relative pointer delta.
func (s *InputState) Move(dx, dy float64) {
	s.mu.Lock()
	s.dx += dx
	s.dy += dy
	s.mu.Unlock()
}

// MoveTo records an absolute pointer position and accumulates the delta
// from the previous one. The first position only sets the origin.
func (s *InputState) MoveTo(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.havePrev {
		s.dx += x - s.lastX
		s.dy += y - s.lastY
	}
	s.lastX, s.lastY, s.havePrev = x, y, true
}

// ResetPointer forgets the last absolute position, e.g. after the pointer
// left the window.
func (s *InputState) ResetPointer() {
	s.mu.Lock()
	s.havePrev = false
	s.mu.Unlock()
}

// Drain returns the input for this frame and clears the pointer delta.
func (s *InputState) Drain() camera.Input {
	s.mu.Lock()
	defer s.mu.Unlock()

	var down [numKeys]bool
	for k, n := range s.held {
		if n > 0 {
			down[k] = true
			s.held[k]--
		}
	}
	in := camera.Input{
		Forward: down[KeyForward],
		Back:    down[KeyBack],
		Left:    down[KeyLeft],
		Right:   down[KeyRight],
		DX:      s.dx,
		DY:      s.dy,
	}
	s.dx, s.dy = 0, 0
	return in
}
