package display

import (
	"sync"

	"gocv.io/x/gocv"
)

// ScriptedSink is a Sink for tests: it plays back a fixed sequence of key
// presses and keeps copies of the frames it was shown.
type ScriptedSink struct {
	keys    []int
	shown   []gocv.Mat
	waits   []int
	closed  int
	showErr error
	mu      sync.Mutex
}

// NewScriptedSink returns a sink that answers WaitKey with keys in order,
// then KeyNone.
func NewScriptedSink(keys ...int) *ScriptedSink {
	return &ScriptedSink{keys: keys}
}

func (s *ScriptedSink) Show(img *gocv.Mat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.showErr != nil {
		return s.showErr
	}
	if img == nil {
		return nil
	}
	s.shown = append(s.shown, img.Clone())
	return nil
}

// SetShowError makes every later Show fail with err.
func (s *ScriptedSink) SetShowError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showErr = err
}

func (s *ScriptedSink) WaitKey(delayMs int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.waits = append(s.waits, delayMs)
	if len(s.keys) == 0 {
		return KeyNone
	}
	key := s.keys[0]
	s.keys = s.keys[1:]
	return NormalizeKey(key)
}

// Close releases the recorded frames and counts the call.
func (s *ScriptedSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.shown {
		s.shown[i].Close()
	}
	s.shown = nil
	s.closed++
	return nil
}

// Shown returns the frames displayed so far. They stay valid until Close.
func (s *ScriptedSink) Shown() []gocv.Mat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shown
}

// Waits returns the delay passed to each WaitKey call.
func (s *ScriptedSink) Waits() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.waits...)
}

// CloseCount returns how many times Close was called.
func (s *ScriptedSink) CloseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
