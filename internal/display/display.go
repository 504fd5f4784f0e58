// Package display shows annotated frames and polls the keyboard.
package display

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Key codes recognised by the player.
const (
	KeyNone  = -1
	KeySpace = ' '
	KeyEsc   = 27
)

// WaitForever blocks WaitKey until a key is pressed.
const WaitForever = 0

// Sink shows frames and reports key presses.
type Sink interface {
	Show(img *gocv.Mat) error
	// WaitKey waits up to delayMs milliseconds (forever for WaitForever)
	// and returns the key pressed, or KeyNone.
	WaitKey(delayMs int) int
	Close() error
}

// NormalizeKey strips modifier bits some backends set above the low byte.
func NormalizeKey(key int) int {
	if key < 0 {
		return KeyNone
	}
	return key & 0xFF
}

// Window is a titled OpenCV HighGUI window.
type Window struct {
	title  string
	window *gocv.Window
	mu     sync.Mutex
}

// NewWindow creates a window; it appears on the first Show.
func NewWindow(title string) *Window {
	return &Window{title: title}
}

// Title returns the window title.
func (w *Window) Title() string {
	return w.title
}

// Show displays img in the window. Nil or empty images are ignored.
func (w *Window) Show(img *gocv.Mat) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if img == nil || img.Empty() {
		return nil
	}
	if w.window == nil {
		w.window = gocv.NewWindow(w.title)
	}
	if err := w.window.IMShow(*img); err != nil {
		return fmt.Errorf("show %q: %w", w.title, err)
	}
	return nil
}

// WaitKey polls the keyboard.
func (w *Window) WaitKey(delayMs int) int {
	w.mu.Lock()
	win := w.window
	w.mu.Unlock()

	if win == nil {
		return KeyNone
	}
	return NormalizeKey(win.WaitKey(delayMs))
}

// Close destroys the window. It is safe to call more than once.
func (w *Window) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.window == nil {
		return nil
	}
	err := w.window.Close()
	w.window = nil
	return err
}
