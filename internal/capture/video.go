package capture

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// VideoFile reads frames from a video container on disk. Decoding is
// delegated to the OpenCV backend, so any format it supports works.
type VideoFile struct {
	path    string
	capture *gocv.VideoCapture
	mu      sync.Mutex
	running bool
	frames  int
}

// NewVideoFile creates a source for the video at path. The file is not
// touched until Open is called.
func NewVideoFile(path string) *VideoFile {
	return &VideoFile{path: path}
}

// Path returns the video path.
func (v *VideoFile) Path() string {
	return v.path
}

// Open opens the video for reading.
func (v *VideoFile) Open() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(v.path)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrOpen, v.path, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return fmt.Errorf("%w %q", ErrOpen, v.path)
	}

	v.capture = capture
	v.running = true
	v.frames = 0

	return nil
}

// Close releases the video handle. It is safe to call more than once.
func (v *VideoFile) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.running || v.capture == nil {
		v.running = false
		return nil
	}

	err := v.capture.Close()
	v.capture = nil
	v.running = false

	return err
}

// ReadFrame reads the next frame.
// It returns ErrEndOfStream after the last frame and ErrReadFailed if the
// decoder produced nothing at all or an empty image.
func (v *VideoFile) ReadFrame() (*gocv.Mat, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.running || v.capture == nil {
		return nil, ErrSourceNotOpen
	}

	mat := gocv.NewMat()
	if ok := v.capture.Read(&mat); !ok {
		mat.Close()
		if v.frames == 0 {
			return nil, fmt.Errorf("%w: no frame decoded from %q", ErrReadFailed, v.path)
		}
		return nil, ErrEndOfStream
	}

	if mat.Empty() {
		mat.Close()
		return nil, fmt.Errorf("%w: frame %d is empty", ErrReadFailed, v.frames)
	}

	v.frames++
	return &mat, nil
}

// FramesRead returns how many frames have been returned so far.
func (v *VideoFile) FramesRead() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.frames
}

// IsOpen returns true if the video is currently open.
func (v *VideoFile) IsOpen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.running
}
