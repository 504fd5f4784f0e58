package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	detection Detection
	err       error
	calls     int
	closed    int
}

// NewMockDetector creates a new MockDetector that reports no board.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetDetection sets the detection that will be returned by Detect.
func (m *MockDetector) SetDetection(d Detection) {
	m.detection = d
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured detection or error.
func (m *MockDetector) Detect(frame *gocv.Mat) (Detection, error) {
	m.calls++
	if m.err != nil {
		return Detection{}, m.err
	}
	return m.detection, nil
}

// Close counts calls and returns nil.
func (m *MockDetector) Close() error {
	m.closed++
	return nil
}

// Calls returns how many times Detect was called.
func (m *MockDetector) Calls() int {
	return m.calls
}

// CloseCount returns how many times Close was called.
func (m *MockDetector) CloseCount() int {
	return m.closed
}
