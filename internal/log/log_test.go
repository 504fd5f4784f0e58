package log

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetup_Levels(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantDebug bool
		wantErr   bool
	}{
		{name: "default is info", level: "", wantDebug: false},
		{name: "debug", level: "debug", wantDebug: true},
		{name: "warn", level: "warn", wantDebug: false},
		{name: "invalid", level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			_, err := Setup(Options{Level: tt.level, Output: &buf})
			if tt.wantErr {
				if err == nil {
					t.Error("expected error for invalid level")
				}
				return
			}
			if err != nil {
				t.Fatalf("Setup() error = %v", err)
			}

			Debug(Fields{"frame": 1}, "debug line")
			if got := strings.Contains(buf.String(), "debug line"); got != tt.wantDebug {
				t.Errorf("debug line logged = %v, want %v; output %q", got, tt.wantDebug, buf.String())
			}
		})
	}
}

func TestEntriesCarrySessionID(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Setup(Options{Level: "info", Output: &buf}); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	Info(nil, "hello")

	if sessionID == "" {
		t.Fatal("session id should not be empty")
	}
	if !strings.Contains(buf.String(), sessionID) {
		t.Errorf("output %q should contain session id %s", buf.String(), sessionID)
	}
}

func TestErrorWithTraceID(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Setup(Options{Output: &buf}); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	id := ErrorWithTraceID(Fields{"file": "clip.mp4"}, "cannot open")

	if id == "" || id == "unknown" {
		t.Errorf("trace id = %q, want a uuid", id)
	}
	if !strings.Contains(buf.String(), id) {
		t.Errorf("output %q should contain trace id %s", buf.String(), id)
	}
}

func TestSetup_File(t *testing.T) {
	var buf bytes.Buffer
	file := filepath.Join(t.TempDir(), "boardpose.log")

	l, err := Setup(Options{Output: &buf, File: file})
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if l != current() {
		t.Error("Setup() should install the returned logger")
	}

	Warn(nil, "to file")
	if !strings.Contains(buf.String(), "to file") {
		t.Errorf("output %q should contain the message", buf.String())
	}
}

func TestEntriesDoNotModifyCallerFields(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Setup(Options{Output: &buf}); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	fields := Fields{"frame": 7}
	Info(fields, "first")
	ErrorWithTraceID(fields, "second")

	if len(fields) != 1 {
		t.Errorf("fields = %v, want only the caller's key", fields)
	}
	if _, ok := fields[SessionKey]; ok {
		t.Errorf("%s leaked into the caller's map", SessionKey)
	}
}

func TestFatal(t *testing.T) {
	var buf bytes.Buffer
	l, err := Setup(Options{Output: &buf})
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	code := -1
	l.ExitFunc = func(c int) { code = c }

	Fatal(Fields{"input": "clip.mp4"}, "cannot continue")

	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(buf.String(), "cannot continue") {
		t.Errorf("output %q should contain the message", buf.String())
	}
}
