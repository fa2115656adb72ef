package monitoring

import (
	"fmt"
	"testing"
)

func captureLogs(t *testing.T) *[]string {
	t.Helper()
	original := Logf
	t.Cleanup(func() {
		Logf = original
		SetVerbose(false)
	})
	var lines []string
	SetLogger(func(format string, v ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, v...))
	})
	return &lines
}

func TestSetLogger(t *testing.T) {
	lines := captureLogs(t)

	Logf("stored %d sequences", 3)
	if len(*lines) != 1 || (*lines)[0] != "stored 3 sequences" {
		t.Fatalf("unexpected log output: %v", *lines)
	}

	SetLogger(nil)
	Logf("muted")
	if len(*lines) != 1 {
		t.Errorf("no-op logger should not record, got %v", *lines)
	}
}

func TestDebugf_Verbose(t *testing.T) {
	lines := captureLogs(t)

	Debugf("hidden")
	if len(*lines) != 0 {
		t.Fatalf("Debugf should be silent by default, got %v", *lines)
	}

	SetVerbose(true)
	if !Verbose() {
		t.Fatal("Verbose() = false after SetVerbose(true)")
	}
	Debugf("run at step %d", 12)
	if len(*lines) != 1 || (*lines)[0] != "[debug] run at step 12" {
		t.Errorf("unexpected debug output: %v", *lines)
	}
}

func TestLogf_Default(t *testing.T) {
	if Logf == nil {
		t.Fatal("Logf should not be nil by default")
	}
}
