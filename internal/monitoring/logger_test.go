package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("test message")
	if !called {
		t.Error("Custom logger was not called")
	}

	called = false
	SetLogger(nil)
	Logf("test message")
	if called {
		t.Error("No-op logger should not have triggered callback")
	}
}

func TestDebugf_MutedByDefault(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Debugf panicked: %v", r)
		}
	}()
	Debugf("dropped sample id=%d", 3)
}

func TestSetDebugLogger(t *testing.T) {
	original := Debugf
	defer func() { Debugf = original }()

	var got string
	SetDebugLogger(func(format string, v ...interface{}) {
		got = fmt.Sprintf(format, v...)
	})
	Debugf("evicted contact %d", 7)
	if got != "[debug] evicted contact 7" {
		t.Errorf("Debugf wrote %q", got)
	}

	got = ""
	SetDebugLogger(nil)
	Debugf("evicted contact %d", 8)
	if got != "" {
		t.Errorf("muted Debugf still wrote %q", got)
	}
}
