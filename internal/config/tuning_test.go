package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultTuningConfig(t *testing.T) {
	cfg := DefaultTuningConfig()

	if cfg.MinSwipeDistance == nil || *cfg.MinSwipeDistance != 60 {
		t.Errorf("Expected MinSwipeDistance 60, got %v", cfg.MinSwipeDistance)
	}
	if cfg.MaxSwipeDuration == nil || *cfg.MaxSwipeDuration != "1s" {
		t.Errorf("Expected MaxSwipeDuration '1s', got %v", cfg.MaxSwipeDuration)
	}
	if cfg.TieBreakAxis == nil || *cfg.TieBreakAxis != AxisHorizontal {
		t.Errorf("Expected TieBreakAxis horizontal, got %v", cfg.TieBreakAxis)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}

	if cfg.GetMaxSwipeDuration() != time.Second {
		t.Errorf("GetMaxSwipeDuration() = %v, want 1s", cfg.GetMaxSwipeDuration())
	}
	if cfg.GetStaleContactTimeout() != 5*time.Second {
		t.Errorf("GetStaleContactTimeout() = %v, want 5s", cfg.GetStaleContactTimeout())
	}
	if cfg.GetMaxContacts() != 10 {
		t.Errorf("GetMaxContacts() = %d, want 10", cfg.GetMaxContacts())
	}
}

func TestEmptyTuningConfigGetters(t *testing.T) {
	cfg := EmptyTuningConfig()
	def := DefaultTuningConfig()

	if cfg.GetMinSwipeDistance() != def.GetMinSwipeDistance() {
		t.Errorf("GetMinSwipeDistance() = %f, want %f", cfg.GetMinSwipeDistance(), def.GetMinSwipeDistance())
	}
	if cfg.GetMaxSwipeDuration() != def.GetMaxSwipeDuration() {
		t.Errorf("GetMaxSwipeDuration() = %v, want %v", cfg.GetMaxSwipeDuration(), def.GetMaxSwipeDuration())
	}
	if cfg.GetTieBreakAxis() != def.GetTieBreakAxis() {
		t.Errorf("GetTieBreakAxis() = %q, want %q", cfg.GetTieBreakAxis(), def.GetTieBreakAxis())
	}
	if cfg.GetMoveTrigger() != def.GetMoveTrigger() {
		t.Errorf("GetMoveTrigger() = %q, want %q", cfg.GetMoveTrigger(), def.GetMoveTrigger())
	}
	if cfg.GetSubscriberBuffer() != def.GetSubscriberBuffer() {
		t.Errorf("GetSubscriberBuffer() = %d, want %d", cfg.GetSubscriberBuffer(), def.GetSubscriberBuffer())
	}
	if cfg.GetTouchMaxX() != def.GetTouchMaxX() || cfg.GetTouchMaxY() != def.GetTouchMaxY() {
		t.Errorf("touch max = %dx%d, want %dx%d", cfg.GetTouchMaxX(), cfg.GetTouchMaxY(), def.GetTouchMaxX(), def.GetTouchMaxY())
	}
	if cfg.GetTouchFlipX() || cfg.GetTouchFlipY() || cfg.GetTouchSwapXY() {
		t.Error("orientation flags should default to false")
	}
}

func TestLoadTuningConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test_config.json")

	testJSON := `{
  "min_swipe_distance": 80,
  "max_swipe_duration": "750ms",
  "tie_break_axis": "vertical",
  "move_trigger": "in_progress",
  "touch_flip_y": true
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadTuningConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.GetMinSwipeDistance() != 80 {
		t.Errorf("GetMinSwipeDistance() = %f, want 80", cfg.GetMinSwipeDistance())
	}
	if cfg.GetMaxSwipeDuration() != 750*time.Millisecond {
		t.Errorf("GetMaxSwipeDuration() = %v, want 750ms", cfg.GetMaxSwipeDuration())
	}
	if cfg.GetTieBreakAxis() != AxisVertical {
		t.Errorf("GetTieBreakAxis() = %q, want vertical", cfg.GetTieBreakAxis())
	}
	if cfg.GetMoveTrigger() != MoveOnInProgress {
		t.Errorf("GetMoveTrigger() = %q, want in_progress", cfg.GetMoveTrigger())
	}
	if !cfg.GetTouchFlipY() {
		t.Error("GetTouchFlipY() = false, want true")
	}
	// Omitted fields keep their defaults.
	if cfg.GetMaxContacts() != 10 {
		t.Errorf("GetMaxContacts() = %d, want default 10", cfg.GetMaxContacts())
	}
}

func TestLoadTuningConfig_Errors(t *testing.T) {
	tmpDir := t.TempDir()

	write := func(name, body string) string {
		p := filepath.Join(tmpDir, name)
		if err := os.WriteFile(p, []byte(body), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return p
	}

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"wrong extension", write("cfg.yaml", "{}"), ".json extension"},
		{"missing file", filepath.Join(tmpDir, "absent.json"), "failed to stat"},
		{"bad json", write("bad.json", "{"), "failed to parse"},
		{"bad duration", write("dur.json", `{"max_swipe_duration": "soon"}`), "max_swipe_duration"},
		{"negative duration", write("neg.json", `{"stale_contact_timeout": "-1s"}`), "must be positive"},
		{"bad axis", write("axis.json", `{"tie_break_axis": "diagonal"}`), "tie_break_axis"},
		{"bad trigger", write("trig.json", `{"move_trigger": "started"}`), "move_trigger"},
		{"zero distance", write("dist.json", `{"min_swipe_distance": 0}`), "min_swipe_distance"},
		{"zero contacts", write("contacts.json", `{"max_contacts": 0}`), "max_contacts"},
		{"negative buffer", write("buf.json", `{"subscriber_buffer": -1}`), "subscriber_buffer"},
		{"zero touch max", write("max.json", `{"touch_max_x": 0}`), "touch_max_x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTuningConfig(tt.path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	def := DefaultTuningConfig()
	if cfg.GetMinSwipeDistance() != def.GetMinSwipeDistance() {
		t.Errorf("defaults file min_swipe_distance = %f, built-in %f", cfg.GetMinSwipeDistance(), def.GetMinSwipeDistance())
	}
	if cfg.GetMaxSwipeDuration() != def.GetMaxSwipeDuration() {
		t.Errorf("defaults file max_swipe_duration = %v, built-in %v", cfg.GetMaxSwipeDuration(), def.GetMaxSwipeDuration())
	}
}
