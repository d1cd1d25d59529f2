package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
const DefaultConfigPath = "config/tuning.defaults.json"

// Accepted values for the enumerated string fields.
const (
	AxisHorizontal = "horizontal"
	AxisVertical   = "vertical"

	MoveOnCompleted  = "completed"
	MoveOnInProgress = "in_progress"
)

// TuningConfig represents the root configuration for gesture and input
// tuning. Every field is optional: a nil field falls back to the default
// returned by its getter, so partial files are safe.
type TuningConfig struct {
	// Gesture classification
	MinSwipeDistance    *float64 `json:"min_swipe_distance,omitempty"`    // device pixels along the dominant axis
	MaxSwipeDuration    *string  `json:"max_swipe_duration,omitempty"`    // duration string like "1s"
	TieBreakAxis        *string  `json:"tie_break_axis,omitempty"`        // "horizontal" or "vertical"
	StaleContactTimeout *string  `json:"stale_contact_timeout,omitempty"` // duration string like "5s"
	MaxContacts         *int     `json:"max_contacts,omitempty"`

	// Game loop
	MoveTrigger *string `json:"move_trigger,omitempty"` // "completed" or "in_progress"

	// Input plumbing
	SubscriberBuffer *int  `json:"subscriber_buffer,omitempty"`
	TouchFlipX       *bool `json:"touch_flip_x,omitempty"`
	TouchFlipY       *bool `json:"touch_flip_y,omitempty"`
	TouchSwapXY      *bool `json:"touch_swap_xy,omitempty"`
	TouchMaxX        *int  `json:"touch_max_x,omitempty"`
	TouchMaxY        *int  `json:"touch_max_y,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// DefaultTuningConfig returns a TuningConfig with every field populated
// from the built-in defaults.
func DefaultTuningConfig() *TuningConfig {
	return &TuningConfig{
		MinSwipeDistance:    ptrFloat64(60),
		MaxSwipeDuration:    ptrString("1s"),
		TieBreakAxis:        ptrString(AxisHorizontal),
		StaleContactTimeout: ptrString("5s"),
		MaxContacts:         ptrInt(10),
		MoveTrigger:         ptrString(MoveOnCompleted),
		SubscriberBuffer:    ptrInt(256),
		TouchFlipX:          ptrBool(false),
		TouchFlipY:          ptrBool(false),
		TouchSwapXY:         ptrBool(false),
		TouchMaxX:           ptrInt(1403),
		TouchMaxY:           ptrInt(1871),
	}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // from cmd/tools/swipe-tool/
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.MinSwipeDistance != nil && *c.MinSwipeDistance <= 0 {
		return fmt.Errorf("min_swipe_distance must be positive, got %f", *c.MinSwipeDistance)
	}

	for name, v := range map[string]*string{
		"max_swipe_duration":    c.MaxSwipeDuration,
		"stale_contact_timeout": c.StaleContactTimeout,
	} {
		if v == nil || *v == "" {
			continue
		}
		d, err := time.ParseDuration(*v)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", name, *v, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, *v)
		}
	}

	if c.TieBreakAxis != nil {
		switch *c.TieBreakAxis {
		case AxisHorizontal, AxisVertical:
		default:
			return fmt.Errorf("tie_break_axis must be %q or %q, got %q", AxisHorizontal, AxisVertical, *c.TieBreakAxis)
		}
	}

	if c.MoveTrigger != nil {
		switch *c.MoveTrigger {
		case MoveOnCompleted, MoveOnInProgress:
		default:
			return fmt.Errorf("move_trigger must be %q or %q, got %q", MoveOnCompleted, MoveOnInProgress, *c.MoveTrigger)
		}
	}

	if c.MaxContacts != nil && *c.MaxContacts < 1 {
		return fmt.Errorf("max_contacts must be at least 1, got %d", *c.MaxContacts)
	}
	if c.SubscriberBuffer != nil && *c.SubscriberBuffer < 0 {
		return fmt.Errorf("subscriber_buffer must be non-negative, got %d", *c.SubscriberBuffer)
	}
	if c.TouchMaxX != nil && *c.TouchMaxX <= 0 {
		return fmt.Errorf("touch_max_x must be positive, got %d", *c.TouchMaxX)
	}
	if c.TouchMaxY != nil && *c.TouchMaxY <= 0 {
		return fmt.Errorf("touch_max_y must be positive, got %d", *c.TouchMaxY)
	}

	return nil
}

// GetMinSwipeDistance returns the min_swipe_distance value or the default.
func (c *TuningConfig) GetMinSwipeDistance() float64 {
	if c.MinSwipeDistance == nil {
		return 60 // default
	}
	return *c.MinSwipeDistance
}

// GetMaxSwipeDuration parses and returns MaxSwipeDuration as a time.Duration.
func (c *TuningConfig) GetMaxSwipeDuration() time.Duration {
	return parseDurationOr(c.MaxSwipeDuration, time.Second)
}

// GetTieBreakAxis returns the tie_break_axis value or the default.
func (c *TuningConfig) GetTieBreakAxis() string {
	if c.TieBreakAxis == nil {
		return AxisHorizontal
	}
	return *c.TieBreakAxis
}

// GetStaleContactTimeout parses and returns StaleContactTimeout as a time.Duration.
func (c *TuningConfig) GetStaleContactTimeout() time.Duration {
	return parseDurationOr(c.StaleContactTimeout, 5*time.Second)
}

// GetMaxContacts returns the max_contacts value or the default.
func (c *TuningConfig) GetMaxContacts() int {
	if c.MaxContacts == nil {
		return 10
	}
	return *c.MaxContacts
}

// GetMoveTrigger returns the move_trigger value or the default.
func (c *TuningConfig) GetMoveTrigger() string {
	if c.MoveTrigger == nil {
		return MoveOnCompleted
	}
	return *c.MoveTrigger
}

// GetSubscriberBuffer returns the subscriber_buffer value or the default.
func (c *TuningConfig) GetSubscriberBuffer() int {
	if c.SubscriberBuffer == nil {
		return 256
	}
	return *c.SubscriberBuffer
}

// GetTouchFlipX returns the touch_flip_x value or the default.
func (c *TuningConfig) GetTouchFlipX() bool {
	return c.TouchFlipX != nil && *c.TouchFlipX
}

// GetTouchFlipY returns the touch_flip_y value or the default.
func (c *TuningConfig) GetTouchFlipY() bool {
	return c.TouchFlipY != nil && *c.TouchFlipY
}

// GetTouchSwapXY returns the touch_swap_xy value or the default.
func (c *TuningConfig) GetTouchSwapXY() bool {
	return c.TouchSwapXY != nil && *c.TouchSwapXY
}

// GetTouchMaxX returns the touch_max_x value or the default.
func (c *TuningConfig) GetTouchMaxX() int {
	if c.TouchMaxX == nil {
		return 1403
	}
	return *c.TouchMaxX
}

// GetTouchMaxY returns the touch_max_y value or the default.
func (c *TuningConfig) GetTouchMaxY() int {
	if c.TouchMaxY == nil {
		return 1871
	}
	return *c.TouchMaxY
}

func parseDurationOr(v *string, def time.Duration) time.Duration {
	if v == nil || *v == "" {
		return def
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return def // default on parse error
	}
	return d
}
