//go:build !linux

package touch

import "errors"

var errUnsupported = errors.New("evdev is only available on linux")

// Grab is only supported on linux.
func Grab(fd uintptr) error { return errUnsupported }

// AxisMax is only supported on linux.
func AxisMax(fd uintptr, code uint16) (int32, error) { return 0, errUnsupported }
