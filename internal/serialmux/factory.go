package serialmux

import (
	"fmt"

	"go.bug.st/serial"
)

// OpenPort opens a real serial port using go.bug.st/serial.
func OpenPort(path string, opts PortOptions) (SerialPorter, error) {
	mode, err := opts.SerialMode()
	if err != nil {
		return nil, err
	}
	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", path, err)
	}
	return port, nil
}

// NewRealSerialMux creates a SerialMux backed by a real serial port at the
// given path using the provided serial options.
func NewRealSerialMux(path string, opts PortOptions, muxOpts ...Option) (*SerialMux[SerialPorter], error) {
	return Open(OpenPort, path, opts, muxOpts...)
}

// Open creates a SerialMux over a port produced by open.
func Open(open SerialPortOpener, path string, opts PortOptions, muxOpts ...Option) (*SerialMux[SerialPorter], error) {
	port, err := open(path, opts)
	if err != nil {
		return nil, err
	}
	return NewSerialMux(port, muxOpts...), nil
}
