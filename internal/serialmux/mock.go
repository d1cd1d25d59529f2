package serialmux

import (
	"bytes"
	"errors"
	"io"
	"sync"
)

var errPortClosed = errors.New("serial port closed")

// TestableSerialPort implements SerialPorter with scripted reads and
// captured writes. Reads block until data is added or the port is closed,
// so a Monitor loop over it behaves like one over a quiet device.
type TestableSerialPort struct {
	mu       sync.Mutex
	readCond *sync.Cond

	readBuf  bytes.Buffer
	writeBuf bytes.Buffer
	eof      bool

	// WriteError is returned by the next Write call if set.
	WriteError error
	// ShortWrite makes Write report one byte fewer than it was given.
	ShortWrite bool
	// CloseError is returned by Close if set.
	CloseError error

	closed     bool
	writeCalls int
}

// NewTestableSerialPort creates a new TestableSerialPort for testing.
func NewTestableSerialPort() *TestableSerialPort {
	p := &TestableSerialPort{}
	p.readCond = sync.NewCond(&p.mu)
	return p
}

func (p *TestableSerialPort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for !p.closed && !p.eof && p.readBuf.Len() == 0 {
		p.readCond.Wait()
	}
	if p.readBuf.Len() > 0 {
		return p.readBuf.Read(b)
	}
	if p.closed {
		return 0, errPortClosed
	}
	return 0, io.EOF
}

func (p *TestableSerialPort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writeCalls++
	if p.closed {
		return 0, errPortClosed
	}
	if err := p.WriteError; err != nil {
		p.WriteError = nil
		return 0, err
	}
	n, _ := p.writeBuf.Write(b)
	if p.ShortWrite && n > 0 {
		n--
	}
	return n, nil
}

// Close marks the port as closed and wakes blocked readers.
func (p *TestableSerialPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.readCond.Broadcast()
	return p.CloseError
}

// AddReadData adds data to be returned by subsequent Read calls.
func (p *TestableSerialPort) AddReadData(data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.readBuf.Write(data)
	p.readCond.Broadcast()
}

// EndOfInput makes Read return io.EOF once the buffered data is consumed.
func (p *TestableSerialPort) EndOfInput() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.eof = true
	p.readCond.Broadcast()
}

// WrittenData returns everything written to the port.
func (p *TestableSerialPort) WrittenData() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writeBuf.String()
}

// Closed reports whether Close has been called.
func (p *TestableSerialPort) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}
