// Package serialmux provides an abstraction over a serial port with the
// ability for multiple clients to subscribe to lines read from the port and
// send commands to a single serial device.
//
// Touch controllers that speak the line protocol (see package touch) are
// attached this way; the admin routes let a developer tail the raw stream
// and poke the controller without stopping the game.
package serialmux

import (
	"bufio"
	"context"
	crand "crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"tailscale.com/tsweb"

	"github.com/banshee-data/inky2048/internal/httputil"
)

var ErrWriteFailed = errors.New("failed to write to serial port")

// DefaultBuffer is the subscriber channel capacity used when none is set.
const DefaultBuffer = 256

// SerialMux is a generic serial port multiplexer that allows multiple clients
// to subscribe to lines from a single serial port.
type SerialMux[T SerialPorter] struct {
	port         T
	buffer       int
	subscribers  map[string]chan string
	subscriberMu sync.Mutex
	commandMu    sync.Mutex
	closing      atomic.Bool

	lines   atomic.Uint64
	dropped atomic.Uint64
}

// SerialMuxInterface is implemented by SerialMux and DisabledSerialMux.
type SerialMuxInterface interface {
	// Subscribe creates a new channel for receiving lines from the serial
	// port. The returned ID identifies the channel when unsubscribing.
	Subscribe() (string, chan string)
	// Unsubscribe removes and closes a subscriber channel.
	Unsubscribe(string)
	// SendCommand writes the provided command to the serial port.
	SendCommand(string) error
	// Monitor reads lines from the serial port and fans them out to
	// subscribers until ctx is done or the port reaches EOF.
	Monitor(context.Context) error
	// Close closes all subscriber channels and the serial port.
	Close() error
	// Stats reports line counters.
	Stats() Stats
	// AttachAdminRoutes attaches debugging endpoints under /debug/.
	AttachAdminRoutes(*http.ServeMux)
}

// Stats counts lines read from the port and lines that could not be
// delivered because a subscriber's buffer was full.
type Stats struct {
	Lines       uint64 `json:"lines"`
	Dropped     uint64 `json:"dropped"`
	Subscribers int    `json:"subscribers"`
}

// Option configures a SerialMux.
type Option func(*muxOptions)

type muxOptions struct {
	buffer int
}

// WithBuffer sets the capacity of each subscriber channel. Values below
// one fall back to DefaultBuffer.
func WithBuffer(n int) Option {
	return func(o *muxOptions) { o.buffer = n }
}

// NewSerialMux creates a SerialMux backed by port.
func NewSerialMux[T SerialPorter](port T, opts ...Option) *SerialMux[T] {
	o := muxOptions{buffer: DefaultBuffer}
	for _, opt := range opts {
		opt(&o)
	}
	if o.buffer < 1 {
		o.buffer = DefaultBuffer
	}
	return &SerialMux[T]{
		port:        port,
		buffer:      o.buffer,
		subscribers: make(map[string]chan string),
	}
}

// randomID generates a random channel ID (8 byte random hex encoded value)
func randomID() string {
	b := make([]byte, 8)
	crand.Read(b)
	return hex.EncodeToString(b)
}

func (s *SerialMux[T]) Subscribe() (string, chan string) {
	id := randomID()
	ch := make(chan string, s.buffer)
	s.subscriberMu.Lock()
	defer s.subscriberMu.Unlock()
	if s.closing.Load() {
		close(ch)
		return id, ch
	}
	s.subscribers[id] = ch
	return id, ch
}

// Unsubscribe removes a subscriber from the serial mux.
func (s *SerialMux[T]) Unsubscribe(id string) {
	s.subscriberMu.Lock()
	defer s.subscriberMu.Unlock()
	if ch, ok := s.subscribers[id]; ok {
		close(ch)
		delete(s.subscribers, id)
	}
}

// SendCommand sends a command to the serial port.
func (s *SerialMux[T]) SendCommand(command string) error {
	s.commandMu.Lock()
	defer s.commandMu.Unlock()
	if !strings.HasSuffix(command, "\n") {
		command += "\n"
	}
	n, err := s.port.Write([]byte(command))
	if err != nil {
		return err
	}
	if n != len(command) {
		return ErrWriteFailed
	}
	return nil
}

// Monitor monitors the serial port for lines and sends them to subscribers.
func (s *SerialMux[T]) Monitor(ctx context.Context) error {
	scan := bufio.NewScanner(s.port)

	lineChan := make(chan string)
	scanErrChan := make(chan error, 1)

	// The blocking scan.Scan runs on its own goroutine so the loop below can
	// still observe context cancellation.
	go func() {
		defer close(lineChan)
		for scan.Scan() {
			select {
			case lineChan <- scan.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scan.Err(); err != nil {
			select {
			case scanErrChan <- err:
			case <-ctx.Done():
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-scanErrChan:
			return err

		case line, ok := <-lineChan:
			if !ok {
				select {
				case err := <-scanErrChan:
					return err
				default:
					return nil
				}
			}
			if s.closing.Load() {
				return nil
			}
			s.broadcast(line)
		}
	}
}

func (s *SerialMux[T]) broadcast(line string) {
	s.lines.Add(1)
	s.subscriberMu.Lock()
	defer s.subscriberMu.Unlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- line:
		default:
			// Never block the reader on a slow subscriber.
			s.dropped.Add(1)
		}
	}
}

func (s *SerialMux[T]) Close() error {
	s.closing.Store(true)

	s.subscriberMu.Lock()
	for id, ch := range s.subscribers {
		close(ch)
		delete(s.subscribers, id)
	}
	s.subscriberMu.Unlock()
	return s.port.Close()
}

func (s *SerialMux[T]) Stats() Stats {
	s.subscriberMu.Lock()
	n := len(s.subscribers)
	s.subscriberMu.Unlock()
	return Stats{Lines: s.lines.Load(), Dropped: s.dropped.Load(), Subscribers: n}
}

func (s *SerialMux[T]) AttachAdminRoutes(mux *http.ServeMux) {
	attachAdminRoutes(mux, s)
}

// attachAdminRoutes registers the command, tail and stats endpoints for any
// mux implementation.
func attachAdminRoutes(mux *http.ServeMux, s SerialMuxInterface) {
	debug := tsweb.Debugger(mux)

	debug.HandleSilentFunc("send-command-api", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			httputil.MethodNotAllowed(w)
			return
		}
		command := strings.TrimSpace(r.FormValue("command"))
		if command == "" {
			httputil.BadRequest(w, "Missing command")
			return
		}
		if err := s.SendCommand(command); err != nil {
			httputil.InternalServerError(w, fmt.Errorf("failed to write command: %w", err))
			return
		}
		io.WriteString(w, fmt.Sprintf("Wrote command %q to serial port", command))
	})

	// Server-Sent Events stream of raw lines from the port.
	debug.HandleSilentFunc("tail", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")

		id, c := s.Subscribe()
		defer s.Unsubscribe(id)

		w.Write([]byte(": ping\n\n"))
		flusher.Flush()

		for {
			select {
			case payload, ok := <-c:
				if !ok {
					return
				}
				if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
					return
				}
				flusher.Flush()
			case <-r.Context().Done():
				return
			}
		}
	})

	debug.Handle("serial-stats", "serial line counters", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, s.Stats())
	}))
}
