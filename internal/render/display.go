package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/banshee-data/inky2048/internal/board"
	"github.com/banshee-data/inky2048/internal/fsutil"
	"github.com/banshee-data/inky2048/internal/monitoring"
)

// Display pushes a region of the framebuffer to the panel. full requests a
// flashing full refresh; otherwise only rect needs updating.
type Display interface {
	Refresh(frame *image.Gray, rect image.Rectangle, full bool) error
}

// DiscardDisplay drops every refresh. Used when running headless.
type DiscardDisplay struct{}

func (DiscardDisplay) Refresh(*image.Gray, image.Rectangle, bool) error { return nil }

// FileDisplay writes the whole frame to Path on every refresh. The format
// follows the extension: .png, .bmp, .tif or .tiff.
type FileDisplay struct {
	Path string
	FS   fsutil.FileSystem

	mu        sync.Mutex
	refreshes int
}

func encoderFor(path string) (func(io.Writer, image.Image) error, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return png.Encode, nil
	case ".bmp":
		return bmp.Encode, nil
	case ".tif", ".tiff":
		return func(w io.Writer, m image.Image) error { return tiff.Encode(w, m, nil) }, nil
	}
	return nil, fmt.Errorf("unsupported frame format %q", filepath.Ext(path))
}

// NewFileDisplay checks that path has a supported extension.
func NewFileDisplay(path string) (*FileDisplay, error) {
	if _, err := encoderFor(path); err != nil {
		return nil, err
	}
	return &FileDisplay{Path: path, FS: fsutil.OSFileSystem{}}, nil
}

func (d *FileDisplay) Refresh(frame *image.Gray, rect image.Rectangle, full bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	encode, err := encoderFor(d.Path)
	if err != nil {
		return err
	}
	err = fsutil.WriteAtomic(d.FS, d.Path, func(w io.Writer) error {
		if err := encode(w, frame); err != nil {
			return fmt.Errorf("encode frame: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	d.refreshes++
	monitoring.Debugf("render: refreshed %v (full=%t) -> %s", rect, full, d.Path)
	return nil
}

// Refreshes returns the number of frames written.
func (d *FileDisplay) Refreshes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.refreshes
}

// Screen keeps a Canvas and a Display in step with a board.
type Screen struct {
	canvas  *Canvas
	display Display
}

func NewScreen(canvas *Canvas, display Display) *Screen {
	return &Screen{canvas: canvas, display: display}
}

// Canvas returns the framebuffer being drawn.
func (s *Screen) Canvas() *Canvas { return s.canvas }

// Init draws the background and every cell of g, then does a full refresh.
func (s *Screen) Init(g board.Grid) error {
	s.canvas.Clear()
	s.canvas.DrawBackground()
	if _, err := s.canvas.DrawCells(g, AllCells()); err != nil {
		return err
	}
	return s.display.Refresh(s.canvas.Image(), s.canvas.Image().Bounds(), true)
}

// Update redraws the changed cells, refreshing each one separately.
func (s *Screen) Update(g board.Grid, changed []board.Pos) error {
	for _, p := range changed {
		rect, err := s.canvas.DrawCell(p, g.At(p))
		if err != nil {
			return err
		}
		if err := s.display.Refresh(s.canvas.Image(), rect, false); err != nil {
			return fmt.Errorf("refresh cell %d,%d: %w", p.X, p.Y, err)
		}
	}
	return nil
}
