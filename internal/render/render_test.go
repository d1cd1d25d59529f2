package render

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/banshee-data/inky2048/internal/board"
	"github.com/banshee-data/inky2048/internal/fsutil"
)

var (
	registryOnce sync.Once
	registry     *Registry
	registryErr  error
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	registryOnce.Do(func() { registry, registryErr = DefaultRegistry() })
	require.NoError(t, registryErr)
	return registry
}

func TestFullArea(t *testing.T) {
	assert.Equal(t, image.Rect(86, 320, 86+1232, 320+1232), FullArea())
}

func TestCellArea(t *testing.T) {
	r, err := CellArea(0, 0, false)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(86, 320, 386, 620), r)

	r, err = CellArea(3, 2, false)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(86+3*308, 320+2*308, 86+3*308+300, 320+2*308+300), r)

	r, err = CellArea(1, 1, true)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(86+308+4, 320+308+4, 86+308+4+304, 320+308+4+304), r)

	for _, c := range [][2]int{{4, 0}, {0, 4}, {-1, 0}} {
		_, err := CellArea(c[0], c[1], false)
		assert.ErrorIs(t, err, ErrCellOutOfRange)
	}
}

func TestCellsDoNotOverlapGridLines(t *testing.T) {
	c := NewCanvas(testRegistry(t), nil)
	c.DrawBackground()
	img := c.Image()
	for _, p := range AllCells() {
		r, err := CellArea(p.X, p.Y, false)
		require.NoError(t, err)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				if img.GrayAt(x, y) != paper {
					t.Fatalf("cell %v pixel %d,%d is not blank after background", p, x, y)
				}
			}
		}
	}
	assert.Equal(t, ink, img.GrayAt(FieldFrame().Min.X, FieldFrame().Min.Y))
}

func TestRegistry(t *testing.T) {
	reg := testRegistry(t)
	assert.Equal(t, 17, reg.Len())

	for v := 2; v <= MaxTile; v *= 2 {
		img, err := reg.Get(v)
		require.NoError(t, err, "tile %d", v)
		assert.Equal(t, image.Rect(0, 0, CellSize, CellSize), img.Bounds())
		assert.True(t, hasInk(img, img.Bounds()), "tile %d is blank", v)
		// Text stays clear of the cell edge.
		assert.False(t, hasInk(img, image.Rect(0, 0, CellSize, 2)), "tile %d touches the edge", v)
		assert.False(t, hasInk(img, image.Rect(0, 0, 2, CellSize)), "tile %d touches the left edge", v)
		assert.False(t, hasInk(img, image.Rect(CellSize-2, 0, CellSize, CellSize)), "tile %d touches the right edge", v)
	}

	for _, v := range []int{0, 3, 1, MaxTile * 2} {
		_, err := reg.Get(v)
		assert.ErrorIs(t, err, ErrMissingTile, "value %d", v)
	}
}

func hasInk(img *image.Gray, r image.Rectangle) bool {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.GrayAt(x, y).Y < 0x80 {
				return true
			}
		}
	}
	return false
}

func TestCanvas_DrawCell(t *testing.T) {
	c := NewCanvas(testRegistry(t), nil)

	r, err := c.DrawCell(board.Pos{X: 2, Y: 1}, 128)
	require.NoError(t, err)
	want, _ := CellArea(2, 1, false)
	assert.Equal(t, want, r)
	assert.True(t, hasInk(c.Image(), r))

	r, err = c.DrawCell(board.Pos{X: 2, Y: 1}, 0)
	require.NoError(t, err)
	assert.False(t, hasInk(c.Image(), r))

	_, err = c.DrawCell(board.Pos{X: 0, Y: 0}, 3)
	assert.ErrorIs(t, err, ErrMissingTile)
	_, err = c.DrawCell(board.Pos{X: 5, Y: 0}, 2)
	assert.ErrorIs(t, err, ErrCellOutOfRange)
}

func TestCanvas_Title(t *testing.T) {
	face, err := NewFace(TitleSize)
	require.NoError(t, err)
	defer face.Close()
	c := NewCanvas(testRegistry(t), face)

	dirty := c.DrawBackground()
	assert.True(t, dirty.Min.Y < TitleBaseline)
	assert.True(t, hasInk(c.Image(), image.Rect(0, 0, DisplayWidth, TitleBaseline+40)))
	assert.True(t, dirty.In(c.Image().Bounds()))
}

type refresh struct {
	rect image.Rectangle
	full bool
}

type recordingDisplay struct{ calls []refresh }

func (d *recordingDisplay) Refresh(_ *image.Gray, rect image.Rectangle, full bool) error {
	d.calls = append(d.calls, refresh{rect, full})
	return nil
}

func TestScreen(t *testing.T) {
	disp := &recordingDisplay{}
	s := NewScreen(NewCanvas(testRegistry(t), nil), disp)

	g := board.Grid{{2, 0, 0, 0}, {0, 0, 0, 4}}
	require.NoError(t, s.Init(g))
	require.Len(t, disp.calls, 1)
	assert.True(t, disp.calls[0].full)

	g[0][0], g[0][1] = 0, 4
	require.NoError(t, s.Update(g, []board.Pos{{X: 0, Y: 0}, {X: 1, Y: 0}}))
	require.Len(t, disp.calls, 3)
	a, _ := CellArea(0, 0, false)
	b, _ := CellArea(1, 0, false)
	assert.Equal(t, []refresh{{a, false}, {b, false}}, disp.calls[1:])

	g[3][3] = 6
	assert.ErrorIs(t, s.Update(g, []board.Pos{{X: 3, Y: 3}}), ErrMissingTile)
}

func TestFileDisplay(t *testing.T) {
	dir := t.TempDir()
	c := NewCanvas(testRegistry(t), nil)
	_, err := c.DrawCell(board.Pos{}, 2)
	require.NoError(t, err)

	pngPath := filepath.Join(dir, "frame.png")
	d, err := NewFileDisplay(pngPath)
	require.NoError(t, err)
	require.NoError(t, d.Refresh(c.Image(), c.Image().Bounds(), true))
	require.NoError(t, d.Refresh(c.Image(), c.Image().Bounds(), false))
	assert.Equal(t, 2, d.Refreshes())

	f, err := os.Open(pngPath)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, DisplayWidth, DisplayHeight), img.Bounds())

	bmpPath := filepath.Join(dir, "frame.bmp")
	d, err = NewFileDisplay(bmpPath)
	require.NoError(t, err)
	require.NoError(t, d.Refresh(c.Image(), c.Image().Bounds(), true))
	bf, err := os.Open(bmpPath)
	require.NoError(t, err)
	defer bf.Close()
	cfg, err := bmp.DecodeConfig(bf)
	require.NoError(t, err)
	assert.Equal(t, DisplayWidth, cfg.Width)

	_, err = NewFileDisplay(filepath.Join(dir, "frame.jpg"))
	assert.ErrorContains(t, err, "unsupported frame format")
}

func TestFileDisplay_TIFFInMemory(t *testing.T) {
	mem := fsutil.NewMemoryFileSystem()
	d := &FileDisplay{Path: "/frames/frame.tiff", FS: mem}
	c := NewCanvas(testRegistry(t), nil)

	require.NoError(t, d.Refresh(c.Image(), c.Image().Bounds(), true))
	data, err := mem.ReadFile("/frames/frame.tiff")
	require.NoError(t, err)
	cfg, err := tiff.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, DisplayHeight, cfg.Height)
	assert.Equal(t, []string{"/frames/frame.tiff"}, mem.Names())
}
