package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strconv"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
)

// ErrMissingTile is returned for a tile value the registry never rendered.
var ErrMissingTile = errors.New("missing tile")

// MaxTile is the largest value pre-rendered. It is the largest tile a 4x4
// board can hold.
const MaxTile = 131072

// tilePad is the clear border kept around tile text.
const tilePad = 8

var (
	paper = color.Gray{Y: 0xff}
	ink   = color.Gray{Y: 0x00}
)

// Registry holds a CellSize square image for every power of two from 2 to
// MaxTile. It is read-only after construction.
type Registry struct {
	tiles map[int]*image.Gray
}

// NewRegistry renders every tile with the first of faces whose label fits
// inside the cell, falling back to the last one.
func NewRegistry(faces ...font.Face) *Registry {
	r := &Registry{tiles: make(map[int]*image.Gray)}
	for v := 2; v <= MaxTile; v *= 2 {
		r.tiles[v] = renderTile(fitFace(faces, strconv.Itoa(v)), v)
	}
	return r
}

// DefaultRegistry renders the tiles with Go Bold at TileTextSize, or at
// TileTextSizeSmall for labels too wide for a cell.
func DefaultRegistry() (*Registry, error) {
	face, err := NewFace(TileTextSize)
	if err != nil {
		return nil, err
	}
	defer face.Close()
	small, err := NewFace(TileTextSizeSmall)
	if err != nil {
		return nil, err
	}
	defer small.Close()
	return NewRegistry(face, small), nil
}

func fitFace(faces []font.Face, s string) font.Face {
	for _, f := range faces {
		bounds, _ := font.BoundString(f, s)
		if (bounds.Max.X - bounds.Min.X).Ceil() <= CellSize-2*tilePad {
			return f
		}
	}
	return faces[len(faces)-1]
}

// Get returns the pre-rendered image for value.
func (r *Registry) Get(value int) (*image.Gray, error) {
	img, ok := r.tiles[value]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrMissingTile, value)
	}
	return img, nil
}

// Len returns the number of rendered tiles.
func (r *Registry) Len() int { return len(r.tiles) }

func renderTile(face font.Face, value int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, CellSize, CellSize))
	draw.Draw(img, img.Bounds(), image.NewUniform(paper), image.Point{}, draw.Src)
	s := strconv.Itoa(value)
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(ink),
		Face: face,
		Dot:  textOrigin(face, s, CellSize, CellSize),
	}
	d.DrawString(s)
	return img
}
