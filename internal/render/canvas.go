package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/banshee-data/inky2048/internal/board"
)

// Canvas is the in-memory framebuffer. Every draw call returns the
// rectangle it touched so callers can refresh just that region.
type Canvas struct {
	img   *image.Gray
	tiles *Registry
	title font.Face
}

// NewCanvas returns a blank white canvas the size of the panel.
func NewCanvas(tiles *Registry, title font.Face) *Canvas {
	c := &Canvas{
		img:   image.NewGray(image.Rect(0, 0, DisplayWidth, DisplayHeight)),
		tiles: tiles,
		title: title,
	}
	c.Clear()
	return c
}

// Image exposes the framebuffer.
func (c *Canvas) Image() *image.Gray { return c.img }

// Clear paints the whole canvas white.
func (c *Canvas) Clear() image.Rectangle {
	fill(c.img, c.img.Bounds(), paper)
	return c.img.Bounds()
}

// DrawBackground draws the title, the field border and the grid lines.
func (c *Canvas) DrawBackground() image.Rectangle {
	dirty := c.drawTitle()

	frame := FieldFrame()
	outline(c.img, frame, LineWidth)
	for i := 1; i < board.Size; i++ {
		x := frame.Min.X + (CellSize+CellMargin*2)*i - 1
		fill(c.img, image.Rect(x, frame.Min.Y, x+LineWidth, frame.Max.Y), ink)
		y := frame.Min.Y + (CellSize+CellMargin*2)*i - 1
		fill(c.img, image.Rect(frame.Min.X, y, frame.Max.X, y+LineWidth), ink)
	}
	return dirty.Union(frame)
}

func (c *Canvas) drawTitle() image.Rectangle {
	if c.title == nil {
		return image.Rectangle{}
	}
	bounds, advance := font.BoundString(c.title, Title)
	x := (DisplayWidth - advance.Ceil()) / 2
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(ink),
		Face: c.title,
		Dot:  fixed.P(x, TitleBaseline),
	}
	d.DrawString(Title)
	return image.Rect(
		x+bounds.Min.X.Floor(), TitleBaseline+bounds.Min.Y.Floor(),
		x+bounds.Max.X.Ceil(), TitleBaseline+bounds.Max.Y.Ceil(),
	)
}

// DrawCell paints cell p with value, or clears it when value is zero.
func (c *Canvas) DrawCell(p board.Pos, value int) (image.Rectangle, error) {
	area, err := CellArea(p.X, p.Y, false)
	if err != nil {
		return image.Rectangle{}, err
	}
	if value == 0 {
		fill(c.img, area, paper)
		return area, nil
	}
	tile, err := c.tiles.Get(value)
	if err != nil {
		return image.Rectangle{}, err
	}
	draw.Copy(c.img, area.Min, tile, tile.Bounds(), draw.Src, nil)
	return area, nil
}

// DrawCells paints the given cells of g and returns the union of their
// areas.
func (c *Canvas) DrawCells(g board.Grid, cells []board.Pos) (image.Rectangle, error) {
	var dirty image.Rectangle
	for _, p := range cells {
		r, err := c.DrawCell(p, g.At(p))
		if err != nil {
			return dirty, err
		}
		dirty = dirty.Union(r)
	}
	return dirty, nil
}

// AllCells lists every position in row order.
func AllCells() []board.Pos {
	out := make([]board.Pos, 0, board.Size*board.Size)
	for y := range board.Size {
		for x := range board.Size {
			out = append(out, board.Pos{X: x, Y: y})
		}
	}
	return out
}

func fill(img *image.Gray, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// outline draws a border of width w just inside r.
func outline(img *image.Gray, r image.Rectangle, w int) {
	fill(img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+w), ink)
	fill(img, image.Rect(r.Min.X, r.Max.Y-w, r.Max.X, r.Max.Y), ink)
	fill(img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+w, r.Max.Y), ink)
	fill(img, image.Rect(r.Max.X-w, r.Min.Y, r.Max.X, r.Max.Y), ink)
}
