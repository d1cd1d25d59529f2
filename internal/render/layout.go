// Package render draws the 2048 board onto an 8-bit grey framebuffer image
// sized for a 1404x1872 e-ink panel and hands dirty rectangles to a
// Display for partial refresh.
package render

import (
	"errors"
	"fmt"
	"image"

	"github.com/banshee-data/inky2048/internal/board"
)

// Panel and field geometry in pixels.
const (
	DisplayWidth  = 1404
	DisplayHeight = 1872

	CellSize    = 300
	CellMargin  = 4
	OuterMargin = 4
	LineWidth   = 3

	TitleBaseline = 175
	TitleSize     = 125
	TileTextSize  = 100

	TileTextSizeSmall = 80
)

// Title is drawn above the field.
const Title = "inky-2048"

// ErrCellOutOfRange is returned by CellArea for coordinates off the board.
var ErrCellOutOfRange = errors.New("cell out of range")

// FullArea is the field rectangle, centred on the panel.
func FullArea() image.Rectangle {
	left := DisplayWidth/2 - CellSize*2 - CellMargin*4
	top := DisplayHeight/2 - CellSize*2 - CellMargin*4
	side := CellSize*board.Size + CellMargin*2*board.Size
	return image.Rect(left, top, left+side, top+side)
}

// CellArea returns the rectangle of cell (x, y). With includeMargin the
// rectangle is shifted by one margin and grown to cover it.
func CellArea(x, y int, includeMargin bool) (image.Rectangle, error) {
	if x < 0 || x >= board.Size {
		return image.Rectangle{}, fmt.Errorf("%w: x=%d", ErrCellOutOfRange, x)
	}
	if y < 0 || y >= board.Size {
		return image.Rectangle{}, fmt.Errorf("%w: y=%d", ErrCellOutOfRange, y)
	}
	full := FullArea()
	left := full.Min.X + x*CellSize + x*2*CellMargin
	top := full.Min.Y + y*CellSize + y*2*CellMargin
	if includeMargin {
		return image.Rect(left+CellMargin, top+CellMargin, left+2*CellMargin+CellSize, top+2*CellMargin+CellSize), nil
	}
	return image.Rect(left, top, left+CellSize, top+CellSize), nil
}

// FieldFrame is the rectangle enclosing the border drawn around the field.
func FieldFrame() image.Rectangle {
	full := FullArea()
	return image.Rect(full.Min.X-OuterMargin, full.Min.Y-OuterMargin, full.Max.X, full.Max.Y)
}
