package render

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	boldOnce sync.Once
	boldFont *opentype.Font
	boldErr  error
)

// NewFace returns Go Bold at size pixels.
func NewFace(size float64) (font.Face, error) {
	boldOnce.Do(func() {
		boldFont, boldErr = opentype.Parse(gobold.TTF)
	})
	if boldErr != nil {
		return nil, fmt.Errorf("parse font: %w", boldErr)
	}
	face, err := opentype.NewFace(boldFont, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create %.0fpx face: %w", size, err)
	}
	return face, nil
}

// textOrigin returns the dot that centres s inside a w x h box whose top
// left is the origin.
func textOrigin(face font.Face, s string, w, h int) fixed.Point26_6 {
	bounds, _ := font.BoundString(face, s)
	tw := bounds.Max.X - bounds.Min.X
	th := bounds.Max.Y - bounds.Min.Y
	return fixed.Point26_6{
		X: (fixed.I(w)-tw)/2 - bounds.Min.X,
		Y: (fixed.I(h)-th)/2 - bounds.Min.Y,
	}
}
