// Package plot renders simple PNG figures of exercise solutions: robot arm
// poses with their obstacle, and the bucket cross-section.
package plot

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
)

// Scene is a raster canvas with a world-to-pixel coordinate mapping.
// World Y grows upward, pixel Y grows downward.
type Scene struct {
	img    *image.NRGBA
	width  int
	height int
	xMin   float64
	xMax   float64
	yMin   float64
	yMax   float64
}

// NewScene creates a white canvas covering the given world rectangle.
func NewScene(width, height int, xMin, xMax, yMin, yMax float64) *Scene {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return &Scene{
		img:    img,
		width:  width,
		height: height,
		xMin:   xMin,
		xMax:   xMax,
		yMin:   yMin,
		yMax:   yMax,
	}
}

func (s *Scene) toPixel(x, y float64) (int, int) {
	px := (x - s.xMin) / (s.xMax - s.xMin) * float64(s.width-1)
	py := (s.yMax - y) / (s.yMax - s.yMin) * float64(s.height-1)
	return int(px + 0.5), int(py + 0.5)
}

// scale converts a world-space length to pixels along the x axis.
func (s *Scene) scale(r float64) float64 {
	return r / (s.xMax - s.xMin) * float64(s.width-1)
}

func (s *Scene) setPixel(x, y int, c color.NRGBA) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return
	}
	s.img.SetNRGBA(x, y, c)
}

// blendPixel composites c over the existing pixel using its alpha.
func (s *Scene) blendPixel(x, y int, c color.NRGBA) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return
	}
	if c.A == 255 {
		s.img.SetNRGBA(x, y, c)
		return
	}
	bg := s.img.NRGBAAt(x, y)
	a := float64(c.A) / 255.0
	blend := func(fg, bg uint8) uint8 {
		return uint8(float64(fg)*a + float64(bg)*(1-a) + 0.5)
	}
	s.img.SetNRGBA(x, y, color.NRGBA{
		R: blend(c.R, bg.R),
		G: blend(c.G, bg.G),
		B: blend(c.B, bg.B),
		A: 255,
	})
}

// FillCircle draws a filled disk at world coordinates.
func (s *Scene) FillCircle(cx, cy, r float64, c color.NRGBA) {
	pcx, pcy := s.toPixel(cx, cy)
	pr := s.scale(r)
	r2 := pr * pr

	minY := int(float64(pcy) - pr)
	maxY := int(float64(pcy)+pr) + 1
	for y := minY; y < maxY; y++ {
		dy := float64(y - pcy)
		dy2 := dy * dy
		if dy2 > r2 {
			continue
		}
		halfSpan := math.Sqrt(r2 - dy2)
		xStart := int(float64(pcx) - halfSpan)
		xEnd := int(float64(pcx)+halfSpan) + 1
		for x := xStart; x < xEnd; x++ {
			s.blendPixel(x, y, c)
		}
	}
}

// StrokeCircle draws the outline of a circle at world coordinates.
func (s *Scene) StrokeCircle(cx, cy, r float64, c color.NRGBA) {
	pr := s.scale(r)
	steps := int(2*math.Pi*pr) + 8
	for i := 0; i < steps; i++ {
		angle := 2 * math.Pi * float64(i) / float64(steps)
		px, py := s.toPixel(cx+r*math.Cos(angle), cy+r*math.Sin(angle))
		s.setPixel(px, py, c)
	}
}

// DrawLine draws a segment between two world points with the given pixel
// thickness, by sampling along the segment.
func (s *Scene) DrawLine(x1, y1, x2, y2 float64, thickness int, c color.NRGBA) {
	px1, py1 := s.toPixel(x1, y1)
	px2, py2 := s.toPixel(x2, y2)

	dx := px2 - px1
	dy := py2 - py1
	steps := int(math.Hypot(float64(dx), float64(dy))) + 1
	half := thickness / 2

	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := px1 + int(t*float64(dx)+0.5)
		y := py1 + int(t*float64(dy)+0.5)
		for oy := -half; oy <= half; oy++ {
			for ox := -half; ox <= half; ox++ {
				s.blendPixel(x+ox, y+oy, c)
			}
		}
	}
}

// DrawMarker draws a small crosshair at a world point.
func (s *Scene) DrawMarker(x, y float64, c color.NRGBA) {
	px, py := s.toPixel(x, y)
	for d := -4; d <= 4; d++ {
		s.setPixel(px+d, py, c)
		s.setPixel(px, py+d, c)
	}
}

// Image returns the rendered canvas.
func (s *Scene) Image() *image.NRGBA {
	return s.img
}

// SavePNG writes the canvas to a PNG file.
func (s *Scene) SavePNG(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create plot file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, s.img); err != nil {
		return fmt.Errorf("failed to encode plot: %w", err)
	}
	return nil
}
