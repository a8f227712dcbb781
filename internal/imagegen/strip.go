package imagegen

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ErrNoBars is returned when there is nothing to draw.
var ErrNoBars = errors.New("imagegen: no forecast bars")

// Bar is one day of the high/low strip. Left and Width are percentages of
// the track.
type Bar struct {
	Day   string
	Low   int
	High  int
	Left  float64
	Width float64
}

const (
	StripWidth = 600
	rowHeight  = 32
	padding    = 16

	trackX = 120
	trackW = 380
	trackH = 8
)

var (
	colBackground = color.RGBA{248, 250, 252, 255}
	colTrack      = color.RGBA{241, 245, 249, 255}
	colFillFrom   = color.RGBA{56, 189, 248, 255}
	colFillTo     = color.RGBA{2, 132, 199, 255}
	colText       = color.RGBA{51, 65, 85, 255}
	colMuted      = color.RGBA{100, 116, 139, 255}
)

// StripHeight is the image height for n bars.
func StripHeight(n int) int {
	return 2*padding + n*rowHeight
}

// RenderStrip draws the forecast strip as a PNG.
func RenderStrip(bars []Bar) ([]byte, error) {
	if len(bars) == 0 {
		return nil, ErrNoBars
	}

	img := image.NewRGBA(image.Rect(0, 0, StripWidth, StripHeight(len(bars))))
	fill(img, img.Bounds(), colBackground)

	face := basicfont.Face7x13
	for i, b := range bars {
		top := padding + i*rowHeight
		baseline := top + rowHeight/2 + 4

		drawText(img, b.Day, padding, baseline, colText, face)
		drawText(img, strconv.Itoa(b.Low), trackX-40, baseline, colMuted, face)

		trackY := top + (rowHeight-trackH)/2
		fill(img, image.Rect(trackX, trackY, trackX+trackW, trackY+trackH), colTrack)
		drawBar(img, b, trackY)

		drawText(img, strconv.Itoa(b.High), trackX+trackW+12, baseline, colText, face)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode forecast strip: %w", err)
	}
	return buf.Bytes(), nil
}

// drawBar fills the bar with a horizontal gradient, clipped to the track.
func drawBar(img *image.RGBA, b Bar, trackY int) {
	x0 := trackX + int(math.Round(clampPct(b.Left)/100*trackW))
	x1 := trackX + int(math.Round(clampPct(b.Left+b.Width)/100*trackW))
	if x1 <= x0 {
		x1 = x0 + 1
	}
	for x := x0; x < x1 && x < trackX+trackW; x++ {
		t := float64(x-trackX) / trackW
		c := lerp(colFillFrom, colFillTo, t)
		for y := trackY; y < trackY+trackH; y++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func clampPct(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), 255}
}

func fill(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// drawText draws text at the given baseline using the specified font face.
func drawText(img *image.RGBA, text string, x, y int, col color.Color, face font.Face) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
