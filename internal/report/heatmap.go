package report

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	heatCell   = 100
	heatLeft   = 110
	heatTop    = 40
	heatBottom = 30
	heatRight  = 20
)

var (
	heatText    = image.NewUniform(color.Black)
	heatInverse = image.NewUniform(color.White)
	heatNaN     = image.NewUniform(color.RGBA{R: 200, G: 200, B: 200, A: 255})
)

// RenderHeatmap draws the lower triangle of a correlation matrix, diagonal
// excluded, with each cell coloured on the viridis scale over [-1, 1] and
// annotated with its value.
func RenderHeatmap(w io.Writer, m Matrix) error {
	n := len(m.Columns)
	if n < 2 {
		return errNoData
	}
	width := heatLeft + (n-1)*heatCell + heatRight
	height := heatTop + (n-1)*heatCell + heatBottom
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	drawText(img, heatText, heatLeft, heatTop/2+4, "Correlation of numeric columns")

	// Rows 1..n-1 against columns 0..n-2 hold the strict lower triangle.
	for i := 1; i < n; i++ {
		y := heatTop + (i-1)*heatCell
		drawText(img, heatText, 6, y+heatCell/2+4, clip(m.Columns[i], heatLeft-10))
		for j := 0; j < i; j++ {
			x := heatLeft + j*heatCell
			cell := image.Rect(x+1, y+1, x+heatCell-1, y+heatCell-1)
			v := m.At(i, j)

			label := "nan"
			src := heatNaN
			if !math.IsNaN(v) {
				label = fmt.Sprintf("%.2f", v)
				src = image.NewUniform(chart.Viridis(v, -1, 1))
			}
			draw.Draw(img, cell, src, image.Point{}, draw.Src)

			ink := heatInverse
			if !math.IsNaN(v) && v > 0.3 {
				ink = heatText
			}
			drawText(img, ink, x+heatCell/2-textWidth(label)/2, y+heatCell/2+4, label)
		}
	}
	for j := 0; j < n-1; j++ {
		x := heatLeft + j*heatCell
		label := clip(m.Columns[j], heatCell-4)
		drawText(img, heatText, x+heatCell/2-textWidth(label)/2, height-heatBottom/2+4, label)
	}
	return png.Encode(w, img)
}

func drawText(dst draw.Image, src image.Image, x, y int, text string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  src,
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

func textWidth(text string) int {
	return font.MeasureString(basicfont.Face7x13, text).Ceil()
}

// clip shortens text until it fits in px pixels.
func clip(text string, px int) string {
	for len(text) > 1 && textWidth(text) > px {
		text = text[:len(text)-1]
	}
	return text
}
