package report

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// grid maps chart values onto a rectangle of the page. The origin is the
// bottom-left corner.
type grid struct {
	pdf *gofpdf.Fpdf

	OffsetU, OffsetV float64 // top-left corner in page mm
	W, H             float64

	MinX, MaxX float64
	MinY, MaxY float64
}

func (g grid) U(x float64) float64 {
	return g.OffsetU + (x-g.MinX)/(g.MaxX-g.MinX)*g.W
}

func (g grid) V(y float64) float64 {
	return g.OffsetV + g.H - (y-g.MinY)/(g.MaxY-g.MinY)*g.H
}

// frame draws the border and labelled gridlines every stepX and stepY.
func (g grid) frame(stepX, stepY float64, xFmt, yFmt string) {
	g.pdf.SetDrawColor(0xc0, 0xc0, 0xc0)
	g.pdf.SetLineWidth(0.1)
	g.pdf.SetFont("Helvetica", "", 6)
	for x := g.MinX; x <= g.MaxX; x += stepX {
		u := g.U(x)
		g.pdf.Line(u, g.OffsetV, u, g.OffsetV+g.H)
		g.pdf.Text(u-3, g.OffsetV+g.H+3, fmt.Sprintf(xFmt, x))
	}
	for y := g.MinY; y <= g.MaxY; y += stepY {
		v := g.V(y)
		g.pdf.Line(g.OffsetU, v, g.OffsetU+g.W, v)
		g.pdf.Text(g.OffsetU-8, v+1, fmt.Sprintf(yFmt, y))
	}
	g.pdf.SetDrawColor(0, 0, 0)
	g.pdf.SetLineWidth(0.3)
	g.pdf.Rect(g.OffsetU, g.OffsetV, g.W, g.H, "D")
}

// box outlines the value rectangle [x0,x1]x[y0,y1].
func (g grid) box(x0, y0, x1, y1 float64) {
	g.pdf.Rect(g.U(x0), g.V(y1), g.U(x1)-g.U(x0), g.V(y0)-g.V(y1), "D")
}

func (g grid) line(x0, y0, x1, y1 float64) {
	g.pdf.Line(g.U(x0), g.V(y0), g.U(x1), g.V(y1))
}

func (g grid) dot(x, y float64) {
	g.pdf.Circle(g.U(x), g.V(y), 0.8, "F")
}
