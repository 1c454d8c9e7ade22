// Package report renders a flight report as a printable PDF.
package report

import (
	"fmt"
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"

	"github.com/signalsfoundry/aquila-performance/internal/planner"
	"github.com/signalsfoundry/aquila-performance/model"
	"github.com/signalsfoundry/aquila-performance/wb"
)

const (
	pageMargin = 15.0
	rowHeight  = 6.0
)

// Render writes r as an A4 PDF to w, quoting fuel in unit.
func Render(w io.Writer, r *planner.Report, unit model.VolumeUnit) error {
	if r == nil || r.Flight == nil {
		return fmt.Errorf("render report: no flight")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Mass & balance and performance "+r.Flight.Takeoff.Callsign, true)
	pdf.SetCreator("aquila-performance", true)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Aquila A210 "+r.Flight.Takeoff.Callsign, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	if r.Reference != "" {
		pdf.CellFormat(0, 5, tr("Reference: "+r.Reference), "", 1, "L", false, 0, "")
	}
	c := r.Conditions
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("OAT %.0f °C, pressure altitude %.0f ft, wind %.0f kt %s",
		c.OATCelsius, c.PressureAltitudeFt, c.WindSpeedKt, c.WindDirection)), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	massTable(pdf, r.Flight)
	pdf.Ln(4)
	fuelTable(pdf, r.Flight, unit)
	pdf.Ln(4)
	performanceTable(pdf, r)
	pdf.Ln(4)
	envelope(pdf, r.Flight)

	if pdf.Err() {
		return fmt.Errorf("render report: %w", pdf.Error())
	}
	return pdf.Output(w)
}

func header(pdf *gofpdf.Fpdf, title string, widths []float64, cols ...string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(0xe8, 0xe8, 0xe8)
	for i, col := range cols {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], rowHeight, col, "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 9)
}

func row(pdf *gofpdf.Fpdf, widths []float64, cells ...string) {
	for i, cell := range cells {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], rowHeight, cell, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func massTable(pdf *gofpdf.Fpdf, f *wb.Flight) {
	widths := []float64{60, 35, 35, 40}
	header(pdf, "Mass and balance", widths, "Item", "Mass (kg)", "Arm (m)", "Moment (kg m)")
	for _, m := range f.Takeoff.Moments {
		row(pdf, widths, m.Name, fmt.Sprintf("%.1f", m.MassKg), fmt.Sprintf("%.3f", m.ArmM), fmt.Sprintf("%.2f", m.KgM()))
	}
	row(pdf, widths, "Takeoff", fmt.Sprintf("%.1f", f.TakeoffMassKg()),
		fmt.Sprintf("%.3f", f.Takeoff.CenterOfGravityMM()/1000), fmt.Sprintf("%.2f", f.Takeoff.TotalMoment()))
	row(pdf, widths, "Landing", fmt.Sprintf("%.1f", f.LandingMassKg()),
		fmt.Sprintf("%.3f", f.Landing.CenterOfGravityMM()/1000), fmt.Sprintf("%.2f", f.Landing.TotalMoment()))

	verdict := "Within limits"
	if !f.WithinLimits() {
		verdict = "OUTSIDE LIMITS"
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(0, rowHeight, verdict, "", 1, "L", false, 0, "")
}

func fuelTable(pdf *gofpdf.Fpdf, f *wb.Flight, unit model.VolumeUnit) {
	p := f.FuelPlan
	widths := []float64{60, 40}
	header(pdf, "Fuel ("+f.Loading.FuelType.String()+")", widths, "Item", "Quantity")
	for _, it := range []struct {
		name   string
		liters float64
	}{
		{"Taxi", p.TaxiL},
		{"Trip", p.TripL},
		{"Alternate", p.AlternateL},
		{"Final reserve", p.ReserveL},
		{"Contingency", p.ContingencyL},
		{"Extra", p.ExtraL},
		{"Total", p.TotalL},
	} {
		row(pdf, widths, it.name, wb.FormatVolume(it.liters, unit))
	}
	row(pdf, widths, "Endurance", wb.FormatHHMM(p.Endurance))
	if !p.Sufficient() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(0, rowHeight, "Insufficient fuel: short by "+wb.FormatVolume(math.Abs(p.ExtraL), unit), "", 1, "L", false, 0, "")
	}
}

func performanceTable(pdf *gofpdf.Fpdf, r *planner.Report) {
	widths := []float64{60, 35, 45}
	header(pdf, "Performance", widths, "Chart", "Ground roll (m)", "Over 50 ft obstacle (m)")
	row(pdf, widths, fmt.Sprintf("Take-off at %.0f kg", r.Flight.TakeoffMassKg()),
		fmt.Sprintf("%.0f", r.Takeoff.GroundRollM), fmt.Sprintf("%.0f", r.Takeoff.TotalDistanceM))
	row(pdf, widths, fmt.Sprintf("Landing at %.0f kg", r.Flight.LandingMassKg()),
		fmt.Sprintf("%.0f", r.Landing.GroundRollM), fmt.Sprintf("%.0f", r.Landing.TotalDistanceM))
}

func envelope(pdf *gofpdf.Fpdf, f *wb.Flight) {
	lim := f.Takeoff.Limits
	_, y := pdf.GetXY()
	g := grid{
		pdf:     pdf,
		OffsetU: pageMargin + 10,
		OffsetV: y + 2,
		W:       120,
		H:       70,
		MinX:    400, MaxX: 550,
		MinY: 500, MaxY: 800,
	}
	g.frame(25, 50, "%.0f", "%.0f")

	pdf.SetDrawColor(0x1f, 0x4e, 0x9a)
	pdf.SetLineWidth(0.5)
	g.box(lim.MinCGMM, lim.MinMassKg, lim.MaxCGMM, lim.MaxMassKg)

	pdf.SetDrawColor(0xc0, 0x20, 0x20)
	pdf.SetFillColor(0xc0, 0x20, 0x20)
	g.line(f.Takeoff.CenterOfGravityMM(), f.TakeoffMassKg(), f.Landing.CenterOfGravityMM(), f.LandingMassKg())
	g.dot(f.Takeoff.CenterOfGravityMM(), f.TakeoffMassKg())
	g.dot(f.Landing.CenterOfGravityMM(), f.LandingMassKg())

	pdf.SetFont("Helvetica", "", 7)
	pdf.Text(g.OffsetU+g.W/2-15, g.OffsetV+g.H+7, "Centre of gravity (mm aft of datum)")
	pdf.SetDrawColor(0, 0, 0)
}
