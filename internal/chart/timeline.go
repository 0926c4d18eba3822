package chart

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/ppiankov/lifelines/internal/model"
)

// Page geometry in millimeters, A4 landscape.
const (
	pageWidth  = 297.0
	pageHeight = 210.0

	marginTop    = 22.0
	marginBottom = 16.0
	marginRight  = 10.0
	nameColWidth = 62.0

	maxRowsPerPage = 48
	barGap         = 0.6
)

// Timeline renders records as horizontal life segments, one bar per person
// in the order given, over a shared year axis. Living persons extend to the
// as-of year and are colored apart from deceased ones.
type Timeline struct {
	asOfYear int
}

// NewTimeline creates a timeline chart bounded at asOfYear.
func NewTimeline(asOfYear int) *Timeline {
	return &Timeline{asOfYear: asOfYear}
}

// Render draws the entries into a PDF file at path. Long listings paginate;
// every page repeats the year axis.
func (t *Timeline) Render(title string, entries []model.TimelineEntry, path string) error {
	if len(entries) == 0 {
		return fmt.Errorf("no timeline entries to render")
	}

	minYear, maxYear := yearBounds(entries)
	sc := newScale(minYear, maxYear, nameColWidth, pageWidth-marginRight)

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(title, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for start := 0; start < len(entries); start += maxRowsPerPage {
		end := start + maxRowsPerPage
		if end > len(entries) {
			end = len(entries)
		}
		t.renderPage(pdf, tr, title, sc, entries[start:end])
	}

	return pdf.OutputFileAndClose(path)
}

func (t *Timeline) renderPage(pdf *gofpdf.Fpdf, tr func(string) string, title string, sc scale, entries []model.TimelineEntry) {
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(40, 40, 40)
	pdf.SetXY(nameColWidth, 8)
	pdf.CellFormat(sc.x1-sc.x0, 6, tr(title), "", 0, "L", false, 0, "")

	t.drawLegend(pdf)
	t.drawAxis(pdf, sc)

	plotHeight := pageHeight - marginTop - marginBottom
	rowHeight := plotHeight / float64(len(entries))
	fontSize := 7.0
	if rowHeight < 3.5 {
		fontSize = 5.5
	}
	pdf.SetFont("Helvetica", "", fontSize)

	for i, entry := range entries {
		y := marginTop + float64(i)*rowHeight

		pdf.SetTextColor(60, 60, 60)
		pdf.SetXY(0, y)
		pdf.CellFormat(nameColWidth-2, rowHeight, tr(entry.Name), "", 0, "R", false, 0, "")

		if entry.Alive {
			pdf.SetFillColor(60, 179, 113)
		} else {
			pdf.SetFillColor(70, 130, 180)
		}

		x0 := sc.x(entry.BirthYear)
		x1 := sc.x(entry.EndYear)
		barHeight := rowHeight - barGap
		if barHeight < 0.8 {
			barHeight = 0.8
		}
		// Zero-length segments (as-of year at birth) still get a visible dot.
		width := x1 - x0
		if width < 0.8 {
			width = 0.8
		}
		pdf.Rect(x0, y+barGap/2, width, barHeight, "F")
	}
}

// drawAxis draws vertical gridlines and year labels at decade-aligned ticks.
func (t *Timeline) drawAxis(pdf *gofpdf.Fpdf, sc scale) {
	pdf.SetDrawColor(210, 210, 210)
	pdf.SetLineWidth(0.15)
	pdf.SetFont("Helvetica", "", 6.5)
	pdf.SetTextColor(120, 120, 120)

	step := tickStep(sc.spanYears())
	for year := sc.minYear; year <= sc.maxYear; year += step {
		x := sc.x(year)
		pdf.Line(x, marginTop, x, pageHeight-marginBottom)
		pdf.SetXY(x-6, pageHeight-marginBottom+1)
		pdf.CellFormat(12, 4, fmt.Sprintf("%d", year), "", 0, "C", false, 0, "")
	}

	// As-of marker so living bars read correctly against the axis.
	if t.asOfYear >= sc.minYear && t.asOfYear <= sc.maxYear {
		pdf.SetDrawColor(60, 179, 113)
		pdf.SetLineWidth(0.3)
		x := sc.x(t.asOfYear)
		pdf.Line(x, marginTop, x, pageHeight-marginBottom)
	}
}

func (t *Timeline) drawLegend(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(60, 60, 60)

	x := pageWidth - marginRight - 58
	pdf.SetFillColor(70, 130, 180)
	pdf.Rect(x, 9, 4, 3, "F")
	pdf.SetXY(x+5, 8.5)
	pdf.CellFormat(20, 4, "deceased", "", 0, "L", false, 0, "")

	pdf.SetFillColor(60, 179, 113)
	pdf.Rect(x+30, 9, 4, 3, "F")
	pdf.SetXY(x+35, 8.5)
	pdf.CellFormat(22, 4, fmt.Sprintf("living (to %d)", t.asOfYear), "", 0, "L", false, 0, "")
}

// scale maps years onto horizontal positions inside [x0, x1]. Bounds are
// decade-aligned so gridlines land on round years.
type scale struct {
	minYear int
	maxYear int
	x0      float64
	x1      float64
}

func newScale(minYear, maxYear int, x0, x1 float64) scale {
	minYear = (minYear / 10) * 10
	if maxYear%10 != 0 {
		maxYear = (maxYear/10 + 1) * 10
	}
	if maxYear <= minYear {
		maxYear = minYear + 10
	}
	return scale{minYear: minYear, maxYear: maxYear, x0: x0, x1: x1}
}

// x maps a year to its horizontal position. Years outside the bounds clamp
// to the plot edges.
func (s scale) x(year int) float64 {
	if year < s.minYear {
		year = s.minYear
	}
	if year > s.maxYear {
		year = s.maxYear
	}
	frac := float64(year-s.minYear) / float64(s.maxYear-s.minYear)
	return s.x0 + frac*(s.x1-s.x0)
}

func (s scale) spanYears() int {
	return s.maxYear - s.minYear
}

// tickStep picks a decade-multiple step keeping the axis under ~15 labels.
func tickStep(span int) int {
	for _, step := range []int{10, 20, 50, 100} {
		if span/step <= 15 {
			return step
		}
	}
	return 200
}

// yearBounds finds the extremes across all segments.
func yearBounds(entries []model.TimelineEntry) (int, int) {
	minYear, maxYear := entries[0].BirthYear, entries[0].EndYear
	for _, e := range entries[1:] {
		if e.BirthYear < minYear {
			minYear = e.BirthYear
		}
		if e.EndYear > maxYear {
			maxYear = e.EndYear
		}
	}
	return minYear, maxYear
}
