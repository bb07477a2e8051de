package interfaces

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	diagram "sld-service/internal/diagram/domain"
)

const (
	pageMargin  = 10.0
	titleHeight = 22.0
	labelSize   = 7.0
)

// BuildLayoutPDF renders one A4 landscape page per document. Elements are painted in
// array order and connections last, scaled to fit the page below the title block.
func BuildLayoutPDF(docs ...*diagram.LayoutDocument) ([]byte, error) {
	if len(docs) == 0 {
		return nil, errors.New("export pdf: no documents")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	for i, doc := range docs {
		if doc == nil {
			return nil, fmt.Errorf("export pdf: document %d is nil", i)
		}
		pdf.AddPage()
		drawTitleBlock(pdf, doc, i+1, len(docs))
		drawDocument(pdf, doc)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTitleBlock(pdf *gofpdf.Fpdf, doc *diagram.LayoutDocument, page, pages int) {
	pageW, _ := pdf.GetPageSize()
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.3)
	pdf.Rect(pageMargin, pageMargin, pageW-2*pageMargin, titleHeight-4, "D")

	pdf.SetFont("Arial", "B", 12)
	pdf.SetXY(pageMargin+2, pageMargin+1)
	pdf.Cell(0, 7, doc.Title)

	pdf.SetFont("Arial", "", 9)
	pdf.SetXY(pageMargin+2, pageMargin+9)
	info := fmt.Sprintf("Page %d of %d", page, pages)
	if doc.Metadata.CircuitNumber > 0 {
		info = fmt.Sprintf("Circuit %d  |  %s", doc.Metadata.CircuitNumber, info)
	}
	if doc.Metadata.Author != "" {
		info += "  |  Author: " + doc.Metadata.Author
	}
	if doc.Metadata.Date != "" {
		info += "  |  Date: " + doc.Metadata.Date
	}
	pdf.Cell(0, 6, info)
}

// pageTransform maps document coordinates into the drawing area of the page.
type pageTransform struct {
	scale   float64
	offsetX float64
	offsetY float64
}

func (t pageTransform) x(v int) float64 { return t.offsetX + float64(v)*t.scale }
func (t pageTransform) y(v int) float64 { return t.offsetY + float64(v)*t.scale }
func (t pageTransform) d(v int) float64 { return float64(v) * t.scale }

func fitPage(pdf *gofpdf.Fpdf, doc *diagram.LayoutDocument) pageTransform {
	pageW, pageH := pdf.GetPageSize()
	areaX := pageMargin
	areaY := pageMargin + titleHeight
	areaW := pageW - 2*pageMargin
	areaH := pageH - areaY - pageMargin

	t := pageTransform{scale: 1, offsetX: areaX, offsetY: areaY}
	if doc.Width <= 0 || doc.Height <= 0 {
		return t
	}
	t.scale = areaW / float64(doc.Width)
	if s := areaH / float64(doc.Height); s < t.scale {
		t.scale = s
	}
	t.offsetX = areaX + (areaW-float64(doc.Width)*t.scale)/2
	return t
}

func drawDocument(pdf *gofpdf.Fpdf, doc *diagram.LayoutDocument) {
	t := fitPage(pdf, doc)
	pdf.SetFont("Arial", "", labelSize)
	for _, el := range doc.Elements {
		drawElement(pdf, t, el)
	}
	for _, conn := range doc.Connections {
		drawConnection(pdf, t, conn)
	}
	pdf.SetDashPattern([]float64{}, 0)
	pdf.SetDrawColor(0, 0, 0)
}

func drawElement(pdf *gofpdf.Fpdf, t pageTransform, el diagram.Element) {
	x, y, w, h := t.x(el.X), t.y(el.Y), t.d(el.Width), t.d(el.Height)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.3)

	switch props := el.Props.(type) {
	case diagram.ConsumerUnitProps:
		if props.Enclosure {
			pdf.SetLineWidth(0.6)
		}
		pdf.Rect(x, y, w, h, "D")
		lines := []string{props.Label}
		if props.Voltage != 0 {
			lines = append(lines, formatValue(props.Voltage)+" V")
		}
		if props.Ze != 0 {
			lines = append(lines, "Ze "+formatValue(props.Ze)+" ohm")
		}
		drawLabels(pdf, x, y, w, lines)
	case diagram.MCBProps:
		pdf.Rect(x, y, w, h, "D")
		drawLabels(pdf, x, y, w, []string{
			props.Label,
			"MCB " + formatValue(props.Rating) + "A " + props.Curve,
			formatValue(props.KaRating) + " kA",
		})
	case diagram.RCBOProps:
		pdf.Rect(x, y, w, h, "D")
		pdf.Line(x, y+h*0.75, x+w, y+h*0.75)
		drawLabels(pdf, x, y, w, []string{
			props.Label,
			"RCBO " + formatValue(props.Rating) + "A " + props.Curve,
			formatValue(props.KaRating) + " kA",
			formatValue(props.RCDRating) + " mA type " + props.RCDType,
		})
	case diagram.CableProps:
		cx := x + w/2
		pdf.Line(cx, y, cx, y+h)
		pdf.SetXY(x+w, y+h/2-2)
		pdf.Cell(40, 4, fmt.Sprintf("%s/%s mm2  %s m", formatValue(props.LiveSize), formatValue(props.CPCSize), formatValue(props.Length)))
	case diagram.LoadProps:
		if props.Symbol == diagram.SymbolLight {
			r := w
			if h < r {
				r = h
			}
			pdf.Circle(x+w/2, y+h/2, r/2, "D")
		} else {
			pdf.Rect(x, y, w, h, "D")
		}
		lines := []string{props.Label, string(props.Symbol)}
		if props.Power != 0 {
			lines = append(lines, formatValue(props.Power)+" W")
		}
		drawLabels(pdf, x, y, w, lines)
	case diagram.EarthProps:
		drawEarth(pdf, x, y, w, h)
		if props.CPCSize != 0 {
			pdf.SetXY(x+w, y)
			pdf.Cell(30, 4, "CPC "+formatValue(props.CPCSize)+" mm2")
		}
	default:
		pdf.Rect(x, y, w, h, "D")
	}
}

// drawEarth draws three bars of decreasing width under a short stem.
func drawEarth(pdf *gofpdf.Fpdf, x, y, w, h float64) {
	cx := x + w/2
	pdf.SetDrawColor(0, 128, 0)
	pdf.Line(cx, y, cx, y+h*0.4)
	for i, frac := range []float64{1, 0.66, 0.33} {
		barY := y + h*0.4 + float64(i)*h*0.2
		half := w * frac / 2
		pdf.Line(cx-half, barY, cx+half, barY)
	}
	pdf.SetDrawColor(0, 0, 0)
}

func drawConnection(pdf *gofpdf.Fpdf, t pageTransform, conn diagram.Connection) {
	pdf.SetLineWidth(0.4)
	switch conn.Type {
	case diagram.ConnectionNeutral:
		pdf.SetDrawColor(0, 0, 255)
		pdf.SetDashPattern([]float64{2, 1}, 0)
	case diagram.ConnectionEarth:
		pdf.SetDrawColor(0, 128, 0)
		pdf.SetDashPattern([]float64{}, 0)
	default:
		pdf.SetDrawColor(0, 0, 0)
		pdf.SetDashPattern([]float64{}, 0)
	}
	pdf.Line(t.x(conn.From.X), t.y(conn.From.Y), t.x(conn.To.X), t.y(conn.To.Y))
}

func drawLabels(pdf *gofpdf.Fpdf, x, y, w float64, lines []string) {
	lineH := labelSize * 0.45
	for i, line := range lines {
		if line == "" {
			continue
		}
		pdf.SetXY(x, y+1+float64(i)*lineH)
		pdf.CellFormat(w, lineH, line, "", 0, "C", false, 0, "")
	}
}

// BuildScheduleXLSX renders the circuit schedule of a board.
func BuildScheduleXLSX(board *diagram.Board) ([]byte, error) {
	if board == nil {
		return nil, diagram.ErrNilBoard
	}
	f := excelize.NewFile()
	scheduleSheet := "schedule"
	boardSheet := "board"
	f.SetSheetName("Sheet1", scheduleSheet)
	if _, err := f.NewSheet(boardSheet); err != nil {
		return nil, err
	}

	headers := []string{
		"Circuit", "Description", "Load Type", "Symbol", "Device", "Rating (A)", "Curve",
		"kA", "RCD (mA)", "RCD Type", "Live (mm2)", "CPC (mm2)", "Length (m)", "Load (W)", "Ze (ohm)",
	}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(scheduleSheet, cell, header)
	}
	for i, c := range board.Circuits {
		row := i + 2
		device := "MCB"
		rcd := ""
		rcdType := ""
		if c.HasRCD() {
			device = "RCBO"
			rcd = formatValue(*c.RCDRating)
			rcdType = c.ResidualCurrentType()
		}
		values := []any{
			c.CircuitNumber,
			c.Name,
			c.LoadType,
			string(diagram.MapLoadType(c.LoadType)),
			device,
			c.ProtectionDevice.Rating,
			c.Curve(),
			c.ProtectionDevice.KaRating,
			rcd,
			rcdType,
			c.CableSize,
			c.CPCSize,
			c.CableLength,
			c.LoadPower,
			c.Ze,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			_ = f.SetCellValue(scheduleSheet, cell, value)
		}
	}

	_ = f.SetCellValue(boardSheet, "A1", "Distribution Board")
	_ = f.SetCellValue(boardSheet, "A3", "Name")
	_ = f.SetCellValue(boardSheet, "B3", board.Name)
	_ = f.SetCellValue(boardSheet, "A4", "Board ID")
	_ = f.SetCellValue(boardSheet, "B4", board.ID)
	_ = f.SetCellValue(boardSheet, "A5", "Main Switch (A)")
	_ = f.SetCellValue(boardSheet, "B5", board.EffectiveMainSwitchRating())
	_ = f.SetCellValue(boardSheet, "A6", "Ways")
	_ = f.SetCellValue(boardSheet, "B6", len(board.Circuits))
	_ = f.SetCellValue(boardSheet, "A7", "Author")
	_ = f.SetCellValue(boardSheet, "B7", board.Author)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
