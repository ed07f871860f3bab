// Package bulletin builds report-card documents as a declarative model of
// paragraphs and tables, and paints that model to PDF.
package bulletin

import "github.com/uruhongore/academy/internal/app/models"

// Color is an RGB fill or text colour.
type Color struct {
	R, G, B int
}

var (
	ColorGreen      = Color{0, 176, 80}
	ColorBlue       = Color{0, 112, 192}
	ColorYellow     = Color{255, 192, 0}
	ColorRed        = Color{255, 0, 0}
	ColorWhite      = Color{255, 255, 255}
	ColorBlack      = Color{0, 0, 0}
	ColorGray       = Color{200, 200, 200}
	ColorLightGreen = Color{144, 238, 144}
)

// BandColor maps a grade colour to its fill.
func BandColor(c models.GradeColor) (Color, bool) {
	switch c {
	case models.GradeGreen:
		return ColorGreen, true
	case models.GradeBlue:
		return ColorBlue, true
	case models.GradeYellow:
		return ColorYellow, true
	case models.GradeRed:
		return ColorRed, true
	}
	return Color{}, false
}

// Align is horizontal text alignment.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Font is a Helvetica variant.
type Font struct {
	Bold bool
	Size float64
}

var (
	FontBold12   = Font{Bold: true, Size: 12}
	FontBold10   = Font{Bold: true, Size: 10}
	FontBold9    = Font{Bold: true, Size: 9}
	FontNormal10 = Font{Size: 10}
	FontNormal9  = Font{Size: 9}
	FontNormal8  = Font{Size: 8}
)

// Block is a vertically stacked element of a document.
type Block interface {
	block()
}

// Paragraph is free text. Newlines start new lines.
type Paragraph struct {
	Text        string
	Font        Font
	Align       Align
	SpaceBefore float64
	SpaceAfter  float64
}

// Cell is one table cell. A cell with Nested set draws that table inside itself.
// Height is a fixed minimum height; zero means fit to text.
type Cell struct {
	Text      string
	Font      Font
	Align     Align
	ColSpan   int
	RowSpan   int
	Fill      *Color
	TextColor *Color
	Padding   float64
	Height    float64
	NoBorder  bool
	Nested    *Table
}

// Row is a table row. Cells covered by a row span from an earlier row are omitted.
type Row struct {
	Cells []Cell
}

// Table lays cells out on relative column widths. WidthPercent is a share of the
// printable width, 100 when zero; narrower tables are centred.
type Table struct {
	Widths       []float64
	WidthPercent float64
	Rows         []Row
	SpaceBefore  float64
	SpaceAfter   float64
}

// Document is an A4 page sequence.
type Document struct {
	Title  string
	Blocks []Block
}

func (Paragraph) block() {}
func (*Table) block()    {}

// Add appends blocks.
func (d *Document) Add(blocks ...Block) {
	d.Blocks = append(d.Blocks, blocks...)
}

// Tables returns the document's top-level tables in order.
func (d *Document) Tables() []*Table {
	var tables []*Table
	for _, b := range d.Blocks {
		if t, ok := b.(*Table); ok {
			tables = append(tables, t)
		}
	}
	return tables
}

// Texts returns every text of the document, top to bottom, including nested tables.
func (d *Document) Texts() []string {
	var out []string
	for _, b := range d.Blocks {
		switch v := b.(type) {
		case Paragraph:
			out = append(out, v.Text)
		case *Table:
			out = append(out, v.texts()...)
		}
	}
	return out
}

func (t *Table) texts() []string {
	var out []string
	for _, r := range t.Rows {
		for _, c := range r.Cells {
			if c.Nested != nil {
				out = append(out, c.Nested.texts()...)
				continue
			}
			out = append(out, c.Text)
		}
	}
	return out
}

func (c Cell) colSpan() int {
	if c.ColSpan < 1 {
		return 1
	}
	return c.ColSpan
}

func (c Cell) rowSpan() int {
	if c.RowSpan < 1 {
		return 1
	}
	return c.RowSpan
}
