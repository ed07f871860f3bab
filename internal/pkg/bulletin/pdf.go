package bulletin

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin     = 36.0
	lineFactor     = 1.2
	defaultPadding = 2.0
	defaultSize    = 10.0
	fontFamily     = "Helvetica"
)

// Render paints doc onto A4 pages and returns the PDF bytes.
func Render(doc *Document) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.SetCellMargin(0)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("academy bulletin", true)
	pdf.AddPage()

	p := &painter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	for _, b := range doc.Blocks {
		switch v := b.(type) {
		case Paragraph:
			p.paragraph(v)
		case *Table:
			p.table(v)
		}
		if pdf.Err() {
			return nil, fmt.Errorf("painting %T: %w", b, pdf.Error())
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type painter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

type placedCell struct {
	cell     Cell
	row, col int
	x, w     float64
}

type tableLayout struct {
	cells   []placedCell
	heights []float64
}

func (l tableLayout) height() float64 {
	total := 0.0
	for _, h := range l.heights {
		total += h
	}
	return total
}

func (l tableLayout) rowTop(row int) float64 {
	top := 0.0
	for i := 0; i < row; i++ {
		top += l.heights[i]
	}
	return top
}

func (p *painter) printableWidth() float64 {
	w, _ := p.pdf.GetPageSize()
	left, _, right, _ := p.pdf.GetMargins()
	return w - left - right
}

// ensure starts a new page when h does not fit below the cursor.
func (p *painter) ensure(h float64) {
	_, pageH := p.pdf.GetPageSize()
	if p.pdf.GetY()+h > pageH-pageMargin {
		p.pdf.AddPage()
	}
}

func (p *painter) setFont(f Font) {
	style := ""
	if f.Bold {
		style = "B"
	}
	p.pdf.SetFont(fontFamily, style, fontSize(f))
}

func fontSize(f Font) float64 {
	if f.Size <= 0 {
		return defaultSize
	}
	return f.Size
}

func lineHeight(f Font) float64 {
	return fontSize(f) * lineFactor
}

// lines breaks text on newlines and wraps each part to w using the current font.
// Runes outside Latin-1 are replaced since the core fonts cannot draw them.
func (p *painter) lines(text string, w float64) []string {
	if text == "" {
		return nil
	}
	text = strings.Map(func(r rune) rune {
		if r > 0xFF {
			return '?'
		}
		return r
	}, text)

	var out []string
	for _, part := range strings.Split(text, "\n") {
		if part == "" || w <= 0 {
			out = append(out, part)
			continue
		}
		out = append(out, p.pdf.SplitText(part, w)...)
	}
	return out
}

func alignString(a Align) string {
	switch a {
	case AlignCenter:
		return "C"
	case AlignRight:
		return "R"
	}
	return "L"
}

func (p *painter) paragraph(para Paragraph) {
	p.pdf.SetY(p.pdf.GetY() + para.SpaceBefore)
	p.setFont(para.Font)
	p.pdf.SetTextColor(0, 0, 0)

	lh := lineHeight(para.Font)
	lines := p.lines(para.Text, p.printableWidth())
	p.ensure(float64(len(lines)) * lh)

	left, _, _, _ := p.pdf.GetMargins()
	for _, line := range lines {
		p.pdf.SetX(left)
		p.pdf.CellFormat(p.printableWidth(), lh, p.tr(line), "", 1, alignString(para.Align), false, 0, "")
	}
	p.pdf.SetY(p.pdf.GetY() + para.SpaceAfter)
}

func (p *painter) table(t *Table) {
	total := p.printableWidth()
	pct := t.WidthPercent
	if pct <= 0 || pct > 100 {
		pct = 100
	}
	width := total * pct / 100
	left, _, _, _ := p.pdf.GetMargins()
	x := left + (total-width)/2

	p.pdf.SetY(p.pdf.GetY() + t.SpaceBefore)
	l := p.layout(t, width)

	// Rows tied together by a row span are kept on one page.
	for start := 0; start < len(l.heights); {
		end := start + 1
		for grown := true; grown; {
			grown = false
			for _, pc := range l.cells {
				if pc.row >= start && pc.row < end && pc.row+pc.cell.rowSpan() > end {
					end = pc.row + pc.cell.rowSpan()
					grown = true
				}
			}
		}
		if end > len(l.heights) {
			end = len(l.heights)
		}

		blockH := 0.0
		for i := start; i < end; i++ {
			blockH += l.heights[i]
		}
		p.ensure(blockH)

		y := p.pdf.GetY() - l.rowTop(start)
		for _, pc := range l.cells {
			if pc.row >= start && pc.row < end {
				p.paintCell(l, pc, x, y)
			}
		}
		p.pdf.SetY(y + l.rowTop(end))
		start = end
	}

	p.pdf.SetY(p.pdf.GetY() + t.SpaceAfter)
}

// layout assigns every cell its grid position and computes row heights.
func (p *painter) layout(t *Table, width float64) tableLayout {
	weights := t.Widths
	if len(weights) == 0 {
		weights = []float64{1}
	}
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	cols := make([]float64, len(weights))
	offsets := make([]float64, len(weights)+1)
	for i, w := range weights {
		cols[i] = width * w / sum
		offsets[i+1] = offsets[i] + cols[i]
	}

	occupied := make(map[[2]int]bool)
	l := tableLayout{heights: make([]float64, len(t.Rows))}
	for r, row := range t.Rows {
		c := 0
		for _, cell := range row.Cells {
			for occupied[[2]int{r, c}] {
				c++
			}
			if c >= len(cols) {
				break
			}
			span := cell.colSpan()
			if c+span > len(cols) {
				span = len(cols) - c
			}
			for dr := 0; dr < cell.rowSpan(); dr++ {
				for dc := 0; dc < span; dc++ {
					occupied[[2]int{r + dr, c + dc}] = true
				}
			}
			l.cells = append(l.cells, placedCell{cell: cell, row: r, col: c, x: offsets[c], w: offsets[c+span] - offsets[c]})
			c += span
		}
	}

	for _, pc := range l.cells {
		if pc.cell.rowSpan() == 1 {
			if h := p.cellHeight(pc.cell, pc.w); h > l.heights[pc.row] {
				l.heights[pc.row] = h
			}
		}
	}
	for _, pc := range l.cells {
		rs := pc.cell.rowSpan()
		if rs == 1 {
			continue
		}
		last := pc.row + rs - 1
		if last >= len(l.heights) {
			last = len(l.heights) - 1
		}
		spanned := 0.0
		for i := pc.row; i <= last; i++ {
			spanned += l.heights[i]
		}
		if need := p.cellHeight(pc.cell, pc.w); need > spanned {
			l.heights[last] += need - spanned
		}
	}
	return l
}

func padding(c Cell) float64 {
	if c.Padding > 0 {
		return c.Padding
	}
	return defaultPadding
}

func (p *painter) cellHeight(c Cell, w float64) float64 {
	if c.Nested != nil {
		return p.layout(c.Nested, w).height()
	}
	p.setFont(c.Font)
	pad := padding(c)
	n := len(p.lines(c.Text, w-2*pad))
	if n == 0 {
		n = 1
	}
	h := float64(n)*lineHeight(c.Font) + 2*pad
	if c.Height > h {
		h = c.Height
	}
	return h
}

func (p *painter) paintCell(l tableLayout, pc placedCell, x0, y0 float64) {
	c := pc.cell
	x := x0 + pc.x
	y := y0 + l.rowTop(pc.row)
	last := pc.row + c.rowSpan()
	if last > len(l.heights) {
		last = len(l.heights)
	}
	h := l.rowTop(last) - l.rowTop(pc.row)

	if c.Fill != nil {
		p.pdf.SetFillColor(c.Fill.R, c.Fill.G, c.Fill.B)
		p.pdf.Rect(x, y, pc.w, h, "F")
	}

	if c.Nested != nil {
		nested := p.layout(c.Nested, pc.w)
		if n := len(nested.heights); n > 0 && nested.height() < h {
			nested.heights[n-1] += h - nested.height()
		}
		for _, inner := range nested.cells {
			p.paintCell(nested, inner, x, y)
		}
	} else {
		p.setFont(c.Font)
		color := ColorBlack
		if c.TextColor != nil {
			color = *c.TextColor
		}
		p.pdf.SetTextColor(color.R, color.G, color.B)

		pad := padding(c)
		lh := lineHeight(c.Font)
		lines := p.lines(c.Text, pc.w-2*pad)
		ty := y + (h-float64(len(lines))*lh)/2
		for _, line := range lines {
			p.pdf.SetXY(x+pad, ty)
			p.pdf.CellFormat(pc.w-2*pad, lh, p.tr(line), "", 0, alignString(c.Align), false, 0, "")
			ty += lh
		}
		p.pdf.SetTextColor(0, 0, 0)
	}

	if !c.NoBorder {
		p.pdf.SetDrawColor(0, 0, 0)
		p.pdf.Rect(x, y, pc.w, h, "D")
	}
}
