package bulletin

import (
	"strconv"
	"strings"

	"github.com/uruhongore/academy/internal/app/models"
)

const (
	defaultTitleTrimester = "MI-TRIMESTRE"
	defaultTableTrimester = "I TRIMESTRE"
	signatureDots         = "................................."
)

// School is the institution block printed at the top of every bulletin.
type School struct {
	Name            string
	Contact         string
	District        string
	DistrictVillage string
	Sector          string
	SectorVillage   string
}

// Line is one subject row of a simple bulletin. A nil Score prints an empty, unfilled cell.
type Line struct {
	Domain  string
	Subject string
	Score   *float64
}

// Simple is the data of a one-period bulletin.
type Simple struct {
	School      School
	StudentName string
	Classe      string
	Annee       string
	Trimester   string
	Comment     string
	Lines       []Line
}

// GridRow is one workshop of a grid bulletin with an optional score per trimester.
type GridRow struct {
	Module string
	Scores [3]*int
}

// Grid is the data of a whole-year bulletin.
type Grid struct {
	School      School
	StudentName string
	Classe      string
	Annee       string
	Rows        []GridRow
}

// BuildSimple lays out a one-period bulletin: header, subject table with the grading row,
// comment and signatures.
func BuildSimple(b Simple) *Document {
	doc := &Document{Title: "Bulletin " + b.StudentName}
	addHeader(doc, b.School, b.Classe, b.Annee)

	title := b.Trimester
	if strings.TrimSpace(title) == "" {
		title = defaultTitleTrimester
	}
	doc.Add(
		Paragraph{Text: "BULLETIN DU    " + strings.ToUpper(title), Font: FontBold12, Align: AlignCenter, SpaceAfter: 15},
		&Table{
			Widths:     []float64{1, 2},
			SpaceAfter: 10,
			Rows: []Row{{Cells: []Cell{
				{Text: "NOM DE L'ELEVE", Font: FontBold10, Padding: 5},
				{Text: b.StudentName, Font: FontNormal10, Padding: 5},
			}}},
		},
		subjectTable(b.Trimester, b.Lines),
		commentTable(b.Comment),
	)
	addSignatures(doc)
	return doc
}

// BuildGrid lays out the ATELIERS x TRIMESTRE grid with colour-filled score cells.
func BuildGrid(g Grid) *Document {
	doc := &Document{Title: "Bulletin " + g.StudentName}
	addHeader(doc, g.School, g.Classe, g.Annee)
	doc.Add(Paragraph{Text: "NOM DE L'ELEVE: " + g.StudentName, Font: FontBold10, SpaceAfter: 15})

	gray, lightGreen := ColorGray, ColorLightGreen
	header := Row{Cells: []Cell{{Text: "ATELIERS", Font: FontBold9, Align: AlignCenter, Fill: &gray, Padding: 5}}}
	for _, t := range []models.Trimester{models.TrimesterFirst, models.TrimesterSecond, models.TrimesterThird} {
		header.Cells = append(header.Cells, Cell{Text: t.Label(), Font: FontBold9, Align: AlignCenter, Fill: &lightGreen, Padding: 5})
	}

	grid := &Table{Widths: []float64{4, 2, 2, 2}, SpaceAfter: 15, Rows: []Row{header}}
	for _, r := range g.Rows {
		row := Row{Cells: []Cell{{Text: r.Module, Font: FontNormal9, Padding: 5}}}
		for _, score := range r.Scores {
			row.Cells = append(row.Cells, gridCell(score))
		}
		grid.Rows = append(grid.Rows, row)
	}
	doc.Add(grid)

	doc.Add(
		Paragraph{Text: "SYSTEME DE GRADE", Font: FontBold9, SpaceBefore: 10, SpaceAfter: 5},
		&Table{Widths: []float64{1, 1, 1, 1}, WidthPercent: 80, SpaceAfter: 15, Rows: []Row{legendRow()}},
	)
	addSignatures(doc)
	return doc
}

func gridCell(score *int) Cell {
	white := ColorWhite
	if score == nil {
		return Cell{Height: 25, Padding: 5, Fill: &white}
	}
	fill, _ := BandColor(models.ClassifyScore(*score))
	return Cell{
		Text:      strconv.Itoa(*score),
		Font:      FontBold10,
		Align:     AlignCenter,
		Height:    25,
		Padding:   5,
		Fill:      &fill,
		TextColor: &white,
	}
}

func addHeader(doc *Document, s School, classe, annee string) {
	doc.Add(
		&Table{Widths: []float64{1, 1}, SpaceAfter: 10, Rows: []Row{{Cells: []Cell{
			{Text: s.Name, Font: FontBold12, NoBorder: true},
			{NoBorder: true},
		}}}},
		Paragraph{Text: s.Contact, Font: FontNormal10, Align: AlignCenter, SpaceAfter: 15},
		&Table{Widths: []float64{1, 1}, SpaceAfter: 10, Rows: []Row{{Cells: []Cell{
			{Text: "DISTRICT: " + s.District + "\nVILLAGE: " + s.DistrictVillage, Font: FontBold10, NoBorder: true},
			{Text: "SECTEUR: " + s.Sector + "\nVILLAGE: " + s.SectorVillage, Font: FontBold10, NoBorder: true},
		}}}},
		&Table{Widths: []float64{1, 1}, SpaceAfter: 10, Rows: []Row{{Cells: []Cell{
			{Text: "CLASSE: " + classe, Font: FontBold10, NoBorder: true},
			{Text: "ANNEE SCOLAIRE: " + annee, Font: FontBold10, Align: AlignRight, NoBorder: true},
		}}}},
	)
}

// subjectTable merges consecutive lines of the same domain into one row-spanning cell.
// A line without a subject prints its domain alone in the first column.
func subjectTable(trimester string, lines []Line) *Table {
	header := defaultTableTrimester
	if strings.TrimSpace(trimester) != "" {
		header = strings.ToUpper(trimester)
	}
	green := ColorGreen
	t := &Table{
		Widths:     []float64{4, 3, 3},
		SpaceAfter: 15,
		Rows: []Row{{Cells: []Cell{
			{Text: "DOMAINE D'APPRENTISSAGE", Font: FontBold9, Align: AlignCenter, ColSpan: 2},
			{Text: header, Font: FontBold9, Align: AlignCenter, Fill: &green},
		}}},
	}

	for i := 0; i < len(lines); {
		span := 1
		for i+span < len(lines) && lines[i].Domain != "" && lines[i+span].Domain == lines[i].Domain {
			span++
		}
		for j := 0; j < span; j++ {
			line := lines[i+j]
			row := Row{}
			if j == 0 {
				row.Cells = append(row.Cells, Cell{Text: line.Domain, Font: FontNormal9, Padding: 5, RowSpan: span})
			}
			row.Cells = append(row.Cells,
				Cell{Text: line.Subject, Font: FontNormal9, Padding: 5},
				scoreCell(line.Score),
			)
			t.Rows = append(t.Rows, row)
		}
		i += span
	}

	t.Rows = append(t.Rows, Row{Cells: []Cell{
		{Text: "SYSTEME DE GRADE", Font: FontBold9, Padding: 5},
		{ColSpan: 2, Nested: &Table{Widths: []float64{1, 1, 1, 1}, Rows: []Row{legendRow()}}},
	}})
	return t
}

func scoreCell(score *float64) Cell {
	c := Cell{Font: FontNormal9, Align: AlignCenter, Padding: 5}
	if score == nil {
		return c
	}
	c.Text = FormatScore(*score)
	if fill, ok := BandColor(models.ClassifyScore(int(*score))); ok {
		c.Fill = &fill
	}
	return c
}

// FormatScore prints whole scores without decimals.
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func legendRow() Row {
	row := Row{}
	for _, band := range models.GradeBands {
		fill, _ := BandColor(band.Color)
		row.Cells = append(row.Cells, Cell{Text: band.Label(), Font: FontNormal8, Align: AlignCenter, Padding: 5, Fill: &fill})
	}
	return row
}

func commentTable(comment string) *Table {
	return &Table{
		Widths:      []float64{1},
		SpaceBefore: 10,
		SpaceAfter:  5,
		Rows: []Row{
			{Cells: []Cell{{Text: "Commentaire", Font: FontBold9, Padding: 5}}},
			{Cells: []Cell{{Text: comment, Font: FontNormal9, Padding: 5, Height: 30}}},
		},
	}
}

func addSignatures(doc *Document) {
	doc.Add(
		&Table{Widths: []float64{1, 1}, SpaceBefore: 10, SpaceAfter: 20, Rows: []Row{{Cells: []Cell{
			{Text: "Signature des parents: " + signatureDots, Font: FontNormal9, Height: 30, NoBorder: true},
			{Text: "Signature de Titulaire: " + signatureDots, Font: FontNormal9, Height: 30, NoBorder: true},
		}}}},
		Paragraph{
			Text:  "NOM DE LA DIRECTRICE: " + signatureDots + "\nSIGNATURE ET CACHET DE L'ECOLE",
			Font:  FontBold10,
			Align: AlignRight,
		},
	)
}
