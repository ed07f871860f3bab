package bulletin

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchool = School{
	Name:            "URUHONGORE ACADEMY",
	Contact:         "TEL: 0784696074/0786064017",
	District:        "KICUKIRO",
	DistrictVillage: "NYANZA",
	Sector:          "GATENGA",
	SectorVillage:   "JURU",
}

func score(v float64) *float64 { return &v }
func intScore(v int) *int      { return &v }

func TestBuildSimpleHeaderAndTitle(t *testing.T) {
	doc := BuildSimple(Simple{School: testSchool, StudentName: "Aline Uwase", Classe: "Nursery-2", Annee: "2025", Trimester: "TRIMESTRE II"})
	texts := doc.Texts()

	assert.Contains(t, texts, "URUHONGORE ACADEMY")
	assert.Contains(t, texts, "TEL: 0784696074/0786064017")
	assert.Contains(t, texts, "DISTRICT: KICUKIRO\nVILLAGE: NYANZA")
	assert.Contains(t, texts, "SECTEUR: GATENGA\nVILLAGE: JURU")
	assert.Contains(t, texts, "CLASSE: Nursery-2")
	assert.Contains(t, texts, "ANNEE SCOLAIRE: 2025")
	assert.Contains(t, texts, "BULLETIN DU    TRIMESTRE II")
	assert.Contains(t, texts, "NOM DE L'ELEVE")
	assert.Contains(t, texts, "Aline Uwase")
	assert.Contains(t, texts, "Commentaire")
	assert.Contains(t, texts, "NOM DE LA DIRECTRICE: .................................\nSIGNATURE ET CACHET DE L'ECOLE")
}

func TestBuildSimpleDefaultsTrimester(t *testing.T) {
	doc := BuildSimple(Simple{School: testSchool, StudentName: "X"})
	texts := doc.Texts()
	assert.Contains(t, texts, "BULLETIN DU    MI-TRIMESTRE")
	assert.Contains(t, texts, "I TRIMESTRE")
}

func findSubjectTable(t *testing.T, doc *Document) *Table {
	t.Helper()
	for _, tbl := range doc.Tables() {
		if len(tbl.Rows) > 0 && tbl.Rows[0].Cells[0].Text == "DOMAINE D'APPRENTISSAGE" {
			return tbl
		}
	}
	t.Fatal("subject table not found")
	return nil
}

func TestSubjectTableColoursScores(t *testing.T) {
	doc := BuildSimple(Simple{
		School:    testSchool,
		Trimester: "TRIMESTRE I",
		Lines: []Line{
			{Domain: "Langage", Subject: "Pré- lecture", Score: score(80)},
			{Domain: "Langage", Subject: "Pré- écriture", Score: score(79)},
			{Domain: "Calcul", Subject: "Nombres", Score: score(50)},
			{Domain: "Art", Subject: "Dessin", Score: score(49)},
			{Domain: "Art", Subject: "Musique"},
		},
	})
	tbl := findSubjectTable(t, doc)

	require.Len(t, tbl.Rows, 7)
	header := tbl.Rows[0].Cells
	assert.Equal(t, 2, header[0].ColSpan)
	assert.Equal(t, "TRIMESTRE I", header[1].Text)
	assert.Equal(t, ColorGreen, *header[1].Fill)

	// first row of a merged domain carries the span, the next one omits the domain cell
	assert.Equal(t, "Langage", tbl.Rows[1].Cells[0].Text)
	assert.Equal(t, 2, tbl.Rows[1].Cells[0].RowSpan)
	assert.Len(t, tbl.Rows[2].Cells, 2)

	assert.Equal(t, "80", tbl.Rows[1].Cells[2].Text)
	assert.Equal(t, ColorGreen, *tbl.Rows[1].Cells[2].Fill)
	assert.Equal(t, ColorBlue, *tbl.Rows[2].Cells[1].Fill)
	assert.Equal(t, ColorYellow, *tbl.Rows[3].Cells[2].Fill)
	assert.Equal(t, ColorRed, *tbl.Rows[4].Cells[2].Fill)

	empty := tbl.Rows[5].Cells[1]
	assert.Equal(t, "", empty.Text)
	assert.Nil(t, empty.Fill)

	grading := tbl.Rows[6].Cells
	assert.Equal(t, "SYSTEME DE GRADE", grading[0].Text)
	require.NotNil(t, grading[1].Nested)
	assert.Equal(t, 2, grading[1].ColSpan)
	legend := grading[1].Nested.Rows[0].Cells
	require.Len(t, legend, 4)
	assert.Equal(t, "80-100", legend[0].Text)
	assert.Equal(t, "0-49", legend[3].Text)
	assert.Equal(t, ColorRed, *legend[3].Fill)
}

func TestCurriculumLines(t *testing.T) {
	lines := CurriculumLines(map[string]float64{"math": 85, "musique": 42.5})
	require.Len(t, lines, len(NurseryCurriculum))

	assert.Equal(t, "Pré- Mathématiques", lines[0].Domain)
	assert.Equal(t, 85.0, *lines[0].Score)
	assert.Nil(t, lines[1].Score)
	assert.Equal(t, 42.5, *lines[11].Score)

	tbl := findSubjectTable(t, BuildSimple(Simple{School: testSchool, Lines: lines}))
	spans := map[string]int{}
	for _, row := range tbl.Rows[1 : len(tbl.Rows)-1] {
		if len(row.Cells) == 3 {
			spans[row.Cells[0].Text] = row.Cells[0].RowSpan
		}
	}
	assert.Equal(t, 1, spans["Pré- Mathématiques"])
	assert.Equal(t, 2, spans["Langage"])
	assert.Equal(t, 3, spans["Développement physiques et sanitaire"])
	assert.Equal(t, 4, spans["Art et Culture"])
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "85", FormatScore(85))
	assert.Equal(t, "42.5", FormatScore(42.5))
}

func TestBuildGrid(t *testing.T) {
	doc := BuildGrid(Grid{
		School:      testSchool,
		StudentName: "Aline Uwase",
		Classe:      "N/A",
		Annee:       "2025",
		Rows: []GridRow{
			{Module: "Dessin", Scores: [3]*int{intScore(90), nil, intScore(65)}},
		},
	})
	assert.Contains(t, doc.Texts(), "NOM DE L'ELEVE: Aline Uwase")
	assert.Contains(t, doc.Texts(), "SYSTEME DE GRADE")

	var grid *Table
	for _, tbl := range doc.Tables() {
		if tbl.Rows[0].Cells[0].Text == "ATELIERS" {
			grid = tbl
		}
	}
	require.NotNil(t, grid)
	assert.Equal(t, []float64{4, 2, 2, 2}, grid.Widths)
	assert.Equal(t, ColorGray, *grid.Rows[0].Cells[0].Fill)
	assert.Equal(t, "TRIMESTRE III", grid.Rows[0].Cells[3].Text)
	assert.Equal(t, ColorLightGreen, *grid.Rows[0].Cells[1].Fill)

	cells := grid.Rows[1].Cells
	assert.Equal(t, "90", cells[1].Text)
	assert.Equal(t, ColorGreen, *cells[1].Fill)
	assert.Equal(t, ColorWhite, *cells[1].TextColor)
	assert.Equal(t, 25.0, cells[1].Height)
	assert.Equal(t, "", cells[2].Text)
	assert.Equal(t, ColorWhite, *cells[2].Fill)
	assert.Equal(t, ColorYellow, *cells[3].Fill)

	tables := doc.Tables()
	var legend *Table
	for _, tbl := range tables {
		if tbl.WidthPercent == 80 {
			legend = tbl
		}
	}
	require.NotNil(t, legend)
	assert.Len(t, legend.Rows[0].Cells, 4)
}

func TestRenderProducesPDF(t *testing.T) {
	doc := BuildSimple(Simple{
		School:      testSchool,
		StudentName: "Aline Uwase",
		Classe:      "Nursery-2",
		Annee:       "2025",
		Trimester:   "TRIMESTRE I",
		Comment:     "Très bon travail",
		Lines:       CurriculumLines(map[string]float64{"math": 85}),
	})
	out, err := Render(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	grid, err := Render(BuildGrid(Grid{School: testSchool, StudentName: "A", Rows: []GridRow{{Module: "Dessin"}}}))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(grid, []byte("%PDF")))
}

func TestRenderBreaksLongTablesAcrossPages(t *testing.T) {
	lines := make([]Line, 0, 80)
	for i := 0; i < 80; i++ {
		lines = append(lines, Line{Domain: fmt.Sprintf("Domaine %d", i/2), Subject: "Sujet", Score: score(float64(i))})
	}
	out, err := Render(BuildSimple(Simple{School: testSchool, Lines: lines}))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
