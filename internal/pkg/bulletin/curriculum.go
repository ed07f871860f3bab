package bulletin

// CurriculumEntry is one row of the fixed nursery curriculum. Key indexes the posted grades.
type CurriculumEntry struct {
	Domain  string
	Subject string
	Key     string
}

// NurseryCurriculum is printed when an ad-hoc bulletin carries no module grades.
var NurseryCurriculum = []CurriculumEntry{
	{Domain: "Pré- Mathématiques", Key: "math"},
	{Domain: "Langage", Subject: "Pré- lecture", Key: "lecture"},
	{Domain: "Langage", Subject: "Pré- écriture", Key: "ecriture"},
	{Domain: "Exploratrice découverte", Subject: "Comportement", Key: "decouverte"},
	{Domain: "Développement social et emotionnel", Key: "comportement"},
	{Domain: "Développement physiques et sanitaire", Subject: "Gymnastiques", Key: "gymnastiques"},
	{Domain: "Développement physiques et sanitaire", Subject: "Structuration spatiale", Key: "spatiale"},
	{Domain: "Développement physiques et sanitaire", Subject: "Vie pratique", Key: "viePratique"},
	{Domain: "Art et Culture", Subject: "Dessin", Key: "dessin"},
	{Domain: "Art et Culture", Subject: "Coloriage", Key: "coloriage"},
	{Domain: "Art et Culture", Subject: "Modelage", Key: "modelage"},
	{Domain: "Art et Culture", Subject: "Musique", Key: "musique"},
}

// CurriculumLines fills the nursery curriculum from scores keyed by CurriculumEntry.Key.
// Missing keys leave the score cell empty.
func CurriculumLines(scores map[string]float64) []Line {
	lines := make([]Line, 0, len(NurseryCurriculum))
	for _, e := range NurseryCurriculum {
		line := Line{Domain: e.Domain, Subject: e.Subject}
		if v, ok := scores[e.Key]; ok {
			v := v
			line.Score = &v
		}
		lines = append(lines, line)
	}
	return lines
}
