package dto

// ModuleGrade is one subject line of an ad-hoc bulletin
type ModuleGrade struct {
	ModuleName string `json:"moduleName" binding:"required" example:"Pré-lecture"`
	Category   string `json:"category" example:"Langage"`
	Score      *int   `json:"score" binding:"omitempty,min=0,max=100" example:"88"`
}

// SubjectGrade is one entry of the fixed nursery curriculum
type SubjectGrade struct {
	SubjectName string  `json:"subjectName"`
	Score       float64 `json:"score" binding:"min=0,max=100"`
}

// BulletinRequest describes a bulletin built from posted data only.
// When ModuleGrades is empty the nursery curriculum is rendered from Grades.
type BulletinRequest struct {
	StudentName  string                  `json:"studentName" binding:"required" example:"Aline Uwase"`
	Classe       string                  `json:"classe" example:"Nursery-2"`
	Annee        string                  `json:"annee" example:"2025/2026"`
	Trimester    string                  `json:"trimester" example:"I TRIMESTRE"`
	Comment      string                  `json:"comment"`
	Grades       map[string]SubjectGrade `json:"grades" binding:"omitempty,dive"`
	ModuleGrades []ModuleGrade           `json:"moduleGrades" binding:"omitempty,dive"`
}
