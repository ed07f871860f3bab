package dto

// AcademicDataRequest identifies an academic period
type AcademicDataRequest struct {
	Trimester    string `json:"trimester" binding:"required" example:"FIRST"`
	AcademicYear int    `json:"academicYear" binding:"required" example:"2025"`
	Period       string `json:"period" binding:"required" example:"PERIOD_1"`
	Published    *bool  `json:"published"`
}
