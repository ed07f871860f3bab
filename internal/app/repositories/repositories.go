package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	StudentRepository      *StudentRepository
	ModuleRepository       *ModuleRepository
	AcademicDataRepository *AcademicDataRepository
	ReportRepository       *ReportRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(db),
		StudentRepository:      NewStudentRepository(db),
		ModuleRepository:       NewModuleRepository(db),
		AcademicDataRepository: NewAcademicDataRepository(db),
		ReportRepository:       NewReportRepository(db),
	}
}
