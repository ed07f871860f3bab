package services

import (
	"github.com/rs/zerolog"
	"github.com/uruhongore/academy/internal/pkg/auth"
	"github.com/uruhongore/academy/internal/pkg/bulletin"
)

// Stores groups the persistence dependencies of the services
type Stores struct {
	Users        UserStore
	Students     StudentStore
	Modules      ModuleStore
	AcademicData AcademicDataStore
	Reports      ReportStore
}

// Services holds every service of the application
type Services struct {
	AuthService         *AuthService
	UserService         UserService
	StudentService      StudentService
	ModuleService       ModuleService
	AcademicDataService AcademicDataService
	ReportService       ReportService
	DocumentService     DocumentService
}

// NewServices wires the services. photos and events may be nil.
func NewServices(
	stores Stores,
	jwtService *auth.JWTService,
	photos PhotoStore,
	events EventPublisher,
	school bulletin.School,
	logger zerolog.Logger,
) *Services {
	return &Services{
		AuthService:         NewAuthService(stores.Users, jwtService, logger.With().Str("service", "auth").Logger()),
		UserService:         NewUserService(stores.Users),
		StudentService:      NewStudentService(stores.Students, stores.Users, stores.Modules, photos, logger.With().Str("service", "student").Logger()),
		ModuleService:       NewModuleService(stores.Modules, logger.With().Str("service", "module").Logger()),
		AcademicDataService: NewAcademicDataService(stores.AcademicData, events, logger.With().Str("service", "academic_data").Logger()),
		ReportService: NewReportService(stores.Reports, stores.Students, stores.Modules, stores.AcademicData, stores.Users,
			logger.With().Str("service", "report").Logger()),
		DocumentService: NewDocumentService(stores.Reports, stores.Students, stores.Modules, school,
			logger.With().Str("service", "document").Logger()),
	}
}
