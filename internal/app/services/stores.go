package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/uruhongore/academy/internal/app/models"
	"github.com/uruhongore/academy/internal/pkg/websocket"
)

// UserStore persists users and their roles
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.User, error)
	List(ctx context.Context, role *models.RoleType) ([]*models.User, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// StudentStore persists students with their parent and module links
type StudentStore interface {
	Create(ctx context.Context, s *models.Student) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error)
	List(ctx context.Context) ([]*models.Student, error)
	ListByParent(ctx context.Context, parentID uuid.UUID) ([]*models.Student, error)
	ListByClassLevel(ctx context.Context, level models.ClassLevel) ([]*models.Student, error)
	Count(ctx context.Context) (int, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	AddParent(ctx context.Context, studentID, parentID uuid.UUID) error
	AddModule(ctx context.Context, studentID, moduleID uuid.UUID) error
	UpdateProfilePhoto(ctx context.Context, studentID uuid.UUID, url *string) error
}

// ModuleStore persists modules
type ModuleStore interface {
	Create(ctx context.Context, m *models.Module) error
	CreateBulk(ctx context.Context, modules []*models.Module) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Module, error)
	GetByName(ctx context.Context, name string) (*models.Module, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Module, error)
	ListActive(ctx context.Context) ([]*models.Module, error)
	ListAll(ctx context.Context) ([]*models.Module, error)
	Update(ctx context.Context, m *models.Module) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AcademicDataStore persists academic periods
type AcademicDataStore interface {
	Create(ctx context.Context, a *models.AcademicData) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.AcademicData, error)
	FindBySlot(ctx context.Context, t models.Trimester, year int, p models.Period) (*models.AcademicData, error)
	List(ctx context.Context) ([]*models.AcademicData, error)
	ListPublished(ctx context.Context) ([]*models.AcademicData, error)
	Update(ctx context.Context, a *models.AcademicData) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReportStore persists reports. Upsert is keyed on the (student, module, academic data) triple.
// Find returns reports with their student, module and academic data loaded, ordered by
// period then module display order.
type ReportStore interface {
	Upsert(ctx context.Context, r *models.Report) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error)
	FindByTriple(ctx context.Context, studentID, moduleID, academicDataID uuid.UUID) (*models.Report, error)
	Find(ctx context.Context, filter models.ReportFilter) ([]*models.Report, error)
	Update(ctx context.Context, r *models.Report) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PhotoStore keeps profile photos
type PhotoStore interface {
	Upload(ctx context.Context, name string, data []byte) (string, error)
	Delete(ctx context.Context, url string) error
}

// EventPublisher pushes change notifications to connected clients
type EventPublisher interface {
	Publish(event *websocket.Event)
}
