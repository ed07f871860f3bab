package auth

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/uruhongore/academy/internal/app/models"
	"github.com/uruhongore/academy/internal/pkg/apperrors"
)

// Action is what a caller wants to do with a resource
type Action string

const (
	ActionRead   Action = "read"
	ActionManage Action = "manage"
	ActionRender Action = "render"
)

// ResourceKind names a guarded resource family
type ResourceKind string

const (
	ResourceUser         ResourceKind = "user"
	ResourceStudent      ResourceKind = "student"
	ResourceModule       ResourceKind = "module"
	ResourceAcademicData ResourceKind = "academic-data"
	ResourceReport       ResourceKind = "report"
	ResourceDocument     ResourceKind = "document"
)

// Resource is the target of an authorization check. Student is set when access depends on
// parent ownership, Published when it depends on the academic period being published.
type Resource struct {
	Kind      ResourceKind
	Student   *models.Student
	Published bool
}

// Caller is the authenticated identity taken from the access token
type Caller struct {
	UserID uuid.UUID
	Roles  []models.RoleType
}

// Has reports whether the caller holds role
func (c Caller) Has(role models.RoleType) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsStaff reports whether the caller is HEAD or TEACHER
func (c Caller) IsStaff() bool {
	return c.Has(models.RoleHead) || c.Has(models.RoleTeacher)
}

// Policy decides access from the caller's roles and the target resource
type Policy struct{}

// NewPolicy creates the authorization policy
func NewPolicy() *Policy {
	return &Policy{}
}

// Authorize returns nil when the caller may perform action on res, ErrPermissionDenied otherwise
func (p *Policy) Authorize(caller Caller, action Action, res Resource) error {
	if p.allowed(caller, action, res) {
		return nil
	}
	return apperrors.NewForbiddenError(fmt.Sprintf("%s cannot %s %s", rolesLabel(caller), action, res.Kind))
}

// CanSeeUnpublished reports whether reports of unpublished periods are visible to the caller
func (p *Policy) CanSeeUnpublished(caller Caller) bool {
	return caller.IsStaff()
}

func (p *Policy) allowed(caller Caller, action Action, res Resource) bool {
	if caller.Has(models.RoleHead) {
		return true
	}

	if caller.Has(models.RoleTeacher) {
		switch res.Kind {
		case ResourceReport:
			return true
		case ResourceDocument:
			return action != ActionManage
		case ResourceStudent, ResourceModule, ResourceAcademicData:
			if action == ActionRead {
				return true
			}
		}
	}

	if caller.Has(models.RoleParents) && action != ActionManage {
		switch res.Kind {
		case ResourceStudent:
			if ownsChild(caller, res) {
				return true
			}
		case ResourceReport, ResourceDocument:
			if ownsChild(caller, res) && res.Published {
				return true
			}
		case ResourceModule:
			return true
		case ResourceAcademicData:
			if res.Published {
				return true
			}
		}
	}

	if caller.Has(models.RoleStudent) && action == ActionRead {
		switch res.Kind {
		case ResourceModule:
			return true
		case ResourceAcademicData:
			return res.Published
		}
	}

	return false
}

func ownsChild(caller Caller, res Resource) bool {
	return res.Student != nil && res.Student.HasParent(caller.UserID)
}

func rolesLabel(caller Caller) string {
	if len(caller.Roles) == 0 {
		return "anonymous"
	}
	label := string(caller.Roles[0])
	for _, r := range caller.Roles[1:] {
		label += "," + string(r)
	}
	return label
}
