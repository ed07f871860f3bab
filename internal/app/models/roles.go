package models

import "strings"

// RoleType defines the user role type
type RoleType string

const (
	RoleHead    RoleType = "HEAD"
	RoleTeacher RoleType = "TEACHER"
	RoleParents RoleType = "PARENTS"
	RoleStudent RoleType = "STUDENT"
)

// AllRoles lists every role in declaration order.
var AllRoles = []RoleType{RoleHead, RoleTeacher, RoleParents, RoleStudent}

// ParseRole accepts a role name in any case. "PARENT" is accepted for PARENTS.
func ParseRole(s string) (RoleType, bool) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if v == "PARENT" {
		v = string(RoleParents)
	}
	for _, r := range AllRoles {
		if string(r) == v {
			return r, true
		}
	}
	return "", false
}

// IsStaff reports whether the role belongs to school staff.
func (r RoleType) IsStaff() bool {
	return r == RoleHead || r == RoleTeacher
}
