package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uruhongore/academy/internal/pkg/apperrors"
)

func TestParseClassLevel(t *testing.T) {
	tests := []struct {
		in   string
		want ClassLevel
	}{
		{"NURSERY_1", ClassNursery1},
		{"nursery_2", ClassNursery2},
		{"Nursery 3", ClassNursery3},
		{"nursery-1", ClassNursery1},
		{"Nursery-2", ClassNursery2},
		{"Pre-Primary", ClassPrePrimary},
		{"pre primary", ClassPrePrimary},
		{"  PRE_PRIMARY ", ClassPrePrimary},
		{"Nursery - 1", ClassNursery1},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClassLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "primary 6", "NURSERY_9"} {
		_, err := ParseClassLevel(bad)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed, bad)
	}
}

func TestClassLevelDisplayName(t *testing.T) {
	assert.Equal(t, "Nursery-1", ClassNursery1.DisplayName())
	assert.Equal(t, "Pre-Primary", ClassPrePrimary.DisplayName())
	assert.Equal(t, "OTHER", ClassLevel("OTHER").DisplayName())
}

func TestTrimester(t *testing.T) {
	assert.Equal(t, 2, TrimesterSecond.Value())
	assert.Equal(t, "III", TrimesterThird.Roman())
	assert.Equal(t, "TRIMESTRE I", TrimesterFirst.Label())
	assert.Equal(t, "First Trimester", TrimesterFirst.DisplayName())

	for in, want := range map[string]Trimester{"1": TrimesterFirst, "second": TrimesterSecond, "III": TrimesterThird} {
		got, err := ParseTrimester(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseTrimester("4")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	_, err = TrimesterFromValue(0)
	assert.Error(t, err)
}

func TestPeriod(t *testing.T) {
	p, err := ParsePeriod("final semester")
	require.NoError(t, err)
	assert.Equal(t, FinalSemester, p)
	assert.Equal(t, "Period 2", Period2.DisplayName())
	assert.Less(t, Period3.Order(), FinalSemester.Order())

	_, err = ParsePeriod("PERIOD_9")
	assert.Error(t, err)
}

func TestAcademicDataValidate(t *testing.T) {
	ok := &AcademicData{Trimester: TrimesterFirst, AcademicYear: 2025, Period: Period1}
	assert.NoError(t, ok.Validate())

	assert.Error(t, (&AcademicData{AcademicYear: 2025, Period: Period1}).Validate())
	assert.Error(t, (&AcademicData{Trimester: TrimesterFirst, AcademicYear: 1999, Period: Period1}).Validate())
	assert.Error(t, (&AcademicData{Trimester: TrimesterFirst, AcademicYear: 2025}).Validate())

	other := &AcademicData{Trimester: TrimesterFirst, AcademicYear: 2025, Period: Period1}
	assert.True(t, ok.SameSlot(other))
	other.Period = Period2
	assert.False(t, ok.SameSlot(other))
}

func TestRolesAndStudentHelpers(t *testing.T) {
	r, ok := ParseRole("parent")
	assert.True(t, ok)
	assert.Equal(t, RoleParents, r)
	_, ok = ParseRole("ADMIN")
	assert.False(t, ok)
	assert.True(t, RoleTeacher.IsStaff())
	assert.False(t, RoleParents.IsStaff())

	u := &User{Roles: []RoleType{RoleParents}}
	assert.True(t, u.HasRole(RoleParents))
	assert.False(t, u.HasRole(RoleHead))

	moduleID, parentID := uuid.New(), uuid.New()
	s := &Student{FirstName: "Ada", LastName: "Keza", ModuleIDs: []uuid.UUID{moduleID}, ParentIDs: []uuid.UUID{parentID}}
	assert.Equal(t, "Ada Keza", s.FullName())
	assert.True(t, s.IsEnrolledIn(moduleID))
	assert.False(t, s.IsEnrolledIn(uuid.New()))
	assert.True(t, s.HasParent(parentID))

	g, ok := ParseGender("female")
	assert.True(t, ok)
	assert.Equal(t, GenderFemale, g)
}
