package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uruhongore/academy/internal/pkg/apperrors"
)

func TestClassifyScore(t *testing.T) {
	tests := []struct {
		score int
		want  GradeColor
	}{
		{100, GradeGreen},
		{80, GradeGreen},
		{79, GradeBlue},
		{70, GradeBlue},
		{69, GradeYellow},
		{50, GradeYellow},
		{49, GradeRed},
		{0, GradeRed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyScore(tt.score), "score %d", tt.score)
	}
}

func TestClassifyScore_MatchesBands(t *testing.T) {
	for score := MinScore; score <= MaxScore; score++ {
		var matched []GradeColor
		for _, band := range GradeBands {
			if score >= band.Min && score <= band.Max {
				matched = append(matched, band.Color)
			}
		}
		if assert.Len(t, matched, 1, "score %d must fall in exactly one band", score) {
			assert.Equal(t, matched[0], ClassifyScore(score))
		}
	}
}

func TestGradeBandLabels(t *testing.T) {
	var labels []string
	for _, b := range GradeBands {
		labels = append(labels, b.Label())
	}
	assert.Equal(t, []string{"80-100", "70-79", "50-69", "0-49"}, labels)
}

func TestValidateScore(t *testing.T) {
	assert.NoError(t, ValidateScore(0))
	assert.NoError(t, ValidateScore(100))
	assert.ErrorIs(t, ValidateScore(-1), apperrors.ErrScoreRange)
	assert.ErrorIs(t, ValidateScore(101), apperrors.ErrValidationFailed)
}

func TestReportSetScore(t *testing.T) {
	r := &Report{}
	r.SetScore(85)
	assert.Equal(t, GradeGreen, r.GradeColor)
	r.SetScore(42)
	assert.Equal(t, 42, r.Score)
	assert.Equal(t, GradeRed, r.GradeColor)
}
