package models

import (
	"fmt"

	"github.com/uruhongore/academy/internal/pkg/apperrors"
)

// GradeColor is the score-derived classification band.
type GradeColor string

const (
	GradeGreen  GradeColor = "green"
	GradeBlue   GradeColor = "blue"
	GradeYellow GradeColor = "yellow"
	GradeRed    GradeColor = "red"
)

const (
	MinScore = 0
	MaxScore = 100
)

// GradeBand is one row of the grading legend.
type GradeBand struct {
	Color GradeColor
	Min   int
	Max   int
}

// Label renders the band range, e.g. "80-100".
func (b GradeBand) Label() string {
	return fmt.Sprintf("%d-%d", b.Min, b.Max)
}

// GradeBands lists the bands from best to worst. Lower bounds are inclusive.
var GradeBands = []GradeBand{
	{Color: GradeGreen, Min: 80, Max: 100},
	{Color: GradeBlue, Min: 70, Max: 79},
	{Color: GradeYellow, Min: 50, Max: 69},
	{Color: GradeRed, Min: 0, Max: 49},
}

// ClassifyScore maps a score to its colour band: >=80 green, 70-79 blue, 50-69 yellow, below 50 red.
func ClassifyScore(score int) GradeColor {
	switch {
	case score >= 80:
		return GradeGreen
	case score >= 70:
		return GradeBlue
	case score >= 50:
		return GradeYellow
	default:
		return GradeRed
	}
}

// ValidateScore rejects scores outside 0..100.
func ValidateScore(score int) error {
	if score < MinScore || score > MaxScore {
		return fmt.Errorf("%w: got %d", apperrors.ErrScoreRange, score)
	}
	return nil
}
