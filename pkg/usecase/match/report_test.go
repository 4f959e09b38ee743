package match_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/sparkpath/pkg/model"
	"github.com/m-mizutani/sparkpath/pkg/usecase/match"
)

func sampleTraits() *model.TraitRecord {
	return &model.TraitRecord{
		TransferableSkills: map[string]int{
			"communication":    3,
			"customer_service": 2,
		},
		Interests: map[string]int{
			"video": 2,
			"music": 1,
		},
		PassionSignals:        []string{"editing", "vlogging"},
		WorkExperienceSummary: "Worked retail, helped customers daily.",
		VibeSummary:           "Friendly and curious.",
	}
}

func TestBuildReportTopThree(t *testing.T) {
	matches := model.MatchResult{
		{Label: "A", Score: 0.91234},
		{Label: "B", Score: 0.8},
		{Label: "C", Score: 0.7},
	}

	report, err := match.BuildReport(sampleTraits(), matches)
	gt.NoError(t, err)

	gt.S(t, report).Contains("1. A (score 0.9123)")
	gt.S(t, report).Contains("2. B (score 0.8000)")
	gt.S(t, report).Contains("3. C (score 0.7000)")

	// Order of the top-3 lines matches the ranking
	posA := strings.Index(report, "1. A")
	posB := strings.Index(report, "2. B")
	posC := strings.Index(report, "3. C")
	gt.True(t, posA < posB && posB < posC)
}

func TestBuildReportSections(t *testing.T) {
	matches := model.MatchResult{
		{Label: "Film Editor", Score: 0.9},
		{Label: "Sound Designer", Score: 0.8},
		{Label: "Choreographer", Score: 0.7},
	}

	report, err := match.BuildReport(sampleTraits(), matches)
	gt.NoError(t, err)

	gt.S(t, report).Contains("SPARK PATHWAY REPORT")
	gt.S(t, report).Contains(`"communication": 3`)
	gt.S(t, report).Contains(`"video": 2`)
	gt.S(t, report).Contains(`["editing","vlogging"]`)
	gt.S(t, report).Contains("Worked retail, helped customers daily.")
	gt.S(t, report).Contains("Friendly and curious.")

	// Skill keys render in schema order
	posComm := strings.Index(report, `"communication"`)
	posCS := strings.Index(report, `"customer_service"`)
	gt.True(t, posComm >= 0 && posCS > posComm)
}

func TestBuildReportTooFewMatches(t *testing.T) {
	matches := model.MatchResult{
		{Label: "A", Score: 0.9},
		{Label: "B", Score: 0.8},
	}

	_, err := match.BuildReport(sampleTraits(), matches)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, match.ErrTooFewMatches))
}

func TestBuildReportExtraMatchesIgnored(t *testing.T) {
	matches := model.MatchResult{
		{Label: "A", Score: 0.9},
		{Label: "B", Score: 0.8},
		{Label: "C", Score: 0.7},
		{Label: "D", Score: 0.6},
	}

	report, err := match.BuildReport(sampleTraits(), matches)
	gt.NoError(t, err)
	gt.S(t, report).NotContains("D (score")
}
