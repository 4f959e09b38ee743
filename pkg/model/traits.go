package model

// SkillKeys enumerates the transferable skill dimensions the extractor
// scores. The extraction schema returns every key, scored 0 when absent.
var SkillKeys = []string{
	"communication",
	"creativity",
	"organization",
	"leadership",
	"visual_design",
	"problem_solving",
	"digital_fluency",
	"collaboration",
	"initiative",
	"customer_service",
	"time_management",
}

// InterestKeys enumerates the interest dimensions the extractor scores
var InterestKeys = []string{
	"video",
	"music",
	"writing",
	"performance",
	"design",
	"technology",
	"entrepreneurship",
}

// TraitRecord is the structured output of trait extraction over a
// transcript. Produced once per session and treated as immutable.
type TraitRecord struct {
	TransferableSkills    map[string]int `json:"transferable_skills" firestore:"transferable_skills"`
	Interests             map[string]int `json:"interests" firestore:"interests"`
	PassionSignals        []string       `json:"passion_signals" firestore:"passion_signals"`
	WorkExperienceSummary string         `json:"work_experience_summary" firestore:"work_experience_summary"`
	VibeSummary           string         `json:"vibe_summary" firestore:"vibe_summary"`
}

func countPositive(scores map[string]int) int {
	n := 0
	for _, v := range scores {
		if v > 0 {
			n++
		}
	}
	return n
}

// HasEnoughData decides whether the coach has gathered enough signal to
// stop asking questions. Only positively scored entries count: the
// extraction schema enumerates every key, so raw map sizes are constant.
func (t *TraitRecord) HasEnoughData() bool {
	if t == nil {
		return false
	}

	if countPositive(t.Interests) >= 2 {
		return true
	}
	if countPositive(t.TransferableSkills) >= 2 {
		return true
	}
	if len(t.PassionSignals) >= 3 {
		return true
	}

	return false
}
