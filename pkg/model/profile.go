package model

// SeedKeys is the closed set of persona scoring seeds
var SeedKeys = []string{
	"movement_expression",
	"visual_storytelling",
	"sound_design",
	"narrative_thinking",
	"creative_leadership",
	"aesthetic_sense",
	"technical_builder",
}

// TagSet is an ordered collection of unique string tags. It serializes as
// a plain JSON array, which is the single canonical form for all
// set-valued profile fields.
type TagSet []string

// Has reports whether the tag is already present
func (s TagSet) Has(tag string) bool {
	for _, t := range s {
		if t == tag {
			return true
		}
	}
	return false
}

// Add appends tags that are not yet present, preserving insertion order
func (s TagSet) Add(tags ...string) TagSet {
	for _, tag := range tags {
		if tag == "" || s.Has(tag) {
			continue
		}
		s = append(s, tag)
	}
	return s
}

// ProfileMemory accumulates long-lived tags across turns
type ProfileMemory struct {
	Interests TagSet `json:"interests" firestore:"interests"`
	Skills    TagSet `json:"skills" firestore:"skills"`
	Mediums   TagSet `json:"mediums" firestore:"mediums"`
	Goals     TagSet `json:"goals" firestore:"goals"`
}

// Profile is the incrementally built creative profile of a session. It is
// mutated by keyword-driven updates each turn and must stay structurally
// valid after every mutation; Normalize enforces that.
type Profile struct {
	Interests   TagSet `json:"interests" firestore:"interests"`
	Mediums     TagSet `json:"mediums" firestore:"mediums"`
	Strengths   TagSet `json:"strengths" firestore:"strengths"`
	WorkStyle   TagSet `json:"work_style" firestore:"work_style"`
	Environment TagSet `json:"environment" firestore:"environment"`
	Experience  TagSet `json:"experience" firestore:"experience"`
	Tools       TagSet `json:"tools" firestore:"tools"`
	Goals       TagSet `json:"goals" firestore:"goals"`
	Preferences TagSet `json:"preferences" firestore:"preferences"`

	VibeSummary  string         `json:"vibe_summary" firestore:"vibe_summary"`
	PersonaSeeds map[string]int `json:"persona_seeds" firestore:"persona_seeds"`
	Memory       ProfileMemory  `json:"memory" firestore:"memory"`
}

// Normalize returns a fully populated Profile regardless of input shape.
// Accepted inputs: nil, *Profile, or a loosely typed map (e.g. a record
// read back from the user store). Wrong container kinds are replaced by
// empty ones. Never fails, and Normalize(Normalize(x)) == Normalize(x).
func Normalize(input any) *Profile {
	var p *Profile

	switch v := input.(type) {
	case *Profile:
		if v != nil {
			cp := *v
			p = &cp
		}
	case Profile:
		cp := v
		p = &cp
	case map[string]any:
		p = profileFromMap(v)
	}

	if p == nil {
		p = &Profile{}
	}

	p.Interests = dedupe(p.Interests)
	p.Mediums = dedupe(p.Mediums)
	p.Strengths = dedupe(p.Strengths)
	p.WorkStyle = dedupe(p.WorkStyle)
	p.Environment = dedupe(p.Environment)
	p.Experience = dedupe(p.Experience)
	p.Tools = dedupe(p.Tools)
	p.Goals = dedupe(p.Goals)
	p.Preferences = dedupe(p.Preferences)

	p.Memory.Interests = dedupe(p.Memory.Interests)
	p.Memory.Skills = dedupe(p.Memory.Skills)
	p.Memory.Mediums = dedupe(p.Memory.Mediums)
	p.Memory.Goals = dedupe(p.Memory.Goals)

	seeds := make(map[string]int, len(SeedKeys))
	for _, key := range SeedKeys {
		seeds[key] = p.PersonaSeeds[key]
	}
	p.PersonaSeeds = seeds

	return p
}

func dedupe(s TagSet) TagSet {
	out := TagSet{}
	return out.Add(s...)
}

func profileFromMap(m map[string]any) *Profile {
	p := &Profile{
		Interests:   tagsOf(m["interests"]),
		Mediums:     tagsOf(m["mediums"]),
		Strengths:   tagsOf(m["strengths"]),
		WorkStyle:   tagsOf(m["work_style"]),
		Environment: tagsOf(m["environment"]),
		Experience:  tagsOf(m["experience"]),
		Tools:       tagsOf(m["tools"]),
		Goals:       tagsOf(m["goals"]),
		Preferences: tagsOf(m["preferences"]),
	}

	if s, ok := m["vibe_summary"].(string); ok {
		p.VibeSummary = s
	}

	if mem, ok := m["memory"].(map[string]any); ok {
		p.Memory = ProfileMemory{
			Interests: tagsOf(mem["interests"]),
			Skills:    tagsOf(mem["skills"]),
			Mediums:   tagsOf(mem["mediums"]),
			Goals:     tagsOf(mem["goals"]),
		}
	}

	if seeds, ok := m["persona_seeds"].(map[string]any); ok {
		p.PersonaSeeds = make(map[string]int, len(seeds))
		for k, v := range seeds {
			switch n := v.(type) {
			case int:
				p.PersonaSeeds[k] = n
			case int64:
				p.PersonaSeeds[k] = int(n)
			case float64:
				p.PersonaSeeds[k] = int(n)
			}
		}
	}

	return p
}

// tagsOf coerces a loosely typed value into a TagSet. Non-collection
// values (including a lone string) yield an empty set.
func tagsOf(v any) TagSet {
	out := TagSet{}

	switch vs := v.(type) {
	case TagSet:
		out = out.Add(vs...)
	case []string:
		out = out.Add(vs...)
	case []any:
		for _, item := range vs {
			if s, ok := item.(string); ok {
				out = out.Add(s)
			}
		}
	}

	return out
}
