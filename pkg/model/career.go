package model

// CareerEntry is one record of the precomputed career catalog.
// Read-only for the lifetime of the process once loaded.
type CareerEntry struct {
	Label       string    `json:"-"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Embedding   []float32 `json:"embedding"`
}

// Match is a single ranked career with its cosine similarity score,
// rounded to 4 decimals.
type Match struct {
	Label string  `json:"label" firestore:"label"`
	Score float64 `json:"score" firestore:"score"`
}

// MatchResult is sorted by descending score; entries with equal scores
// keep catalog order.
type MatchResult []Match
