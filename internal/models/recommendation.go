package models

// ScoringMode tells which of the two mutually exclusive strategies scored a
// request. A single request is served by exactly one mode.
type ScoringMode string

const (
	ModeColdStart ScoringMode = "cold_start"
	ModeHybrid    ScoringMode = "hybrid"
)

// ScoreComponents is the hybrid engine's per-signal breakdown. All fields
// are in [0,1]; Artist and Language are the {0,1} boost flags.
type ScoreComponents struct {
	Genre     float64 `json:"genre"`
	CF        float64 `json:"cf"`
	Community float64 `json:"community"`
	Artist    float64 `json:"artist"`
	Language  float64 `json:"language"`
	Era       float64 `json:"era"`
}

// RecommendationScore is one ranked entry in a recommendation response.
// Hybrid scores are bounded [0,1]; cold-start scores are an unbounded
// ranking key and carry no component breakdown.
type RecommendationScore struct {
	Song       Song             `json:"song"`
	Score      float64          `json:"score"`
	Mode       ScoringMode      `json:"mode"`
	Components *ScoreComponents `json:"components,omitempty"`
	Rank       int              `json:"rank,omitempty"`
}

// TrendingScore is one ranked entry in the trending response; Engagement is
// the decayed rating mass accumulated over the trending window.
type TrendingScore struct {
	Song       Song    `json:"song"`
	Engagement float64 `json:"engagement"`
	Rank       int     `json:"rank,omitempty"`
}
