package contract

// RiskAssessment is the output of the risk engine. Factors and
// Recommendations keep the order in which rules fired.
type RiskAssessment struct {
	Score           int      `json:"score"`
	Level           string   `json:"level"`
	Factors         []string `json:"factors"`
	Recommendations []string `json:"recommendations"`
}

const (
	RiskLevelLow    = "low"
	RiskLevelMedium = "medium"
	RiskLevelHigh   = "high"
)

// RiskLevelFor buckets a score for display: <=30 low, <=60 medium, else high.
func RiskLevelFor(score int) string {
	switch {
	case score <= 30:
		return RiskLevelLow
	case score <= 60:
		return RiskLevelMedium
	default:
		return RiskLevelHigh
	}
}

//Personal.AI order the ending
