package contract

import "time"

// ReviewSource tells whether a review came from the external service or the
// static fallback.
type ReviewSource string

const (
	ReviewSourceAI       ReviewSource = "ai"
	ReviewSourceFallback ReviewSource = "fallback"
)

// ComplianceItem is one entry of the structured compliance check.
type ComplianceItem struct {
	Passed bool   `json:"passed"`
	Note   string `json:"note,omitempty"`
}

// AIReview is the automated legal review of a contract.
type AIReview struct {
	ConfidenceScore int                       `json:"confidence_score"`
	RiskFactors     []string                  `json:"risk_factors"`
	Recommendations []string                  `json:"recommendations"`
	Warnings        []string                  `json:"warnings"`
	ComplianceCheck map[string]ComplianceItem `json:"compliance_check"`

	Source         ReviewSource `json:"source"`
	FallbackReason string       `json:"fallback_reason,omitempty"`
	Model          string       `json:"model,omitempty"`
	ReviewedAt     time.Time    `json:"reviewed_at"`
}

// IsFallback reports whether the review is the static non-authoritative one.
func (r AIReview) IsFallback() bool {
	return r.Source == ReviewSourceFallback
}

//Personal.AI order the ending
