package contract

import (
	"fmt"

	domainContract "github.com/turtacn/ContractPilot/internal/domain/contract"
)

// ApprovalPolicy holds the thresholds of the auto-approval rule. Expedited
// requests are never auto-approved and that override is not configurable.
type ApprovalPolicy struct {
	MinConfidence       int
	MaxAutoApproveRisk  int
	ManualReviewRiskMin int
}

func DefaultApprovalPolicy() ApprovalPolicy {
	return ApprovalPolicy{
		MinConfidence:       90,
		MaxAutoApproveRisk:  50,
		ManualReviewRiskMin: 70,
	}
}

// ApprovalDecision is the auditable outcome of the policy.
type ApprovalDecision struct {
	AutoApproved         bool                  `json:"auto_approved"`
	RequiresManualReview bool                  `json:"requires_manual_review"`
	Status               domainContract.Status `json:"status"`
	Reasons              []string              `json:"reasons"`
}

// Decide evaluates:
//
//	auto   = confidence >= MinConfidence && risk <= MaxAutoApproveRisk && !expedited
//	manual = manualRequested || !auto || risk > ManualReviewRiskMin
//
// Both flags are reported exactly as computed. When both are true (manual
// review requested on an otherwise clean contract) the status is
// pending_review: a manual review requirement always wins.
func (p ApprovalPolicy) Decide(confidence, risk int, expedited, manualRequested bool) ApprovalDecision {
	auto := confidence >= p.MinConfidence && risk <= p.MaxAutoApproveRisk && !expedited
	manual := manualRequested || !auto || risk > p.ManualReviewRiskMin

	reasons := []string{}
	if confidence < p.MinConfidence {
		reasons = append(reasons, fmt.Sprintf("AI confidence %d is below %d", confidence, p.MinConfidence))
	}
	if risk > p.MaxAutoApproveRisk {
		reasons = append(reasons, fmt.Sprintf("legal risk %d exceeds %d", risk, p.MaxAutoApproveRisk))
	}
	if risk > p.ManualReviewRiskMin {
		reasons = append(reasons, fmt.Sprintf("legal risk %d requires manual review above %d", risk, p.ManualReviewRiskMin))
	}
	if expedited {
		reasons = append(reasons, "expedited requests are never auto-approved")
	}
	if manualRequested {
		reasons = append(reasons, "manual review requested")
	}

	status := domainContract.StatusGenerated
	switch {
	case manual:
		status = domainContract.StatusPendingReview
	case auto:
		status = domainContract.StatusApproved
	}

	return ApprovalDecision{
		AutoApproved:         auto,
		RequiresManualReview: manual,
		Status:               status,
		Reasons:              reasons,
	}
}

//Personal.AI order the ending
