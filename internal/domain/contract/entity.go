package contract

import (
	"fmt"
	"time"

	"github.com/turtacn/ContractPilot/pkg/errors"
)

// Status is the persisted approval state of a contract.
type Status string

const (
	StatusGenerated     Status = "generated"
	StatusPendingReview Status = "pending_review"
	StatusApproved      Status = "approved"
)

// allowedTransitions is one-directional: nothing returns to generated.
var allowedTransitions = map[Status][]Status{
	StatusGenerated:     {StatusApproved, StatusPendingReview},
	StatusPendingReview: {StatusApproved},
	StatusApproved:      {},
}

func (s Status) IsValid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// CanTransitionTo reports whether s may advance to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// LeadStatus maps a contract status onto the lead funnel.
func (s Status) LeadStatus() LeadStatus {
	switch s {
	case StatusApproved:
		return LeadStatusApproved
	case StatusPendingReview:
		return LeadStatusPendingReview
	default:
		return LeadStatusGenerated
	}
}

// Contract is the persisted, auditable record of a generation run.
type Contract struct {
	ID                string       `json:"id"`
	LeadID            string       `json:"lead_id"`
	ContractType      Type         `json:"contract_type"`
	TemplateID        string       `json:"template_id"`
	GenerationTimeMs  int64        `json:"generation_time_ms"`
	AIConfidenceScore int          `json:"ai_confidence_score"`
	LegalRiskScore    int          `json:"legal_risk_score"`
	RiskFactors       []string     `json:"risk_factors"`
	ContractData      ContractData `json:"contract_data"`
	DocumentURL       string       `json:"document_url"`
	DocumentFallback  bool         `json:"document_fallback"`
	Status            Status       `json:"status"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// Validate checks the invariants required before the record is written.
func (c *Contract) Validate() error {
	if c.ID == "" {
		return errors.NewValidationError("id", "must not be empty")
	}
	if c.LeadID == "" {
		return errors.NewValidationError("lead_id", "must not be empty")
	}
	if c.DocumentURL == "" {
		return errors.NewValidationError("document_url", "a rendered document is required")
	}
	if !c.Status.IsValid() {
		return errors.NewValidationError("status", string(c.Status))
	}
	if c.LegalRiskScore < 0 || c.LegalRiskScore > 100 {
		return errors.NewValidationError("legal_risk_score", "must be within [0,100]")
	}
	return nil
}

// TransitionTo advances the status or returns ErrCodeInvalidStatusTransition.
func (c *Contract) TransitionTo(next Status, at time.Time) error {
	if !c.Status.CanTransitionTo(next) {
		return ErrInvalidTransition(c.ID, c.Status, next)
	}
	c.Status = next
	c.UpdatedAt = at
	return nil
}

// Notification is a queued message about a contract; delivery is external.
type Notification struct {
	ID             string    `json:"id"`
	ContractID     string    `json:"contract_id"`
	LeadID         string    `json:"lead_id"`
	Type           string    `json:"type"`
	DeliveryMethod string    `json:"delivery_method"`
	Recipient      string    `json:"recipient"`
	Message        string    `json:"message"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

const (
	NotificationContractApproved      = "contract_approved"
	NotificationContractPendingReview = "contract_pending_review"
	NotificationContractGenerated     = "contract_generated"

	DeliveryEmail = "email"

	NotificationQueued = "queued"
)

// NotificationTypeFor picks the notification type for a final status.
func NotificationTypeFor(s Status) string {
	switch s {
	case StatusApproved:
		return NotificationContractApproved
	case StatusPendingReview:
		return NotificationContractPendingReview
	default:
		return NotificationContractGenerated
	}
}

func ErrLeadNotFound(leadID string) error {
	return errors.New(errors.ErrCodeLeadNotFound, "lead not found").WithDetail("lead_id=" + leadID)
}

func ErrContractNotFound(id string) error {
	return errors.New(errors.ErrCodeContractNotFound, "contract not found").WithDetail("id=" + id)
}

func ErrInvalidTransition(id string, from, to Status) error {
	return errors.New(errors.ErrCodeInvalidStatusTransition, "invalid contract status transition").
		WithDetail(fmt.Sprintf("id=%s from=%s to=%s", id, from, to))
}

func ErrUnknownType(t Type) error {
	return errors.New(errors.ErrCodeUnknownContractType, "unknown contract type").WithDetail(string(t))
}

//Personal.AI order the ending
