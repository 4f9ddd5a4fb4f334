package contract

import "time"

// LeadStatus tracks where a sales lead sits in the contracting funnel.
type LeadStatus string

const (
	LeadStatusNew           LeadStatus = "new"
	LeadStatusQualified     LeadStatus = "qualified"
	LeadStatusGenerated     LeadStatus = "generated"
	LeadStatusPendingReview LeadStatus = "pending_review"
	LeadStatusApproved      LeadStatus = "approved"
)

// Lead is an inbound sales contact describing a property and its owner.
// It is read-only input to the contract pipeline.
type Lead struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`

	Location          string `json:"location"`
	PropertyType      string `json:"property_type"`
	PropertySize      string `json:"property_size"`
	PropertyCondition string `json:"property_condition"`
	// PriceRange is free text such as "2.5M EGP" or "1,200,000 EGP".
	PriceRange string `json:"price_range"`
	Timeline   string `json:"timeline"`
	Urgency    string `json:"urgency"`
	// IsDecisionMaker is false when the contact is acting for the owner.
	IsDecisionMaker bool `json:"is_decision_maker"`

	Status    LeadStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

//Personal.AI order the ending
