package contract

import "time"

// GeneratedEvent announces a persisted contract to downstream consumers.
type GeneratedEvent struct {
	ContractID       string    `json:"contract_id"`
	LeadID           string    `json:"lead_id"`
	ContractType     Type      `json:"contract_type"`
	Status           Status    `json:"status"`
	RiskScore        int       `json:"risk"`
	ConfidenceScore  int       `json:"confidence"`
	DocumentURL      string    `json:"document_url,omitempty"`
	DocumentFallback bool      `json:"document_fallback"`
	OccurredAt       time.Time `json:"occurred_at"`
}

//Personal.AI order the ending
