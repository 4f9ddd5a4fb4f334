package contract

import "context"

// LeadRepository reads leads and advances their funnel status.
type LeadRepository interface {
	GetByID(ctx context.Context, id string) (*Lead, error)
	UpdateStatus(ctx context.Context, id string, status LeadStatus) error
}

// ContractRepository persists contract records and their reviews.
type ContractRepository interface {
	// Save writes the contract and its review atomically. The contract is
	// inserted as generated and advanced to c.Status in the same transaction.
	Save(ctx context.Context, c *Contract, review *AIReview) error
	GetByID(ctx context.Context, id string) (*Contract, error)
	// UpdateStatus moves a contract from one status to another and fails
	// with ErrCodeInvalidStatusTransition when the row is no longer in from.
	UpdateStatus(ctx context.Context, id string, from, to Status) error
	GetReview(ctx context.Context, contractID string) (*AIReview, error)
}

// NotificationRepository enqueues notification records.
type NotificationRepository interface {
	Enqueue(ctx context.Context, n *Notification) error
}

//Personal.AI order the ending
