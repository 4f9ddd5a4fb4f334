package contract

import (
	"context"
	"time"

	domainContract "github.com/turtacn/ContractPilot/internal/domain/contract"
	"github.com/turtacn/ContractPilot/internal/infrastructure/render"
)

// ---------------------------------------------------------------------------
// Collaborator ports
// ---------------------------------------------------------------------------

// ContractReviewer returns a structured review. Implementations must never
// fail; service trouble is reported as a fallback review.
type ContractReviewer interface {
	Review(ctx context.Context, data domainContract.ContractData, meta domainContract.TemplateMeta, lead *domainContract.Lead) domainContract.AIReview
}

// ClauseDrafter proposes supplementary clauses. ok is false when nothing
// usable was produced.
type ClauseDrafter interface {
	DraftClauses(ctx context.Context, data domainContract.ContractData, meta domainContract.TemplateMeta) ([]string, bool)
}

// DocumentRenderer serializes contracts and stores their rendered documents.
type DocumentRenderer interface {
	SerializeHTML(data domainContract.ContractData) (string, error)
	Render(ctx context.Context, data domainContract.ContractData, opts *render.RenderOptions) (*render.Artifact, error)
}

// EventPublisher announces persisted contracts.
type EventPublisher interface {
	PublishContractGenerated(ctx context.Context, ev *domainContract.GeneratedEvent) error
}

// PipelineMetrics records pipeline outcomes.
type PipelineMetrics interface {
	ObserveStage(stage string, d time.Duration)
	IncGenerated(status string)
	IncFailed(stage string)
	IncReviewFallback(reason string)
	IncRenderFallback(reason string)
}

type noopMetrics struct{}

func (noopMetrics) ObserveStage(string, time.Duration) {}
func (noopMetrics) IncGenerated(string)                {}
func (noopMetrics) IncFailed(string)                   {}
func (noopMetrics) IncReviewFallback(string)           {}
func (noopMetrics) IncRenderFallback(string)           {}

type noopPublisher struct{}

func (noopPublisher) PublishContractGenerated(context.Context, *domainContract.GeneratedEvent) error {
	return nil
}

//Personal.AI order the ending
