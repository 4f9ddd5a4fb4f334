package contract

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	domainContract "github.com/turtacn/ContractPilot/internal/domain/contract"
	"github.com/turtacn/ContractPilot/internal/infrastructure/render"
)

type mockLeadRepo struct{ mock.Mock }

func (m *mockLeadRepo) GetByID(ctx context.Context, id string) (*domainContract.Lead, error) {
	args := m.Called(ctx, id)
	l, _ := args.Get(0).(*domainContract.Lead)
	return l, args.Error(1)
}

func (m *mockLeadRepo) UpdateStatus(ctx context.Context, id string, status domainContract.LeadStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

type mockContractRepo struct{ mock.Mock }

func (m *mockContractRepo) Save(ctx context.Context, c *domainContract.Contract, review *domainContract.AIReview) error {
	return m.Called(ctx, c, review).Error(0)
}

func (m *mockContractRepo) GetByID(ctx context.Context, id string) (*domainContract.Contract, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*domainContract.Contract)
	return c, args.Error(1)
}

func (m *mockContractRepo) UpdateStatus(ctx context.Context, id string, from, to domainContract.Status) error {
	return m.Called(ctx, id, from, to).Error(0)
}

func (m *mockContractRepo) GetReview(ctx context.Context, contractID string) (*domainContract.AIReview, error) {
	args := m.Called(ctx, contractID)
	r, _ := args.Get(0).(*domainContract.AIReview)
	return r, args.Error(1)
}

type mockNotificationRepo struct{ mock.Mock }

func (m *mockNotificationRepo) Enqueue(ctx context.Context, n *domainContract.Notification) error {
	return m.Called(ctx, n).Error(0)
}

type mockReviewer struct{ mock.Mock }

func (m *mockReviewer) Review(ctx context.Context, data domainContract.ContractData, meta domainContract.TemplateMeta, lead *domainContract.Lead) domainContract.AIReview {
	return m.Called(ctx, data, meta, lead).Get(0).(domainContract.AIReview)
}

type mockEvents struct{ mock.Mock }

func (m *mockEvents) PublishContractGenerated(ctx context.Context, ev *domainContract.GeneratedEvent) error {
	return m.Called(ctx, ev).Error(0)
}

// printerFunc adapts a function to render.PDFPrinter.
type printerFunc func(ctx context.Context, html string, opts *render.RenderOptions) ([]byte, error)

func (f printerFunc) RenderPDF(ctx context.Context, html string, opts *render.RenderOptions) ([]byte, error) {
	return f(ctx, html, opts)
}

type storeFunc func(ctx context.Context, objectPath string, data []byte, contentType string) (string, error)

func (f storeFunc) Put(ctx context.Context, objectPath string, data []byte, contentType string) (string, error) {
	return f(ctx, objectPath, data, contentType)
}

// recordingMetrics keeps counters in memory.
type recordingMetrics struct {
	stages          map[string]int
	generated       map[string]int
	failed          map[string]int
	reviewFallbacks map[string]int
	renderFallbacks map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		stages:          map[string]int{},
		generated:       map[string]int{},
		failed:          map[string]int{},
		reviewFallbacks: map[string]int{},
		renderFallbacks: map[string]int{},
	}
}

func (r *recordingMetrics) ObserveStage(stage string, _ time.Duration) { r.stages[stage]++ }
func (r *recordingMetrics) IncGenerated(status string)                 { r.generated[status]++ }
func (r *recordingMetrics) IncFailed(stage string)                     { r.failed[stage]++ }
func (r *recordingMetrics) IncReviewFallback(reason string)            { r.reviewFallbacks[reason]++ }
func (r *recordingMetrics) IncRenderFallback(reason string)            { r.renderFallbacks[reason]++ }

//Personal.AI order the ending
