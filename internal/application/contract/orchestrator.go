package contract

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	domainContract "github.com/turtacn/ContractPilot/internal/domain/contract"
	"github.com/turtacn/ContractPilot/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ContractPilot/internal/infrastructure/render"
	"github.com/turtacn/ContractPilot/pkg/errors"
)

// ---------------------------------------------------------------------------
// Pipeline states and stages
// ---------------------------------------------------------------------------

// PipelineState is the position of one generation run.
type PipelineState string

const (
	StateReceived      PipelineState = "RECEIVED"
	StateRiskAssessed  PipelineState = "RISK_ASSESSED"
	StateAssembled     PipelineState = "ASSEMBLED"
	StateReviewed      PipelineState = "REVIEWED"
	StateRendered      PipelineState = "RENDERED"
	StatePersisted     PipelineState = "PERSISTED"
	StateAutoApproved  PipelineState = "AUTO_APPROVED"
	StatePendingReview PipelineState = "PENDING_REVIEW"
	StateFailed        PipelineState = "FAILED"
)

const (
	StageFetchLead = "fetch_lead"
	StageRisk      = "risk_assessment"
	StageAssembly  = "assembly"
	StageDrafting  = "drafting"
	StageReview    = "review"
	StageRender    = "render"
	StagePersist   = "persist"
	StageFinalize  = "finalize"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type PreviewRequest struct {
	LeadID       string              `json:"lead_id"`
	ContractType domainContract.Type `json:"contract_type"`
	Overrides    *Overrides          `json:"overrides,omitempty"`
}

// PreviewResult carries everything generation would produce except the
// stored document and the persisted record.
type PreviewResult struct {
	ContractData domainContract.ContractData   `json:"contract_data"`
	AIReview     domainContract.AIReview       `json:"ai_review"`
	Risk         domainContract.RiskAssessment `json:"risk"`
	HTML         string                        `json:"html"`
}

type GenerateRequest struct {
	LeadID       string                `json:"lead_id"`
	ContractType domainContract.Type   `json:"contract_type"`
	Expedited    bool                  `json:"expedited"`
	ManualReview bool                  `json:"manual_review"`
	Overrides    *Overrides            `json:"overrides,omitempty"`
	Render       *render.RenderOptions `json:"render,omitempty"`
}

// GenerationResult is returned for every Generate call, successful or not.
type GenerationResult struct {
	Success          bool                  `json:"success"`
	ContractID       string                `json:"contract_id,omitempty"`
	DocumentURL      string                `json:"document_url,omitempty"`
	DocumentFallback bool                  `json:"document_fallback"`
	RiskScore        int                   `json:"risk_score"`
	ConfidenceScore  int                   `json:"confidence_score"`
	Approval         *ApprovalDecision     `json:"approval,omitempty"`
	Status           domainContract.Status `json:"status,omitempty"`
	State            PipelineState         `json:"state"`
	TimingMs         int64                 `json:"timing_ms"`
	StageTimings     map[string]int64      `json:"stage_timings_ms"`
	Errors           []string              `json:"errors,omitempty"`
	Warnings         []string              `json:"warnings,omitempty"`
	Code             errors.ErrorCode      `json:"code,omitempty"`
}

// ContractDetails is a persisted contract with its review.
type ContractDetails struct {
	Contract *domainContract.Contract `json:"contract"`
	Review   *domainContract.AIReview `json:"review,omitempty"`
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// ContractService runs the contract pipeline.
type ContractService interface {
	AssessRisk(lead *domainContract.Lead) domainContract.RiskAssessment
	GeneratePreview(ctx context.Context, req *PreviewRequest) (*PreviewResult, error)
	// Generate never returns an error; failures are reported in the result.
	Generate(ctx context.Context, req *GenerateRequest) *GenerationResult
	GetContract(ctx context.Context, id string) (*ContractDetails, error)
	Approve(ctx context.Context, id string) (*domainContract.Contract, error)
}

type ServiceConfig struct {
	DefaultContractType domainContract.Type
	// EnableDrafting asks the drafter for supplementary clauses before review.
	EnableDrafting bool
	RenderTimeout  time.Duration
}

func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		DefaultContractType: domainContract.TypeExclusiveMarketing,
		RenderTimeout:       60 * time.Second,
	}
}

// ServiceDeps groups the collaborators of the orchestrator. Drafter, Events
// and Metrics are optional.
type ServiceDeps struct {
	Leads         domainContract.LeadRepository
	Contracts     domainContract.ContractRepository
	Notifications domainContract.NotificationRepository
	Risk          *RiskEngine
	Assembler     *Assembler
	Policy        ApprovalPolicy
	Reviewer      ContractReviewer
	Drafter       ClauseDrafter
	Renderer      DocumentRenderer
	Events        EventPublisher
	Metrics       PipelineMetrics
	Logger        logging.Logger
}

type orchestrator struct {
	leads         domainContract.LeadRepository
	contracts     domainContract.ContractRepository
	notifications domainContract.NotificationRepository
	risk          *RiskEngine
	assembler     *Assembler
	policy        ApprovalPolicy
	reviewer      ContractReviewer
	drafter       ClauseDrafter
	renderer      DocumentRenderer
	events        EventPublisher
	metrics       PipelineMetrics
	logger        logging.Logger
	config        *ServiceConfig
	now           func() time.Time
}

func NewContractService(deps ServiceDeps, config *ServiceConfig) (ContractService, error) {
	switch {
	case deps.Leads == nil:
		return nil, errors.InvalidParam("lead repository is required")
	case deps.Contracts == nil:
		return nil, errors.InvalidParam("contract repository is required")
	case deps.Reviewer == nil:
		return nil, errors.InvalidParam("reviewer is required")
	case deps.Renderer == nil:
		return nil, errors.InvalidParam("renderer is required")
	}
	if config == nil {
		config = DefaultServiceConfig()
	}
	if config.DefaultContractType == "" {
		config.DefaultContractType = domainContract.TypeExclusiveMarketing
	}
	if config.RenderTimeout <= 0 {
		config.RenderTimeout = 60 * time.Second
	}
	if deps.Risk == nil {
		deps.Risk = NewRiskEngine()
	}
	if deps.Assembler == nil {
		deps.Assembler = NewAssembler(nil, "PMC", "ContractPilot")
	}
	if deps.Policy == (ApprovalPolicy{}) {
		deps.Policy = DefaultApprovalPolicy()
	}
	if deps.Events == nil {
		deps.Events = noopPublisher{}
	}
	if deps.Metrics == nil {
		deps.Metrics = noopMetrics{}
	}
	if deps.Logger == nil {
		deps.Logger = logging.NewNopLogger()
	}
	return &orchestrator{
		leads:         deps.Leads,
		contracts:     deps.Contracts,
		notifications: deps.Notifications,
		risk:          deps.Risk,
		assembler:     deps.Assembler,
		policy:        deps.Policy,
		reviewer:      deps.Reviewer,
		drafter:       deps.Drafter,
		renderer:      deps.Renderer,
		events:        deps.Events,
		metrics:       deps.Metrics,
		logger:        deps.Logger.Named("orchestrator"),
		config:        config,
		now:           time.Now,
	}, nil
}

func (s *orchestrator) AssessRisk(lead *domainContract.Lead) domainContract.RiskAssessment {
	return s.risk.Assess(lead)
}

// ---------------------------------------------------------------------------
// Preview
// ---------------------------------------------------------------------------

func (s *orchestrator) GeneratePreview(ctx context.Context, req *PreviewRequest) (res *PreviewResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("preview panicked", logging.Any("panic", r), logging.String("stack", string(debug.Stack())))
			res, err = nil, errors.New(errors.ErrCodeInternal, "contract preview failed")
		}
	}()
	if req == nil || strings.TrimSpace(req.LeadID) == "" {
		return nil, errors.NewValidationError("lead_id", "must not be empty")
	}

	lead, err := s.fetchLead(ctx, req.LeadID)
	if err != nil {
		return nil, err
	}
	risk := s.risk.Assess(lead)
	data, meta, err := s.assemble(lead, req.ContractType, req.Overrides)
	if err != nil {
		return nil, err
	}
	data = s.draft(ctx, data, meta)

	review := s.reviewer.Review(ctx, data, meta, lead)
	html, err := s.renderer.SerializeHTML(data)
	if err != nil {
		return nil, err
	}
	return &PreviewResult{ContractData: data, AIReview: review, Risk: risk, HTML: html}, nil
}

// ---------------------------------------------------------------------------
// Generate
// ---------------------------------------------------------------------------

// run tracks one Generate invocation.
type run struct {
	result *GenerationResult
	start  time.Time
	stage  string
}

func (r *run) enter(stage string) time.Time {
	r.stage = stage
	return time.Now()
}

func (s *orchestrator) leave(r *run, stage string, since time.Time) {
	d := time.Since(since)
	r.result.StageTimings[stage] = d.Milliseconds()
	s.metrics.ObserveStage(stage, d)
}

func (s *orchestrator) Generate(ctx context.Context, req *GenerateRequest) (result *GenerationResult) {
	r := &run{
		result: &GenerationResult{State: StateReceived, StageTimings: map[string]int64{}},
		start:  time.Now(),
	}
	result = r.result
	defer func() {
		if p := recover(); p != nil {
			s.logger.Error("generation panicked",
				logging.Stage(r.stage), logging.Any("panic", p), logging.String("stack", string(debug.Stack())))
			s.fail(r, errors.New(errors.ErrCodeInternal, "contract generation failed unexpectedly"))
		}
		result.TimingMs = time.Since(r.start).Milliseconds()
	}()

	if req == nil || strings.TrimSpace(req.LeadID) == "" {
		s.fail(r, errors.NewValidationError("lead_id", "must not be empty"))
		return result
	}
	log := logging.FromContext(ctx, s.logger).With(logging.LeadID(req.LeadID))

	t := r.enter(StageFetchLead)
	lead, err := s.fetchLead(ctx, req.LeadID)
	s.leave(r, StageFetchLead, t)
	if err != nil {
		s.fail(r, err)
		return result
	}

	t = r.enter(StageRisk)
	risk := s.risk.Assess(lead)
	s.leave(r, StageRisk, t)
	result.RiskScore = risk.Score
	result.State = StateRiskAssessed

	t = r.enter(StageAssembly)
	data, meta, err := s.assemble(lead, req.ContractType, req.Overrides)
	s.leave(r, StageAssembly, t)
	if err != nil {
		s.fail(r, err)
		return result
	}
	result.ContractID = data.ContractID
	result.State = StateAssembled
	log = log.With(logging.ContractID(data.ContractID))

	if s.config.EnableDrafting && s.drafter != nil {
		t = r.enter(StageDrafting)
		data = s.draft(ctx, data, meta)
		s.leave(r, StageDrafting, t)
	}

	review, artifact, err := s.reviewAndRender(ctx, r, data, meta, lead, req.Render)
	if err != nil {
		s.fail(r, err)
		return result
	}
	result.ConfidenceScore = review.ConfidenceScore
	if review.IsFallback() {
		s.metrics.IncReviewFallback(review.FallbackReason)
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("AI review unavailable (%s); fallback review applied", review.FallbackReason))
	}
	result.State = StateReviewed

	result.DocumentURL = artifact.URL
	result.DocumentFallback = artifact.Fallback
	if artifact.Fallback {
		s.metrics.IncRenderFallback(artifact.FallbackReason)
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("document stored inline (%s)", artifact.FallbackReason))
	}
	result.State = StateRendered

	decision := s.policy.Decide(review.ConfidenceScore, risk.Score, req.Expedited, req.ManualReview)
	result.Approval = &decision

	t = r.enter(StagePersist)
	now := s.now().UTC()
	record := &domainContract.Contract{
		ID:                data.ContractID,
		LeadID:            lead.ID,
		ContractType:      data.ContractType,
		TemplateID:        data.TemplateID,
		GenerationTimeMs:  time.Since(r.start).Milliseconds(),
		AIConfidenceScore: review.ConfidenceScore,
		LegalRiskScore:    risk.Score,
		RiskFactors:       risk.Factors,
		ContractData:      data,
		DocumentURL:       artifact.URL,
		DocumentFallback:  artifact.Fallback,
		Status:            decision.Status,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := record.Validate(); err != nil {
		s.leave(r, StagePersist, t)
		s.fail(r, errors.Wrap(err, errors.ErrCodePersistenceFailed, "contract record is incomplete"))
		return result
	}
	if err := s.contracts.Save(ctx, record, &review); err != nil {
		s.leave(r, StagePersist, t)
		s.fail(r, errors.Wrap(err, errors.ErrCodePersistenceFailed, "failed to persist contract"))
		return result
	}
	s.leave(r, StagePersist, t)
	result.Status = decision.Status
	result.State = StatePersisted

	t = r.enter(StageFinalize)
	s.finalize(ctx, log, lead, record, result)
	s.leave(r, StageFinalize, t)

	if decision.Status == domainContract.StatusApproved {
		result.State = StateAutoApproved
	} else {
		result.State = StatePendingReview
	}
	result.Success = true
	s.metrics.IncGenerated(string(decision.Status))
	log.Info("contract generated",
		logging.String("status", string(decision.Status)),
		logging.Int("risk", risk.Score),
		logging.Int("confidence", review.ConfidenceScore),
		logging.Bool("document_fallback", artifact.Fallback))
	return result
}

// reviewAndRender runs review and rendering concurrently on the same data.
// Review cannot fail; a render error only surfaces when no fallback artifact
// could be produced.
func (s *orchestrator) reviewAndRender(
	ctx context.Context,
	r *run,
	data domainContract.ContractData,
	meta domainContract.TemplateMeta,
	lead *domainContract.Lead,
	opts *render.RenderOptions,
) (domainContract.AIReview, *render.Artifact, error) {
	var (
		review             domainContract.AIReview
		artifact           *render.Artifact
		reviewDur, rendDur time.Duration
	)
	r.stage = StageReview + "+" + StageRender

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		defer recoverStage(StageReview, &err)
		t := time.Now()
		review = s.reviewer.Review(gctx, data, meta, lead)
		reviewDur = time.Since(t)
		return nil
	})
	g.Go(func() (err error) {
		defer recoverStage(StageRender, &err)
		t := time.Now()
		rctx, cancel := context.WithTimeout(gctx, s.config.RenderTimeout)
		defer cancel()
		a, err := s.renderer.Render(rctx, data, opts)
		rendDur = time.Since(t)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeRenderFailed, "failed to render contract document")
		}
		artifact = a
		return nil
	})
	err := g.Wait()

	r.result.StageTimings[StageReview] = reviewDur.Milliseconds()
	r.result.StageTimings[StageRender] = rendDur.Milliseconds()
	s.metrics.ObserveStage(StageReview, reviewDur)
	s.metrics.ObserveStage(StageRender, rendDur)

	if err != nil {
		r.stage = StageRender
		return review, nil, err
	}
	if artifact == nil || artifact.URL == "" {
		r.stage = StageRender
		return review, nil, errors.New(errors.ErrCodeRenderFailed, "renderer returned no document")
	}
	return review, artifact, nil
}

// finalize advances the lead and emits notifications. Nothing here fails
// the run.
func (s *orchestrator) finalize(ctx context.Context, log logging.Logger, lead *domainContract.Lead, c *domainContract.Contract, result *GenerationResult) {
	if err := s.leads.UpdateStatus(ctx, lead.ID, c.Status.LeadStatus()); err != nil {
		log.Warn("failed to update lead status", logging.Err(err))
		result.Warnings = append(result.Warnings, "lead status was not updated")
	}
	if err := s.enqueueNotification(ctx, lead, c); err != nil {
		log.Warn("failed to enqueue notification", logging.Err(err))
		result.Warnings = append(result.Warnings, "notification was not queued")
	}
	ev := &domainContract.GeneratedEvent{
		ContractID:       c.ID,
		LeadID:           c.LeadID,
		ContractType:     c.ContractType,
		Status:           c.Status,
		RiskScore:        c.LegalRiskScore,
		ConfidenceScore:  c.AIConfidenceScore,
		DocumentFallback: c.DocumentFallback,
		OccurredAt:       s.now().UTC(),
	}
	// Inline documents are data URLs; consumers fetch them through the API.
	if !c.DocumentFallback {
		ev.DocumentURL = c.DocumentURL
	}
	if err := s.events.PublishContractGenerated(ctx, ev); err != nil {
		log.Warn("failed to publish contract event", logging.Err(err))
	}
}

func (s *orchestrator) enqueueNotification(ctx context.Context, lead *domainContract.Lead, c *domainContract.Contract) error {
	if s.notifications == nil {
		return nil
	}
	return s.notifications.Enqueue(ctx, &domainContract.Notification{
		ID:             uuid.NewString(),
		ContractID:     c.ID,
		LeadID:         lead.ID,
		Type:           domainContract.NotificationTypeFor(c.Status),
		DeliveryMethod: domainContract.DeliveryEmail,
		Recipient:      lead.Email,
		Message:        notificationMessage(lead, c),
		Status:         domainContract.NotificationQueued,
		CreatedAt:      s.now().UTC(),
	})
}

func notificationMessage(lead *domainContract.Lead, c *domainContract.Contract) string {
	name := lead.FullName
	if name == "" {
		name = "client"
	}
	switch c.Status {
	case domainContract.StatusApproved:
		return fmt.Sprintf("Contract %s for %s was generated and approved.", c.ID, name)
	case domainContract.StatusPendingReview:
		return fmt.Sprintf("Contract %s for %s was generated and is awaiting legal review.", c.ID, name)
	default:
		return fmt.Sprintf("Contract %s for %s was generated.", c.ID, name)
	}
}

// recoverStage turns a panic in a pipeline goroutine into an error so it
// reaches the caller as a failed result.
func recoverStage(stage string, err *error) {
	if p := recover(); p != nil {
		*err = errors.New(errors.ErrCodeInternal, stage+" stage panicked").WithDetail(fmt.Sprint(p))
	}
}

func (s *orchestrator) fail(r *run, err error) {
	res := r.result
	res.Success = false
	res.State = StateFailed
	res.Code = errors.GetCode(err)
	res.Errors = append(res.Errors, err.Error())
	stage := r.stage
	if stage == "" {
		stage = "request"
	}
	s.metrics.IncFailed(stage)
	s.logger.Warn("contract generation failed", logging.Stage(stage), logging.Err(err))
}

// ---------------------------------------------------------------------------
// Records
// ---------------------------------------------------------------------------

func (s *orchestrator) GetContract(ctx context.Context, id string) (*ContractDetails, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.NewValidationError("id", "must not be empty")
	}
	c, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	review, err := s.contracts.GetReview(ctx, id)
	if err != nil && !errors.IsNotFound(err) {
		return nil, err
	}
	return &ContractDetails{Contract: c, Review: review}, nil
}

// Approve records a manual approval. Only generated and pending_review
// contracts can be approved.
func (s *orchestrator) Approve(ctx context.Context, id string) (*domainContract.Contract, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.NewValidationError("id", "must not be empty")
	}
	c, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := c.Status
	if err := c.TransitionTo(domainContract.StatusApproved, s.now().UTC()); err != nil {
		return nil, err
	}
	if err := s.contracts.UpdateStatus(ctx, id, from, domainContract.StatusApproved); err != nil {
		return nil, err
	}

	log := logging.FromContext(ctx, s.logger).With(logging.ContractID(id), logging.LeadID(c.LeadID))
	if err := s.leads.UpdateStatus(ctx, c.LeadID, domainContract.LeadStatusApproved); err != nil {
		log.Warn("failed to update lead status", logging.Err(err))
	}
	if lead, err := s.leads.GetByID(ctx, c.LeadID); err == nil {
		if err := s.enqueueNotification(ctx, lead, c); err != nil {
			log.Warn("failed to enqueue notification", logging.Err(err))
		}
	}
	log.Info("contract approved", logging.String("from", string(from)))
	return c, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (s *orchestrator) fetchLead(ctx context.Context, id string) (*domainContract.Lead, error) {
	lead, err := s.leads.GetByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, domainContract.ErrLeadNotFound(id)
		}
		return nil, err
	}
	if lead == nil {
		return nil, domainContract.ErrLeadNotFound(id)
	}
	return lead, nil
}

func (s *orchestrator) assemble(lead *domainContract.Lead, t domainContract.Type, o *Overrides) (domainContract.ContractData, domainContract.TemplateMeta, error) {
	if t == "" {
		t = s.config.DefaultContractType
	}
	meta, err := s.assembler.Catalog().Lookup(t)
	if err != nil {
		return domainContract.ContractData{}, domainContract.TemplateMeta{}, err
	}
	data, err := s.assembler.Assemble(lead, t, o)
	if err != nil {
		return domainContract.ContractData{}, domainContract.TemplateMeta{}, err
	}
	return data, meta, nil
}

func (s *orchestrator) draft(ctx context.Context, data domainContract.ContractData, meta domainContract.TemplateMeta) domainContract.ContractData {
	if !s.config.EnableDrafting || s.drafter == nil {
		return data
	}
	clauses, ok := s.drafter.DraftClauses(ctx, data, meta)
	if !ok || len(clauses) == 0 {
		return data
	}
	return data.WithDraftedClauses(clauses)
}

//Personal.AI order the ending
