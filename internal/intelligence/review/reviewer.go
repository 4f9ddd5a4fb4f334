package review

import (
	"context"
	"fmt"
	"time"

	domainContract "github.com/turtacn/ContractPilot/internal/domain/contract"
	"github.com/turtacn/ContractPilot/internal/infrastructure/monitoring/logging"
)

// Fallback review content. The shape is fixed: one factor, one
// recommendation, one warning, confidence 75.
const (
	FallbackConfidence     = 75
	FallbackRiskFactor     = "Automated legal review was unavailable for this contract"
	FallbackRecommendation = "Obtain a manual legal review before the contract is signed"
	FallbackWarning        = "This review is a non-authoritative fallback and was not produced by the review service"
)

// Fallback reasons reported on the review and in metrics.
const (
	ReasonDisabled     = "review_disabled"
	ReasonServiceError = "service_error"
	ReasonTimeout      = "timeout"
	ReasonParseFailure = "parse_failure"
	ReasonPanic        = "panic"
)

// Config tunes review requests.
type Config struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Reviewer produces AIReviews. Review never returns an error.
type Reviewer struct {
	gen    TextGenerator
	cfg    Config
	logger logging.Logger
	now    func() time.Time
}

// NewReviewer returns a Reviewer. A nil generator makes every review the
// static fallback.
func NewReviewer(gen TextGenerator, cfg Config, logger logging.Logger) *Reviewer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2048
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Reviewer{gen: gen, cfg: cfg, logger: logger.Named("review"), now: time.Now}
}

// FallbackReview returns the static conservative review.
func FallbackReview(reason string, at time.Time) domainContract.AIReview {
	return domainContract.AIReview{
		ConfidenceScore: FallbackConfidence,
		RiskFactors:     []string{FallbackRiskFactor},
		Recommendations: []string{FallbackRecommendation},
		Warnings:        []string{FallbackWarning},
		ComplianceCheck: map[string]domainContract.ComplianceItem{
			"automated_review": {Passed: false, Note: reason},
		},
		Source:         domainContract.ReviewSourceFallback,
		FallbackReason: reason,
		ReviewedAt:     at,
	}
}

// Review asks the service for a legal review. Any failure, including an
// unparsable answer, yields FallbackReview.
func (r *Reviewer) Review(ctx context.Context, data domainContract.ContractData, meta domainContract.TemplateMeta, lead *domainContract.Lead) (result domainContract.AIReview) {
	log := logging.FromContext(ctx, r.logger).With(logging.ContractID(data.ContractID))
	defer func() {
		if p := recover(); p != nil {
			log.Error("review panicked", logging.Any("panic", fmt.Sprint(p)))
			result = FallbackReview(ReasonPanic, r.now().UTC())
		}
	}()

	if r.gen == nil {
		return FallbackReview(ReasonDisabled, r.now().UTC())
	}

	callCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	text, err := r.gen.Complete(callCtx, CompletionRequest{
		SystemPrompt: reviewSystemPrompt,
		UserPrompt:   buildReviewPrompt(data, meta, lead),
		Temperature:  r.cfg.Temperature,
		MaxTokens:    r.cfg.MaxTokens,
		JSONMode:     true,
	})
	if err != nil {
		reason := ReasonServiceError
		if callCtx.Err() == context.DeadlineExceeded {
			reason = ReasonTimeout
		}
		log.Warn("review service failed, using fallback", logging.Err(err), logging.String("reason", reason))
		return FallbackReview(reason, r.now().UTC())
	}

	parsedResult := ParseReviewOutput(text)
	review, ok := parsedResult.Review()
	if !ok {
		log.Warn("review output unparsable, using fallback", logging.String("reason", parsedResult.FailureReason()))
		return FallbackReview(ReasonParseFailure, r.now().UTC())
	}
	review.Model = r.cfg.Model
	review.ReviewedAt = r.now().UTC()
	log.Debug("review completed", logging.Int("confidence", review.ConfidenceScore))
	return review
}

// DraftClauses asks the service for optional clauses. The boolean is false
// when the caller should keep template-only content.
func (r *Reviewer) DraftClauses(ctx context.Context, data domainContract.ContractData, meta domainContract.TemplateMeta) (clauses []string, ok bool) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("clause drafting panicked", logging.Any("panic", fmt.Sprint(p)))
			clauses, ok = nil, false
		}
	}()
	if r.gen == nil {
		return nil, false
	}

	callCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	text, err := r.gen.Complete(callCtx, CompletionRequest{
		SystemPrompt: draftSystemPrompt,
		UserPrompt:   buildDraftPrompt(data, meta),
		Temperature:  r.cfg.Temperature,
		MaxTokens:    r.cfg.MaxTokens / 2,
		JSONMode:     true,
	})
	if err != nil {
		r.logger.Warn("clause drafting failed, keeping template content", logging.ContractID(data.ContractID), logging.Err(err))
		return nil, false
	}
	return ParseClausesOutput(text)
}

//Personal.AI order the ending
