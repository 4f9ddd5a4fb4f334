package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/turtacn/ContractPilot/internal/domain/contract"
	"github.com/turtacn/ContractPilot/internal/infrastructure/database/postgres"
	"github.com/turtacn/ContractPilot/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ContractPilot/pkg/errors"
)

const contractColumns = `id, lead_id, contract_type, template_id, generation_time_ms, ai_confidence_score,
	legal_risk_score, risk_factors, contract_data, document_url, document_fallback, status, created_at, updated_at`

// ContractRepo persists contracts and their AI reviews.
type ContractRepo struct {
	conn *postgres.Connection
	log  logging.Logger
}

func NewPostgresContractRepo(conn *postgres.Connection, log logging.Logger) *ContractRepo {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &ContractRepo{conn: conn, log: log}
}

var _ contract.ContractRepository = (*ContractRepo)(nil)

// Save writes the contract in the generated state, attaches the review and
// then advances to c.Status, all in one transaction.
func (r *ContractRepo) Save(ctx context.Context, c *contract.Contract, review *contract.AIReview) error {
	if err := c.Validate(); err != nil {
		return err
	}
	target := c.Status
	if target != contract.StatusGenerated && !contract.StatusGenerated.CanTransitionTo(target) {
		return contract.ErrInvalidTransition(c.ID, contract.StatusGenerated, target)
	}
	payload, err := json.Marshal(c.ContractData)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode contract data")
	}

	err = r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		if err := r.insertContract(ctx, tx, c, payload); err != nil {
			return err
		}
		if review != nil {
			if err := r.insertReview(ctx, tx, c.ID, review); err != nil {
				return err
			}
		}
		if target == contract.StatusGenerated {
			return nil
		}
		_, err := tx.ExecContext(ctx,
			`UPDATE contracts SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
			string(target), c.ID, string(contract.StatusGenerated))
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to advance contract status")
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.log.Info("contract saved",
		logging.ContractID(c.ID), logging.LeadID(c.LeadID), logging.String("status", string(target)))
	return nil
}

func (r *ContractRepo) insertContract(ctx context.Context, tx queryExecutor, c *contract.Contract, payload []byte) error {
	query := `
		INSERT INTO contracts (
			id, lead_id, contract_type, template_id, generation_time_ms, ai_confidence_score,
			legal_risk_score, risk_factors, contract_data, document_url, document_fallback, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`
	err := tx.QueryRowContext(ctx, query,
		c.ID, c.LeadID, string(c.ContractType), c.TemplateID, c.GenerationTimeMs, c.AIConfidenceScore,
		c.LegalRiskScore, pq.Array(nonNil(c.RiskFactors)), payload, c.DocumentURL, c.DocumentFallback,
		string(contract.StatusGenerated),
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return errors.Conflict("contract already exists").WithDetail("id=" + c.ID)
	case isForeignKeyViolation(err):
		return contract.ErrLeadNotFound(c.LeadID)
	default:
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert contract")
	}
}

func (r *ContractRepo) insertReview(ctx context.Context, tx queryExecutor, contractID string, rv *contract.AIReview) error {
	compliance, err := json.Marshal(rv.ComplianceCheck)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode compliance check")
	}
	query := `
		INSERT INTO contract_ai_reviews (
			id, contract_id, confidence_score, risk_factors, recommendations, warnings,
			compliance_check, source, fallback_reason, model, reviewed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = tx.ExecContext(ctx, query,
		uuid.New().String(), contractID, rv.ConfidenceScore,
		pq.Array(nonNil(rv.RiskFactors)), pq.Array(nonNil(rv.Recommendations)), pq.Array(nonNil(rv.Warnings)),
		compliance, string(rv.Source), rv.FallbackReason, rv.Model, rv.ReviewedAt,
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert contract review")
	}
	return nil
}

func (r *ContractRepo) GetByID(ctx context.Context, id string) (*contract.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE id = $1`
	c, err := scanContract(r.conn.DB().QueryRowContext(ctx, query, id))
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, contract.ErrContractNotFound(id)
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to get contract")
	}
	return c, nil
}

// UpdateStatus moves a contract from one status to another. The update is
// conditional on the stored status still being from.
func (r *ContractRepo) UpdateStatus(ctx context.Context, id string, from, to contract.Status) error {
	if !from.CanTransitionTo(to) {
		return contract.ErrInvalidTransition(id, from, to)
	}
	db := r.conn.DB()
	res, err := db.ExecContext(ctx,
		`UPDATE contracts SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		string(to), id, string(from))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update contract status")
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	var current string
	err = db.QueryRowContext(ctx, `SELECT status FROM contracts WHERE id = $1`, id).Scan(&current)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return contract.ErrContractNotFound(id)
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to read contract status")
	}
	return contract.ErrInvalidTransition(id, contract.Status(current), to)
}

func (r *ContractRepo) GetReview(ctx context.Context, contractID string) (*contract.AIReview, error) {
	query := `
		SELECT confidence_score, risk_factors, recommendations, warnings, compliance_check,
			source, fallback_reason, model, reviewed_at
		FROM contract_ai_reviews WHERE contract_id = $1
	`
	var (
		rv         contract.AIReview
		source     string
		compliance []byte
	)
	err := r.conn.DB().QueryRowContext(ctx, query, contractID).Scan(
		&rv.ConfidenceScore, pq.Array(&rv.RiskFactors), pq.Array(&rv.Recommendations), pq.Array(&rv.Warnings),
		&compliance, &source, &rv.FallbackReason, &rv.Model, &rv.ReviewedAt,
	)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("contract review not found").WithDetail("contract_id=" + contractID)
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to get contract review")
	}
	if len(compliance) > 0 {
		if err := json.Unmarshal(compliance, &rv.ComplianceCheck); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode compliance check")
		}
	}
	rv.Source = contract.ReviewSource(source)
	return &rv, nil
}

func scanContract(row scanner) (*contract.Contract, error) {
	var (
		c            contract.Contract
		contractType string
		status       string
		payload      []byte
	)
	err := row.Scan(
		&c.ID, &c.LeadID, &contractType, &c.TemplateID, &c.GenerationTimeMs, &c.AIConfidenceScore,
		&c.LegalRiskScore, pq.Array(&c.RiskFactors), &payload, &c.DocumentURL, &c.DocumentFallback,
		&status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, &c.ContractData); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode contract data")
	}
	c.ContractType = contract.Type(contractType)
	c.Status = contract.Status(status)
	return &c, nil
}

//Personal.AI order the ending
