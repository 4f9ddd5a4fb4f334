package repositories

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/turtacn/ContractPilot/internal/domain/contract"
	"github.com/turtacn/ContractPilot/internal/infrastructure/database/postgres"
	"github.com/turtacn/ContractPilot/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ContractPilot/pkg/errors"
)

const leadColumns = `id, full_name, email, phone, location, property_type, property_size,
	property_condition, price_range, timeline, urgency, is_decision_maker, status, created_at, updated_at`

// LeadRepo persists leads in the leads table.
type LeadRepo struct {
	conn *postgres.Connection
	log  logging.Logger
}

// NewPostgresLeadRepo returns the Postgres-backed lead repository.
func NewPostgresLeadRepo(conn *postgres.Connection, log logging.Logger) *LeadRepo {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &LeadRepo{conn: conn, log: log}
}

var _ contract.LeadRepository = (*LeadRepo)(nil)

func (r *LeadRepo) executor() queryExecutor {
	return r.conn.DB()
}

func (r *LeadRepo) GetByID(ctx context.Context, id string) (*contract.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
	l, err := scanLead(r.executor().QueryRowContext(ctx, query, id))
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, contract.ErrLeadNotFound(id)
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to get lead")
	}
	return l, nil
}

func (r *LeadRepo) UpdateStatus(ctx context.Context, id string, status contract.LeadStatus) error {
	res, err := r.executor().ExecContext(ctx,
		`UPDATE leads SET status = $1, updated_at = NOW() WHERE id = $2`, string(status), id)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update lead status")
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return contract.ErrLeadNotFound(id)
	}
	r.log.Debug("lead status updated", logging.LeadID(id), logging.String("status", string(status)))
	return nil
}

// Upsert inserts a lead or replaces the mutable fields of an existing one.
func (r *LeadRepo) Upsert(ctx context.Context, l *contract.Lead) error {
	if l.ID == "" {
		return errors.NewValidationError("id", "must not be empty")
	}
	if l.Status == "" {
		l.Status = contract.LeadStatusNew
	}
	query := `
		INSERT INTO leads (
			id, full_name, email, phone, location, property_type, property_size,
			property_condition, price_range, timeline, urgency, is_decision_maker, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			location = EXCLUDED.location,
			property_type = EXCLUDED.property_type,
			property_size = EXCLUDED.property_size,
			property_condition = EXCLUDED.property_condition,
			price_range = EXCLUDED.price_range,
			timeline = EXCLUDED.timeline,
			urgency = EXCLUDED.urgency,
			is_decision_maker = EXCLUDED.is_decision_maker,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`
	err := r.executor().QueryRowContext(ctx, query,
		l.ID, l.FullName, l.Email, l.Phone, l.Location, l.PropertyType, l.PropertySize,
		l.PropertyCondition, l.PriceRange, l.Timeline, l.Urgency, l.IsDecisionMaker, string(l.Status),
	).Scan(&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to upsert lead")
	}
	return nil
}

func scanLead(row scanner) (*contract.Lead, error) {
	var l contract.Lead
	var status string
	err := row.Scan(
		&l.ID, &l.FullName, &l.Email, &l.Phone, &l.Location, &l.PropertyType, &l.PropertySize,
		&l.PropertyCondition, &l.PriceRange, &l.Timeline, &l.Urgency, &l.IsDecisionMaker, &status,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Status = contract.LeadStatus(status)
	return &l, nil
}

//Personal.AI order the ending
