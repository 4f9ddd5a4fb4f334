package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/turtacn/ContractPilot/internal/domain/contract"
	"github.com/turtacn/ContractPilot/internal/infrastructure/database/postgres"
	"github.com/turtacn/ContractPilot/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ContractPilot/pkg/errors"
)

// NotificationRepo is the outbox for contract notifications. Delivery is
// handled elsewhere.
type NotificationRepo struct {
	conn *postgres.Connection
	log  logging.Logger
}

func NewPostgresNotificationRepo(conn *postgres.Connection, log logging.Logger) *NotificationRepo {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &NotificationRepo{conn: conn, log: log}
}

var _ contract.NotificationRepository = (*NotificationRepo)(nil)

func (r *NotificationRepo) Enqueue(ctx context.Context, n *contract.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Status == "" {
		n.Status = contract.NotificationQueued
	}
	if n.DeliveryMethod == "" {
		n.DeliveryMethod = contract.DeliveryEmail
	}
	query := `
		INSERT INTO contract_notifications (
			id, contract_id, lead_id, type, delivery_method, recipient, message, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	err := r.conn.DB().QueryRowContext(ctx, query,
		n.ID, n.ContractID, n.LeadID, n.Type, n.DeliveryMethod, n.Recipient, n.Message, n.Status,
	).Scan(&n.CreatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to enqueue notification")
	}
	r.log.Debug("notification queued",
		logging.ContractID(n.ContractID), logging.String("type", n.Type))
	return nil
}

//Personal.AI order the ending
