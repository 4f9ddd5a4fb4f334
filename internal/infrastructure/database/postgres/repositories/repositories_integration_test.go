//go:build integration

package repositories_test

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/turtacn/ContractPilot/internal/domain/contract"
	"github.com/turtacn/ContractPilot/internal/infrastructure/database/postgres"
	"github.com/turtacn/ContractPilot/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/ContractPilot/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ContractPilot/pkg/errors"
)

func setupDB(t *testing.T) *postgres.Connection {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       "contractpilot_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)
	p, _ := strconv.Atoi(port.Port())

	cfg := postgres.PostgresConfig{
		Host: host, Port: p, Database: "contractpilot_test",
		Username: "test", Password: "test", SSLMode: "disable",
	}
	m, err := postgres.NewMigrator(postgres.BuildDSN(cfg), nil)
	require.NoError(t, err)
	require.NoError(t, m.Up())
	require.NoError(t, m.Close())

	conn, err := postgres.NewConnection(cfg, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestContractLifecycle(t *testing.T) {
	conn := setupDB(t)
	ctx := context.Background()

	leads := repositories.NewPostgresLeadRepo(conn, nil)
	contracts := repositories.NewPostgresContractRepo(conn, nil)
	notifications := repositories.NewPostgresNotificationRepo(conn, nil)

	lead := &contract.Lead{
		ID: "lead-it-1", FullName: "Mona Adel", Email: "mona@example.com",
		Location: "New Cairo", PropertyType: "apartment", PriceRange: "2.5M EGP",
		IsDecisionMaker: true, Status: contract.LeadStatusQualified,
	}
	require.NoError(t, leads.Upsert(ctx, lead))

	id := fmt.Sprintf("PMC-%d-IT0001", time.Now().UnixMilli())
	c := &contract.Contract{
		ID: id, LeadID: lead.ID, ContractType: contract.TypeExclusiveMarketing,
		TemplateID: "exclusive_marketing_v1", AIConfidenceScore: 64, LegalRiskScore: 55,
		RiskFactors:  []string{"Timeline pressure"},
		ContractData: contract.ContractData{ContractID: id, LeadID: lead.ID, ContractType: contract.TypeExclusiveMarketing},
		DocumentURL:  "https://cdn.example.com/contracts/" + id + ".pdf",
		Status:       contract.StatusPendingReview,
	}
	review := &contract.AIReview{
		ConfidenceScore: 64,
		Warnings:        []string{"Verify ownership documents"},
		ComplianceCheck: map[string]contract.ComplianceItem{"egyptian_law": {Passed: true}},
		Source:          contract.ReviewSourceAI,
		ReviewedAt:      time.Now().UTC(),
	}
	require.NoError(t, contracts.Save(ctx, c, review))

	got, err := contracts.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, contract.StatusPendingReview, got.Status)
	assert.Equal(t, []string{"Timeline pressure"}, got.RiskFactors)
	assert.Equal(t, id, got.ContractData.ContractID)

	rv, err := contracts.GetReview(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"Verify ownership documents"}, rv.Warnings)
	assert.True(t, rv.ComplianceCheck["egyptian_law"].Passed)

	err = contracts.Save(ctx, c, nil)
	assert.True(t, errors.IsConflict(err))

	require.NoError(t, contracts.UpdateStatus(ctx, id, contract.StatusPendingReview, contract.StatusApproved))
	err = contracts.UpdateStatus(ctx, id, contract.StatusPendingReview, contract.StatusApproved)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidStatusTransition))

	require.NoError(t, leads.UpdateStatus(ctx, lead.ID, contract.LeadStatusApproved))
	stored, err := leads.GetByID(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, contract.LeadStatusApproved, stored.Status)

	require.NoError(t, notifications.Enqueue(ctx, &contract.Notification{
		ContractID: id, LeadID: lead.ID, Type: contract.NotificationContractApproved,
		Recipient: lead.Email, Message: "approved",
	}))
}

func TestSave_UnknownLead(t *testing.T) {
	conn := setupDB(t)
	contracts := repositories.NewPostgresContractRepo(conn, nil)

	c := &contract.Contract{
		ID: "PMC-1-ORPHAN", LeadID: "nobody", ContractType: contract.TypeSaleMandate,
		DocumentURL: "data:text/html;base64,", Status: contract.StatusApproved,
	}
	err := contracts.Save(context.Background(), c, nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeLeadNotFound))
}

//Personal.AI order the ending
