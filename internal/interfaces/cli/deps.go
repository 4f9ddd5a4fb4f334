package cli

import (
	"context"
	"fmt"

	"github.com/turtacn/ContractPilot/internal/app"
	appcontract "github.com/turtacn/ContractPilot/internal/application/contract"
	domainContract "github.com/turtacn/ContractPilot/internal/domain/contract"
	"github.com/turtacn/ContractPilot/internal/infrastructure/database/postgres"
	"github.com/turtacn/ContractPilot/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/ContractPilot/internal/infrastructure/messaging/kafka"
)

// SchemaMigrator is the subset of postgres.Migrator used by "migrate".
type SchemaMigrator interface {
	Up() error
	Down(steps int) error
	Status() (version uint, dirty bool, err error)
	Force(version int) error
	Close() error
}

// LeadWriter stores imported leads.
type LeadWriter interface {
	Upsert(ctx context.Context, l *domainContract.Lead) error
}

// EventSource delivers contract events until ctx is cancelled.
type EventSource interface {
	Run(ctx context.Context, handler kafka.Handler) error
	Close() error
}

type (
	ServiceOpener     func(ctx context.Context, cc *CLIContext) (appcontract.ContractService, func(), error)
	MigratorOpener    func(cc *CLIContext) (SchemaMigrator, error)
	LeadStoreOpener   func(ctx context.Context, cc *CLIContext) (LeadWriter, func(), error)
	EventSourceOpener func(cc *CLIContext, groupID string, fromLatest bool) (EventSource, error)
)

// Dependencies lets commands be built against fakes. The returned close
// funcs release whatever the opener connected.
type Dependencies struct {
	OpenService     ServiceOpener
	OpenMigrator    MigratorOpener
	OpenLeadStore   LeadStoreOpener
	OpenEventSource EventSourceOpener
}

// DefaultDependencies connects to the infrastructure named in the config.
func DefaultDependencies() Dependencies {
	return Dependencies{
		OpenService:     openService,
		OpenMigrator:    openMigrator,
		OpenLeadStore:   openLeadStore,
		OpenEventSource: openEventSource,
	}
}

func (d Dependencies) withDefaults() Dependencies {
	def := DefaultDependencies()
	if d.OpenService == nil {
		d.OpenService = def.OpenService
	}
	if d.OpenMigrator == nil {
		d.OpenMigrator = def.OpenMigrator
	}
	if d.OpenLeadStore == nil {
		d.OpenLeadStore = def.OpenLeadStore
	}
	if d.OpenEventSource == nil {
		d.OpenEventSource = def.OpenEventSource
	}
	return d
}

func openService(ctx context.Context, cc *CLIContext) (appcontract.ContractService, func(), error) {
	c, err := app.New(ctx, cc.Config, cc.Logger)
	if err != nil {
		return nil, nil, err
	}
	return c.Service, func() { c.Close(context.Background()) }, nil
}

func openMigrator(cc *CLIContext) (SchemaMigrator, error) {
	return postgres.NewMigrator(postgres.BuildDSN(app.PostgresConfig(cc.Config.Database)), cc.Logger)
}

func openLeadStore(_ context.Context, cc *CLIContext) (LeadWriter, func(), error) {
	conn, err := postgres.NewConnection(app.PostgresConfig(cc.Config.Database), cc.Logger)
	if err != nil {
		return nil, nil, err
	}
	return repositories.NewPostgresLeadRepo(conn, cc.Logger), func() { _ = conn.Close() }, nil
}

func openEventSource(cc *CLIContext, groupID string, fromLatest bool) (EventSource, error) {
	k := cc.Config.Kafka
	if len(k.Brokers) == 0 {
		return nil, fmt.Errorf("kafka.brokers is not configured")
	}
	return kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:    k.Brokers,
		GroupID:    groupID,
		Topic:      k.Topic,
		FromLatest: fromLatest,
	}, cc.Logger)
}

//Personal.AI order the ending
