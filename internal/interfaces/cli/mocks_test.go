package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"

	appcontract "github.com/turtacn/ContractPilot/internal/application/contract"
	domainContract "github.com/turtacn/ContractPilot/internal/domain/contract"
	"github.com/turtacn/ContractPilot/internal/infrastructure/messaging/kafka"
)

type mockContractService struct {
	mock.Mock
}

func (m *mockContractService) AssessRisk(lead *domainContract.Lead) domainContract.RiskAssessment {
	args := m.Called(lead)
	return args.Get(0).(domainContract.RiskAssessment)
}

func (m *mockContractService) GeneratePreview(ctx context.Context, req *appcontract.PreviewRequest) (*appcontract.PreviewResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcontract.PreviewResult), args.Error(1)
}

func (m *mockContractService) Generate(ctx context.Context, req *appcontract.GenerateRequest) *appcontract.GenerationResult {
	args := m.Called(ctx, req)
	return args.Get(0).(*appcontract.GenerationResult)
}

func (m *mockContractService) GetContract(ctx context.Context, id string) (*appcontract.ContractDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcontract.ContractDetails), args.Error(1)
}

func (m *mockContractService) Approve(ctx context.Context, id string) (*domainContract.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainContract.Contract), args.Error(1)
}

type fakeMigrator struct {
	version uint
	dirty   bool
	calls   []string
	err     error
	closed  bool
}

func (f *fakeMigrator) Up() error {
	f.calls = append(f.calls, "up")
	f.version = 2
	return f.err
}

func (f *fakeMigrator) Down(steps int) error {
	f.calls = append(f.calls, "down")
	if f.err != nil {
		return f.err
	}
	f.version -= uint(steps)
	return nil
}

func (f *fakeMigrator) Status() (uint, bool, error) { return f.version, f.dirty, nil }

func (f *fakeMigrator) Force(v int) error {
	f.calls = append(f.calls, "force")
	f.version, f.dirty = uint(v), false
	return f.err
}

func (f *fakeMigrator) Close() error { f.closed = true; return nil }

type fakeLeadStore struct {
	leads []*domainContract.Lead
	err   error
}

func (f *fakeLeadStore) Upsert(_ context.Context, l *domainContract.Lead) error {
	if f.err != nil {
		return f.err
	}
	f.leads = append(f.leads, l)
	return nil
}

type fakeEventSource struct {
	msgs   []*kafka.Message
	closed bool
}

// Run delivers the queued messages, then blocks until ctx is done.
func (f *fakeEventSource) Run(ctx context.Context, handler kafka.Handler) error {
	for _, m := range f.msgs {
		if ctx.Err() != nil {
			return nil
		}
		if err := handler(ctx, m); err != nil {
			return err
		}
	}
	<-ctx.Done()
	return nil
}

func (f *fakeEventSource) Close() error { f.closed = true; return nil }

func serviceDeps(svc *mockContractService, closed *bool) Dependencies {
	return Dependencies{
		OpenService: func(context.Context, *CLIContext) (appcontract.ContractService, func(), error) {
			return svc, func() {
				if closed != nil {
					*closed = true
				}
			}, nil
		},
	}
}

// runCLI executes the root command with a config path that does not exist,
// so configuration comes from defaults and the environment.
func runCLI(t *testing.T, deps Dependencies, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand(deps)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml")}, args...))
	err := root.Execute()
	return out.String(), err
}

//Personal.AI order the ending
