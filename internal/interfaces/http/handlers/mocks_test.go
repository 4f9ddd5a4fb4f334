package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"

	appcontract "github.com/turtacn/ContractPilot/internal/application/contract"
	domainContract "github.com/turtacn/ContractPilot/internal/domain/contract"
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

// withURLParam attaches a chi route parameter to r.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

//Personal.AI order the ending
