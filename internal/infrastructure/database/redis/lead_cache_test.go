package redis

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ContractPilot/internal/domain/contract"
	"github.com/turtacn/ContractPilot/pkg/errors"
)

type mockLeadRepo struct {
	mock.Mock
}

func (m *mockLeadRepo) GetByID(ctx context.Context, id string) (*contract.Lead, error) {
	args := m.Called(ctx, id)
	if l := args.Get(0); l != nil {
		return l.(*contract.Lead), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLeadRepo) UpdateStatus(ctx context.Context, id string, status contract.LeadStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func sampleLead() *contract.Lead {
	return &contract.Lead{
		ID:       "lead-1",
		FullName: "Mona Adel",
		Location: "New Cairo",
		Status:   contract.LeadStatusQualified,
	}
}

func TestCachedLeadRepository_ReadThrough(t *testing.T) {
	cache, mr := newMiniCache(t)
	store := new(mockLeadRepo)
	store.On("GetByID", mock.Anything, "lead-1").Return(sampleLead(), nil).Once()

	repo := NewCachedLeadRepository(store, cache, time.Minute, nil)
	ctx := context.Background()

	first, err := repo.GetByID(ctx, "lead-1")
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, "lead-1")
	require.NoError(t, err)

	assert.Equal(t, "Mona Adel", first.FullName)
	assert.Equal(t, first, second)
	assert.True(t, mr.Exists("test:lead:lead-1"))
	store.AssertExpectations(t)
}

func TestCachedLeadRepository_NotFoundIsNotCached(t *testing.T) {
	cache, mr := newMiniCache(t)
	store := new(mockLeadRepo)
	store.On("GetByID", mock.Anything, "missing").Return(nil, contract.ErrLeadNotFound("missing")).Twice()

	repo := NewCachedLeadRepository(store, cache, time.Minute, nil)

	for i := 0; i < 2; i++ {
		_, err := repo.GetByID(context.Background(), "missing")
		assert.True(t, errors.IsCode(err, errors.ErrCodeLeadNotFound))
	}
	assert.False(t, mr.Exists("test:lead:missing"))
	store.AssertExpectations(t)
}

func TestCachedLeadRepository_UpdateStatusEvicts(t *testing.T) {
	cache, mr := newMiniCache(t)
	store := new(mockLeadRepo)
	store.On("GetByID", mock.Anything, "lead-1").Return(sampleLead(), nil)
	store.On("UpdateStatus", mock.Anything, "lead-1", contract.LeadStatusApproved).Return(nil)

	repo := NewCachedLeadRepository(store, cache, time.Minute, nil)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "lead-1")
	require.NoError(t, err)
	require.True(t, mr.Exists("test:lead:lead-1"))

	require.NoError(t, repo.UpdateStatus(ctx, "lead-1", contract.LeadStatusApproved))
	assert.False(t, mr.Exists("test:lead:lead-1"))
}

func TestCachedLeadRepository_UpdateStatusError(t *testing.T) {
	cache, mr := newMiniCache(t)
	store := new(mockLeadRepo)
	store.On("UpdateStatus", mock.Anything, "lead-1", contract.LeadStatusApproved).
		Return(contract.ErrLeadNotFound("lead-1"))
	mr.Set("test:lead:lead-1", "{}")

	repo := NewCachedLeadRepository(store, cache, time.Minute, nil)
	err := repo.UpdateStatus(context.Background(), "lead-1", contract.LeadStatusApproved)
	assert.Error(t, err)
	assert.True(t, mr.Exists("test:lead:lead-1"))
}

func TestCachedLeadRepository_CacheDownFallsBack(t *testing.T) {
	db, rmock := redismock.NewClientMock()
	rmock.ExpectGet("contractpilot:lead:lead-1").SetErr(stderrors.New("connection refused"))
	cache := NewRedisCache(NewClientFromUniversal(db, nil), nil)

	store := new(mockLeadRepo)
	store.On("GetByID", mock.Anything, "lead-1").Return(sampleLead(), nil).Once()

	repo := NewCachedLeadRepository(store, cache, time.Minute, nil)
	l, err := repo.GetByID(context.Background(), "lead-1")
	require.NoError(t, err)
	assert.Equal(t, "lead-1", l.ID)
	store.AssertExpectations(t)
	assert.NoError(t, rmock.ExpectationsWereMet())
}

//Personal.AI order the ending
