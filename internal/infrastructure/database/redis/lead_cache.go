package redis

import (
	"context"
	"time"

	"github.com/turtacn/ContractPilot/internal/domain/contract"
	"github.com/turtacn/ContractPilot/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ContractPilot/pkg/errors"
)

// CachedLeadRepository is a read-through cache in front of a lead store.
// Cache failures degrade to the underlying store.
type CachedLeadRepository struct {
	next   contract.LeadRepository
	cache  Cache
	ttl    time.Duration
	logger logging.Logger
}

var _ contract.LeadRepository = (*CachedLeadRepository)(nil)

func NewCachedLeadRepository(next contract.LeadRepository, cache Cache, ttl time.Duration, log logging.Logger) *CachedLeadRepository {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &CachedLeadRepository{next: next, cache: cache, ttl: ttl, logger: log}
}

func leadKey(id string) string { return "lead:" + id }

func (r *CachedLeadRepository) GetByID(ctx context.Context, id string) (*contract.Lead, error) {
	var lead contract.Lead
	err := r.cache.GetOrSet(ctx, leadKey(id), &lead, r.ttl, func(ctx context.Context) (interface{}, error) {
		return r.next.GetByID(ctx, id)
	})
	switch {
	case err == nil:
		return &lead, nil
	case err == ErrCacheMiss:
		return nil, contract.ErrLeadNotFound(id)
	case errors.IsCode(err, errors.ErrCodeCacheError), errors.IsCode(err, errors.ErrCodeSerialization):
		r.logger.Warn("lead cache unavailable, reading from store", logging.LeadID(id), logging.Err(err))
		return r.next.GetByID(ctx, id)
	default:
		return nil, err
	}
}

// UpdateStatus writes through and evicts the cached copy.
func (r *CachedLeadRepository) UpdateStatus(ctx context.Context, id string, status contract.LeadStatus) error {
	if err := r.next.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	if err := r.cache.Delete(ctx, leadKey(id)); err != nil {
		r.logger.Warn("failed to evict cached lead", logging.LeadID(id), logging.Err(err))
	}
	return nil
}

//Personal.AI order the ending
