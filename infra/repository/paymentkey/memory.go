package paymentkey

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "github.com/amirasaad/paycode/pkg/domain/paymentkey"
	repo "github.com/amirasaad/paycode/pkg/repository"
	"github.com/google/uuid"
)

// MemoryRepository keeps key records in process memory. It is used when no
// database is configured and by tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	pix     map[uuid.UUID]domain.PixKey
	bitcoin map[uuid.UUID]domain.BitcoinKey
}

// NewMemory creates an empty in-memory repository.
func NewMemory() *MemoryRepository {
	return &MemoryRepository{
		pix:     make(map[uuid.UUID]domain.PixKey),
		bitcoin: make(map[uuid.UUID]domain.BitcoinKey),
	}
}

func (r *MemoryRepository) CreatePix(_ context.Context, key *domain.PixKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pix[key.ID]; ok {
		return domain.ErrKeyExists
	}
	r.pix[key.ID] = *key
	return nil
}

func (r *MemoryRepository) GetPix(_ context.Context, id uuid.UUID) (*domain.PixKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.pix[id]
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	return &k, nil
}

func (r *MemoryRepository) ListPix(_ context.Context, activeOnly bool) ([]*domain.PixKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*domain.PixKey, 0, len(r.pix))
	for _, k := range r.pix {
		if activeOnly && !k.IsActive {
			continue
		}
		result = append(result, &k)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *MemoryRepository) UpdatePix(_ context.Context, key *domain.PixKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.pix[key.ID]
	if !ok {
		return domain.ErrKeyNotFound
	}
	updated := *key
	updated.CreatedAt = old.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	r.pix[key.ID] = updated
	return nil
}

func (r *MemoryRepository) DeletePix(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pix[id]; !ok {
		return domain.ErrKeyNotFound
	}
	delete(r.pix, id)
	return nil
}

func (r *MemoryRepository) CreateBitcoin(_ context.Context, key *domain.BitcoinKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bitcoin[key.ID]; ok {
		return domain.ErrKeyExists
	}
	r.bitcoin[key.ID] = *key
	return nil
}

func (r *MemoryRepository) GetBitcoin(_ context.Context, id uuid.UUID) (*domain.BitcoinKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.bitcoin[id]
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	return &k, nil
}

func (r *MemoryRepository) ListBitcoin(_ context.Context, activeOnly bool) ([]*domain.BitcoinKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*domain.BitcoinKey, 0, len(r.bitcoin))
	for _, k := range r.bitcoin {
		if activeOnly && !k.IsActive {
			continue
		}
		result = append(result, &k)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *MemoryRepository) UpdateBitcoin(_ context.Context, key *domain.BitcoinKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.bitcoin[key.ID]
	if !ok {
		return domain.ErrKeyNotFound
	}
	updated := *key
	updated.CreatedAt = old.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	r.bitcoin[key.ID] = updated
	return nil
}

func (r *MemoryRepository) DeleteBitcoin(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bitcoin[id]; !ok {
		return domain.ErrKeyNotFound
	}
	delete(r.bitcoin, id)
	return nil
}

var _ repo.PaymentKeyRepository = (*MemoryRepository)(nil)
