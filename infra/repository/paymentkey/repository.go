// Package paymentkey implements repository.PaymentKeyRepository on gorm and
// in memory.
package paymentkey

import (
	"context"

	"github.com/amirasaad/paycode/infra/repository"
	domain "github.com/amirasaad/paycode/pkg/domain/paymentkey"
	repo "github.com/amirasaad/paycode/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gormRepository struct {
	db *gorm.DB
}

// New creates a payment key repository using the provided *gorm.DB.
func New(db *gorm.DB) repo.PaymentKeyRepository {
	return &gormRepository{db: db}
}

// CreatePix implements repository.PaymentKeyRepository.
func (r *gormRepository) CreatePix(ctx context.Context, key *domain.PixKey) error {
	m := mapPixToModel(key)
	return repository.WrapError(func() error {
		return r.db.WithContext(ctx).Create(&m).Error
	})
}

// GetPix implements repository.PaymentKeyRepository.
func (r *gormRepository) GetPix(ctx context.Context, id uuid.UUID) (*domain.PixKey, error) {
	var m PixKey
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, repository.MapGormErrorToDomain(err)
	}
	return mapPixToDomain(&m), nil
}

// ListPix implements repository.PaymentKeyRepository.
func (r *gormRepository) ListPix(ctx context.Context, activeOnly bool) ([]*domain.PixKey, error) {
	var rows []PixKey
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, repository.MapGormErrorToDomain(err)
	}
	result := make([]*domain.PixKey, 0, len(rows))
	for i := range rows {
		result = append(result, mapPixToDomain(&rows[i]))
	}
	return result, nil
}

// UpdatePix implements repository.PaymentKeyRepository.
func (r *gormRepository) UpdatePix(ctx context.Context, key *domain.PixKey) error {
	res := r.db.WithContext(ctx).Model(&PixKey{}).Where("id = ?", key.ID).Updates(mapPixUpdates(key))
	return rowsAffected(res)
}

// DeletePix implements repository.PaymentKeyRepository.
func (r *gormRepository) DeletePix(ctx context.Context, id uuid.UUID) error {
	return rowsAffected(r.db.WithContext(ctx).Delete(&PixKey{}, "id = ?", id))
}

// CreateBitcoin implements repository.PaymentKeyRepository.
func (r *gormRepository) CreateBitcoin(ctx context.Context, key *domain.BitcoinKey) error {
	m := mapBitcoinToModel(key)
	return repository.WrapError(func() error {
		return r.db.WithContext(ctx).Create(&m).Error
	})
}

// GetBitcoin implements repository.PaymentKeyRepository.
func (r *gormRepository) GetBitcoin(ctx context.Context, id uuid.UUID) (*domain.BitcoinKey, error) {
	var m BitcoinKey
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, repository.MapGormErrorToDomain(err)
	}
	return mapBitcoinToDomain(&m), nil
}

// ListBitcoin implements repository.PaymentKeyRepository.
func (r *gormRepository) ListBitcoin(ctx context.Context, activeOnly bool) ([]*domain.BitcoinKey, error) {
	var rows []BitcoinKey
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, repository.MapGormErrorToDomain(err)
	}
	result := make([]*domain.BitcoinKey, 0, len(rows))
	for i := range rows {
		result = append(result, mapBitcoinToDomain(&rows[i]))
	}
	return result, nil
}

// UpdateBitcoin implements repository.PaymentKeyRepository.
func (r *gormRepository) UpdateBitcoin(ctx context.Context, key *domain.BitcoinKey) error {
	res := r.db.WithContext(ctx).Model(&BitcoinKey{}).Where("id = ?", key.ID).Updates(mapBitcoinUpdates(key))
	return rowsAffected(res)
}

// DeleteBitcoin implements repository.PaymentKeyRepository.
func (r *gormRepository) DeleteBitcoin(ctx context.Context, id uuid.UUID) error {
	return rowsAffected(r.db.WithContext(ctx).Delete(&BitcoinKey{}, "id = ?", id))
}

// rowsAffected maps a write that touched nothing to ErrKeyNotFound.
func rowsAffected(res *gorm.DB) error {
	if res.Error != nil {
		return repository.MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrKeyNotFound
	}
	return nil
}
