package checkout

import (
	"context"

	"github.com/amirasaad/paycode/pkg/domain/paymentkey"
	"github.com/google/uuid"
)

// AddPixKey validates and stores a new active PIX key.
func (s *Service) AddPixKey(
	ctx context.Context,
	keyType paymentkey.KeyType,
	value, companyName, city string,
) (*paymentkey.PixKey, error) {
	key, err := paymentkey.NewPixKey(keyType, value, companyName, city)
	if err != nil {
		return nil, err
	}
	if err := s.keys.CreatePix(ctx, key); err != nil {
		return nil, err
	}
	s.logger.Info("PIX key added", "key_id", key.ID, "key_type", key.KeyType)
	return key, nil
}

// AddBitcoinKey validates and stores a new active Bitcoin key.
func (s *Service) AddBitcoinKey(
	ctx context.Context,
	network paymentkey.Network,
	address string,
) (*paymentkey.BitcoinKey, error) {
	key, err := paymentkey.NewBitcoinKey(network, address)
	if err != nil {
		return nil, err
	}
	if err := s.keys.CreateBitcoin(ctx, key); err != nil {
		return nil, err
	}
	s.logger.Info("Bitcoin key added", "key_id", key.ID, "network", key.Network)
	return key, nil
}

func (s *Service) ListPixKeys(ctx context.Context, activeOnly bool) ([]*paymentkey.PixKey, error) {
	return s.keys.ListPix(ctx, activeOnly)
}

func (s *Service) ListBitcoinKeys(ctx context.Context, activeOnly bool) ([]*paymentkey.BitcoinKey, error) {
	return s.keys.ListBitcoin(ctx, activeOnly)
}

// SetPixKeyActive enables or disables a PIX key.
func (s *Service) SetPixKeyActive(ctx context.Context, id uuid.UUID, active bool) (*paymentkey.PixKey, error) {
	key, err := s.keys.GetPix(ctx, id)
	if err != nil {
		return nil, err
	}
	key.IsActive = active
	if err := s.keys.UpdatePix(ctx, key); err != nil {
		return nil, err
	}
	return key, nil
}

// SetBitcoinKeyActive enables or disables a Bitcoin key.
func (s *Service) SetBitcoinKeyActive(ctx context.Context, id uuid.UUID, active bool) (*paymentkey.BitcoinKey, error) {
	key, err := s.keys.GetBitcoin(ctx, id)
	if err != nil {
		return nil, err
	}
	key.IsActive = active
	if err := s.keys.UpdateBitcoin(ctx, key); err != nil {
		return nil, err
	}
	return key, nil
}

func (s *Service) DeletePixKey(ctx context.Context, id uuid.UUID) error {
	return s.keys.DeletePix(ctx, id)
}

func (s *Service) DeleteBitcoinKey(ctx context.Context, id uuid.UUID) error {
	return s.keys.DeleteBitcoin(ctx, id)
}
