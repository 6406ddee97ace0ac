// Package repository defines the storage boundary for receiving keys.
package repository

import (
	"context"

	"github.com/amirasaad/paycode/pkg/domain/paymentkey"
	"github.com/google/uuid"
)

// PaymentKeyRepository stores the restaurant's PIX keys and Bitcoin addresses.
// Get methods return paymentkey.ErrKeyNotFound for unknown or deleted IDs.
type PaymentKeyRepository interface {
	// CreatePix inserts a new PIX key record.
	CreatePix(ctx context.Context, key *paymentkey.PixKey) error

	// GetPix retrieves a PIX key by its ID.
	GetPix(ctx context.Context, id uuid.UUID) (*paymentkey.PixKey, error)

	// ListPix lists PIX keys, newest first. activeOnly drops disabled keys.
	ListPix(ctx context.Context, activeOnly bool) ([]*paymentkey.PixKey, error)

	// UpdatePix overwrites the mutable fields of an existing PIX key.
	UpdatePix(ctx context.Context, key *paymentkey.PixKey) error

	// DeletePix removes a PIX key.
	DeletePix(ctx context.Context, id uuid.UUID) error

	CreateBitcoin(ctx context.Context, key *paymentkey.BitcoinKey) error
	GetBitcoin(ctx context.Context, id uuid.UUID) (*paymentkey.BitcoinKey, error)
	ListBitcoin(ctx context.Context, activeOnly bool) ([]*paymentkey.BitcoinKey, error)
	UpdateBitcoin(ctx context.Context, key *paymentkey.BitcoinKey) error
	DeleteBitcoin(ctx context.Context, id uuid.UUID) error
}
