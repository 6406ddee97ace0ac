package keys

import (
	"time"

	"github.com/amirasaad/paycode/pkg/domain/paymentkey"
)

// CreatePixKeyRequest is the body of POST /api/keys/pix.
type CreatePixKeyRequest struct {
	KeyType     paymentkey.KeyType `json:"key_type" validate:"required,oneof=cpf cnpj email phone"`
	KeyValue    string             `json:"key_value" validate:"required,max=85"`
	CompanyName string             `json:"company_name" validate:"max=25"`
	City        string             `json:"city" validate:"max=15"`
}

// CreateBitcoinKeyRequest is the body of POST /api/keys/bitcoin.
type CreateBitcoinKeyRequest struct {
	Network paymentkey.Network `json:"network" validate:"required,oneof=mainnet testnet lightning"`
	Address string             `json:"address" validate:"required"`
}

// SetActiveRequest is the body of PATCH /api/keys/{pix,bitcoin}/:id.
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// PixKeyResponse is a stored PIX key.
type PixKeyResponse struct {
	ID          string    `json:"id"`
	KeyType     string    `json:"key_type"`
	KeyValue    string    `json:"key_value"`
	CompanyName string    `json:"company_name,omitempty"`
	City        string    `json:"city,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BitcoinKeyResponse is a stored Bitcoin key.
type BitcoinKeyResponse struct {
	ID        string    `json:"id"`
	Network   string    `json:"network"`
	Address   string    `json:"address"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToPixKeyResponse(k *paymentkey.PixKey) *PixKeyResponse {
	return &PixKeyResponse{
		ID:          k.ID.String(),
		KeyType:     string(k.KeyType),
		KeyValue:    k.KeyValue,
		CompanyName: k.CompanyName,
		City:        k.City,
		IsActive:    k.IsActive,
		CreatedAt:   k.CreatedAt,
		UpdatedAt:   k.UpdatedAt,
	}
}

func ToBitcoinKeyResponse(k *paymentkey.BitcoinKey) *BitcoinKeyResponse {
	return &BitcoinKeyResponse{
		ID:        k.ID.String(),
		Network:   string(k.Network),
		Address:   k.Address,
		IsActive:  k.IsActive,
		CreatedAt: k.CreatedAt,
		UpdatedAt: k.UpdatedAt,
	}
}
