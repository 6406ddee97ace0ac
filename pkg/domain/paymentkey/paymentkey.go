// Package paymentkey defines the receiving-key records configured by the
// restaurant: PIX keys and Bitcoin addresses.
//
// Records are supplied to the encoders per call and never mutated by them.
// IsActive is a filtering concern of callers; the encoders ignore it.
package paymentkey

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	// ErrKeyNotFound is returned when a key record does not exist.
	ErrKeyNotFound = errors.New("payment key not found")

	// ErrKeyInactive is returned when a disabled key is used for checkout.
	ErrKeyInactive = errors.New("payment key is inactive")

	// ErrInvalidKey is returned when a key record fails validation.
	ErrInvalidKey = errors.New("invalid payment key")

	// ErrKeyExists is returned when a key with the same ID is already stored.
	ErrKeyExists = errors.New("payment key already exists")
)

// KeyType determines the expected format of a PIX key value.
type KeyType string

const (
	KeyTypeCPF   KeyType = "cpf"
	KeyTypeCNPJ  KeyType = "cnpj"
	KeyTypeEmail KeyType = "email"
	KeyTypePhone KeyType = "phone"
)

// IsValid reports whether t is a known key type.
func (t KeyType) IsValid() bool {
	switch t {
	case KeyTypeCPF, KeyTypeCNPJ, KeyTypeEmail, KeyTypePhone:
		return true
	}
	return false
}

// Network selects the Bitcoin payment URI scheme.
type Network string

const (
	NetworkMainnet   Network = "mainnet"
	NetworkTestnet   Network = "testnet"
	NetworkLightning Network = "lightning"
)

// IsValid reports whether n is a known network.
func (n Network) IsValid() bool {
	switch n {
	case NetworkMainnet, NetworkTestnet, NetworkLightning:
		return true
	}
	return false
}

// PixKey identifies a PIX receiving key.
type PixKey struct {
	ID          uuid.UUID `json:"id"`
	KeyType     KeyType   `json:"key_type" validate:"required,oneof=cpf cnpj email phone"`
	KeyValue    string    `json:"key_value" validate:"required,max=85"`
	CompanyName string    `json:"company_name" validate:"max=25"`
	City        string    `json:"city" validate:"max=15"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BitcoinKey identifies a Bitcoin receiving address.
type BitcoinKey struct {
	ID        uuid.UUID `json:"id"`
	Network   Network   `json:"network" validate:"required,oneof=mainnet testnet lightning"`
	Address   string    `json:"address" validate:"required"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewPixKey creates an active PIX key record.
func NewPixKey(keyType KeyType, value, companyName, city string) (*PixKey, error) {
	now := time.Now().UTC()
	k := &PixKey{
		ID:          uuid.New(),
		KeyType:     keyType,
		KeyValue:    strings.TrimSpace(value),
		CompanyName: strings.TrimSpace(companyName),
		City:        strings.TrimSpace(city),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := k.Validate(); err != nil {
		return nil, err
	}
	return k, nil
}

// Validate checks the record's fields.
func (k *PixKey) Validate() error {
	if err := validate.Struct(k); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return nil
}

// NewBitcoinKey creates an active Bitcoin key record.
func NewBitcoinKey(network Network, address string) (*BitcoinKey, error) {
	now := time.Now().UTC()
	k := &BitcoinKey{
		ID:        uuid.New(),
		Network:   network,
		Address:   strings.TrimSpace(address),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := k.Validate(); err != nil {
		return nil, err
	}
	return k, nil
}

// Validate checks the record's fields and the address format for its network.
func (k *BitcoinKey) Validate() error {
	if err := validate.Struct(k); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	if err := ValidateAddress(k.Address, k.Network); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return nil
}
