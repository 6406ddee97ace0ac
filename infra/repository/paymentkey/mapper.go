package paymentkey

import (
	domain "github.com/amirasaad/paycode/pkg/domain/paymentkey"
)

func mapPixToModel(k *domain.PixKey) PixKey {
	return PixKey{
		ID:          k.ID,
		KeyType:     string(k.KeyType),
		KeyValue:    k.KeyValue,
		CompanyName: k.CompanyName,
		City:        k.City,
		IsActive:    k.IsActive,
		CreatedAt:   k.CreatedAt,
		UpdatedAt:   k.UpdatedAt,
	}
}

func mapPixToDomain(m *PixKey) *domain.PixKey {
	return &domain.PixKey{
		ID:          m.ID,
		KeyType:     domain.KeyType(m.KeyType),
		KeyValue:    m.KeyValue,
		CompanyName: m.CompanyName,
		City:        m.City,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// mapPixUpdates maps the mutable PIX fields to a map for GORM Updates.
func mapPixUpdates(k *domain.PixKey) map[string]any {
	return map[string]any{
		"key_type":     string(k.KeyType),
		"key_value":    k.KeyValue,
		"company_name": k.CompanyName,
		"city":         k.City,
		"is_active":    k.IsActive,
	}
}

func mapBitcoinToModel(k *domain.BitcoinKey) BitcoinKey {
	return BitcoinKey{
		ID:        k.ID,
		Network:   string(k.Network),
		Address:   k.Address,
		IsActive:  k.IsActive,
		CreatedAt: k.CreatedAt,
		UpdatedAt: k.UpdatedAt,
	}
}

func mapBitcoinToDomain(m *BitcoinKey) *domain.BitcoinKey {
	return &domain.BitcoinKey{
		ID:        m.ID,
		Network:   domain.Network(m.Network),
		Address:   m.Address,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// mapBitcoinUpdates maps the mutable Bitcoin fields to a map for GORM Updates.
func mapBitcoinUpdates(k *domain.BitcoinKey) map[string]any {
	return map[string]any{
		"network":   string(k.Network),
		"address":   k.Address,
		"is_active": k.IsActive,
	}
}
