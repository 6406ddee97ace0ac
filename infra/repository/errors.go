// Package repository holds helpers shared by the gorm repositories.
package repository

import (
	"errors"

	"github.com/amirasaad/paycode/pkg/domain/paymentkey"
	"gorm.io/gorm"
)

// MapGormErrorToDomain converts GORM errors to domain errors.
// Traverses the error chain to find GORM errors and maps them to the
// payment key errors.
func MapGormErrorToDomain(err error) error {
	if err == nil {
		return nil
	}

	currentErr := err
	for currentErr != nil {
		switch {
		case errors.Is(currentErr, gorm.ErrDuplicatedKey):
			return paymentkey.ErrKeyExists
		case errors.Is(currentErr, gorm.ErrRecordNotFound):
			return paymentkey.ErrKeyNotFound
		}
		currentErr = errors.Unwrap(currentErr)
	}

	return err
}

// WrapError wraps a GORM operation and automatically maps errors.
//
// Usage:
//
//	err := WrapError(func() error {
//	    return r.db.WithContext(ctx).Create(&m).Error
//	})
func WrapError(op func() error) error {
	return MapGormErrorToDomain(op())
}
