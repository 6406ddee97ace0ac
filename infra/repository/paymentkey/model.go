package paymentkey

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PixKey represents a pix_keys record in the database.
type PixKey struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	KeyType     string    `gorm:"type:varchar(8);not null"`
	KeyValue    string    `gorm:"type:varchar(85);not null"`
	CompanyName string    `gorm:"type:varchar(25)"`
	City        string    `gorm:"type:varchar(15)"`
	IsActive    bool      `gorm:"not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for the PixKey model.
func (PixKey) TableName() string {
	return "pix_keys"
}

// BitcoinKey represents a bitcoin_keys record in the database.
type BitcoinKey struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Network   string    `gorm:"type:varchar(16);not null"`
	Address   string    `gorm:"type:varchar(512);not null"`
	IsActive  bool      `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for the BitcoinKey model.
func (BitcoinKey) TableName() string {
	return "bitcoin_keys"
}
