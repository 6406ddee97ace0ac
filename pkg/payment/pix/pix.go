// Package pix builds PIX "BR Code" payloads: tag-length-value fields followed by
// a CRC16 checksum field, ready to be rendered as a QR code.
package pix

import (
	"fmt"
	"strings"

	"github.com/amirasaad/paycode/pkg/domain/paymentkey"
	"github.com/amirasaad/paycode/pkg/money"
	"github.com/amirasaad/paycode/pkg/payment"
)

// Field tags in emission order.
const (
	TagPayloadFormat   = "00"
	TagMerchantAccount = "26"
	TagMerchantCode    = "52"
	TagCurrency        = "53"
	TagAmount          = "54"
	TagCountry         = "58"
	TagMerchantName    = "59"
	TagMerchantCity    = "60"
	TagAdditionalData  = "62"
	TagCRC             = "63"

	// TagReferenceLabel is the sub-field of TagAdditionalData.
	TagReferenceLabel = "05"
)

// Fixed field values.
const (
	PayloadFormatVersion = "01"
	DomainIdentifier     = "br.gov.bcb.pix"
	MerchantCategoryCode = "0000"
	CurrencyBRL          = "986"
	CountryCode          = "BR"
	MerchantName         = "N"
	MerchantCity         = "C"
	ReferenceLabel       = "***"

	// CRCPrefix is the CRC tag and length, included in the checksummed data.
	CRCPrefix = TagCRC + "04"
)

// Encode returns the PIX payload for key and amount.
// The merchant account value is the domain identifier immediately followed by
// the key; merchant name and city are the fixed placeholders above.
func Encode(key string, amount money.Amount) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("%w: pix key is empty", payment.ErrInvalidInput)
	}

	additional := new(Builder).Add(TagReferenceLabel, ReferenceLabel)

	b := new(Builder).
		Add(TagPayloadFormat, PayloadFormatVersion).
		Add(TagMerchantAccount, DomainIdentifier+key).
		Add(TagMerchantCode, MerchantCategoryCode).
		Add(TagCurrency, CurrencyBRL).
		Add(TagAmount, amount.String()).
		Add(TagCountry, CountryCode).
		Add(TagMerchantName, MerchantName).
		Add(TagMerchantCity, MerchantCity).
		AddTemplate(TagAdditionalData, additional).
		Raw(CRCPrefix)

	body, err := b.Build()
	if err != nil {
		return "", fmt.Errorf("%w: %w", payment.ErrInvalidInput, err)
	}

	return body + FormatCRC(CRC16([]byte(body))), nil
}

// EncodeKey encodes the payload for a configured PIX key record.
func EncodeKey(k *paymentkey.PixKey, amount money.Amount) (string, error) {
	if k == nil {
		return "", fmt.Errorf("%w: pix key record is nil", payment.ErrInvalidInput)
	}
	return Encode(k.KeyValue, amount)
}

// VerifyCRC reports whether payload ends with a checksum matching its body.
func VerifyCRC(payload string) bool {
	if len(payload) < len(CRCPrefix)+4 {
		return false
	}
	body, sum := payload[:len(payload)-4], payload[len(payload)-4:]
	if !strings.HasSuffix(body, CRCPrefix) {
		return false
	}
	return FormatCRC(CRC16([]byte(body))) == sum
}
