package checkout

import (
	"fmt"
	"strconv"

	"github.com/amirasaad/paycode/pkg/money"
	"github.com/amirasaad/paycode/pkg/payment"
	checkoutsvc "github.com/amirasaad/paycode/pkg/service/checkout"
	"github.com/amirasaad/paycode/webapi/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CodeRequest is the body of POST /api/checkout/{pix,bitcoin}.
// An empty key_id selects the newest active key.
type CodeRequest struct {
	KeyID  string          `json:"key_id" validate:"omitempty,uuid"`
	Amount decimal.Decimal `json:"amount"`
}

// Parse returns the key ID and amount.
func (r *CodeRequest) Parse() (uuid.UUID, money.Amount, error) {
	amount, err := ParseAmount(r.Amount)
	if err != nil {
		return uuid.Nil, 0, err
	}
	if r.KeyID == "" {
		return uuid.Nil, amount, nil
	}
	id, err := uuid.Parse(r.KeyID)
	if err != nil {
		return uuid.Nil, 0, fmt.Errorf("%w: key_id: %w", payment.ErrInvalidInput, err)
	}
	return id, amount, nil
}

// ParseAmount rejects negative amounts and converts to centavos.
func ParseAmount(d decimal.Decimal) (money.Amount, error) {
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: amount must not be negative", payment.ErrInvalidInput)
	}
	return money.FromDecimal(d), nil
}

// CodeResponse is a generated payment code.
type CodeResponse struct {
	Method    string                `json:"method"`
	KeyID     string                `json:"key_id,omitempty"`
	Payload   string                `json:"payload"`
	Amount    string                `json:"amount"`
	BTCAmount string                `json:"btc_amount,omitempty"`
	Quote     *common.QuoteResponse `json:"quote,omitempty"`
}

// ToCodeResponse converts a service result to its response DTO.
func ToCodeResponse(code *checkoutsvc.PaymentCode) *CodeResponse {
	resp := &CodeResponse{
		Method:  string(code.Method),
		Payload: code.Payload,
		Amount:  code.Amount.String(),
	}
	if code.KeyID != uuid.Nil {
		resp.KeyID = code.KeyID.String()
	}
	if code.Method == payment.MethodBitcoin {
		resp.BTCAmount = strconv.FormatFloat(code.BTCAmount, 'f', 8, 64)
	}
	if code.Quote != nil {
		resp.Quote = common.ToQuoteResponse(*code.Quote)
	}
	return resp
}
