package money_test

import (
	"strings"
	"testing"

	"github.com/amirasaad/paycode/pkg/money"
)

// FuzzFromFloat tests FromFloat invariants with random input.
func FuzzFromFloat(f *testing.F) {
	f.Add(100.0)
	f.Add(-50.0)
	f.Add(0.0)
	f.Add(12.5)
	f.Add(1e12)

	f.Fuzz(func(t *testing.T, amount float64) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("FromFloat panicked: %v (amount=%v)", r, amount)
			}
		}()

		a := money.FromFloat(amount)
		if a.Centavos() < 0 {
			t.Errorf("negative amount %d from %v", a.Centavos(), amount)
		}
		if a.Centavos() > money.MaxSafeCentavos {
			t.Errorf("amount %d exceeds max safe integer", a.Centavos())
		}

		s := a.String()
		dot := strings.IndexByte(s, '.')
		if dot < 1 || len(s)-dot-1 != 2 {
			t.Errorf("amount %q is not formatted with two decimals", s)
		}
	})
}
