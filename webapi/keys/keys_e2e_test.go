package keys_test

import (
	"net/http"
	"testing"

	"github.com/amirasaad/paycode/pkg/payment/pix"
	"github.com/amirasaad/paycode/webapi/checkout"
	"github.com/amirasaad/paycode/webapi/keys"
	"github.com/amirasaad/paycode/webapi/testutils"
	"github.com/stretchr/testify/suite"
)

type KeysE2ETestSuite struct {
	testutils.E2ETestSuite
}

func (s *KeysE2ETestSuite) TestPixKeyToCheckoutE2E() {
	resp := s.MakeRequest(http.MethodPost, "/api/keys/pix",
		`{"key_type":"phone","key_value":"+5581999990000","company_name":"Cantina"}`)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	created := testutils.DecodeData[keys.PixKeyResponse](s.T(), resp)

	resp = s.MakeRequest(http.MethodPost, "/api/checkout/pix", `{"key_id":"`+created.ID+`","amount":"25.90"}`)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	code := testutils.DecodeData[checkout.CodeResponse](s.T(), resp)
	s.Contains(code.Payload, "br.gov.bcb.pix+5581999990000")
	s.True(pix.VerifyCRC(code.Payload))

	resp = s.MakeRequest(http.MethodDelete, "/api/keys/pix/"+created.ID, "")
	s.Equal(http.StatusNoContent, resp.StatusCode)
	resp = s.MakeRequest(http.MethodPost, "/api/checkout/pix", `{"key_id":"`+created.ID+`","amount":1}`)
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *KeysE2ETestSuite) TestBitcoinKeyListE2E() {
	resp := s.MakeRequest(http.MethodPost, "/api/keys/bitcoin",
		`{"network":"mainnet","address":"1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"}`)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	created := testutils.DecodeData[keys.BitcoinKeyResponse](s.T(), resp)

	resp = s.MakeRequest(http.MethodPatch, "/api/keys/bitcoin/"+created.ID, `{"is_active":false}`)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	resp = s.MakeRequest(http.MethodGet, "/api/keys/bitcoin?active=true", "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	for _, k := range testutils.DecodeData[[]keys.BitcoinKeyResponse](s.T(), resp) {
		s.NotEqual(created.ID, k.ID)
	}
}

func TestKeysE2ETestSuite(t *testing.T) {
	suite.Run(t, new(KeysE2ETestSuite))
}
