package pix

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_LengthPrefix(t *testing.T) {
	got, err := new(Builder).
		Add("00", "01").
		Add("58", "BR").
		Add("62", "").
		Build()
	require.NoError(t, err)
	assert.Equal(t, "0002015802BR6200", got)
}

func TestBuilder_Template(t *testing.T) {
	nested := new(Builder).Add("00", "br.gov.bcb.pix").Add("01", "key")
	got, err := new(Builder).AddTemplate("26", nested).Build()
	require.NoError(t, err)
	assert.Equal(t, "26250014br.gov.bcb.pix0103key", got)
}

func TestBuilder_Errors(t *testing.T) {
	_, err := new(Builder).Add("5", "x").Build()
	require.ErrorIs(t, err, ErrInvalidField)

	_, err = new(Builder).Add("ab", "x").Build()
	require.ErrorIs(t, err, ErrInvalidField)

	b := new(Builder).Add("26", strings.Repeat("x", MaxValueLen+1)).Add("58", "BR")
	require.ErrorIs(t, b.Err(), ErrInvalidField)
	_, err = b.Build()
	require.ErrorIs(t, err, ErrInvalidField)

	_, err = new(Builder).AddTemplate("62", new(Builder).Add("x", "")).Build()
	require.ErrorIs(t, err, ErrInvalidField)
}

func TestBuilder_MaxLength(t *testing.T) {
	got, err := new(Builder).Add("26", strings.Repeat("x", MaxValueLen)).Build()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "2699"))
}
