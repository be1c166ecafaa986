package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	s := NewTokenServiceWithSecret("test-secret")

	pair, err := s.GeneratePair(42)
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)
	assert.NotEqual(t, pair.Access, pair.Refresh)

	id, err := s.ValidateAccess(pair.Access)
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)
}

func TestRefreshTokenNotAcceptedAsAccess(t *testing.T) {
	s := NewTokenServiceWithSecret("test-secret")

	pair, err := s.GeneratePair(42)
	require.NoError(t, err)

	_, err = s.ValidateAccess(pair.Refresh)
	assert.Error(t, err)
}

func TestValidateAccessRejectsWrongSecret(t *testing.T) {
	pair, err := NewTokenServiceWithSecret("one-secret").GeneratePair(42)
	require.NoError(t, err)

	_, err = NewTokenServiceWithSecret("other-secret").ValidateAccess(pair.Access)
	assert.Error(t, err)
}

func TestValidateAccessRejectsGarbage(t *testing.T) {
	s := NewTokenServiceWithSecret("test-secret")

	for _, token := range []string{"", "not.a.jwt", "aaaa.bbbb.cccc"} {
		_, err := s.ValidateAccess(token)
		assert.Error(t, err)
	}
}

func TestValidateAccessRejectsUnsignedToken(t *testing.T) {
	s := NewTokenServiceWithSecret("test-secret")

	// alg=none with a claims payload shaped like ours
	const unsigned = "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0." +
		"eyJ0b2tlbl90eXBlIjoiYWNjZXNzIiwic3ViIjoiNDIiLCJpc3MiOiJrcml0aWthIn0."
	_, err := s.ValidateAccess(unsigned)
	assert.Error(t, err)
}
