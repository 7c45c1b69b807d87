package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("cust-1", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := ExtractIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "cust-1", subject)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	token, err := GenerateToken("cust-1", -time.Hour)
	require.NoError(t, err)

	_, err = ExtractIDFromToken(token)
	assert.Error(t, err)
}

func TestMalformedTokenIsRejected(t *testing.T) {
	_, err := ExtractIDFromToken("not.a.token")
	assert.Error(t, err)
}
