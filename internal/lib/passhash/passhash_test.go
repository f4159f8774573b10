package passhash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash_ProducesSaltColonHash(t *testing.T) {
	stored, err := Hash("secret")
	require.NoError(t, err)

	parts := strings.Split(stored, ":")
	require.Len(t, parts, 2)
	assert.Len(t, parts[0], saltLen*2)
	assert.Len(t, parts[1], keyLen*2)
	assert.NotContains(t, stored, "secret")
}

func TestHash_SaltIsRandomPerCredential(t *testing.T) {
	first, err := Hash("secret")
	require.NoError(t, err)
	second, err := Hash("secret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerify_AcceptsCorrectPassword(t *testing.T) {
	stored, err := Hash("correct horse")
	require.NoError(t, err)

	ok, err := Verify(stored, "correct horse")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerify_RejectsWrongPassword(t *testing.T) {
	stored, err := Hash("correct horse")
	require.NoError(t, err)

	ok, err := Verify(stored, "battery staple")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerify_RejectsMalformedStoredValue(t *testing.T) {
	for _, stored := range []string{"", "no-separator", "zz:zz"} {
		_, err := Verify(stored, "whatever")
		assert.ErrorIs(t, err, ErrMalformedHash, stored)
	}
}
