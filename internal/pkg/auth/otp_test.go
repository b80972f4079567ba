package auth

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTPRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateOTP()
		require.NoError(t, err)
		require.Len(t, code, OTPLength)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestHashAndCheckOTP(t *testing.T) {
	hash, err := HashOTP("123456")
	require.NoError(t, err)
	assert.NotEqual(t, "123456", hash)

	assert.True(t, CheckOTP(hash, "123456"))
	assert.False(t, CheckOTP(hash, "654321"))
	assert.False(t, CheckOTP("not-a-hash", "123456"))

	// salted: same code, different hashes
	other, err := HashOTP("123456")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other)
}
