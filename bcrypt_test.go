package auth_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	auth "github.com/Carhuajulca/go-identity"
)

// Low cost keeps the suite fast; the production default stays at 12.
func testPolicy() *auth.CredentialPolicy {
	return auth.NewCredentialPolicy(&auth.SimpleConfig{HashCost: bcrypt.MinCost})
}

func TestHashPassword_RoundTrip(t *testing.T) {
	ctx := context.Background()
	policy := testPolicy()

	hash, err := policy.HashPassword(ctx, "Password1!")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2"), "expected a bcrypt hash, got %q", hash)

	assert.True(t, policy.VerifyPassword(ctx, "Password1!", hash))
	assert.False(t, policy.VerifyPassword(ctx, "Password2!", hash))
}

func TestHashPassword_Salted(t *testing.T) {
	ctx := context.Background()
	policy := testPolicy()

	first, err := policy.HashPassword(ctx, "Password1!")
	require.NoError(t, err)
	second, err := policy.HashPassword(ctx, "Password1!")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

// Passwords longer than bcrypt's 72-byte input window must still hash
// and round-trip; the policy allows up to 128 characters.
func TestHashPassword_LongPassword(t *testing.T) {
	ctx := context.Background()
	policy := testPolicy()

	long := "Aa1!" + strings.Repeat("x", 96)

	hash, err := policy.HashPassword(ctx, long)
	require.NoError(t, err)
	assert.True(t, policy.VerifyPassword(ctx, long, hash))
	assert.False(t, policy.VerifyPassword(ctx, "Aa1!"+strings.Repeat("y", 96), hash))
}

func TestHashPassword_EmptyInput(t *testing.T) {
	ctx := context.Background()
	policy := testPolicy()

	for _, password := range []string{"", "   ", "\t\n"} {
		_, err := policy.HashPassword(ctx, password)
		require.Error(t, err)
		assert.True(t, auth.HasTextCode(err, auth.TextCodeEmptyPassword), "input %q", password)
	}
}

func TestHashPassword_CancelledContext(t *testing.T) {
	policy := testPolicy()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := policy.HashPassword(ctx, "Password1!")
	assert.Error(t, err)
}

func TestVerifyPassword_EmptyInputs(t *testing.T) {
	ctx := context.Background()
	policy := testPolicy()

	hash, err := policy.HashPassword(ctx, "Password1!")
	require.NoError(t, err)

	assert.False(t, policy.VerifyPassword(ctx, "", hash))
	assert.False(t, policy.VerifyPassword(ctx, "Password1!", ""))
	assert.False(t, policy.VerifyPassword(ctx, "", ""))
}

func TestVerifyPassword_GarbageHash(t *testing.T) {
	ctx := context.Background()
	policy := testPolicy()

	assert.False(t, policy.VerifyPassword(ctx, "Password1!", "not-a-bcrypt-hash"))
}

func TestHashPasswordWithValidation(t *testing.T) {
	ctx := context.Background()
	policy := testPolicy()

	t.Run("valid password hashes", func(t *testing.T) {
		hash, err := policy.HashPasswordWithValidation(ctx, "Password1!")
		require.NoError(t, err)
		assert.True(t, policy.VerifyPassword(ctx, "Password1!", hash))
	})

	t.Run("policy-valid long password hashes", func(t *testing.T) {
		long := "Aa1!" + strings.Repeat("x", 100)
		hash, err := policy.HashPasswordWithValidation(ctx, long)
		require.NoError(t, err)
		assert.True(t, policy.VerifyPassword(ctx, long, hash))
	})

	t.Run("weak password never reaches the hasher", func(t *testing.T) {
		_, err := policy.HashPasswordWithValidation(ctx, "short")
		require.Error(t, err)
		assert.True(t, auth.HasTextCode(err, auth.TextCodeWeakPassword))
	})

	t.Run("empty password reports the policy reason", func(t *testing.T) {
		_, err := policy.HashPasswordWithValidation(ctx, "")
		require.Error(t, err)
		assert.True(t, auth.HasTextCode(err, auth.TextCodeWeakPassword))
		assert.Contains(t, err.Error(), auth.ReasonPasswordEmpty)
	})
}

func TestRandomPasswordHash(t *testing.T) {
	ctx := context.Background()
	policy := testPolicy()

	first, err := policy.RandomPasswordHash(ctx)
	require.NoError(t, err)
	second, err := policy.RandomPasswordHash(ctx)
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}

func TestNewCredentialPolicy_CostClamping(t *testing.T) {
	ctx := context.Background()

	// An out-of-range cost falls back to the default rather than
	// producing hashes at an unintended work factor.
	policy := auth.NewCredentialPolicy(&auth.SimpleConfig{HashCost: 99})

	hash, err := policy.HashPassword(ctx, "Password1!")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, auth.DefaultHashCost, cost)
}
