package auth

import (
	"testing"

	"passport/config"
	domainerrors "passport/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	hash, err := hasher.Hash("wonderland")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	// The stored hash never contains the plaintext.
	assert.NotContains(t, hash, "wonderland")

	assert.True(t, hasher.Check("wonderland", hash))
	assert.False(t, hasher.Check("not-wonderland", hash))
}

func TestBcryptHasher_DistinctSaltsPerHash(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	first, err := hasher.Hash("wonderland")
	require.NoError(t, err)
	second, err := hasher.Hash("wonderland")
	require.NoError(t, err)

	// bcrypt embeds a fresh salt in every hash, so equal passwords
	// produce different hashes while both still verify.
	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Check("wonderland", first))
	assert.True(t, hasher.Check("wonderland", second))
}

func TestBcryptHasher_RejectsShortPassword(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	hash, err := hasher.Hash("short")
	assert.Error(t, err)
	assert.Empty(t, hash)
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordTooShort))
}

func TestBcryptHasher_AcceptsMinimumLengthPassword(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	hash, err := hasher.Hash("12345678")
	require.NoError(t, err)
	assert.True(t, hasher.Check("12345678", hash))
}

func TestBcryptHasher_CheckEmptyHash(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	assert.False(t, hasher.Check("wonderland", ""))
	assert.False(t, hasher.Check("wonderland", "not-a-bcrypt-hash"))
}

func TestNewBcryptHasher_CostFloor(t *testing.T) {
	cfg := &config.Config{Auth: &config.AuthConfig{BcryptCost: 4}}

	hasher := NewBcryptHasher(cfg)

	// A configured cost below the floor is raised; the produced hashes
	// still round-trip.
	hash, err := hasher.Hash("wonderland")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, cost, 10)
	assert.True(t, hasher.Check("wonderland", hash))
}
