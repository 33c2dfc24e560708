// Copyright (c) 2026 Robin CRM. All rights reserved.

package sec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	require.NoError(t, err)

	assert.NotEqual(t, "correct-horse", hash)
	assert.True(t, CheckPasswordHash("correct-horse", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestHashPasswordSaltsEveryCall(t *testing.T) {
	first, err := HashPassword("correct-horse")
	require.NoError(t, err)
	second, err := HashPassword("correct-horse")
	require.NoError(t, err)

	// Same input, different hashes; verification is the only comparison path.
	assert.NotEqual(t, first, second)
	assert.True(t, CheckPasswordHash("correct-horse", first))
	assert.True(t, CheckPasswordHash("correct-horse", second))
}

func TestCheckLegacyPassword(t *testing.T) {
	assert.True(t, CheckLegacyPassword("plain-secret", "plain-secret"))
	assert.False(t, CheckLegacyPassword("plain-secret", "other"))

	// An empty stored value never matches, not even an empty input.
	assert.False(t, CheckLegacyPassword("", ""))
}
