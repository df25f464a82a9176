package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCreateAndResolve(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	token, err := s.Create(ctx, VariantStreamer, 42, time.Minute)
	require.NoError(t, err)
	assert.Len(t, token, 64)

	id, err := s.Resolve(ctx, VariantStreamer, token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
}

func TestMemoryStoreVariantNamespacing(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	token, err := s.Create(ctx, VariantStreamer, 42, time.Minute)
	require.NoError(t, err)

	// The same token does not resolve under another variant.
	_, err = s.Resolve(ctx, VariantAdmin, token)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestMemoryStoreUnknownAndEmptyToken(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Resolve(ctx, VariantAdmin, "deadbeef")
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = s.Resolve(ctx, VariantAdmin, "")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	token, err := s.Create(ctx, VariantVoiceActor, 7, time.Minute)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, VariantVoiceActor, token))
	_, err = s.Resolve(ctx, VariantVoiceActor, token)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	token, err := s.Create(ctx, VariantTeamMember, 9, -time.Second)
	require.NoError(t, err)

	_, err = s.Resolve(ctx, VariantTeamMember, token)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestMemoryStoreSweep(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Create(ctx, VariantAdmin, 1, -time.Second)
	require.NoError(t, err)
	_, err = s.Create(ctx, VariantAdmin, 2, -time.Second)
	require.NoError(t, err)
	live, err := s.Create(ctx, VariantAdmin, 3, time.Minute)
	require.NoError(t, err)

	assert.Equal(t, 2, s.Sweep())

	id, err := s.Resolve(ctx, VariantAdmin, live)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), id)
}

func TestNewTokenUniqueness(t *testing.T) {
	a, err := NewToken()
	require.NoError(t, err)
	b, err := NewToken()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
