package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jhoicas/pos-ledger-api/internal/application/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *InMemoryIdempotencyStore {
	t.Helper()
	s := NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestReserve_SegundaVezFalla(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ok, err := s.Reserve(ctx, "k1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Reserve(ctx, "k1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	resp, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.True(t, resp.Pending())
}

func TestComplete_GuardaRespuesta(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, _ = s.Reserve(ctx, "k1", time.Minute)
	require.NoError(t, s.Complete(ctx, "k1", ports.StoredResponse{Status: 201, Body: []byte(`{"id":"s-1"}`)}, time.Minute))

	resp, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.False(t, resp.Pending())
	assert.Equal(t, 201, resp.Status)
	assert.JSONEq(t, `{"id":"s-1"}`, string(resp.Body))
}

func TestRelease_PermiteReintentar(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, _ = s.Reserve(ctx, "k1", time.Minute)
	require.NoError(t, s.Release(ctx, "k1"))

	ok, err := s.Reserve(ctx, "k1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestExpiracion_LlaveVencidaSeReutiliza(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()
	s.now = func() time.Time { return now }

	_, _ = s.Reserve(ctx, "k1", time.Second)
	now = now.Add(2 * time.Second)

	resp, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, resp)

	ok, _ := s.Reserve(ctx, "k1", time.Second)
	assert.True(t, ok)

	now = now.Add(2 * time.Second)
	s.cleanup()
	assert.Equal(t, 0, s.Size())
}

func TestReserve_ConcurrenteSoloUnoGana(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := s.Reserve(ctx, "k1", time.Minute); ok {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins)
}

func TestClose_Idempotente(t *testing.T) {
	s := NewInMemoryIdempotencyStore()
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}
