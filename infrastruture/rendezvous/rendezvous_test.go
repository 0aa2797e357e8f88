package rendezvous

import (
	"context"
	"os"
	"testing"
	"time"

	dmn "github.com/beka-birhanu/snake-duel/domain"
	"github.com/beka-birhanu/snake-duel/service/i"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDirectory(t *testing.T, dir i.Rendezvous) {
	ctx := context.Background()

	t.Run("Lookup announced host", func(t *testing.T) {
		host := uuid.New()
		require.NoError(t, dir.Announce(ctx, host, "10.0.0.1:4000"))

		addr, err := dir.Lookup(ctx, host)
		require.NoError(t, err)
		assert.Equal(t, "10.0.0.1:4000", addr)
	})

	t.Run("Unknown host", func(t *testing.T) {
		_, err := dir.Lookup(ctx, uuid.New())
		assert.ErrorIs(t, err, dmn.ErrPeerNotFound)
		assert.ErrorIs(t, dir.Claim(ctx, uuid.New(), uuid.New()), dmn.ErrPeerNotFound)
	})

	t.Run("One client per host", func(t *testing.T) {
		host, first, second := uuid.New(), uuid.New(), uuid.New()
		require.NoError(t, dir.Announce(ctx, host, "10.0.0.2:4000"))

		require.NoError(t, dir.Claim(ctx, host, first))
		require.NoError(t, dir.Claim(ctx, host, first))
		assert.ErrorIs(t, dir.Claim(ctx, host, second), dmn.ErrAlreadyConnected)

		require.NoError(t, dir.Announce(ctx, host, "10.0.0.2:4001"))
		assert.NoError(t, dir.Claim(ctx, host, second))
	})

	t.Run("Withdraw", func(t *testing.T) {
		host := uuid.New()
		require.NoError(t, dir.Announce(ctx, host, "10.0.0.3:4000"))
		require.NoError(t, dir.Withdraw(ctx, host))

		_, err := dir.Lookup(ctx, host)
		assert.ErrorIs(t, err, dmn.ErrPeerNotFound)
	})
}

func TestMemory(t *testing.T) {
	testDirectory(t, NewMemory(0))

	t.Run("Announcements expire", func(t *testing.T) {
		m := NewMemory(time.Minute)
		now := time.Now()
		m.now = func() time.Time { return now }
		host := uuid.New()
		require.NoError(t, m.Announce(context.Background(), host, "10.0.0.4:4000"))

		now = now.Add(2 * time.Minute)
		_, err := m.Lookup(context.Background(), host)
		assert.ErrorIs(t, err, dmn.ErrPeerNotFound)
	})
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}

	dir, err := NewRedis(client, "snakeduel-test", 60)
	require.NoError(t, err)
	testDirectory(t, dir)

	_, err = NewRedis(nil, "", 0)
	assert.Error(t, err)
}
