package rendezvous

import (
	"context"
	"errors"
	"fmt"
	"time"

	dmn "github.com/beka-birhanu/snake-duel/domain"
	"github.com/beka-birhanu/snake-duel/service/i"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultPrefix = "snakeduel"
	defaultTTL    = 5 * time.Minute
	hostKeyFmt    = "%s:host:%s"
)

var _ i.Rendezvous = &Redis{}

// Redis is a rendezvous directory shared by every peer using the same server.
// Announcements expire after the TTL unless renewed.
type Redis struct {
	client *redis.Client
	locker *redsync.Redsync
	prefix string
	ttl    time.Duration
}

// NewRedis returns a directory storing keys under prefix.
func NewRedis(client *redis.Client, prefix string, ttlSeconds int) (*Redis, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if prefix == "" {
		prefix = defaultPrefix
	}
	ttl := time.Duration(ttlSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Redis{
		client: client,
		locker: redsync.New(goredis.NewPool(client)),
		prefix: prefix,
		ttl:    ttl,
	}, nil
}

// Announce publishes addr for host and drops any previous claim.
func (r *Redis) Announce(ctx context.Context, host uuid.UUID, addr string) error {
	key := r.hostKey(host)
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, key, addr, r.ttl)
		p.Del(ctx, key+":claim")
		return nil
	})
	return err
}

// Lookup returns the address announced by host.
func (r *Redis) Lookup(ctx context.Context, host uuid.UUID) (string, error) {
	addr, err := r.client.Get(ctx, r.hostKey(host)).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%w: %s", dmn.ErrPeerNotFound, host)
	}
	return addr, err
}

// Claim reserves host for client. Claiming again with the same client succeeds.
func (r *Redis) Claim(ctx context.Context, host, client uuid.UUID) error {
	key := r.hostKey(host)
	mutex := r.locker.NewMutex(key + ":claim_lock")
	if err := mutex.LockContext(ctx); err != nil {
		return err
	}
	defer func() {
		_, _ = mutex.UnlockContext(ctx)
	}()

	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", dmn.ErrPeerNotFound, host)
	}

	ok, err := r.client.SetNX(ctx, key+":claim", client.String(), r.ttl).Result()
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	owner, err := r.client.Get(ctx, key+":claim").Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if owner == client.String() {
		return nil
	}
	return fmt.Errorf("host %s: %w", host, dmn.ErrAlreadyConnected)
}

// Withdraw removes the announcement of host and its claim.
func (r *Redis) Withdraw(ctx context.Context, host uuid.UUID) error {
	key := r.hostKey(host)
	return r.client.Del(ctx, key, key+":claim").Err()
}

func (r *Redis) hostKey(host uuid.UUID) string {
	return fmt.Sprintf(hostKeyFmt, r.prefix, host)
}
