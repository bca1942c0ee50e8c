package redisclient

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisLocker_RunsAndReleases(t *testing.T) {
	client := testRedis(t)
	locker := NewRedisBookingLocker(client, time.Minute)
	doctorID := uuid.New()
	ctx := context.Background()

	ran := false
	err := locker.WithBookingLock(ctx, doctorID, "2026-08-31", func(ctx context.Context) error {
		ran = true
		key := fmt.Sprintf("lock:booking:%s:%s", doctorID, "2026-08-31")
		assert.Equal(t, int64(1), client.Exists(ctx, key).Val())
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)

	// Released, so a second acquisition succeeds.
	err = locker.WithBookingLock(ctx, doctorID, "2026-08-31", func(ctx context.Context) error { return nil })
	require.NoError(t, err)
}

func TestRedisLocker_ContentionFailsFast(t *testing.T) {
	client := testRedis(t)
	locker := NewRedisBookingLocker(client, time.Minute)
	doctorID := uuid.New()
	ctx := context.Background()

	err := locker.WithBookingLock(ctx, doctorID, "2026-08-31", func(ctx context.Context) error {
		return locker.WithBookingLock(ctx, doctorID, "2026-08-31", func(ctx context.Context) error {
			t.Fatal("contending closure must not run")
			return nil
		})
	})
	require.ErrorIs(t, err, ErrLockNotAcquired)
}

func TestRedisLocker_DistinctDoctorsDoNotSerialize(t *testing.T) {
	client := testRedis(t)
	locker := NewRedisBookingLocker(client, time.Minute)
	ctx := context.Background()

	err := locker.WithBookingLock(ctx, uuid.New(), "2026-08-31", func(ctx context.Context) error {
		return locker.WithBookingLock(ctx, uuid.New(), "2026-08-31", func(ctx context.Context) error {
			return nil
		})
	})
	require.NoError(t, err)
}

func TestRedisLocker_ReleaseIgnoresStolenLock(t *testing.T) {
	client := testRedis(t)
	locker := NewRedisBookingLocker(client, time.Minute)
	doctorID := uuid.New()
	ctx := context.Background()
	key := fmt.Sprintf("lock:booking:%s:%s", doctorID, "2026-08-31")

	err := locker.WithBookingLock(ctx, doctorID, "2026-08-31", func(ctx context.Context) error {
		// Simulate TTL expiry plus re-acquisition by another instance.
		require.NoError(t, client.Set(ctx, key, "someone-else", time.Minute).Err())
		return nil
	})
	require.NoError(t, err)

	// The compare-and-delete script must leave the foreign token in place.
	assert.Equal(t, "someone-else", client.Get(ctx, key).Val())
}

func TestLocalLocker_SerializesSameKey(t *testing.T) {
	locker := NewLocalLocker()
	doctorID := uuid.New()
	ctx := context.Background()

	const workers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := locker.WithBookingLock(ctx, doctorID, "2026-08-31", func(ctx context.Context) error {
				mu.Lock()
				inside++
				if inside > maxSeen {
					maxSeen = inside
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				inside--
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen, "closures for the same doctor/date must never overlap")
}

func TestLocalLocker_MapPrunedAfterRelease(t *testing.T) {
	locker := NewLocalLocker()
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		doctorID := uuid.New()
		for j := 0; j < 4; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = locker.WithBookingLock(ctx, doctorID, "2026-08-31", func(ctx context.Context) error {
					return nil
				})
			}()
		}
	}
	wg.Wait()

	ll := locker.(*localLocker)
	ll.mu.Lock()
	defer ll.mu.Unlock()
	assert.Empty(t, ll.locks, "released keys must not linger in the lock map")
}

func TestLocalLocker_IndependentKeysDoNotBlock(t *testing.T) {
	locker := NewLocalLocker()
	ctx := context.Background()

	err := locker.WithBookingLock(ctx, uuid.New(), "2026-08-31", func(ctx context.Context) error {
		return locker.WithBookingLock(ctx, uuid.New(), "2026-08-31", func(ctx context.Context) error {
			return nil
		})
	})
	require.NoError(t, err)
}
