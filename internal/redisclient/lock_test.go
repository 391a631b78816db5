package redisclient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestWithBookingLockRunsFn(t *testing.T) {
	client := testClient(t)
	locker := NewRedisBookingLocker(client, 5*time.Second)

	practitionerID := uuid.New()
	date := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)

	ran := false
	err := locker.WithBookingLock(context.Background(), practitionerID, date, func(ctx context.Context) error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	require.True(t, ran)

	// Lock must be released afterwards.
	err = locker.WithBookingLock(context.Background(), practitionerID, date, func(ctx context.Context) error {
		return nil
	})
	require.NoError(t, err)
}

func TestWithBookingLockContention(t *testing.T) {
	client := testClient(t)
	locker := NewRedisBookingLocker(client, 5*time.Second)

	practitionerID := uuid.New()
	date := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)

	err := locker.WithBookingLock(context.Background(), practitionerID, date, func(ctx context.Context) error {
		// A second attempt for the same practitioner/day while held must fail.
		inner := locker.WithBookingLock(ctx, practitionerID, date, func(ctx context.Context) error {
			t.Fatal("inner lock body must not run")
			return nil
		})
		require.ErrorIs(t, inner, ErrLockNotAcquired)

		// A different day is an independent key.
		other := locker.WithBookingLock(ctx, practitionerID, date.AddDate(0, 0, 1), func(ctx context.Context) error {
			return nil
		})
		require.NoError(t, other)
		return nil
	})
	require.NoError(t, err)
}

func TestWithBookingLockPropagatesFnError(t *testing.T) {
	client := testClient(t)
	locker := NewRedisBookingLocker(client, 5*time.Second)

	sentinel := errors.New("boom")
	err := locker.WithBookingLock(context.Background(), uuid.New(), time.Now(), func(ctx context.Context) error {
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)
}
