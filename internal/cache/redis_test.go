package cache

import (
	"context"
	"testing"
	"time"

	"github.com/gobox-app/internal/constants"
	"github.com/gobox-app/internal/models"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func useMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	Use(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test")
	t.Cleanup(func() {
		Use(nil, "")
	})
	return mr
}

func TestDisabledCacheIsNoop(t *testing.T) {
	Use(nil, "")

	hit, err := GetJSON(context.Background(), "k", &struct{}{})
	require.NoError(t, err)
	require.False(t, hit)
	require.NoError(t, SetJSON(context.Background(), "k", 1, time.Minute))
	require.NoError(t, Del(context.Background(), "k"))

	_, err = TryLock(context.Background(), "k", "h", time.Minute)
	require.Error(t, err)
}

func TestLatestDeliveryRoundTrip(t *testing.T) {
	mr := useMiniredis(t)
	ctx := context.Background()

	request := &models.DeliveryRequest{
		ID:        3,
		RequestNo: "GB-3",
		UserID:    42,
		BoxType:   constants.BoxTypeLunch,
		Status:    constants.DeliveryStatusConfirmed,
	}
	stored, err := SetLatestDeliveryIfGeneration(ctx, request, 0, time.Minute)
	require.NoError(t, err)
	require.True(t, stored)
	require.True(t, mr.Exists("test:delivery:latest:42"))

	got, hit, err := GetLatestDelivery(ctx, 42)
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, "GB-3", got.RequestNo)

	require.NoError(t, DelLatestDelivery(ctx, 42))
	_, hit, err = GetLatestDelivery(ctx, 42)
	require.NoError(t, err)
	require.False(t, hit)
}

func TestLatestDeliveryFillSkippedAfterInvalidation(t *testing.T) {
	mr := useMiniredis(t)
	ctx := context.Background()

	generation, err := LatestDeliveryGeneration(ctx, 42)
	require.NoError(t, err)
	require.Zero(t, generation)

	// 回源期间发生一次失效
	require.NoError(t, DelLatestDelivery(ctx, 42))
	stale := &models.DeliveryRequest{ID: 1, RequestNo: "GB-OLD", UserID: 42}
	stored, err := SetLatestDeliveryIfGeneration(ctx, stale, generation, time.Minute)
	require.NoError(t, err)
	require.False(t, stored)
	require.False(t, mr.Exists("test:delivery:latest:42"))

	generation, err = LatestDeliveryGeneration(ctx, 42)
	require.NoError(t, err)
	require.EqualValues(t, 1, generation)
	fresh := &models.DeliveryRequest{ID: 2, RequestNo: "GB-NEW", UserID: 42}
	stored, err = SetLatestDeliveryIfGeneration(ctx, fresh, generation, time.Minute)
	require.NoError(t, err)
	require.True(t, stored)
	require.True(t, mr.TTL("test:delivery:latest:gen:42") > 0)
}

func TestSubmitLockIsExclusiveUntilReleased(t *testing.T) {
	useMiniredis(t)
	ctx := context.Background()

	ok, err := AcquireSubmitLock(ctx, 1, "form-a", "holder-1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = AcquireSubmitLock(ctx, 1, "form-a", "holder-2", time.Minute)
	require.NoError(t, err)
	require.False(t, ok)

	// 其他持有者释放不生效
	require.NoError(t, ReleaseSubmitLock(ctx, 1, "form-a", "holder-2"))
	ok, _ = AcquireSubmitLock(ctx, 1, "form-a", "holder-2", time.Minute)
	require.False(t, ok)

	require.NoError(t, ReleaseSubmitLock(ctx, 1, "form-a", "holder-1"))
	ok, err = AcquireSubmitLock(ctx, 1, "form-a", "holder-2", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestUserAuthStateTTL(t *testing.T) {
	mr := useMiniredis(t)
	ctx := context.Background()

	state := BuildUserAuthState(&models.User{ID: 9, Email: "a@b.c", Status: constants.UserStatusActive, TokenVersion: 2})
	require.NoError(t, SetUserAuthState(ctx, state))

	mr.FastForward(authStateCacheTTL + time.Second)
	_, hit, err := GetUserAuthState(ctx, 9)
	require.NoError(t, err)
	require.False(t, hit)
}
