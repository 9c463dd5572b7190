package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCacheManager[K comparable, V any] struct {
	mock.Mock
}

func (m *mockCacheManager[K, V]) Get(ctx context.Context, key K) (V, bool) {
	args := m.Called(ctx, key)
	return args.Get(0).(V), args.Bool(1)
}

func (m *mockCacheManager[K, V]) GetMultiple(ctx context.Context, keys []K) (map[K]V, bool) {
	args := m.Called(ctx, keys)
	return args.Get(0).(map[K]V), args.Bool(1)
}

func (m *mockCacheManager[K, V]) GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool) {
	args := m.Called(ctx, key, ttl)
	return args.Get(0).(V), args.Bool(1)
}

func (m *mockCacheManager[K, V]) Set(ctx context.Context, key K, value V, ttl time.Duration) {
	m.Called(ctx, key, value, ttl)
}

func (m *mockCacheManager[K, V]) Delete(ctx context.Context, keys ...K) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *mockCacheManager[K, V]) Flush(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type versionInput struct {
	Org, Image, Version string
}

func fetchVersion(calls *int) func(context.Context, versionInput) (cachedVersion, error) {
	return func(_ context.Context, in versionInput) (cachedVersion, error) {
		*calls++
		if in.Version == "" {
			return cachedVersion{}, errors.New("version required")
		}
		return cachedVersion{ID: in.Org + "/" + in.Image + ":" + in.Version}, nil
	}
}

func TestReadThroughCache_SkipCacheNeverTouchesManager(t *testing.T) {
	m := &mockCacheManager[string, cachedVersion]{}
	var calls int
	rtc := NewReadThroughCache[string, cachedVersion, versionInput](m, fetchVersion(&calls), true)

	got, err := rtc.Get(context.Background(), "k", versionInput{"o", "i", "1"}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, "o/i:1", got.ID)

	_, err = rtc.GetWithRefresh(context.Background(), "k", versionInput{"o", "i", "1"}, time.Minute)
	require.NoError(t, err)
	require.NoError(t, rtc.Invalidate(context.Background(), "k"))

	require.Equal(t, 2, calls)
	m.AssertExpectations(t)
	m.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestReadThroughCache_HitSkipsFetch(t *testing.T) {
	ctx := context.Background()
	m := &mockCacheManager[string, cachedVersion]{}
	m.On("Get", ctx, "k").Return(cachedVersion{ID: "cached"}, true).Once()
	var calls int
	rtc := NewReadThroughCache[string, cachedVersion, versionInput](m, fetchVersion(&calls), false)

	got, err := rtc.Get(ctx, "k", versionInput{"o", "i", "1"}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, "cached", got.ID)
	require.Zero(t, calls)
	m.AssertExpectations(t)
}

func TestReadThroughCache_MissFetchesAndStores(t *testing.T) {
	ctx := context.Background()
	m := &mockCacheManager[string, cachedVersion]{}
	m.On("GetWithRefresh", ctx, "k", time.Minute).Return(cachedVersion{}, false).Once()
	m.On("Set", ctx, "k", cachedVersion{ID: "o/i:1"}, time.Minute).Once()
	var calls int
	rtc := NewReadThroughCache[string, cachedVersion, versionInput](m, fetchVersion(&calls), false)

	got, err := rtc.GetWithRefresh(ctx, "k", versionInput{"o", "i", "1"}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, "o/i:1", got.ID)
	require.Equal(t, 1, calls)
	m.AssertExpectations(t)
}

func TestReadThroughCache_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	cache := newVersionCache()
	var calls int
	rtc := NewReadThroughCache[string, cachedVersion, versionInput](cache, fetchVersion(&calls), false)

	_, err := rtc.Get(ctx, "k", versionInput{"o", "i", ""}, time.Minute)
	require.Error(t, err)
	_, err = rtc.Get(ctx, "k", versionInput{"o", "i", ""}, time.Minute)
	require.Error(t, err)
	require.Equal(t, 2, calls)
	require.Zero(t, cache.Len())
}

func TestReadThroughCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	cache := newVersionCache()
	var calls int
	rtc := NewReadThroughCache[string, cachedVersion, versionInput](cache, fetchVersion(&calls), false)
	in := versionInput{"o", "i", "1"}

	_, err := rtc.Get(ctx, "k", in, time.Minute)
	require.NoError(t, err)
	_, err = rtc.Get(ctx, "k", in, time.Minute)
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	require.NoError(t, rtc.Invalidate(ctx, "k"))
	_, err = rtc.Get(ctx, "k", in, time.Minute)
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}
