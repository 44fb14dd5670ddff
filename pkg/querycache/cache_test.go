package querycache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"commercial-hub-be/internal/entity"
	"commercial-hub-be/internal/pkg/logger"
	"commercial-hub-be/internal/store"

	"github.com/stretchr/testify/assert"
)

type fakeRealtime struct {
	mu       sync.Mutex
	handlers map[string][]store.ChangeHandler
}

func newFakeRealtime() *fakeRealtime {
	return &fakeRealtime{handlers: make(map[string][]store.ChangeHandler)}
}

func (f *fakeRealtime) SubscribeChanges(collection string, handler store.ChangeHandler) (store.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[collection] = append(f.handlers[collection], handler)
	return noopSubscription{}, nil
}

func (f *fakeRealtime) emit(collection string) {
	f.mu.Lock()
	handlers := append([]store.ChangeHandler(nil), f.handlers[collection]...)
	f.mu.Unlock()
	for _, handler := range handlers {
		handler(store.ChangeEvent{Collection: collection, Action: store.ActionUpdate})
	}
}

type noopSubscription struct{}

func (noopSubscription) Unsubscribe() {}

func newTestCache(t *testing.T) (*Cache, *fakeRealtime) {
	t.Helper()
	realtime := newFakeRealtime()
	log := logger.NewIsolatedLogger(t.TempDir() + "/cache.log")
	return NewCache(realtime, log, time.Hour), realtime
}

func TestGetFetchesOnFirstRead(t *testing.T) {
	cache, _ := newTestCache(t)

	calls := 0
	err := cache.Register("projects", store.CollectionProjects, func(ctx context.Context) (interface{}, error) {
		calls++
		return []string{"alpha"}, nil
	})
	assert.NoError(t, err)

	value, err := cache.Get(context.Background(), "projects")
	assert.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, value)
	assert.Equal(t, 1, calls)

	// Second read is served from cache.
	_, err = cache.Get(context.Background(), "projects")
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestChangeEventRefetchesOnce(t *testing.T) {
	cache, realtime := newTestCache(t)

	var mu sync.Mutex
	calls := 0
	current := []string{"v1"}
	err := cache.Register("projects", store.CollectionProjects, func(ctx context.Context) (interface{}, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return current, nil
	})
	assert.NoError(t, err)

	_, err = cache.Get(context.Background(), "projects")
	assert.NoError(t, err)

	mu.Lock()
	current = []string{"v2"}
	mu.Unlock()

	realtime.emit(store.CollectionProjects)

	value, err := cache.Get(context.Background(), "projects")
	assert.NoError(t, err)
	assert.Equal(t, []string{"v2"}, value)

	mu.Lock()
	assert.Equal(t, 2, calls)
	mu.Unlock()
}

func TestRefreshFailureKeepsPreviousValue(t *testing.T) {
	cache, _ := newTestCache(t)

	fail := false
	err := cache.Register("profiles", store.CollectionProfiles, func(ctx context.Context) (interface{}, error) {
		if fail {
			return nil, errors.New("connection reset")
		}
		return []string{"alice"}, nil
	})
	assert.NoError(t, err)

	_, err = cache.Get(context.Background(), "profiles")
	assert.NoError(t, err)

	fail = true
	_, err = cache.Refresh(context.Background(), "profiles")
	var fetchErr *entity.RemoteFetchError
	assert.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "profiles", fetchErr.Query)

	// The stale value is still served.
	value, err := cache.Get(context.Background(), "profiles")
	assert.NoError(t, err)
	assert.Equal(t, []string{"alice"}, value)
}

func TestInvalidateServesStaleWhileRevalidating(t *testing.T) {
	cache, _ := newTestCache(t)

	var mu sync.Mutex
	current := []string{"old"}
	fetched := make(chan struct{}, 2)
	err := cache.Register("projects", store.CollectionProjects, func(ctx context.Context) (interface{}, error) {
		mu.Lock()
		defer mu.Unlock()
		fetched <- struct{}{}
		return current, nil
	})
	assert.NoError(t, err)

	_, err = cache.Get(context.Background(), "projects")
	assert.NoError(t, err)
	<-fetched

	mu.Lock()
	current = []string{"new"}
	mu.Unlock()

	cache.Invalidate("projects")

	// Stale read answers immediately with the old value.
	value, err := cache.Get(context.Background(), "projects")
	assert.NoError(t, err)
	assert.Equal(t, []string{"old"}, value)

	// The background refresh lands eventually.
	select {
	case <-fetched:
	case <-time.After(2 * time.Second):
		t.Fatal("background refresh never ran")
	}
	assert.Eventually(t, func() bool {
		value, err := cache.Get(context.Background(), "projects")
		if err != nil {
			return false
		}
		got, ok := value.([]string)
		return ok && len(got) == 1 && got[0] == "new"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestInvalidateAllMarksEveryQueryStale(t *testing.T) {
	cache, _ := newTestCache(t)

	var projectFetches, profileFetches atomic.Int32
	err := cache.Register("projects", store.CollectionProjects, func(ctx context.Context) (interface{}, error) {
		projectFetches.Add(1)
		return []string{"p"}, nil
	})
	assert.NoError(t, err)
	err = cache.Register("profiles", store.CollectionProfiles, func(ctx context.Context) (interface{}, error) {
		profileFetches.Add(1)
		return []string{"u"}, nil
	})
	assert.NoError(t, err)

	_, err = cache.Get(context.Background(), "projects")
	assert.NoError(t, err)
	_, err = cache.Get(context.Background(), "profiles")
	assert.NoError(t, err)

	cache.InvalidateAll()

	_, err = cache.Get(context.Background(), "projects")
	assert.NoError(t, err)
	_, err = cache.Get(context.Background(), "profiles")
	assert.NoError(t, err)

	assert.Eventually(t, func() bool {
		return projectFetches.Load() == 2 && profileFetches.Load() == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestGetAsRejectsWrongType(t *testing.T) {
	cache, _ := newTestCache(t)

	err := cache.Register("projects", store.CollectionProjects, func(ctx context.Context) (interface{}, error) {
		return []string{"alpha"}, nil
	})
	assert.NoError(t, err)

	typed, err := GetAs[[]string](context.Background(), cache, "projects")
	assert.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, typed)

	_, err = GetAs[int](context.Background(), cache, "projects")
	assert.Error(t, err)
}
