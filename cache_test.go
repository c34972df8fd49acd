package yandexhome

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestMemoryCache_GetSet(t *testing.T) {
	cache := NewMemoryCache()

	cache.Set("key1", []byte("value1"), time.Hour)
	val, ok := cache.Get("key1")
	if !ok {
		t.Error("expected key1 to exist")
	}
	if string(val) != "value1" {
		t.Errorf("expected value1, got %s", val)
	}

	if _, ok := cache.Get("nonexistent"); ok {
		t.Error("expected nonexistent key to not exist")
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	cache := NewMemoryCache()

	cache.Set("expiring", []byte("value"), 50*time.Millisecond)
	if _, ok := cache.Get("expiring"); !ok {
		t.Error("expected key to exist before expiration")
	}

	time.Sleep(60 * time.Millisecond)

	if _, ok := cache.Get("expiring"); ok {
		t.Error("expected key to be expired")
	}
	if cache.Size() != 0 {
		t.Errorf("expected expired entry to be removed, size %d", cache.Size())
	}
}

func TestMemoryCache_NoExpiry(t *testing.T) {
	cache := NewMemoryCache()

	cache.Set("permanent", []byte("value"), 0)
	cache.Set("permanent2", []byte("value2"), -time.Second)

	for _, key := range []string{"permanent", "permanent2"} {
		if _, ok := cache.Get(key); !ok {
			t.Errorf("expected %s to exist", key)
		}
	}
}

func TestMemoryCache_DeleteClear(t *testing.T) {
	cache := NewMemoryCache()

	cache.Set("key1", []byte("1"), time.Hour)
	cache.Set("key2", []byte("2"), time.Hour)
	cache.Set("key3", []byte("3"), time.Hour)

	cache.Delete("key1")
	if _, ok := cache.Get("key1"); ok {
		t.Error("expected deleted key to not exist")
	}
	if cache.Size() != 2 {
		t.Errorf("expected size 2, got %d", cache.Size())
	}

	cache.Clear()
	if cache.Size() != 0 {
		t.Errorf("expected size 0 after clear, got %d", cache.Size())
	}
}

func TestMemoryCache_Cleanup(t *testing.T) {
	cache := NewMemoryCache()

	cache.Set("fresh", []byte("value"), time.Hour)
	cache.Set("expiring1", []byte("value1"), 10*time.Millisecond)
	cache.Set("expiring2", []byte("value2"), 10*time.Millisecond)

	time.Sleep(20 * time.Millisecond)

	if removed := cache.Cleanup(); removed != 2 {
		t.Errorf("expected 2 entries removed, got %d", removed)
	}
	if _, ok := cache.Get("fresh"); !ok {
		t.Error("expected fresh entry to still exist")
	}
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	cache := NewMemoryCache()
	done := make(chan bool)

	go func() {
		for i := 0; i < 1000; i++ {
			cache.Set("key", []byte{byte(i)}, time.Hour)
		}
		done <- true
	}()
	go func() {
		for i := 0; i < 1000; i++ {
			cache.Get("key")
		}
		done <- true
	}()
	go func() {
		for i := 0; i < 100; i++ {
			cache.Delete("key")
			time.Sleep(time.Millisecond)
		}
		done <- true
	}()

	<-done
	<-done
	<-done
}

func TestWithCache_Defaults(t *testing.T) {
	client, err := NewClient("token", WithCache(nil))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	cfg := client.cacheConfig
	if cfg == nil || cfg.Cache == nil {
		t.Fatal("expected cache to be configured")
	}
	if cfg.UserInfoTTL != 30*time.Second || cfg.StateTTL != 10*time.Second {
		t.Errorf("TTLs = %s, %s", cfg.UserInfoTTL, cfg.StateTTL)
	}

	client, err = NewClient("token", WithCache(&CacheConfig{StateTTL: time.Minute}))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client.cacheConfig.Cache == nil || client.cacheConfig.StateTTL != time.Minute {
		t.Errorf("config = %+v", client.cacheConfig)
	}
}

func TestCacheKey(t *testing.T) {
	if got := cacheKey(OpUserInfo); got != "user_info" {
		t.Errorf("cacheKey = %q", got)
	}
	if got := cacheKey(OpDeviceState, "lamp-1"); got != "device_state:lamp-1" {
		t.Errorf("cacheKey = %q", got)
	}
}

func TestClient_CachedReads(t *testing.T) {
	userInfo := loadFixture(t, "user_info.json")
	deviceState := loadFixture(t, "device_state.json")
	actions := []byte(`{"status":"ok","request_id":"r","devices":[]}`)

	var gets atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost:
			w.Write(actions)
		case r.URL.Path == "/v1.0/user/info":
			gets.Add(1)
			w.Write(userInfo)
		case r.URL.Path == "/v1.0/devices/missing":
			gets.Add(1)
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"status":"error","message":"not found"}`))
		default:
			gets.Add(1)
			w.Write(deviceState)
		}
	}, WithCache(DefaultCacheConfig()))
	ctx := context.Background()

	first, err := client.GetUserInfo(ctx)
	if err != nil {
		t.Fatalf("GetUserInfo failed: %v", err)
	}
	second, err := client.GetUserInfo(ctx)
	if err != nil {
		t.Fatalf("GetUserInfo failed: %v", err)
	}
	if gets.Load() != 1 {
		t.Errorf("requests = %d, want 1", gets.Load())
	}
	if first == second || &first.Devices[0] == &second.Devices[0] {
		t.Error("cache hits must decode a fresh value")
	}

	if _, err := client.GetDevice(ctx, "lamp"); err != nil {
		t.Fatalf("GetDevice failed: %v", err)
	}
	if _, err := client.GetDevice(ctx, "lamp"); err != nil {
		t.Fatalf("GetDevice failed: %v", err)
	}
	if gets.Load() != 2 {
		t.Errorf("requests = %d, want 2", gets.Load())
	}

	t.Run("errors are not cached", func(t *testing.T) {
		before := gets.Load()
		for i := 0; i < 2; i++ {
			if _, err := client.GetDevice(ctx, "missing"); !IsNotFound(err) {
				t.Fatalf("error = %v, want not found", err)
			}
		}
		if gets.Load()-before != 2 {
			t.Errorf("requests = %d, want 2", gets.Load()-before)
		}
	})

	t.Run("actions invalidate", func(t *testing.T) {
		before := gets.Load()
		req := NewDeviceActionsRequest(DeviceAction{ID: "lamp", Actions: []Action{{Type: CapabilityOnOff, State: NewOnOff(true)}}})
		if _, err := client.ApplyDeviceActions(ctx, req); err != nil {
			t.Fatalf("ApplyDeviceActions failed: %v", err)
		}
		if _, err := client.GetUserInfo(ctx); err != nil {
			t.Fatalf("GetUserInfo failed: %v", err)
		}
		if gets.Load()-before != 1 {
			t.Errorf("requests = %d, want 1", gets.Load()-before)
		}
	})

	t.Run("credential change invalidates", func(t *testing.T) {
		before := gets.Load()
		if err := client.SetToken("other-token"); err != nil {
			t.Fatal(err)
		}
		if _, err := client.GetUserInfo(ctx); err != nil {
			t.Fatalf("GetUserInfo failed: %v", err)
		}
		if gets.Load()-before != 1 {
			t.Errorf("requests = %d, want 1", gets.Load()-before)
		}
	})
}

func TestClient_NoCache(t *testing.T) {
	body := loadFixture(t, "user_info.json")
	var gets atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gets.Add(1)
		w.Write(body)
	})

	for i := 0; i < 3; i++ {
		if _, err := client.GetUserInfo(context.Background()); err != nil {
			t.Fatalf("GetUserInfo failed: %v", err)
		}
	}
	if gets.Load() != 3 {
		t.Errorf("requests = %d, want 3", gets.Load())
	}
	client.InvalidateCache()
}

// hookCache is a MemoryCache that runs beforeSet ahead of every store.
type hookCache struct {
	*MemoryCache
	mu        sync.Mutex
	beforeSet func()
}

func (h *hookCache) Set(key string, body []byte, ttl time.Duration) {
	h.mu.Lock()
	hook := h.beforeSet
	h.beforeSet = nil
	h.mu.Unlock()
	if hook != nil {
		hook()
	}
	h.MemoryCache.Set(key, body, ttl)
}

func TestClient_InvalidationDuringStore(t *testing.T) {
	body := loadFixture(t, "user_info.json")
	cache := &hookCache{MemoryCache: NewMemoryCache()}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}, WithCache(&CacheConfig{Cache: cache}))

	cache.beforeSet = func() {
		if err := client.SetCredentials("rotated-token", client.Endpoint()); err != nil {
			t.Errorf("SetCredentials failed: %v", err)
		}
	}
	if _, err := client.GetUserInfo(context.Background()); err != nil {
		t.Fatalf("GetUserInfo failed: %v", err)
	}
	if _, ok := cache.Get(cacheKey(OpUserInfo)); ok {
		t.Error("body fetched with the old token must not stay cached")
	}

	if _, err := client.GetUserInfo(context.Background()); err != nil {
		t.Fatalf("GetUserInfo failed: %v", err)
	}
	if _, ok := cache.Get(cacheKey(OpUserInfo)); !ok {
		t.Error("expected the next fetch to be cached")
	}
}
