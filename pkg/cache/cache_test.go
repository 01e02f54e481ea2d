package cache_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/yeisme/mediavault/pkg/cache"
	"github.com/yeisme/mediavault/pkg/internal/storage/kv"
)

// cachedFingerprint 测试用的缓存条目：扫描管道实际缓存的形态.
type cachedFingerprint struct {
	Hash string `json:"hash"`
	Size int64  `json:"size"`
}

// mockKVStore 模拟KV存储实现.
type mockKVStore struct {
	data map[string][]byte
}

func newMockKVStore() *mockKVStore {
	return &mockKVStore{
		data: make(map[string][]byte),
	}
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if value, exists := m.data[key]; exists {
		return value, nil
	}

	return nil, fmt.Errorf("%w: %s", kv.ErrNotFound, key)
}

func (m *mockKVStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *mockKVStore) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *mockKVStore) Exists(ctx context.Context, key string) (bool, error) {
	_, exists := m.data[key]
	return exists, nil
}

func (m *mockKVStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	keys := make([]string, 0, len(m.data))
	for key := range m.data {
		keys = append(keys, key)
	}

	return keys, nil
}

func (m *mockKVStore) Close() error {
	return nil
}

// TestCache_SetGet 基本的类型化读写.
func TestCache_SetGet(t *testing.T) {
	c := cache.NewCache(newMockKVStore())
	ctx := context.Background()

	// 获取不存在的键
	if _, err := cache.Get[cachedFingerprint](ctx, c, "nonexistent"); err == nil {
		t.Error("Expected error for nonexistent key")
	}

	fp := cachedFingerprint{Hash: "1024-deadbeef", Size: 1024}

	if err := cache.Set(ctx, c, "fp:1", fp, 0); err != nil {
		t.Fatalf("Failed to set cache: %v", err)
	}

	got, err := cache.Get[cachedFingerprint](ctx, c, "fp:1")
	if err != nil {
		t.Fatalf("Failed to get cache: %v", err)
	}

	if got != fp {
		t.Errorf("Retrieved %+v does not match original %+v", got, fp)
	}
}

// TestCache_DeleteExists 删除后 Exists 变为 false.
func TestCache_DeleteExists(t *testing.T) {
	c := cache.NewCache(newMockKVStore())
	ctx := context.Background()

	if err := cache.Set(ctx, c, "fp:2", cachedFingerprint{Hash: "x"}, 0); err != nil {
		t.Fatal(err)
	}

	exists, err := c.Exists(ctx, "fp:2")
	if err != nil || !exists {
		t.Fatalf("exists before delete: %v/%v", exists, err)
	}

	if err := c.Delete(ctx, "fp:2"); err != nil {
		t.Fatalf("Failed to delete cache: %v", err)
	}

	exists, err = c.Exists(ctx, "fp:2")
	if err != nil {
		t.Fatal(err)
	}

	if exists {
		t.Error("Key should not exist after deletion")
	}
}

// TestGetOrSet 命中缓存时不再调用 getter.
func TestGetOrSet(t *testing.T) {
	c := cache.NewCache(newMockKVStore())
	ctx := context.Background()

	callCount := 0
	getter := func() (string, error) {
		callCount++
		return "2048-cafebabe", nil
	}

	fp1, err := cache.GetOrSet(ctx, c, "fp:3", getter, 0)
	if err != nil {
		t.Fatalf("Failed to get or set: %v", err)
	}

	fp2, err := cache.GetOrSet(ctx, c, "fp:3", getter, 0)
	if err != nil {
		t.Fatalf("Failed to get or set: %v", err)
	}

	if callCount != 1 {
		t.Errorf("Expected getter to be called once, got %d", callCount)
	}

	if fp1 != fp2 {
		t.Errorf("Results don't match: %q vs %q", fp1, fp2)
	}
}

// TestGetOrSet_GetterError getter 失败时错误原样返回.
func TestGetOrSet_GetterError(t *testing.T) {
	c := cache.NewCache(newMockKVStore())
	ctx := context.Background()

	wantErr := errors.New("unreadable source")
	getter := func() (string, error) {
		return "", wantErr
	}

	if _, err := cache.GetOrSet(ctx, c, "fp:err", getter, 0); !errors.Is(err, wantErr) {
		t.Errorf("got %v, want getter error", err)
	}
}

// TestCache_Clear 清空后所有键消失.
func TestCache_Clear(t *testing.T) {
	store := newMockKVStore()
	c := cache.NewCache(store)
	ctx := context.Background()

	for i := range 3 {
		key := fmt.Sprintf("fp:%d", i)
		if err := cache.Set(ctx, c, key, cachedFingerprint{Hash: key}, 0); err != nil {
			t.Fatalf("Failed to set cache: %v", err)
		}
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Failed to clear cache: %v", err)
	}

	if len(store.data) != 0 {
		t.Errorf("Expected 0 items after clear, got %d", len(store.data))
	}
}

// TestFingerprintKey 键对输入敏感且形态稳定.
func TestFingerprintKey(t *testing.T) {
	k1 := cache.FingerprintKey("a.jpg", 1024, 999)
	k2 := cache.FingerprintKey("a.jpg", 1024, 999)
	k3 := cache.FingerprintKey("a.jpg", 1024, 1000)
	k4 := cache.FingerprintKey("b.jpg", 1024, 999)

	if k1 != k2 {
		t.Errorf("same inputs produced different keys: %q vs %q", k1, k2)
	}

	if k1 == k3 || k1 == k4 {
		t.Errorf("distinct inputs collided: %q %q %q", k1, k3, k4)
	}

	if len(k1) != len("fp:")+16 {
		t.Errorf("unexpected key shape: %q", k1)
	}
}
