package registry_test

import (
	"context"
	"sync"
	"testing"

	"github.com/yeisme/mediavault/pkg/internal/registry"
)

// countingBackend 记录发布/撤销次数的测试后端.
type countingBackend struct {
	mu       sync.Mutex
	publish  int
	revoke   int
	byObject map[string]int // 每个 ID 当前存活的发布数
}

func newCountingBackend() *countingBackend {
	return &countingBackend{byObject: make(map[string]int)}
}

func (b *countingBackend) Publish(_ context.Context, id string, _ []byte, _ string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.publish++
	b.byObject[id]++

	return "test://" + id, nil
}

func (b *countingBackend) Revoke(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.revoke++
	if b.byObject[id] > 0 {
		b.byObject[id]--
	}

	return nil
}

func (b *countingBackend) alive(id string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.byObject[id]
}

// TestRegistry_HandleLazyAndIdempotent 句柄首次访问才发布，重复访问返回同一句柄.
func TestRegistry_HandleLazyAndIdempotent(t *testing.T) {
	ctx := context.Background()
	backend := newCountingBackend()
	r := registry.New(backend)

	r.Store(ctx, "m1", []byte("jpeg bytes"), "image/jpeg")

	if backend.publish != 0 {
		t.Fatalf("store must not publish, got %d publishes", backend.publish)
	}

	h1, ok, err := r.Handle(ctx, "m1")
	if err != nil || !ok {
		t.Fatalf("first handle: ok=%v err=%v", ok, err)
	}

	h2, ok, err := r.Handle(ctx, "m1")
	if err != nil || !ok {
		t.Fatalf("second handle: ok=%v err=%v", ok, err)
	}

	if h1 != h2 {
		t.Errorf("handles differ: %q vs %q", h1, h2)
	}

	if backend.publish != 1 {
		t.Errorf("got %d publishes, want 1", backend.publish)
	}
}

// TestRegistry_MissIsNotError 未登记的 ID 返回 ok=false，不发布也不报错.
func TestRegistry_MissIsNotError(t *testing.T) {
	ctx := context.Background()
	backend := newCountingBackend()
	r := registry.New(backend)

	h, ok, err := r.Handle(ctx, "ghost")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ok || h != "" {
		t.Errorf("got handle=%q ok=%v, want miss", h, ok)
	}

	if backend.publish != 0 {
		t.Errorf("miss triggered %d publishes", backend.publish)
	}
}

// TestRegistry_ReleaseKeepsPayload 释放只撤销句柄，负载留存，
// 之后可以重新取得句柄（UI 组件卸载后再挂载的场景）.
func TestRegistry_ReleaseKeepsPayload(t *testing.T) {
	ctx := context.Background()
	backend := newCountingBackend()
	r := registry.New(backend)

	r.Store(ctx, "m1", []byte("x"), "image/png")

	if _, _, err := r.Handle(ctx, "m1"); err != nil {
		t.Fatal(err)
	}

	if err := r.Release(ctx, "m1"); err != nil {
		t.Fatal(err)
	}

	if _, ok := r.Payload("m1"); !ok {
		t.Fatal("payload must survive release")
	}

	if got := backend.alive("m1"); got != 0 {
		t.Errorf("%d published objects alive after release", got)
	}

	// 再次挂载：句柄重新惰性发布
	h, ok, err := r.Handle(ctx, "m1")
	if err != nil || !ok || h == "" {
		t.Fatalf("reacquire after release: handle=%q ok=%v err=%v", h, ok, err)
	}

	if backend.publish != 2 {
		t.Errorf("got %d publishes, want 2 (one per acquisition)", backend.publish)
	}

	// 重复释放
	if err := r.Release(ctx, "m1"); err != nil {
		t.Errorf("double release: %v", err)
	}
}

// TestRegistry_RemoveDropsAsset 移除撤销句柄并丢弃负载，之后无法再取得句柄.
func TestRegistry_RemoveDropsAsset(t *testing.T) {
	ctx := context.Background()
	backend := newCountingBackend()
	r := registry.New(backend)

	r.Store(ctx, "m1", []byte("x"), "image/png")

	if _, _, err := r.Handle(ctx, "m1"); err != nil {
		t.Fatal(err)
	}

	if err := r.Remove(ctx, "m1"); err != nil {
		t.Fatal(err)
	}

	if _, ok := r.Payload("m1"); ok {
		t.Error("payload survived remove")
	}

	if _, ok, err := r.Handle(ctx, "m1"); err != nil || ok {
		t.Errorf("handle after remove: ok=%v err=%v, want miss", ok, err)
	}

	if got := backend.alive("m1"); got != 0 {
		t.Errorf("%d published objects alive after remove", got)
	}

	// 重复移除
	if err := r.Remove(ctx, "m1"); err != nil {
		t.Errorf("double remove: %v", err)
	}
}

// TestRegistry_StoreKeepsStaleHandle 替换负载不自动撤销旧句柄，
// 由调用方自行 Release 后才重新发布.
func TestRegistry_StoreKeepsStaleHandle(t *testing.T) {
	ctx := context.Background()
	backend := newCountingBackend()
	r := registry.New(backend)

	r.Store(ctx, "m1", []byte("v1"), "image/jpeg")

	h1, _, err := r.Handle(ctx, "m1")
	if err != nil {
		t.Fatal(err)
	}

	r.Store(ctx, "m1", []byte("v2"), "image/jpeg")

	if backend.revoke != 0 {
		t.Errorf("store auto-revoked: %d revokes", backend.revoke)
	}

	// 旧句柄仍然有效，继续指向旧内容
	h2, _, err := r.Handle(ctx, "m1")
	if err != nil {
		t.Fatal(err)
	}

	if h2 != h1 {
		t.Errorf("stale handle replaced without release: %q vs %q", h2, h1)
	}

	// 调用方显式释放后，下一次访问发布新内容的句柄
	if err := r.Release(ctx, "m1"); err != nil {
		t.Fatal(err)
	}

	if _, _, err := r.Handle(ctx, "m1"); err != nil {
		t.Fatal(err)
	}

	if backend.publish != 2 {
		t.Errorf("got %d publishes, want 2 (one per payload version)", backend.publish)
	}
}

// TestRegistry_ConcurrentHandleBounded 并发请求同一句柄时存活发布数恒为 1.
func TestRegistry_ConcurrentHandleBounded(t *testing.T) {
	ctx := context.Background()
	backend := newCountingBackend()
	r := registry.New(backend)

	r.Store(ctx, "hot", []byte("popular"), "image/webp")

	var wg sync.WaitGroup

	handles := make([]string, 16)

	for i := range handles {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			h, ok, err := r.Handle(ctx, "hot")
			if err != nil || !ok {
				t.Errorf("goroutine %d: ok=%v err=%v", i, ok, err)
				return
			}

			handles[i] = h
		}(i)
	}

	wg.Wait()

	for i := 1; i < len(handles); i++ {
		if handles[i] != handles[0] {
			t.Errorf("goroutine %d got %q, others got %q", i, handles[i], handles[0])
		}
	}

	if got := backend.alive("hot"); got != 1 {
		t.Errorf("%d published objects alive, want exactly 1", got)
	}
}

// TestRegistry_ClearAndStats Clear 撤销全部句柄并清空统计.
func TestRegistry_ClearAndStats(t *testing.T) {
	ctx := context.Background()
	backend := newCountingBackend()
	r := registry.New(backend)

	for _, id := range []string{"a", "b", "c"} {
		r.Store(ctx, id, []byte(id), "image/jpeg")
	}

	if _, _, err := r.Handle(ctx, "a"); err != nil {
		t.Fatal(err)
	}

	assets, handles := r.Stats()
	if assets != 3 || handles != 1 {
		t.Errorf("got assets=%d handles=%d, want 3/1", assets, handles)
	}

	if err := r.Clear(ctx); err != nil {
		t.Fatal(err)
	}

	assets, handles = r.Stats()
	if assets != 0 || handles != 0 {
		t.Errorf("after clear: assets=%d handles=%d, want 0/0", assets, handles)
	}

	if got := backend.alive("a"); got != 0 {
		t.Errorf("%d published objects alive after clear", got)
	}
}

// TestRegistry_Retain 只保留给定集合，其余连同句柄一起回收.
func TestRegistry_Retain(t *testing.T) {
	ctx := context.Background()
	backend := newCountingBackend()
	r := registry.New(backend)

	for _, id := range []string{"keep", "orphan1", "orphan2"} {
		r.Store(ctx, id, []byte(id), "image/jpeg")
	}

	if _, _, err := r.Handle(ctx, "orphan1"); err != nil {
		t.Fatal(err)
	}

	removed := r.Retain(ctx, map[string]struct{}{"keep": {}})
	if removed != 2 {
		t.Errorf("got %d removed, want 2", removed)
	}

	if _, ok := r.Payload("keep"); !ok {
		t.Error("retained asset vanished")
	}

	if got := backend.alive("orphan1"); got != 0 {
		t.Errorf("orphan handle still alive: %d", got)
	}
}

// TestMemoryBackend 内存后端的句柄可区分重发布，撤销无害.
func TestMemoryBackend(t *testing.T) {
	ctx := context.Background()
	b := registry.NewMemoryBackend()

	h1, err := b.Publish(ctx, "m1", nil, "")
	if err != nil {
		t.Fatal(err)
	}

	h2, err := b.Publish(ctx, "m1", nil, "")
	if err != nil {
		t.Fatal(err)
	}

	if h1 == h2 {
		t.Errorf("republish returned identical handle %q", h1)
	}

	if err := b.Revoke(ctx, "m1"); err != nil {
		t.Errorf("revoke: %v", err)
	}
}
