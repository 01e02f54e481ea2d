package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/yeisme/mediavault/pkg/internal/engine"
	"github.com/yeisme/mediavault/pkg/internal/library"
	"github.com/yeisme/mediavault/pkg/internal/registry"
	"github.com/yeisme/mediavault/pkg/internal/types"
)

func TestRunTrashPurge(t *testing.T) {
	lib := library.New(engine.Options{})
	reg := registry.New(registry.NewMemoryBackend())
	ctx := context.Background()

	old := time.Now().AddDate(0, 0, -40).UnixMilli()
	fresh := time.Now().AddDate(0, 0, -1).UnixMilli()

	lib.Upsert([]types.MediaFile{
		{ID: "expired", Name: "a.jpg", Status: types.StatusDeleted, DeletedAt: old},
		{ID: "recent", Name: "b.jpg", Status: types.StatusDeleted, DeletedAt: fresh},
		{ID: "alive", Name: "c.jpg", Status: types.StatusHealthy},
	})
	reg.Store(ctx, "expired", []byte("x"), "image/jpeg")

	runTrashPurge(ctx, lib, reg, nil, 30)

	if _, ok := lib.Get("expired"); ok {
		t.Fatal("expired trash entry should be purged")
	}

	if _, ok := lib.Get("recent"); !ok {
		t.Fatal("entry within retention should survive")
	}

	if _, ok := lib.Get("alive"); !ok {
		t.Fatal("non-deleted entry should survive")
	}

	if _, ok := reg.Payload("expired"); ok {
		t.Fatal("purged entry should have its asset released")
	}
}

func TestRunTrashPurge_KeepsEntriesWithoutDeletedAt(t *testing.T) {
	lib := library.New(engine.Options{})

	lib.Upsert([]types.MediaFile{
		{ID: "m1", Name: "a.jpg", Status: types.StatusDeleted},
	})

	runTrashPurge(context.Background(), lib, nil, nil, 30)

	if _, ok := lib.Get("m1"); !ok {
		t.Fatal("entry without deletion timestamp must not be purged")
	}
}

func TestRunPreviewAudit(t *testing.T) {
	lib := library.New(engine.Options{})
	reg := registry.New(registry.NewMemoryBackend())
	ctx := context.Background()

	lib.Upsert([]types.MediaFile{
		{ID: "kept", Name: "a.jpg", Status: types.StatusHealthy},
	})
	reg.Store(ctx, "kept", []byte("k"), "image/jpeg")
	reg.Store(ctx, "orphan", []byte("o"), "image/jpeg")

	runPreviewAudit(ctx, lib, reg)

	if _, ok := reg.Payload("kept"); !ok {
		t.Fatal("asset with a live record should be retained")
	}

	if _, ok := reg.Payload("orphan"); ok {
		t.Fatal("orphan asset should be reclaimed")
	}
}

func TestRefreshLibraryMetrics(t *testing.T) {
	lib := library.New(engine.Options{})
	reg := registry.New(registry.NewMemoryBackend())

	lib.Upsert([]types.MediaFile{
		{ID: "p1", Name: "a.jpg", Status: types.StatusHealthy},
		{ID: "d1", Name: "b.jpg", Status: types.StatusDuplicate, DuplicateOf: "p1"},
		{ID: "d2", Name: "c.jpg", Status: types.StatusDuplicate, DuplicateOf: "p1"},
	})

	// 只验证不 panic 以及能处理空注册表
	refreshLibraryMetrics(lib, reg)
	refreshLibraryMetrics(lib, nil)
}
