package library_test

import (
	"testing"

	"github.com/yeisme/mediavault/pkg/internal/engine"
	"github.com/yeisme/mediavault/pkg/internal/library"
	"github.com/yeisme/mediavault/pkg/internal/types"
)

func seed() []types.MediaFile {
	return []types.MediaFile{
		{ID: "a", Name: "a.jpg", Size: 100, LastModified: 1000, Status: types.StatusHealthy, Hash: "h1"},
		{ID: "b", Name: "b.jpg", Size: 200, LastModified: 2000, Status: types.StatusHealthy, Hash: "h1"},
		{ID: "c", Name: "c.jpg", Size: 150, LastModified: 500, Status: types.StatusHealthy, Hash: "h2"},
	}
}

// TestLibrary_UpsertClusters 导入后集合立即满足聚类不变式.
func TestLibrary_UpsertClusters(t *testing.T) {
	lib := library.New(engine.Options{})
	lib.Upsert(seed())

	b, ok := lib.Get("b")
	if !ok {
		t.Fatal("record b missing")
	}

	if b.Status != types.StatusDuplicate || b.DuplicateOf != "a" {
		t.Errorf("b: got status=%s duplicateOf=%q, want duplicate of a", b.Status, b.DuplicateOf)
	}
}

// TestLibrary_UpsertReplacesInPlace 已有 ID 原位替换，不打乱顺序.
func TestLibrary_UpsertReplacesInPlace(t *testing.T) {
	lib := library.New(engine.Options{})
	lib.Upsert(seed())

	lib.Upsert([]types.MediaFile{
		{ID: "b", Name: "b-v2.jpg", Size: 999, LastModified: 2000, Status: types.StatusHealthy, Hash: "h3"},
	})

	snap := lib.Snapshot()

	wantOrder := []string{"a", "b", "c"}
	for i, id := range wantOrder {
		if snap[i].ID != id {
			t.Errorf("index %d: got %q, want %q", i, snap[i].ID, id)
		}
	}

	b, _ := lib.Get("b")
	if b.Name != "b-v2.jpg" {
		t.Errorf("got name %q, want replaced payload", b.Name)
	}

	// b 换了指纹脱离 h1 组，a 不再有重复项
	if b.Status != types.StatusHealthy || b.DuplicateOf != "" {
		t.Errorf("b: got status=%s duplicateOf=%q, want standalone healthy", b.Status, b.DuplicateOf)
	}
}

// TestLibrary_RemovePrimaryPromotesSuccessor 删除主记录后组内顺延决选.
func TestLibrary_RemovePrimaryPromotesSuccessor(t *testing.T) {
	lib := library.New(engine.Options{})
	lib.Upsert(seed())

	if !lib.Remove("a") {
		t.Fatal("remove a failed")
	}

	b, ok := lib.Get("b")
	if !ok {
		t.Fatal("record b missing")
	}

	if b.Status != types.StatusHealthy || b.DuplicateOf != "" {
		t.Errorf("b: got status=%s duplicateOf=%q, want promoted primary", b.Status, b.DuplicateOf)
	}

	if lib.Len() != 2 {
		t.Errorf("got %d records, want 2", lib.Len())
	}
}

// TestLibrary_UpdateTrashedExcludedFromClustering 标记删除的记录退出分组，其重复项被提升.
func TestLibrary_UpdateTrashedExcludedFromClustering(t *testing.T) {
	lib := library.New(engine.Options{})
	lib.Upsert(seed())

	err := lib.Update("a", func(f *types.MediaFile) error {
		f.Status = types.StatusDeleted
		f.DuplicateOf = ""
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	a, _ := lib.Get("a")
	if a.Status != types.StatusDeleted {
		t.Errorf("a: got status=%s, want deleted preserved across recluster", a.Status)
	}

	b, _ := lib.Get("b")
	if b.Status != types.StatusHealthy || b.DuplicateOf != "" {
		t.Errorf("b: got status=%s duplicateOf=%q, want promoted after trash", b.Status, b.DuplicateOf)
	}
}

// TestLibrary_UpdateNotFound 未知 ID 返回 ErrNotFound.
func TestLibrary_UpdateNotFound(t *testing.T) {
	lib := library.New(engine.Options{})

	err := lib.Update("ghost", func(*types.MediaFile) error { return nil })
	if err != library.ErrNotFound {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

// TestLibrary_SnapshotIsolated 快照修改不影响库内状态.
func TestLibrary_SnapshotIsolated(t *testing.T) {
	lib := library.New(engine.Options{})
	lib.Upsert(seed())

	snap := lib.Snapshot()
	snap[0].Status = types.StatusCorrupted

	a, _ := lib.Get("a")
	if a.Status == types.StatusCorrupted {
		t.Error("snapshot mutation leaked into library")
	}
}

// TestLibrary_Reset 清空后 Len 为 0，旧 ID 不可见.
func TestLibrary_Reset(t *testing.T) {
	lib := library.New(engine.Options{})
	lib.Upsert(seed())
	lib.Reset()

	if lib.Len() != 0 {
		t.Errorf("got %d records after reset", lib.Len())
	}

	if _, ok := lib.Get("a"); ok {
		t.Error("record survived reset")
	}
}

// TestLibrary_ReclusterWithLegacy 一次性旧版覆盖重聚类.
func TestLibrary_ReclusterWithLegacy(t *testing.T) {
	lib := library.New(engine.Options{})
	lib.Upsert([]types.MediaFile{
		{ID: "del", Name: "del.jpg", LastModified: 1, Status: types.StatusDeleted, Hash: "h1"},
		{ID: "ok", Name: "ok.jpg", LastModified: 3, Status: types.StatusHealthy, Hash: "h1"},
	})

	lib.ReclusterWith(engine.Options{ReclusterAll: true})

	del, _ := lib.Get("del")
	if del.Status != types.StatusHealthy {
		t.Errorf("del: got status=%s, want healthy after legacy recluster", del.Status)
	}
}
