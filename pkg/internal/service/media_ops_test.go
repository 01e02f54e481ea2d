package service

import (
	"context"
	"testing"

	"github.com/yeisme/mediavault/pkg/internal/types"
)

// seedLibrary 预置三条记录：a/b 共享指纹（b 是重复），c 独立.
func seedLibrary(t *testing.T, svc *MediaService) {
	t.Helper()

	svc.lib.Upsert([]types.MediaFile{
		{ID: "a", Name: "a.jpg", Size: 100, Type: "image/jpeg", LastModified: 1000, Status: types.StatusHealthy, Hash: "h1"},
		{ID: "b", Name: "b.jpg", Size: 100, Type: "image/jpeg", LastModified: 2000, Status: types.StatusHealthy, Hash: "h1"},
		{ID: "c", Name: "c.jpg", Size: 50, Type: "image/jpeg", LastModified: 500, Status: types.StatusHealthy, Hash: "h2"},
	})
}

func TestListDuplicates(t *testing.T) {
	svc := newTestService()
	seedLibrary(t, svc)

	resp, err := svc.ListDuplicates(context.Background())
	if err != nil {
		t.Fatalf("ListDuplicates: %v", err)
	}

	if len(resp.Clusters) != 1 {
		t.Fatalf("clusters = %d, want 1", len(resp.Clusters))
	}

	cl := resp.Clusters[0]
	if cl.PrimaryID != "a" {
		t.Errorf("primary = %q, want a", cl.PrimaryID)
	}

	if len(cl.IDs) != 2 || cl.IDs[0] != "a" || cl.IDs[1] != "b" {
		t.Errorf("cluster ids = %v", cl.IDs)
	}

	if cl.WastedBytes != 100 || resp.TotalWastedBytes != 100 {
		t.Errorf("wasted = %d / %d, want 100 / 100", cl.WastedBytes, resp.TotalWastedBytes)
	}
}

func TestRecluster_LegacyOverwritesTerminalStatus(t *testing.T) {
	svc := newTestService()
	seedLibrary(t, svc)

	// 把 b 标记为 optimized，默认模式不得改写它
	_ = svc.lib.Update("b", func(r *types.MediaFile) error {
		r.Status = types.StatusOptimized
		r.DuplicateOf = ""
		return nil
	})

	resp, err := svc.Recluster(context.Background(), &types.ReclusterRequest{})
	if err != nil {
		t.Fatalf("Recluster: %v", err)
	}

	if f, _ := svc.lib.Get("b"); f.Status != types.StatusOptimized {
		t.Errorf("default mode overwrote optimized status: %s", f.Status)
	}

	if resp.Duplicates != 0 {
		t.Errorf("duplicates = %d, want 0", resp.Duplicates)
	}

	// 旧版覆盖语义把一切拉回 healthy/duplicate
	resp, err = svc.Recluster(context.Background(), &types.ReclusterRequest{Legacy: true})
	if err != nil {
		t.Fatalf("Recluster legacy: %v", err)
	}

	if f, _ := svc.lib.Get("b"); f.Status != types.StatusDuplicate || f.DuplicateOf != "a" {
		t.Errorf("legacy mode: b = %s duplicateOf %q", f.Status, f.DuplicateOf)
	}

	if resp.Changed == 0 {
		t.Error("legacy recluster should report changed records")
	}
}

func TestTrashRestoreFlow(t *testing.T) {
	svc := newTestService()
	seedLibrary(t, svc)
	ctx := context.Background()

	// 主记录进回收站后，重复项顺延成为主记录
	f, err := svc.Trash(ctx, "a")
	if err != nil {
		t.Fatalf("Trash: %v", err)
	}

	if f.Status != types.StatusDeleted || f.DeletedAt == 0 {
		t.Fatalf("trashed record: %s deletedAt=%d", f.Status, f.DeletedAt)
	}

	if b, _ := svc.lib.Get("b"); b.Status != types.StatusHealthy || b.DuplicateOf != "" {
		t.Errorf("b should be promoted, got %s duplicateOf %q", b.Status, b.DuplicateOf)
	}

	// 重复入回收站报错
	if _, err := svc.Trash(ctx, "a"); err == nil {
		t.Error("trashing a trashed record should fail")
	}

	// 恢复后重新参与聚类，按决选规则夺回主记录
	if _, err := svc.Restore(ctx, "a"); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if a, _ := svc.lib.Get("a"); a.Status != types.StatusHealthy || a.DeletedAt != 0 {
		t.Errorf("restored a: %s deletedAt=%d", a.Status, a.DeletedAt)
	}

	if b, _ := svc.lib.Get("b"); b.Status != types.StatusDuplicate || b.DuplicateOf != "a" {
		t.Errorf("after restore b = %s duplicateOf %q", b.Status, b.DuplicateOf)
	}

	if _, err := svc.Restore(ctx, "b"); err == nil {
		t.Error("restoring a record not in trash should fail")
	}
}

func TestDelete_RemovesRecordAndAsset(t *testing.T) {
	svc := newTestService()
	seedLibrary(t, svc)
	ctx := context.Background()

	svc.registry.Store(ctx, "a", []byte("payload"), "image/jpeg")

	if err := svc.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, ok := svc.lib.Get("a"); ok {
		t.Error("record still present after delete")
	}

	if _, ok := svc.registry.Payload("a"); ok {
		t.Error("asset still present after delete")
	}

	if err := svc.Delete(ctx, "missing"); err == nil {
		t.Error("deleting unknown id should fail")
	}
}

func TestOptimize(t *testing.T) {
	svc := newTestService()
	seedLibrary(t, svc)
	ctx := context.Background()

	resp, err := svc.Optimize(ctx, "c", &types.OptimizeRequest{NewSize: 20})
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}

	if resp.SizeBefore != 50 || resp.SizeAfter != 20 || resp.Saved != 30 {
		t.Errorf("optimize resp = %+v", resp)
	}

	if f, _ := svc.lib.Get("c"); f.Status != types.StatusOptimized || f.Size != 20 {
		t.Errorf("c = %s size=%d", f.Status, f.Size)
	}

	// 不合理的目标大小只标记状态
	resp, err = svc.Optimize(ctx, "a", &types.OptimizeRequest{NewSize: 9999})
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}

	if resp.Saved != 0 || resp.SizeAfter != 100 {
		t.Errorf("oversized target: %+v", resp)
	}
}

func TestPreviewLifecycle(t *testing.T) {
	svc := newTestService()
	seedLibrary(t, svc)
	ctx := context.Background()

	// 未登记负载的 ID 返回缺席而不是错误
	if _, ok, err := svc.Preview(ctx, "a"); err != nil || ok {
		t.Fatalf("preview without payload: ok=%v err=%v", ok, err)
	}

	svc.registry.Store(ctx, "a", []byte("bytes"), "image/jpeg")

	h1, ok, err := svc.Preview(ctx, "a")
	if err != nil || !ok || h1 == "" {
		t.Fatalf("preview: %q ok=%v err=%v", h1, ok, err)
	}

	// 重复访问返回同一缓存句柄
	h2, _, _ := svc.Preview(ctx, "a")
	if h2 != h1 {
		t.Errorf("handle changed between calls: %q vs %q", h1, h2)
	}

	if err := svc.ReleasePreview(ctx, "a"); err != nil {
		t.Fatalf("ReleasePreview: %v", err)
	}

	// 释放只撤销句柄，负载留存，重新挂载可再次取得句柄
	if _, ok := svc.registry.Payload("a"); !ok {
		t.Fatal("payload must survive release")
	}

	h3, ok, err := svc.Preview(ctx, "a")
	if err != nil || !ok || h3 == "" {
		t.Fatalf("preview after release: %q ok=%v err=%v", h3, ok, err)
	}

	// 重复释放无害
	if err := svc.ReleasePreview(ctx, "a"); err != nil {
		t.Fatalf("release: %v", err)
	}

	if err := svc.ReleasePreview(ctx, "a"); err != nil {
		t.Errorf("double release: %v", err)
	}
}

func TestPurge(t *testing.T) {
	svc := newTestService()
	seedLibrary(t, svc)
	ctx := context.Background()

	if _, err := svc.Trash(ctx, "b"); err != nil {
		t.Fatalf("Trash: %v", err)
	}

	// 刚删除的记录不满足 30 天阈值
	resp, err := svc.Purge(ctx, &types.PurgeRequest{OlderThanDays: 30})
	if err != nil {
		t.Fatalf("Purge: %v", err)
	}

	if resp.Purged != 0 {
		t.Fatalf("purged = %d, want 0", resp.Purged)
	}

	// 0 表示清空全部
	resp, err = svc.Purge(ctx, &types.PurgeRequest{})
	if err != nil {
		t.Fatalf("Purge: %v", err)
	}

	if resp.Purged != 1 {
		t.Fatalf("purged = %d, want 1", resp.Purged)
	}

	if _, ok := svc.lib.Get("b"); ok {
		t.Error("b still in library after purge")
	}

	trash, _ := svc.ListTrash(ctx)
	if trash.Total != 0 {
		t.Errorf("trash total = %d, want 0", trash.Total)
	}
}

func TestStatsAndReset(t *testing.T) {
	svc := newTestService()
	seedLibrary(t, svc)
	ctx := context.Background()

	_ = svc.lib.Update("c", func(r *types.MediaFile) error {
		r.SuggestedDate = "1710460800000"
		return nil
	})

	if _, err := svc.Trash(ctx, "b"); err != nil {
		t.Fatalf("Trash: %v", err)
	}

	svc.registry.Store(ctx, "a", []byte("bytes"), "image/jpeg")

	if _, _, err := svc.Preview(ctx, "a"); err != nil {
		t.Fatalf("Preview: %v", err)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}

	if stats.TotalFiles != 2 || stats.TrashCount != 1 {
		t.Errorf("stats = %+v", stats)
	}

	if stats.TimeIssuesFound != 1 {
		t.Errorf("time issues = %d, want 1", stats.TimeIssuesFound)
	}

	if stats.PreviewHandles != 1 {
		t.Errorf("preview handles = %d, want 1", stats.PreviewHandles)
	}

	if err := svc.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	if svc.lib.Len() != 0 {
		t.Error("library not emptied by reset")
	}

	if assets, handles := svc.registry.Stats(); assets != 0 || handles != 0 {
		t.Errorf("registry not cleared: assets=%d handles=%d", assets, handles)
	}
}

func TestApplyDatesAndOrganize(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	svc.lib.Upsert([]types.MediaFile{
		// 2024-03-14 的毫秒时间戳
		{ID: "p", Name: "IMG_01.JPG", Size: 1, LastModified: 99, SuggestedDate: "1710460800000", Status: types.StatusHealthy, Hash: "x1", RelativePath: "old/IMG_01.JPG"},
		{ID: "q", Name: "q.jpg", Size: 1, LastModified: 99, Status: types.StatusHealthy, Hash: "x2"},
	})

	preview, err := svc.OrganizePreview(ctx)
	if err != nil {
		t.Fatalf("OrganizePreview: %v", err)
	}

	if len(preview.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(preview.Entries))
	}

	if preview.Entries[0].ProposedPath != "2024/03_Mar/IMG_01.JPG" {
		t.Errorf("proposed = %q", preview.Entries[0].ProposedPath)
	}

	// 预览结果写回记录
	if f, _ := svc.lib.Get("p"); f.ProposedPath != "2024/03_Mar/IMG_01.JPG" {
		t.Errorf("proposedPath not persisted: %q", f.ProposedPath)
	}

	applied, err := svc.ApplyDates(ctx, &types.ApplyDatesRequest{})
	if err != nil {
		t.Fatalf("ApplyDates: %v", err)
	}

	if applied.Applied != 1 {
		t.Fatalf("applied = %d, want 1", applied.Applied)
	}

	f, _ := svc.lib.Get("p")
	if f.CapturedDate != "1710460800000" || f.SuggestedDate != "" {
		t.Errorf("after apply: captured=%q suggested=%q", f.CapturedDate, f.SuggestedDate)
	}

	updated, err := svc.MarkMove(ctx, &types.MarkMoveRequest{IDs: []string{"p"}, Done: true})
	if err != nil || updated != 1 {
		t.Fatalf("MarkMove: updated=%d err=%v", updated, err)
	}

	f, _ = svc.lib.Get("p")
	if f.Status != types.StatusMoved {
		t.Errorf("status = %s, want moved", f.Status)
	}

	if f.RelativePath != "2024/03_Mar/IMG_01.JPG" || f.OriginalPath != "old/IMG_01.JPG" {
		t.Errorf("paths after move: relative=%q original=%q", f.RelativePath, f.OriginalPath)
	}
}
