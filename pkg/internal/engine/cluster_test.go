package engine_test

import (
	"reflect"
	"testing"

	"github.com/yeisme/mediavault/pkg/internal/engine"
	"github.com/yeisme/mediavault/pkg/internal/types"
)

func findByID(t *testing.T, files []types.MediaFile, id string) *types.MediaFile {
	t.Helper()

	for i := range files {
		if files[i].ID == id {
			return &files[i]
		}
	}

	t.Fatalf("record %q not found", id)

	return nil
}

// TestDetectDuplicates_PrimaryByOldestThenLargest 最旧 mtime 决选主记录，唯一指纹保持 healthy.
func TestDetectDuplicates_PrimaryByOldestThenLargest(t *testing.T) {
	files := []types.MediaFile{
		{ID: "a", Name: "one.jpg", Size: 100, Type: "image/jpeg", LastModified: 1000, Status: types.StatusHealthy, Hash: "h1"},
		{ID: "b", Name: "two.jpg", Size: 200, Type: "image/jpeg", LastModified: 2000, Status: types.StatusHealthy, Hash: "h1"},
		{ID: "c", Name: "three.jpg", Size: 150, Type: "image/jpeg", LastModified: 500, Status: types.StatusHealthy, Hash: "h2"},
	}

	out := engine.DetectDuplicates(files)

	a := findByID(t, out, "a")
	b := findByID(t, out, "b")
	c := findByID(t, out, "c")

	if a.Status != types.StatusHealthy || a.DuplicateOf != "" {
		t.Errorf("a: got status=%s duplicateOf=%q, want healthy primary", a.Status, a.DuplicateOf)
	}

	if b.Status != types.StatusDuplicate || b.DuplicateOf != "a" {
		t.Errorf("b: got status=%s duplicateOf=%q, want duplicate of a", b.Status, b.DuplicateOf)
	}

	if c.Status != types.StatusHealthy || c.DuplicateOf != "" {
		t.Errorf("c: got status=%s duplicateOf=%q, want untouched healthy", c.Status, c.DuplicateOf)
	}
}

// TestDetectDuplicates_TieBreakBySize mtime 相同时更大的记录胜出.
func TestDetectDuplicates_TieBreakBySize(t *testing.T) {
	files := []types.MediaFile{
		{ID: "small", Name: "x.jpg", Size: 50, LastModified: 1000, Status: types.StatusHealthy, Hash: "h1"},
		{ID: "big", Name: "y.jpg", Size: 300, LastModified: 1000, Status: types.StatusHealthy, Hash: "h1"},
	}

	out := engine.DetectDuplicates(files)

	big := findByID(t, out, "big")
	small := findByID(t, out, "small")

	if big.Status != types.StatusHealthy {
		t.Errorf("big: got status=%s, want healthy", big.Status)
	}

	if small.Status != types.StatusDuplicate || small.DuplicateOf != "big" {
		t.Errorf("small: got status=%s duplicateOf=%q, want duplicate of big", small.Status, small.DuplicateOf)
	}
}

// TestDetectDuplicates_FullTieFirstWins 指纹、mtime、size 全部相同时首个出现者为主.
func TestDetectDuplicates_FullTieFirstWins(t *testing.T) {
	// 两条都没有指纹、零大小零时间的空记录：按同一降级键聚为一组
	files := []types.MediaFile{
		{ID: "first", Name: "a.bin", Status: types.StatusHealthy},
		{ID: "second", Name: "b.bin", Status: types.StatusHealthy},
	}

	out := engine.DetectDuplicates(files)

	first := findByID(t, out, "first")
	second := findByID(t, out, "second")

	if first.Status != types.StatusHealthy || first.DuplicateOf != "" {
		t.Errorf("first: got status=%s duplicateOf=%q, want primary", first.Status, first.DuplicateOf)
	}

	if second.Status != types.StatusDuplicate || second.DuplicateOf != "first" {
		t.Errorf("second: got status=%s duplicateOf=%q, want duplicate of first", second.Status, second.DuplicateOf)
	}
}

// TestDetectDuplicates_OrderPreserved 输出顺序与输入逐下标一致.
func TestDetectDuplicates_OrderPreserved(t *testing.T) {
	files := []types.MediaFile{
		{ID: "z", Name: "z.jpg", LastModified: 3, Status: types.StatusHealthy, Hash: "h1"},
		{ID: "m", Name: "m.jpg", LastModified: 1, Status: types.StatusHealthy, Hash: "h2"},
		{ID: "a", Name: "a.jpg", LastModified: 2, Status: types.StatusHealthy, Hash: "h1"},
		{ID: "q", Name: "q.jpg", LastModified: 9, Status: types.StatusHealthy, Hash: "h3"},
	}

	out := engine.DetectDuplicates(files)

	if len(out) != len(files) {
		t.Fatalf("length changed: got %d, want %d", len(out), len(files))
	}

	for i := range files {
		if out[i].ID != files[i].ID {
			t.Errorf("index %d: got id %q, want %q", i, out[i].ID, files[i].ID)
		}
	}
}

// TestDetectDuplicates_Idempotent 对自身输出重跑得到逐字段相同的结果.
func TestDetectDuplicates_Idempotent(t *testing.T) {
	files := []types.MediaFile{
		{ID: "a", Name: "a.jpg", Size: 10, LastModified: 100, Status: types.StatusHealthy, Hash: "h1"},
		{ID: "b", Name: "b.jpg", Size: 20, LastModified: 200, Status: types.StatusHealthy, Hash: "h1"},
		{ID: "c", Name: "c.jpg", Size: 30, LastModified: 300, Status: types.StatusHealthy, Hash: "h2"},
		{ID: "d", Name: "d.jpg", Size: 40, LastModified: 50, Status: types.StatusHealthy, Hash: "h1"},
	}

	once := engine.DetectDuplicates(files)
	twice := engine.DetectDuplicates(once)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

// TestDetectDuplicates_StaleDuplicateDemoted 孤立指纹上的陈旧 duplicate 状态被清理.
func TestDetectDuplicates_StaleDuplicateDemoted(t *testing.T) {
	files := []types.MediaFile{
		{ID: "a", Name: "a.jpg", LastModified: 1, Status: types.StatusDuplicate, DuplicateOf: "gone", Hash: "h1"},
	}

	out := engine.DetectDuplicates(files)

	if out[0].Status != types.StatusHealthy {
		t.Errorf("got status=%s, want healthy", out[0].Status)
	}

	if out[0].DuplicateOf != "" {
		t.Errorf("got duplicateOf=%q, want cleared", out[0].DuplicateOf)
	}
}

// TestDetectDuplicates_TerminalStatusesUntouched 默认模式不碰 deleted/optimized 等状态.
func TestDetectDuplicates_TerminalStatusesUntouched(t *testing.T) {
	files := []types.MediaFile{
		{ID: "del", Name: "del.jpg", LastModified: 1, Status: types.StatusDeleted, Hash: "h1"},
		{ID: "opt", Name: "opt.jpg", LastModified: 2, Status: types.StatusOptimized, Hash: "h1"},
		{ID: "ok", Name: "ok.jpg", LastModified: 3, Status: types.StatusHealthy, Hash: "h1"},
	}

	out := engine.DetectDuplicates(files)

	if got := findByID(t, out, "del").Status; got != types.StatusDeleted {
		t.Errorf("deleted record: got status=%s, want deleted", got)
	}

	if got := findByID(t, out, "opt").Status; got != types.StatusOptimized {
		t.Errorf("optimized record: got status=%s, want optimized", got)
	}

	// 剩余唯一可聚类记录退化为孤立组，保持 healthy
	ok := findByID(t, out, "ok")
	if ok.Status != types.StatusHealthy || ok.DuplicateOf != "" {
		t.Errorf("ok: got status=%s duplicateOf=%q, want healthy", ok.Status, ok.DuplicateOf)
	}
}

// TestDetectDuplicatesWith_ReclusterAll 旧模式把终态记录也拉回分组并覆盖状态.
func TestDetectDuplicatesWith_ReclusterAll(t *testing.T) {
	files := []types.MediaFile{
		{ID: "del", Name: "del.jpg", LastModified: 1, Status: types.StatusDeleted, Hash: "h1"},
		{ID: "ok", Name: "ok.jpg", LastModified: 3, Status: types.StatusHealthy, Hash: "h1"},
	}

	out := engine.DetectDuplicatesWith(files, engine.Options{ReclusterAll: true})

	del := findByID(t, out, "del")
	ok := findByID(t, out, "ok")

	if del.Status != types.StatusHealthy {
		t.Errorf("del: got status=%s, want healthy (legacy overwrite)", del.Status)
	}

	if ok.Status != types.StatusDuplicate || ok.DuplicateOf != "del" {
		t.Errorf("ok: got status=%s duplicateOf=%q, want duplicate of del", ok.Status, ok.DuplicateOf)
	}
}

// TestDetectDuplicates_PrimaryUniqueness 每个多元素聚类恰好一个主记录，引用无链式.
func TestDetectDuplicates_PrimaryUniqueness(t *testing.T) {
	files := []types.MediaFile{
		{ID: "a", Name: "a.jpg", Size: 1, LastModified: 10, Status: types.StatusHealthy, Hash: "h1"},
		{ID: "b", Name: "b.jpg", Size: 2, LastModified: 20, Status: types.StatusHealthy, Hash: "h1"},
		{ID: "c", Name: "c.jpg", Size: 3, LastModified: 30, Status: types.StatusHealthy, Hash: "h1"},
		{ID: "d", Name: "d.jpg", Size: 4, LastModified: 40, Status: types.StatusHealthy, Hash: "h2"},
		{ID: "e", Name: "e.jpg", Size: 5, LastModified: 50, Status: types.StatusHealthy, Hash: "h2"},
	}

	out := engine.DetectDuplicates(files)

	byID := make(map[string]*types.MediaFile, len(out))
	for i := range out {
		byID[out[i].ID] = &out[i]
	}

	primaries := map[string]int{}

	for i := range out {
		f := &out[i]
		if f.Status == types.StatusHealthy {
			primaries[f.Hash]++
		}

		if f.DuplicateOf == "" {
			continue
		}

		ref, okRef := byID[f.DuplicateOf]
		if !okRef {
			t.Fatalf("%s: duplicateOf %q not in collection", f.ID, f.DuplicateOf)
		}

		if ref.DuplicateOf != "" {
			t.Errorf("%s -> %s: transitive duplicateOf chain", f.ID, f.DuplicateOf)
		}
	}

	for hash, n := range primaries {
		if n != 1 {
			t.Errorf("hash %s: %d primaries, want exactly 1", hash, n)
		}
	}
}

// TestSelectPrimary 外部聚类使用同一决选规则.
func TestSelectPrimary(t *testing.T) {
	group := []types.MediaFile{
		{ID: "x", Size: 10, LastModified: 500},
		{ID: "y", Size: 99, LastModified: 100},
		{ID: "z", Size: 10, LastModified: 100},
	}

	if got := engine.SelectPrimary(group); got != "y" {
		t.Errorf("got %q, want y (oldest, then largest)", got)
	}

	if got := engine.SelectPrimary(nil); got != "" {
		t.Errorf("empty group: got %q, want empty", got)
	}
}
