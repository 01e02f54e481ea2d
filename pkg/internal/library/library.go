// Package library 维护媒体库的内存记录集合.
//
// 集合保持插入顺序，所有读写并发安全；任何会影响分组的变更
// （导入、状态翻转、删除）都在写锁内同步重聚类，
// 对外暴露的快照因此总是满足聚类不变式.
package library

import (
	"errors"
	"sync"

	"github.com/yeisme/mediavault/pkg/internal/engine"
	"github.com/yeisme/mediavault/pkg/internal/types"
)

// ErrNotFound 请求的记录不在库中.
var ErrNotFound = errors.New("media record not found")

// Library 有序的媒体记录集合.
type Library struct {
	mu    sync.RWMutex
	files []types.MediaFile
	index map[string]int // id -> files 下标
	opts  engine.Options
}

// New 创建空库.
func New(opts engine.Options) *Library {
	return &Library{
		index: make(map[string]int),
		opts:  opts,
	}
}

// Len 返回记录总数.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.files)
}

// Snapshot 返回全部记录的拷贝，调用方可自由修改.
func (l *Library) Snapshot() []types.MediaFile {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]types.MediaFile, len(l.files))
	copy(out, l.files)

	return out
}

// Get 按 ID 取记录拷贝.
func (l *Library) Get(id string) (types.MediaFile, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i, ok := l.index[id]
	if !ok {
		return types.MediaFile{}, false
	}

	return l.files[i], true
}

// Upsert 批量写入记录：已有 ID 原位替换，新 ID 追加到尾部，随后重聚类.
func (l *Library) Upsert(files []types.MediaFile) {
	if len(files) == 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, f := range files {
		if i, ok := l.index[f.ID]; ok {
			l.files[i] = f
		} else {
			l.index[f.ID] = len(l.files)
			l.files = append(l.files, f)
		}
	}

	l.reclusterLocked()
}

// Update 在写锁内修改一条记录并重聚类；fn 返回错误时记录保持原样.
func (l *Library) Update(id string, fn func(f *types.MediaFile) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.index[id]
	if !ok {
		return ErrNotFound
	}

	staged := l.files[i]
	if err := fn(&staged); err != nil {
		return err
	}

	staged.ID = l.files[i].ID // ID 不可变
	l.files[i] = staged

	l.reclusterLocked()

	return nil
}

// Remove 永久移除一条记录并重聚类（其重复项会被顺延决选）.
func (l *Library) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.index[id]
	if !ok {
		return false
	}

	l.files = append(l.files[:i], l.files[i+1:]...)
	delete(l.index, id)

	for j := i; j < len(l.files); j++ {
		l.index[l.files[j].ID] = j
	}

	l.reclusterLocked()

	return true
}

// Recluster 对整库重聚类，导入外部状态后调用.
func (l *Library) Recluster() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.reclusterLocked()
}

// ReclusterWith 用给定选项做一次性重聚类（旧版覆盖语义走这里）.
func (l *Library) ReclusterWith(opts engine.Options) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.files = engine.DetectDuplicatesWith(l.files, opts)
}

// ReplaceAll 整体替换集合内容并重聚类，快照恢复用.
func (l *Library) ReplaceAll(files []types.MediaFile) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.files = make([]types.MediaFile, len(files))
	copy(l.files, files)

	l.index = make(map[string]int, len(files))
	for i := range l.files {
		l.index[l.files[i].ID] = i
	}

	l.reclusterLocked()
}

// Reset 清空整个库.
func (l *Library) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.files = nil
	l.index = make(map[string]int)
}

// IDs 返回当前全部记录 ID 的集合，句柄审计用.
func (l *Library) IDs() map[string]struct{} {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[string]struct{}, len(l.files))
	for i := range l.files {
		out[l.files[i].ID] = struct{}{}
	}

	return out
}

func (l *Library) reclusterLocked() {
	// 聚类引擎逐下标保序，index 无需重建
	l.files = engine.DetectDuplicatesWith(l.files, l.opts)
}
