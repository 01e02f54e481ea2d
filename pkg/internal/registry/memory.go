package registry

import (
	"context"
	"strconv"
	"sync/atomic"
)

// MemoryBackend 进程内句柄后端：不上传任何数据，
// 句柄形如 "mem://previews/{id}#{rev}"，负载仍由注册表自身持有.
// 未配置对象存储时的默认后端.
type MemoryBackend struct {
	rev atomic.Uint64
}

// NewMemoryBackend 创建内存句柄后端.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// Publish 合成一个进程内句柄，rev 单调递增以区分重发布.
func (m *MemoryBackend) Publish(_ context.Context, id string, _ []byte, _ string) (string, error) {
	return "mem://previews/" + id + "#" + strconv.FormatUint(m.rev.Add(1), 10), nil
}

// Revoke 无资源可回收.
func (m *MemoryBackend) Revoke(context.Context, string) error {
	return nil
}
