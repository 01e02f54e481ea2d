// Package registry 管理媒体预览资产：负载字节与惰性发布的预览句柄.
//
// 注册表本身只做内存簿记；句柄的实际发布（对象存储上传、签名 URL）
// 由 Backend 实现承担，未配置对象存储时退化为内存句柄.
package registry

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/yeisme/mediavault/pkg/log"
)

// Backend 预览句柄的发布后端.
type Backend interface {
	// Publish 为资产发布一个可供 UI 消费的句柄（URL 或等价标识）.
	Publish(ctx context.Context, id string, data []byte, contentType string) (string, error)
	// Revoke 撤销已发布的句柄并释放后端资源，撤销不存在的句柄不算错误.
	Revoke(ctx context.Context, id string) error
}

// Asset 注册表持有的预览负载.
type Asset struct {
	Data        []byte
	ContentType string
}

// Registry 以记录 ID 为键的资产注册表，所有方法并发安全.
type Registry struct {
	mu      sync.Mutex
	backend Backend
	assets  map[string]Asset
	handles map[string]string

	// publishing 合并同一 ID 的并发发布，保证每个资产至多一次在途上传
	publishing singleflight.Group

	logger zerolog.Logger
}

// New 创建空注册表.
func New(backend Backend) *Registry {
	return &Registry{
		backend: backend,
		assets:  make(map[string]Asset),
		handles: make(map[string]string),
		logger:  log.Logger().With().Str("component", "registry").Logger(),
	}
}

// Store 登记（或替换）一条记录的预览负载.
// 替换负载不会自动撤销已发布的句柄：旧句柄继续指向旧内容，
// 由调用方在替换前后自行 Release.
func (r *Registry) Store(ctx context.Context, id string, data []byte, contentType string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.assets[id] = Asset{Data: data, ContentType: contentType}
}

// Payload 返回记录的预览负载；缺席返回 ok=false，不是错误.
func (r *Registry) Payload(id string) (Asset, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.assets[id]

	return a, ok
}

// Handle 返回记录的预览句柄，首次访问时惰性发布.
// 对同一 ID 重复调用返回同一句柄（除非负载被替换或释放）；
// 未登记负载的 ID 返回 ok=false 且不触发发布.
func (r *Registry) Handle(ctx context.Context, id string) (string, bool, error) {
	r.mu.Lock()

	if h, ok := r.handles[id]; ok {
		r.mu.Unlock()
		return h, true, nil
	}

	asset, ok := r.assets[id]
	if !ok {
		r.mu.Unlock()
		return "", false, nil
	}

	r.mu.Unlock()

	// 发布不持锁（对象存储上传可能耗时数百毫秒），
	// singleflight 合并并发请求，落败方复用胜者的句柄
	v, err, _ := r.publishing.Do(id, func() (any, error) {
		r.mu.Lock()
		if h, ok := r.handles[id]; ok {
			r.mu.Unlock()
			return h, nil
		}
		r.mu.Unlock()

		h, err := r.backend.Publish(ctx, id, asset.Data, asset.ContentType)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.handles[id] = h
		r.mu.Unlock()

		return h, nil
	})
	if err != nil {
		return "", false, err
	}

	return v.(string), true, nil
}

// Release 撤销一条记录已发布的预览句柄，负载保留在注册表里，
// 之后再次请求 Handle 会重新惰性发布；重复释放是无害的.
// UI 侧预览组件卸载时调用，滚动中反复挂载/卸载不会丢失资产.
func (r *Registry) Release(ctx context.Context, id string) error {
	r.mu.Lock()
	_, hadHandle := r.handles[id]
	delete(r.handles, id)
	r.mu.Unlock()

	if !hadHandle {
		return nil
	}

	return r.backend.Revoke(ctx, id)
}

// Remove 把一条记录从注册表中彻底移除：撤销句柄并丢弃负载.
// 永久删除与回收站清理路径用它，重复移除是无害的.
func (r *Registry) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	_, hadHandle := r.handles[id]
	delete(r.handles, id)
	delete(r.assets, id)
	r.mu.Unlock()

	if !hadHandle {
		return nil
	}

	return r.backend.Revoke(ctx, id)
}

// Clear 释放全部资产，库重置时调用.
func (r *Registry) Clear(ctx context.Context) error {
	r.mu.Lock()
	ids := make([]string, 0, len(r.handles))
	for id := range r.handles {
		ids = append(ids, id)
	}

	r.assets = make(map[string]Asset)
	r.handles = make(map[string]string)
	r.mu.Unlock()

	var firstErr error

	for _, id := range ids {
		if err := r.backend.Revoke(ctx, id); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// Retain 只保留给定 ID 集合的资产，其余释放；句柄审计任务用它回收孤儿.
// 返回释放的资产条数.
func (r *Registry) Retain(ctx context.Context, keep map[string]struct{}) int {
	r.mu.Lock()

	var victims []string

	for id := range r.assets {
		if _, ok := keep[id]; !ok {
			victims = append(victims, id)
		}
	}

	r.mu.Unlock()

	for _, id := range victims {
		if err := r.Remove(ctx, id); err != nil {
			r.logger.Warn().Err(err).Str("id", id).Msg("回收孤儿预览资产失败")
		}
	}

	return len(victims)
}

// Stats 返回当前登记的资产数与已发布句柄数.
func (r *Registry) Stats() (assets, handles int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.assets), len(r.handles)
}
