package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
// 建议在发布消息时填充 TraceID、OccurredAt、Producer 等，便于追踪链路与审计.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于离线处理或转储后定位来源主题.
	Topic string `json:"topic"`
	// TraceID 分布式追踪/关联 ID，可来自中间件或业务生成.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者服务名或节点标识.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC，RFC3339）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本，便于向后兼容演进.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
// T 即不同主题对应的负载结构体.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// MediaRef 标识一条媒体记录的关键字段快照.
type MediaRef struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	Size         int64  `json:"size,omitempty"`
	Hash         string `json:"hash,omitempty"`
	Status       string `json:"status,omitempty"`
	RelativePath string `json:"relative_path,omitempty"`
}

// -------------------------- 库级操作 --------------------------

// ScanCompletedPayload 一次恢复扫描摄取完成.
type ScanCompletedPayload struct {
	JobID      string `json:"job_id,omitempty"`
	Imported   int    `json:"imported"`
	Skipped    int    `json:"skipped,omitempty"`
	Duplicates int    `json:"duplicates"`
	Total      int    `json:"total"`
	ElapsedMS  int64  `json:"elapsed_ms,omitempty"`
}

// ScanFailedPayload 扫描摄取失败.
type ScanFailedPayload struct {
	JobID string `json:"job_id,omitempty"`
	Error string `json:"error"`
}

// ReclusterCompletedPayload 全库重聚类完成.
type ReclusterCompletedPayload struct {
	Total      int  `json:"total"`
	Duplicates int  `json:"duplicates"`
	Clusters   int  `json:"clusters"`
	Legacy     bool `json:"legacy,omitempty"` // 是否使用旧版覆盖语义
}

// LibraryResetPayload 库被整体重置.
type LibraryResetPayload struct {
	Removed         int `json:"removed"`
	ReleasedAssets  int `json:"released_assets,omitempty"`
	ReleasedHandles int `json:"released_handles,omitempty"`
}

// -------------------------- 查重领域 --------------------------

// DuplicatesDetectedPayload 指纹查重产生新的聚类结果.
type DuplicatesDetectedPayload struct {
	Clusters    int   `json:"clusters"`
	Duplicates  int   `json:"duplicates"`
	WastedBytes int64 `json:"wasted_bytes,omitempty"`
}

// VisualCompletedPayload 外部视觉查重结果已合并.
type VisualCompletedPayload struct {
	Clusters int `json:"clusters"`
	Marked   int `json:"marked"` // 视觉聚类中的非主记录数
}

// VisualFailedPayload 外部视觉查重调用失败.
type VisualFailedPayload struct {
	Error string `json:"error"`
}

// -------------------------- 单条记录生命周期 --------------------------

// MediaTrashedPayload 记录进入回收站.
type MediaTrashedPayload struct {
	Media     MediaRef `json:"media"`
	DeletedAt string   `json:"deleted_at,omitempty"` // RFC3339
}

// MediaRestoredPayload 记录从回收站恢复.
type MediaRestoredPayload struct {
	Media MediaRef `json:"media"`
}

// MediaDeletedPayload 记录被永久移除.
type MediaDeletedPayload struct {
	Media MediaRef `json:"media"`
}

// MediaOptimizedPayload 记录完成压缩优化.
type MediaOptimizedPayload struct {
	Media     MediaRef `json:"media"`
	SizeAfter int64    `json:"size_after"`
	Saved     int64    `json:"saved"`
}

// MediaMovedPayload 记录归档移动完成.
type MediaMovedPayload struct {
	Media        MediaRef `json:"media"`
	OriginalPath string   `json:"original_path,omitempty"`
	ProposedPath string   `json:"proposed_path"`
}

// -------------------------- 回收站维护 --------------------------

// TrashPurgedPayload 到期回收站记录被清理.
type TrashPurgedPayload struct {
	Purged        int `json:"purged"`
	OlderThanDays int `json:"older_than_days"`
}

// -------------------------- 预览资产 --------------------------

// PreviewPublishedPayload 预览句柄已发布.
type PreviewPublishedPayload struct {
	MediaID string `json:"media_id"`
	Handle  string `json:"handle"`
}

// PreviewReleasedPayload 预览资产被释放.
type PreviewReleasedPayload struct {
	MediaID string `json:"media_id"`
}
