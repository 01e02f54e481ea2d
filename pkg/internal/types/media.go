// Package types 定义媒体库的请求/响应结构和核心记录类型.
package types

import "strconv"

// MediaStatus 媒体记录状态.
type MediaStatus string

const (
	StatusHealthy     MediaStatus = "healthy"
	StatusNeedsFix    MediaStatus = "needs_fix"
	StatusDuplicate   MediaStatus = "duplicate"
	StatusOptimized   MediaStatus = "optimized"
	StatusPendingMove MediaStatus = "pending_move"
	StatusMoved       MediaStatus = "moved"
	StatusDeleted     MediaStatus = "deleted"
	StatusCorrupted   MediaStatus = "corrupted"
)

// RecoveryMethod 日期恢复来源.
type RecoveryMethod string

const (
	RecoveryJSON       RecoveryMethod = "JSON"
	RecoveryEXIF       RecoveryMethod = "EXIF"
	RecoveryFilename   RecoveryMethod = "Filename"
	RecoveryFilesystem RecoveryMethod = "Filesystem"
	RecoveryNone       RecoveryMethod = "None"
)

// MediaFile 媒体库中的一条记录.
// 指纹（Hash）在摄取时同步计算，此后在记录生命周期内不可变；
// 状态与 DuplicateOf 由聚类引擎或用户动作改写.
type MediaFile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Size int64  `json:"size"`
	// Type MIME 类型，如 image/jpeg
	Type string `json:"type"`
	// LastModified 毫秒时间戳
	LastModified int64 `json:"last_modified"`
	// CapturedDate 已确认的拍摄日期（毫秒时间戳的十进制字符串）
	CapturedDate string `json:"captured_date,omitempty"`
	// SuggestedDate 候选恢复日期，尚未落实
	SuggestedDate  string         `json:"suggested_date,omitempty"`
	RecoveryMethod RecoveryMethod `json:"recovery_method,omitempty"`
	Status         MediaStatus    `json:"status"`
	// Hash 内容指纹，"{size}-{sha1(head)}" 或降级签名
	Hash string `json:"hash,omitempty"`
	// DuplicateOf 所在聚类主记录的 ID；主记录或未聚类记录为空
	DuplicateOf  string `json:"duplicate_of,omitempty"`
	RelativePath string `json:"relative_path,omitempty"`
	ProposedPath string `json:"proposed_path,omitempty"`
	OriginalPath string `json:"original_path,omitempty"`
	// DeletedAt 移入回收站的毫秒时间戳，供保留期清理
	DeletedAt int64 `json:"deleted_at,omitempty"`
}

// IsClusterable 记录是否参与重聚类（仅 healthy/duplicate 之间切换）.
func (f *MediaFile) IsClusterable() bool {
	return f.Status == StatusHealthy || f.Status == StatusDuplicate
}

// BestDateMillis 返回记录最可信的日期（毫秒）：已确认拍摄日期 > 候选日期 > mtime.
// 解析失败时逐级回退.
func (f *MediaFile) BestDateMillis() int64 {
	if ms, ok := parseMillis(f.CapturedDate); ok {
		return ms
	}

	if ms, ok := parseMillis(f.SuggestedDate); ok {
		return ms
	}

	return f.LastModified
}

func parseMillis(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}

	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}

	return ms, true
}
