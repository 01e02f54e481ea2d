package types

// LibraryStats 媒体库统计.
type LibraryStats struct {
	TotalFiles      int   `json:"total_files"`
	TotalSize       int64 `json:"total_size"`
	DuplicatesFound int   `json:"duplicates_found"`
	// DuplicateWaste 重复记录（非主）占用的字节数
	DuplicateWaste  int64 `json:"duplicate_waste"`
	TimeIssuesFound int   `json:"time_issues_found"`
	OptimizedCount  int   `json:"optimized_count"`
	// RecoveredBytes 通过删除/优化已实际回收的字节数
	RecoveredBytes int64 `json:"recovered_bytes"`
	TrashCount     int   `json:"trash_count"`
	// PreviewHandles 当前持有的预览句柄数量（资源泄漏观测用）
	PreviewHandles int `json:"preview_handles"`
}
