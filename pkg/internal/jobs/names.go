package jobs

// 任务名称常量，便于统一管理与引用.
const (
	JobTrashAutoPurge    = "trash.auto_purge"
	JobPreviewAudit      = "preview.audit"
	JobLibraryMetricsRef = "library.metrics.refresh"
)

// Cron 表达式常量（可选，但推荐一并集中管理）.
const (
	CronTrashAutoPurge    = "0 4 * * *"
	CronPreviewAudit      = "*/30 * * * *"
	CronLibraryMetricsRef = "* * * * *"
)
