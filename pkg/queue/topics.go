// Package queue 定义消息主题常量与通配模式，供发布/订阅使用.
package queue

// 主题命名规范：mv.<域>.<动作>[.<状态>]，尽量稳定且向后兼容.
// 域：library(库级操作)、duplicates(查重)、media(单条记录)、trash(回收站)、preview(预览资产)
// 状态：请求(requested)、完成(completed)、失败(failed)

const (
	// 库级操作.
	TopicScanCompleted      = "mv.library.scan.completed" // 一次恢复扫描摄取完成（含导入/重复统计）
	TopicScanFailed         = "mv.library.scan.failed"    // 扫描摄取失败
	TopicReclusterCompleted = "mv.library.reclustered"    // 全库重聚类完成
	TopicLibraryReset       = "mv.library.reset"          // 库被整体重置

	// 查重领域.
	TopicDuplicatesDetected = "mv.duplicates.detected"         // 指纹查重产生新的聚类结果
	TopicVisualCompleted    = "mv.duplicates.visual.completed" // 外部视觉查重结果已合并
	TopicVisualFailed       = "mv.duplicates.visual.failed"    // 外部视觉查重调用失败

	// 单条记录生命周期.
	TopicMediaTrashed   = "mv.media.trashed"   // 记录进入回收站
	TopicMediaRestored  = "mv.media.restored"  // 记录从回收站恢复
	TopicMediaDeleted   = "mv.media.deleted"   // 记录被永久移除
	TopicMediaOptimized = "mv.media.optimized" // 记录完成压缩优化
	TopicMediaMoved     = "mv.media.moved"     // 记录归档移动完成

	// 回收站维护.
	TopicTrashPurged = "mv.trash.purged" // 到期回收站记录被清理

	// 预览资产.
	TopicPreviewPublished = "mv.preview.published" // 预览句柄已发布
	TopicPreviewReleased  = "mv.preview.released"  // 预览资产被释放
)

// 主题分组，用于批量订阅或权限控制.
var (
	// 库级主题集合.
	LibraryTopics = []string{
		TopicScanCompleted, TopicScanFailed,
		TopicReclusterCompleted, TopicLibraryReset,
	}

	// 查重相关主题集合.
	DuplicateTopics = []string{
		TopicDuplicatesDetected, TopicVisualCompleted, TopicVisualFailed,
	}

	// 单条记录相关主题集合.
	MediaTopics = []string{
		TopicMediaTrashed, TopicMediaRestored, TopicMediaDeleted,
		TopicMediaOptimized, TopicMediaMoved,
	}

	// 预览资产相关主题集合.
	PreviewTopics = []string{
		TopicPreviewPublished, TopicPreviewReleased,
	}
)
