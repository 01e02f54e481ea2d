package configs

import (
	"github.com/spf13/viper"
)

const (
	DefaultScanBatchSize      = 250  // 扫描批次大小（每批之间让出调度）
	DefaultFingerprintWorkers = 8    // 单批内并发指纹计算的上限
	DefaultFingerprintCache   = true // 是否启用 KV 指纹缓存
	DefaultReclusterAll       = false
	DefaultTrashRetentionDays = 30 // 回收站保留天数
)

type (
	// LibraryConfig 媒体库扫描与聚类配置.
	LibraryConfig struct {
		// ScanBatchSize 摄取管道单批处理的记录数，批与批之间检查取消
		ScanBatchSize int `mapstructure:"scan_batch_size" rule:"min=1,max=10000"`
		// FingerprintWorkers 单批内并发指纹计算数
		FingerprintWorkers int `mapstructure:"fingerprint_workers" rule:"min=1,max=64"`
		// FingerprintCache 是否把指纹按 (name,size,mtime) 缓存进 KV
		FingerprintCache bool `mapstructure:"fingerprint_cache"`
		// ReclusterAll 兼容旧行为：重聚类时无条件覆盖所有状态
		ReclusterAll bool `mapstructure:"recluster_all"`
		// TrashRetentionDays 回收站自动清理阈值（天）
		TrashRetentionDays int `mapstructure:"trash_retention_days" rule:"min=1,max=365"`
	}
)

// setDefaults 设置媒体库配置的默认值.
func (c *LibraryConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("library.scan_batch_size", DefaultScanBatchSize)
	v.SetDefault("library.fingerprint_workers", DefaultFingerprintWorkers)
	v.SetDefault("library.fingerprint_cache", DefaultFingerprintCache)
	v.SetDefault("library.recluster_all", DefaultReclusterAll)
	v.SetDefault("library.trash_retention_days", DefaultTrashRetentionDays)
}
