// Package jobs 负责注册与实现业务定时任务（基于 scheduler）。
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/yeisme/mediavault/pkg/configs"
	ctxPkg "github.com/yeisme/mediavault/pkg/context"
	"github.com/yeisme/mediavault/pkg/internal/library"
	"github.com/yeisme/mediavault/pkg/internal/registry"
	"github.com/yeisme/mediavault/pkg/internal/storage"
	"github.com/yeisme/mediavault/pkg/internal/types"
	"github.com/yeisme/mediavault/pkg/log"
	"github.com/yeisme/mediavault/pkg/metrics"
	"github.com/yeisme/mediavault/pkg/queue"
	"github.com/yeisme/mediavault/pkg/scheduler"
)

// RegisterCronJobs 配置业务定时任务：
//   - 每天 04:00 清理回收站中超过保留期的记录
//   - 每 30 分钟审计预览句柄，回收没有对应记录的孤儿资产
//   - 每分钟刷新媒体库规模相关的指标
func RegisterCronJobs(sched *scheduler.Scheduler, lib *library.Library, reg *registry.Registry, mgr *storage.Manager) error {
	if sched == nil {
		return fmt.Errorf("scheduler is nil")
	}

	if lib == nil {
		return fmt.Errorf("library is nil")
	}

	// 将 storage manager 注入到 context，便于任务内部使用
	baseCtx := ctxPkg.WithStorageManager(context.Background(), mgr)

	retention := configs.GetConfig().Library.TrashRetentionDays

	// 每天 04:00 清理回收站
	_ = sched.AddCron(JobTrashAutoPurge, CronTrashAutoPurge, func(ctx context.Context) {
		runTrashPurge(ctx, lib, reg, mgr, retention)
	}, baseCtx)

	// 每 30 分钟审计预览句柄
	_ = sched.AddCron(JobPreviewAudit, CronPreviewAudit, func(ctx context.Context) {
		runPreviewAudit(ctx, lib, reg)
	}, baseCtx)

	// 每分钟刷新库规模指标
	_ = sched.AddCron(JobLibraryMetricsRef, CronLibraryMetricsRef, func(ctx context.Context) {
		refreshLibraryMetrics(lib, reg)
	}, baseCtx)

	return nil
}

// runTrashPurge 清理回收站中删除时间早于保留期的记录，并释放其预览资产。
func runTrashPurge(ctx context.Context, lib *library.Library, reg *registry.Registry, mgr *storage.Manager, retentionDays int) {
	l := log.Logger().With().Str("job", JobTrashAutoPurge).Logger()

	cutoff := time.Now().AddDate(0, 0, -retentionDays).UnixMilli()

	var purged []string

	for _, f := range lib.Snapshot() {
		if f.Status != types.StatusDeleted {
			continue
		}

		if f.DeletedAt == 0 || f.DeletedAt >= cutoff {
			continue
		}

		purged = append(purged, f.ID)
	}

	for _, id := range purged {
		lib.Remove(id)

		if reg != nil {
			if err := reg.Remove(ctx, id); err != nil {
				l.Warn().Err(err).Str("id", id).Msg("release preview failed")
			}
		}
	}

	if len(purged) == 0 {
		return
	}

	l.Info().Int("purged", len(purged)).Int("older_than_days", retentionDays).Msg("trash purged")

	if mgr != nil && mgr.GetMQClient() != nil {
		payload := queue.TrashPurgedPayload{Purged: len(purged), OlderThanDays: retentionDays}
		if err := queue.PublishTrashPurged(mgr.GetMQClient().Publisher(), payload); err != nil {
			l.Warn().Err(err).Msg("publish trash purged event failed")
		}
	}
}

// runPreviewAudit 回收注册表里没有对应媒体记录的孤儿资产。
func runPreviewAudit(ctx context.Context, lib *library.Library, reg *registry.Registry) {
	if reg == nil {
		return
	}

	l := log.Logger().With().Str("job", JobPreviewAudit).Logger()

	removed := reg.Retain(ctx, lib.IDs())
	if removed > 0 {
		l.Info().Int("removed", removed).Msg("orphan previews reclaimed")
	}
}

// refreshLibraryMetrics 把库的当前规模写入 Prometheus 指标。
func refreshLibraryMetrics(lib *library.Library, reg *registry.Registry) {
	byStatus := map[types.MediaStatus]int{}
	clusters := map[string]struct{}{}

	for _, f := range lib.Snapshot() {
		byStatus[f.Status]++

		if f.Status == types.StatusDuplicate && f.DuplicateOf != "" {
			clusters[f.DuplicateOf] = struct{}{}
		}
	}

	metrics.MediaFilesTotal.Reset()

	for status, n := range byStatus {
		metrics.MediaFilesTotal.WithLabelValues(string(status)).Set(float64(n))
	}

	metrics.DuplicateClusters.Set(float64(len(clusters)))

	if reg != nil {
		_, handles := reg.Stats()
		metrics.PreviewHandlesActive.Set(float64(handles))
	}
}
