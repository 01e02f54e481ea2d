package service

import (
	"context"

	"github.com/yeisme/mediavault/pkg/internal/types"
	"github.com/yeisme/mediavault/pkg/queue"
)

// Stats 汇总媒体库当前状态.
func (s *MediaService) Stats(ctx context.Context) (*types.LibraryStats, error) {
	stats := &types.LibraryStats{}

	for _, f := range s.lib.Snapshot() {
		if f.Status == types.StatusDeleted {
			stats.TrashCount++
			stats.RecoveredBytes += f.Size

			continue
		}

		stats.TotalFiles++
		stats.TotalSize += f.Size

		switch f.Status {
		case types.StatusDuplicate:
			stats.DuplicatesFound++
			stats.DuplicateWaste += f.Size
		case types.StatusOptimized:
			stats.OptimizedCount++
		default:
		}

		if f.SuggestedDate != "" && f.CapturedDate == "" {
			stats.TimeIssuesFound++
		}
	}

	if s.registry != nil {
		_, handles := s.registry.Stats()
		stats.PreviewHandles = handles
	}

	return stats, nil
}

// Reset 清空整个库与全部预览资产.
func (s *MediaService) Reset(ctx context.Context) error {
	removed := s.lib.Len()

	var assets, handles int
	if s.registry != nil {
		assets, handles = s.registry.Stats()
	}

	s.lib.Reset()

	if s.registry != nil {
		if err := s.registry.Clear(ctx); err != nil {
			return err
		}
	}

	s.publish(queue.TopicLibraryReset, queue.LibraryResetPayload{
		Removed:         removed,
		ReleasedAssets:  assets,
		ReleasedHandles: handles,
	})

	return nil
}

// List 返回全部记录（插入序）.
func (s *MediaService) List(ctx context.Context) ([]types.MediaFile, error) {
	return s.lib.Snapshot(), nil
}
