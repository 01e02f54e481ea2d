package service

import (
	"context"
	"fmt"
	"time"

	"github.com/yeisme/mediavault/pkg/internal/library"
	"github.com/yeisme/mediavault/pkg/internal/types"
	"github.com/yeisme/mediavault/pkg/queue"
)

// Trash 把记录移入回收站.
// 记录退出聚类参与，其重复组会在重聚类中顺延决选新的主记录.
func (s *MediaService) Trash(ctx context.Context, id string) (types.MediaFile, error) {
	now := time.Now()

	err := s.lib.Update(id, func(r *types.MediaFile) error {
		if r.Status == types.StatusDeleted {
			return fmt.Errorf("media %s is already in trash", id)
		}

		r.Status = types.StatusDeleted
		r.DuplicateOf = ""
		r.DeletedAt = now.UnixMilli()

		return nil
	})
	if err != nil {
		return types.MediaFile{}, err
	}

	f, _ := s.lib.Get(id)
	s.publish(queue.TopicMediaTrashed, queue.MediaTrashedPayload{
		Media:     mediaRef(&f),
		DeletedAt: now.UTC().Format(time.RFC3339),
	})

	return f, nil
}

// Restore 把记录移出回收站并重新参与聚类.
func (s *MediaService) Restore(ctx context.Context, id string) (types.MediaFile, error) {
	err := s.lib.Update(id, func(r *types.MediaFile) error {
		if r.Status != types.StatusDeleted {
			return fmt.Errorf("media %s is not in trash", id)
		}

		r.Status = types.StatusHealthy
		r.DeletedAt = 0

		return nil
	})
	if err != nil {
		return types.MediaFile{}, err
	}

	f, _ := s.lib.Get(id)
	s.publish(queue.TopicMediaRestored, queue.MediaRestoredPayload{Media: mediaRef(&f)})

	return f, nil
}

// Delete 永久删除记录并释放其预览资产.
func (s *MediaService) Delete(ctx context.Context, id string) error {
	f, ok := s.lib.Get(id)
	if !ok {
		return library.ErrNotFound
	}

	s.lib.Remove(id)

	if s.registry != nil {
		if err := s.registry.Remove(ctx, id); err != nil {
			return err
		}
	}

	s.publish(queue.TopicMediaDeleted, queue.MediaDeletedPayload{Media: mediaRef(&f)})

	return nil
}

// Optimize 标记记录完成压缩优化，可选地记录优化后的大小.
func (s *MediaService) Optimize(ctx context.Context, id string, req *types.OptimizeRequest) (*types.OptimizeResponse, error) {
	before, ok := s.lib.Get(id)
	if !ok {
		return nil, library.ErrNotFound
	}

	newSize := before.Size
	if req != nil && req.NewSize > 0 && req.NewSize < before.Size {
		newSize = req.NewSize
	}

	err := s.lib.Update(id, func(r *types.MediaFile) error {
		if r.Status == types.StatusDeleted {
			return fmt.Errorf("media %s is in trash", id)
		}

		r.Status = types.StatusOptimized
		r.DuplicateOf = ""
		r.Size = newSize

		return nil
	})
	if err != nil {
		return nil, err
	}

	saved := before.Size - newSize

	f, _ := s.lib.Get(id)
	s.publish(queue.TopicMediaOptimized, queue.MediaOptimizedPayload{
		Media:     mediaRef(&f),
		SizeAfter: newSize,
		Saved:     saved,
	})

	return &types.OptimizeResponse{
		ID:         id,
		SizeBefore: before.Size,
		SizeAfter:  newSize,
		Saved:      saved,
	}, nil
}

// Preview 返回记录的预览句柄，首次访问时由注册表惰性发布.
// 记录或负载缺席返回 ok=false，不视为错误.
func (s *MediaService) Preview(ctx context.Context, id string) (string, bool, error) {
	if s.registry == nil {
		return "", false, nil
	}

	handle, ok, err := s.registry.Handle(ctx, id)
	if err != nil {
		return "", false, err
	}

	if ok {
		s.publish(queue.TopicPreviewPublished, queue.PreviewPublishedPayload{MediaID: id, Handle: handle})
	}

	return handle, ok, nil
}

// ReleasePreview 释放记录已发布的预览句柄，负载留在注册表供下次重新发布；
// 重复释放无害.
func (s *MediaService) ReleasePreview(ctx context.Context, id string) error {
	if s.registry == nil {
		return nil
	}

	if err := s.registry.Release(ctx, id); err != nil {
		return err
	}

	s.publish(queue.TopicPreviewReleased, queue.PreviewReleasedPayload{MediaID: id})

	return nil
}
