package service

import (
	"context"
	"time"

	"github.com/yeisme/mediavault/pkg/internal/types"
	"github.com/yeisme/mediavault/pkg/queue"
)

// ListTrash 列出回收站内容.
func (s *MediaService) ListTrash(ctx context.Context) (*types.TrashResponse, error) {
	resp := &types.TrashResponse{Items: []types.MediaFile{}}

	for _, f := range s.lib.Snapshot() {
		if f.Status == types.StatusDeleted {
			resp.Items = append(resp.Items, f)
		}
	}

	resp.Total = len(resp.Items)

	return resp, nil
}

// Purge 永久清理回收站.
// OlderThanDays > 0 时只清理进入回收站超过该天数的记录，0 清理全部.
func (s *MediaService) Purge(ctx context.Context, req *types.PurgeRequest) (*types.PurgeResponse, error) {
	olderThanDays := 0
	if req != nil {
		olderThanDays = req.OlderThanDays
	}

	var cutoff int64
	if olderThanDays > 0 {
		cutoff = time.Now().AddDate(0, 0, -olderThanDays).UnixMilli()
	}

	var victims []string

	for _, f := range s.lib.Snapshot() {
		if f.Status != types.StatusDeleted {
			continue
		}

		if cutoff > 0 && (f.DeletedAt == 0 || f.DeletedAt >= cutoff) {
			continue
		}

		victims = append(victims, f.ID)
	}

	for _, id := range victims {
		s.lib.Remove(id)

		if s.registry != nil {
			_ = s.registry.Remove(ctx, id)
		}
	}

	if len(victims) > 0 {
		s.publishTrashPurged(queue.TrashPurgedPayload{
			Purged:        len(victims),
			OlderThanDays: olderThanDays,
		})
	}

	return &types.PurgeResponse{Purged: len(victims)}, nil
}

func (s *MediaService) publishTrashPurged(payload queue.TrashPurgedPayload) {
	if s.mqClient == nil {
		return
	}

	_ = queue.PublishTrashPurged(s.mqClient.Publisher(), payload, queue.WithProducer("mediavault"))
}
