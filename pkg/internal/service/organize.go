package service

import (
	"context"

	"github.com/yeisme/mediavault/pkg/internal/engine"
	"github.com/yeisme/mediavault/pkg/internal/types"
	"github.com/yeisme/mediavault/pkg/queue"
)

// OrganizePreview 为每条记录计算归档路径并生成预览.
// 计算结果同时写回记录的 proposedPath，供后续标记移动使用.
func (s *MediaService) OrganizePreview(ctx context.Context) (*types.OrganizePreviewResponse, error) {
	resp := &types.OrganizePreviewResponse{Entries: []types.OrganizeEntry{}}

	for _, f := range s.lib.Snapshot() {
		if f.Status == types.StatusDeleted {
			continue
		}

		proposed := engine.ProposePath(&f)

		if f.ProposedPath != proposed {
			_ = s.lib.Update(f.ID, func(r *types.MediaFile) error {
				r.ProposedPath = proposed
				return nil
			})
		}

		resp.Entries = append(resp.Entries, types.OrganizeEntry{
			ID:           f.ID,
			Name:         f.Name,
			OriginalPath: f.RelativePath,
			ProposedPath: proposed,
		})
	}

	return resp, nil
}

// ApplyDates 把候选恢复日期落实为拍摄日期.
// IDs 为空时应用到所有带候选日期的记录；落实后候选日期清空.
func (s *MediaService) ApplyDates(ctx context.Context, req *types.ApplyDatesRequest) (*types.ApplyDatesResponse, error) {
	targets := map[string]struct{}{}
	if req != nil {
		for _, id := range req.IDs {
			targets[id] = struct{}{}
		}
	}

	resp := &types.ApplyDatesResponse{}

	for _, f := range s.lib.Snapshot() {
		if f.SuggestedDate == "" {
			continue
		}

		if len(targets) > 0 {
			if _, ok := targets[f.ID]; !ok {
				continue
			}
		}

		err := s.lib.Update(f.ID, func(r *types.MediaFile) error {
			r.CapturedDate = r.SuggestedDate
			r.SuggestedDate = ""

			// 日期修复完成后记录恢复为正常状态
			if r.Status == types.StatusNeedsFix {
				r.Status = types.StatusHealthy
			}

			return nil
		})
		if err == nil {
			resp.Applied++
		}
	}

	return resp, nil
}

// MarkMove 标记记录为待移动或已移动.
// 只更新状态与路径字段，不执行任何文件系统操作.
func (s *MediaService) MarkMove(ctx context.Context, req *types.MarkMoveRequest) (int, error) {
	updated := 0

	for _, id := range req.IDs {
		err := s.lib.Update(id, func(r *types.MediaFile) error {
			if req.Done {
				r.Status = types.StatusMoved

				if r.ProposedPath != "" {
					r.OriginalPath = r.RelativePath
					r.RelativePath = r.ProposedPath
				}
			} else {
				r.Status = types.StatusPendingMove
			}

			return nil
		})
		if err != nil {
			continue
		}

		updated++

		if req.Done {
			if f, ok := s.lib.Get(id); ok {
				s.publish(queue.TopicMediaMoved, queue.MediaMovedPayload{
					Media:        mediaRef(&f),
					OriginalPath: f.OriginalPath,
					ProposedPath: f.ProposedPath,
				})
			}
		}
	}

	return updated, nil
}

func mediaRef(f *types.MediaFile) queue.MediaRef {
	return queue.MediaRef{
		ID:           f.ID,
		Name:         f.Name,
		Size:         f.Size,
		Hash:         f.Hash,
		Status:       string(f.Status),
		RelativePath: f.RelativePath,
	}
}
