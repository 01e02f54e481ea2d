package service

import (
	"context"

	"github.com/yeisme/mediavault/pkg/internal/engine"
	"github.com/yeisme/mediavault/pkg/internal/types"
	"github.com/yeisme/mediavault/pkg/queue"
)

// ListDuplicates 从当前库状态重算聚类视图.
// 聚类永不落盘：这里只是把记录上的 status/duplicateOf 汇总成浏览用的形状.
func (s *MediaService) ListDuplicates(ctx context.Context) (*types.DuplicatesResponse, error) {
	snap := s.lib.Snapshot()

	// 按主记录归并，保持主记录在库中的出现顺序
	order := make([]string, 0)
	members := make(map[string][]string)
	wasted := make(map[string]int64)

	for _, f := range snap {
		if f.Status != types.StatusDuplicate || f.DuplicateOf == "" {
			continue
		}

		if _, ok := members[f.DuplicateOf]; !ok {
			order = append(order, f.DuplicateOf)
		}

		members[f.DuplicateOf] = append(members[f.DuplicateOf], f.ID)
		wasted[f.DuplicateOf] += f.Size
	}

	resp := &types.DuplicatesResponse{Clusters: make([]types.DuplicateCluster, 0, len(order))}

	for _, primaryID := range order {
		ids := append([]string{primaryID}, members[primaryID]...)

		clusterID := primaryID
		if p, ok := s.lib.Get(primaryID); ok {
			clusterID = engine.GroupKey(&p)
		}

		resp.Clusters = append(resp.Clusters, types.DuplicateCluster{
			ClusterID:   clusterID,
			PrimaryID:   primaryID,
			IDs:         ids,
			WastedBytes: wasted[primaryID],
		})
		resp.TotalWastedBytes += wasted[primaryID]
	}

	return resp, nil
}

// Recluster 对全库执行一次重聚类.
// Legacy 模式恢复旧版覆盖语义：所有记录无条件改写为 healthy/duplicate.
func (s *MediaService) Recluster(ctx context.Context, req *types.ReclusterRequest) (*types.ReclusterResponse, error) {
	before := s.lib.Snapshot()

	if req != nil && req.Legacy {
		s.lib.ReclusterWith(engine.Options{ReclusterAll: true})
	} else {
		s.lib.Recluster()
	}

	after := s.lib.Snapshot()
	resp := &types.ReclusterResponse{Total: len(after)}

	prev := make(map[string]types.MediaFile, len(before))
	for _, f := range before {
		prev[f.ID] = f
	}

	clusters := make(map[string]struct{})

	var wastedBytes int64

	for _, f := range after {
		if f.Status == types.StatusDuplicate {
			resp.Duplicates++
			wastedBytes += f.Size

			if f.DuplicateOf != "" {
				clusters[f.DuplicateOf] = struct{}{}
			}
		}

		if p, ok := prev[f.ID]; ok && (p.Status != f.Status || p.DuplicateOf != f.DuplicateOf) {
			resp.Changed++
		}
	}

	legacy := req != nil && req.Legacy

	s.publish(queue.TopicReclusterCompleted, queue.ReclusterCompletedPayload{
		Total:      resp.Total,
		Duplicates: resp.Duplicates,
		Clusters:   len(clusters),
		Legacy:     legacy,
	})

	if resp.Duplicates > 0 {
		s.publishDuplicatesDetected(queue.DuplicatesDetectedPayload{
			Clusters:    len(clusters),
			Duplicates:  resp.Duplicates,
			WastedBytes: wastedBytes,
		})
	}

	return resp, nil
}

func (s *MediaService) publishDuplicatesDetected(payload queue.DuplicatesDetectedPayload) {
	if s.mqClient == nil {
		return
	}

	_ = queue.PublishDuplicatesDetected(s.mqClient.Publisher(), payload, queue.WithProducer("mediavault"))
}
