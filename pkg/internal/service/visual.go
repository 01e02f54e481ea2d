package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/sony/gobreaker"

	"github.com/yeisme/mediavault/pkg/configs"
	"github.com/yeisme/mediavault/pkg/internal/engine"
	"github.com/yeisme/mediavault/pkg/internal/types"
	"github.com/yeisme/mediavault/pkg/log"
	"github.com/yeisme/mediavault/pkg/queue"
)

// classifierClient 外部视觉查重分类器的 HTTP 客户端.
// 远端是一个模型代理，延迟高且可用性一般，所有调用都过熔断器.
type classifierClient struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	cfg        configs.ClassifierConfig
}

func newClassifierClient(cfg configs.ClassifierConfig) *classifierClient {
	return &classifierClient{
		httpClient: &http.Client{Timeout: cfg.GetTimeout()},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "visual-classifier",
		}),
		cfg: cfg,
	}
}

type visualAnalyzeRequest struct {
	Images []types.VisualImage `json:"images"`
}

type visualAnalyzeResponse struct {
	Clusters []types.VisualCluster `json:"clusters"`
}

// analyze 发送一批图片负载，返回远端给出的聚类条目.
func (c *classifierClient) analyze(ctx context.Context, images []types.VisualImage) ([]types.VisualCluster, error) {
	body, err := sonic.Marshal(visualAnalyzeRequest{Images: images})
	if err != nil {
		return nil, err
	}

	result, err := c.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}

		req.Header.Set("Content-Type", "application/json")

		if c.cfg.Consent {
			req.Header.Set("x-user-consent", "true")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("classifier returned %d", resp.StatusCode)
		}

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		var parsed visualAnalyzeResponse
		if err := sonic.Unmarshal(raw, &parsed); err != nil {
			return nil, fmt.Errorf("decode classifier response: %w", err)
		}

		return parsed.Clusters, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]types.VisualCluster), nil
}

// VisualDuplicates 把图片负载送去外部分类器做视觉查重，并把结果合并回库.
//
// 远端返回的 primaryId 表达视觉代表性，这里丢弃它并按本地决选规则
// （最早 mtime，再比大小）重算主记录，保证与指纹查重路径一致的展示语义.
func (s *MediaService) VisualDuplicates(ctx context.Context, req *types.VisualDuplicatesRequest) (*types.DuplicatesResponse, error) {
	cfg := configs.GetConfig().Classifier
	if !cfg.Enabled {
		return nil, fmt.Errorf("visual classifier is not enabled")
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = configs.DefaultClassifierBatch
	}

	candidates := s.visualCandidates(req)
	if len(candidates) == 0 {
		return &types.DuplicatesResponse{Clusters: []types.DuplicateCluster{}}, nil
	}

	client := newClassifierClient(cfg)
	logger := log.Logger().With().Str("component", "visual").Logger()

	var clusters []types.VisualCluster

	for base := 0; base < len(candidates); base += batchSize {
		end := min(base+batchSize, len(candidates))

		batch := s.buildVisualBatch(candidates[base:end])
		if len(batch) == 0 {
			continue
		}

		got, err := client.analyze(ctx, batch)
		if err != nil {
			logger.Error().Err(err).Msg("visual classifier call failed")
			s.publish(queue.TopicVisualFailed, queue.VisualFailedPayload{Error: err.Error()})

			return nil, err
		}

		clusters = append(clusters, got...)
	}

	resp, marked := s.mergeVisualClusters(clusters)

	s.publish(queue.TopicVisualCompleted, queue.VisualCompletedPayload{
		Clusters: len(resp.Clusters),
		Marked:   marked,
	})

	return resp, nil
}

// visualCandidates 选出参与视觉查重的记录：按请求指定，否则取全部图片记录.
// 回收站与已永久处理的记录不参与.
func (s *MediaService) visualCandidates(req *types.VisualDuplicatesRequest) []types.MediaFile {
	if req != nil && len(req.IDs) > 0 {
		out := make([]types.MediaFile, 0, len(req.IDs))

		for _, id := range req.IDs {
			if f, ok := s.lib.Get(id); ok && f.Status != types.StatusDeleted {
				out = append(out, f)
			}
		}

		return out
	}

	var out []types.MediaFile

	for _, f := range s.lib.Snapshot() {
		if f.Status == types.StatusDeleted {
			continue
		}

		if strings.HasPrefix(f.Type, "image/") {
			out = append(out, f)
		}
	}

	return out
}

// buildVisualBatch 把记录映射为分类器输入；没有负载的记录跳过.
func (s *MediaService) buildVisualBatch(files []types.MediaFile) []types.VisualImage {
	images := make([]types.VisualImage, 0, len(files))

	for _, f := range files {
		asset, ok := s.registry.Payload(f.ID)
		if !ok || len(asset.Data) == 0 {
			continue
		}

		images = append(images, types.VisualImage{
			ID:       f.ID,
			Data:     base64.StdEncoding.EncodeToString(asset.Data),
			MimeType: f.Type,
			Metadata: map[string]any{
				"name":          f.Name,
				"size":          f.Size,
				"last_modified": f.LastModified,
			},
		})
	}

	return images
}

// mergeVisualClusters 把远端聚类整理成与指纹查重一致的浏览视图.
//
// 视觉聚类只是派生视图，不回写记录状态：指纹唯一的记录不允许携带
// duplicate 状态，且任何后续重聚类都会按指纹重算.用户对视觉聚类的
// 处置（删除、优化）走单条记录操作.
func (s *MediaService) mergeVisualClusters(clusters []types.VisualCluster) (*types.DuplicatesResponse, int) {
	resp := &types.DuplicatesResponse{Clusters: make([]types.DuplicateCluster, 0, len(clusters))}
	marked := 0

	for _, vc := range clusters {
		group := make([]types.MediaFile, 0, len(vc.IDs))

		for _, id := range vc.IDs {
			if f, ok := s.lib.Get(id); ok && f.IsClusterable() {
				group = append(group, f)
			}
		}

		if len(group) < 2 {
			continue
		}

		primaryID := engine.SelectPrimary(group)

		var wasted int64

		ids := make([]string, 0, len(group))

		for _, f := range group {
			ids = append(ids, f.ID)

			if f.ID != primaryID {
				wasted += f.Size
				marked++
			}
		}

		resp.Clusters = append(resp.Clusters, types.DuplicateCluster{
			ClusterID:   vc.ClusterID,
			PrimaryID:   primaryID,
			IDs:         ids,
			WastedBytes: wasted,
		})
		resp.TotalWastedBytes += wasted
	}

	return resp, marked
}
