package service

import (
	"context"
	"encoding/base64"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yeisme/mediavault/pkg/cache"
	"github.com/yeisme/mediavault/pkg/configs"
	"github.com/yeisme/mediavault/pkg/internal/engine"
	"github.com/yeisme/mediavault/pkg/internal/types"
	"github.com/yeisme/mediavault/pkg/log"
	"github.com/yeisme/mediavault/pkg/metrics"
	"github.com/yeisme/mediavault/pkg/queue"
)

// fingerprintCacheTTL 指纹缓存条目的保留时间.
// 指纹对 (name,size,mtime) 是确定的，TTL 只用来限制缓存体积.
const fingerprintCacheTTL = 7 * 24 * time.Hour

// Scan 批量摄取文件描述，计算指纹并登记进媒体库.
//
// 管道按固定批次推进：批内指纹计算并发执行，批与批之间检查取消，
// 每批落库后立刻触发一次全库重聚类，调用方随时停止不会留下半批记录.
func (s *MediaService) Scan(ctx context.Context, req *types.ScanRequest) (*types.ScanResponse, error) {
	start := time.Now()
	cfg := configs.GetConfig().Library

	batchSize := cfg.ScanBatchSize
	if batchSize <= 0 {
		batchSize = configs.DefaultScanBatchSize
	}

	workers := cfg.FingerprintWorkers
	if workers <= 0 {
		workers = configs.DefaultFingerprintWorkers
	}

	var fpCache *cache.Cache
	if cfg.FingerprintCache && s.kvClient != nil {
		fpCache = cache.NewCache(s.kvClient)
	}

	jobID := newMediaID(start)
	logger := log.Logger().With().Str("job_id", jobID).Logger()

	var (
		ingestedIDs []string
		skipped     int
	)

	items := req.Items
	for base := 0; base < len(items); base += batchSize {
		if err := ctx.Err(); err != nil {
			s.publish(queue.TopicScanFailed, queue.ScanFailedPayload{JobID: jobID, Error: err.Error()})
			return nil, err
		}

		end := min(base+batchSize, len(items))
		batch := items[base:end]
		records := make([]types.MediaFile, len(batch))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)

		for i, it := range batch {
			if it.Name == "" {
				skipped++
				continue
			}

			// ID 在派发前生成，保持与输入一致的时间顺序
			id := newMediaID(time.Now())

			g.Go(func() error {
				records[i] = s.ingestOne(gctx, fpCache, id, it)
				return nil
			})
		}

		_ = g.Wait()

		// 去掉被跳过的空位
		valid := records[:0]

		for _, r := range records {
			if r.ID == "" {
				continue
			}

			valid = append(valid, r)
			ingestedIDs = append(ingestedIDs, r.ID)
		}

		s.lib.Upsert(valid)
	}

	// 返回聚类后的最终状态
	resp := &types.ScanResponse{Records: make([]types.MediaFile, 0, len(ingestedIDs))}

	for _, id := range ingestedIDs {
		if f, ok := s.lib.Get(id); ok {
			resp.Records = append(resp.Records, f)
		}
	}

	resp.Ingested = len(resp.Records)

	for _, f := range s.lib.Snapshot() {
		if f.Status == types.StatusDuplicate {
			resp.Duplicates++
		}
	}

	elapsed := time.Since(start)
	metrics.ScanDuration.Observe(elapsed.Seconds())
	logger.Info().
		Int("ingested", resp.Ingested).
		Int("skipped", skipped).
		Int("duplicates", resp.Duplicates).
		Dur("elapsed", elapsed).
		Msg("scan completed")

	if err := s.publishScanCompleted(queue.ScanCompletedPayload{
		JobID:      jobID,
		Imported:   resp.Ingested,
		Skipped:    skipped,
		Duplicates: resp.Duplicates,
		Total:      s.lib.Len(),
		ElapsedMS:  elapsed.Milliseconds(),
	}); err != nil {
		logger.Warn().Err(err).Msg("publish scan completed event failed")
	}

	return resp, nil
}

// ingestOne 构造单条媒体记录：解码负载、计算（或复用缓存的）指纹、登记预览资产.
func (s *MediaService) ingestOne(ctx context.Context, fpCache *cache.Cache, id string, it types.ScanItem) types.MediaFile {
	var data []byte
	if it.Data != "" {
		if decoded, err := base64.StdEncoding.DecodeString(it.Data); err == nil {
			data = decoded
		}
	}

	hash := s.resolveFingerprint(ctx, fpCache, data, it)

	if s.registry != nil && len(data) > 0 {
		s.registry.Store(ctx, id, data, it.Type)
	}

	f := types.MediaFile{
		ID:            id,
		Name:          it.Name,
		Size:          it.Size,
		Type:          it.Type,
		LastModified:  it.LastModified,
		CapturedDate:  it.CapturedDate,
		SuggestedDate: it.SuggestedDate,
		Status:        types.StatusHealthy,
		Hash:          hash,
		RelativePath:  it.RelativePath,
	}

	// 调用方未提供日期时尝试从文件名还原候选日期
	if f.CapturedDate == "" && f.SuggestedDate == "" {
		if ms, ok := engine.RecoverDateFromName(it.Name); ok {
			f.SuggestedDate = strconv.FormatInt(ms, 10)
			f.RecoveryMethod = types.RecoveryFilename
		}
	}

	return f
}

// resolveFingerprint 先查 KV 缓存，未命中时计算并回填.
// 缓存故障按未命中处理，指纹计算本身永不失败（内部有降级签名）.
func (s *MediaService) resolveFingerprint(ctx context.Context, fpCache *cache.Cache, data []byte, it types.ScanItem) string {
	if fpCache == nil {
		return itemFingerprint(data, it)
	}

	key := cache.FingerprintKey(it.Name, it.Size, it.LastModified)

	if hash, err := cache.Get[string](ctx, fpCache, key); err == nil && hash != "" {
		metrics.FingerprintCacheHits.WithLabelValues("hit").Inc()
		return hash
	}

	metrics.FingerprintCacheHits.WithLabelValues("miss").Inc()

	hash := itemFingerprint(data, it)
	_ = cache.Set(ctx, fpCache, key, hash, fingerprintCacheTTL)

	return hash
}

// itemFingerprint 负载声称非空却未随请求传输时退回降级签名，
// 否则空采样哈希会把所有同大小文件误判为重复.
func itemFingerprint(data []byte, it types.ScanItem) string {
	if len(data) == 0 && it.Size > 0 {
		return engine.Fallback(it.Size, it.LastModified, it.Name)
	}

	return engine.FingerprintBytes(data, it.Size)
}

func (s *MediaService) publishScanCompleted(payload queue.ScanCompletedPayload) error {
	if s.mqClient == nil {
		return nil
	}

	return queue.PublishScanCompleted(s.mqClient.Publisher(), payload, queue.WithProducer("mediavault"))
}
