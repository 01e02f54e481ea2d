// Package service 实现媒体库的业务流程：扫描摄取、指纹查重、归档整理与回收站维护.
// 服务对象从请求上下文取运行时依赖（库集合、资产注册表、各存储客户端），
// 自身不持有全局状态，便于在测试里用独立实例组装.
package service

import (
	"context"
	crand "crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid"

	ctxPkg "github.com/yeisme/mediavault/pkg/context"
	"github.com/yeisme/mediavault/pkg/internal/library"
	"github.com/yeisme/mediavault/pkg/internal/registry"
	"github.com/yeisme/mediavault/pkg/internal/storage/kv"
	"github.com/yeisme/mediavault/pkg/internal/storage/mq"
	"github.com/yeisme/mediavault/pkg/queue"
)

type MediaService struct {
	lib      *library.Library
	registry *registry.Registry
	kvClient *kv.Client
	mqClient *mq.Client
}

func NewMediaService(c context.Context) *MediaService {
	return &MediaService{
		lib:      ctxPkg.GetLibrary(c),
		registry: ctxPkg.GetRegistry(c),
		kvClient: ctxPkg.GetKVClient(c),
		mqClient: ctxPkg.GetMQClient(c),
	}
}

var (
	mediaIDMu      sync.Mutex
	mediaIDEntropy = ulid.Monotonic(crand.Reader, 0)
)

// newMediaID 生成记录 ID（ULID，按时间有序）.
// ulid.Monotonic 的熵源不是并发安全的，这里用互斥锁串行化.
func newMediaID(t time.Time) string {
	mediaIDMu.Lock()
	defer mediaIDMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(t), mediaIDEntropy).String()
}

// publish 尽力而为地发布领域事件；MQ 未启用时静默跳过.
func (s *MediaService) publish(topic string, payload any) {
	if s.mqClient == nil {
		return
	}

	msg, err := queue.NewWatermillMessage(topic, payload, queue.WithProducer("mediavault"))
	if err != nil {
		return
	}

	_ = s.mqClient.Publish(context.Background(), topic, msg)
}
