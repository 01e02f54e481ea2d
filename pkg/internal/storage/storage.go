// Package storage 聚合运行时存储资源：对象存储（预览资产）、KV（指纹缓存）与消息队列.
//
// Example:
//
// 初始化
//
//	 ctx := context.Background()
//	 mgr, err := storage.Init(ctx)
//
//		if err != nil {
//		    // 处理错误
//		}
//
// 获取存储客户端
//
//	s3Client := mgr.GetS3Client()
//	kvClient := mgr.GetKVClient()
package storage

import (
	"context"
	"sync"

	"github.com/yeisme/mediavault/pkg/configs"
	kvc "github.com/yeisme/mediavault/pkg/internal/storage/kv"
	mqc "github.com/yeisme/mediavault/pkg/internal/storage/mq"
	s3c "github.com/yeisme/mediavault/pkg/internal/storage/s3"
	mlog "github.com/yeisme/mediavault/pkg/log"
)

// Manager 聚合所有存储资源；S3 与 MQ 按配置可选，字段可能为 nil.
type Manager struct {
	S3 *s3c.Client
	KV *kvc.Client
	MQ *mqc.Client
}

var (
	mgr     *Manager
	mgrOnce sync.Once
)

// Init 初始化默认存储，使用全局配置.重复调用只返回已初始化实例.
func Init(ctx context.Context) (*Manager, error) {
	var err error

	mgrOnce.Do(func() {
		cfg := configs.GetConfig()
		m := &Manager{}

		// KV 总是需要（默认内存实现）
		kvi, e := kvc.NewKVClient(ctx)
		if e != nil {
			err = e

			return
		}

		m.KV = kvi

		// S3 可选：未启用时预览句柄走内存后端
		if cfg.S3.Enabled {
			s3i, e := s3c.New(ctx)
			if e != nil {
				err = e

				return
			}

			m.S3 = s3i
		}

		// MQ 可选：未启用时领域事件仅落日志
		if cfg.MQ.Enabled {
			mqi, e := mqc.New(ctx)
			if e != nil {
				err = e

				return
			}

			m.MQ = mqi
		}

		mgr = m

		mlog.Logger().Info().
			Bool("s3", m.S3 != nil).
			Bool("mq", m.MQ != nil).
			Str("kv", configs.GetConfig().KV.Type).
			Msg("storage manager initialized")
	})

	return mgr, err
}

// Close 释放全部存储资源.
func (m *Manager) Close() error {
	var err error

	if m.KV != nil {
		if e := m.KV.Close(); e != nil {
			err = e
		}
	}

	if m.S3 != nil {
		if e := m.S3.Close(); e != nil {
			err = e
		}
	}

	if m.MQ != nil {
		if e := m.MQ.Close(); e != nil {
			err = e
		}
	}

	return err
}

// GetS3Client 获取 S3 客户端（可能为 nil）.
func (m *Manager) GetS3Client() *s3c.Client {
	return m.S3
}

// GetKVClient 获取 KV 客户端.
func (m *Manager) GetKVClient() *kvc.Client {
	return m.KV
}

// GetMQClient 获取 MQ 客户端（可能为 nil）.
func (m *Manager) GetMQClient() *mqc.Client {
	return m.MQ
}
