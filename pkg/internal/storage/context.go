package storage

import (
	"context"

	kvc "github.com/yeisme/mediavault/pkg/internal/storage/kv"
	mqc "github.com/yeisme/mediavault/pkg/internal/storage/mq"
	s3c "github.com/yeisme/mediavault/pkg/internal/storage/s3"
)

type contextKey string

const managerKey contextKey = "storageManager"

// WithManager 将 Manager 存储到 context 中.
func WithManager(ctx context.Context, mgr *Manager) context.Context {
	return context.WithValue(ctx, managerKey, mgr)
}

// GetManagerFromContext 从 context 中获取 Manager.
func GetManagerFromContext(ctx context.Context) *Manager {
	if mgr, ok := ctx.Value(managerKey).(*Manager); ok {
		return mgr
	}

	return nil
}

// GetS3ClientFromContext 从 context 中获取 S3 客户端.
func GetS3ClientFromContext(ctx context.Context) *s3c.Client {
	if mgr := GetManagerFromContext(ctx); mgr != nil {
		return mgr.S3
	}

	return nil
}

// GetKVClientFromContext 从 context 中获取 KV 客户端.
func GetKVClientFromContext(ctx context.Context) *kvc.Client {
	if mgr := GetManagerFromContext(ctx); mgr != nil {
		return mgr.KV
	}

	return nil
}

// GetMQClientFromContext 从 context 中获取 MQ 客户端.
func GetMQClientFromContext(ctx context.Context) *mqc.Client {
	if mgr := GetManagerFromContext(ctx); mgr != nil {
		return mgr.MQ
	}

	return nil
}
