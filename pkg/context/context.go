// Package context 拓展上下文功能，将存储、媒体库集合、资产注册表等集成到上下文中，
// 方便在应用程序各处传递和使用.
package context

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/yeisme/mediavault/pkg/internal/library"
	"github.com/yeisme/mediavault/pkg/internal/registry"
	"github.com/yeisme/mediavault/pkg/internal/storage"
	kvc "github.com/yeisme/mediavault/pkg/internal/storage/kv"
	mqc "github.com/yeisme/mediavault/pkg/internal/storage/mq"
	s3c "github.com/yeisme/mediavault/pkg/internal/storage/s3"
)

type ContextKey string

const (
	StorageManagerKey ContextKey = "storageManager"
	LibraryKey        ContextKey = "mediaLibrary"
	RegistryKey       ContextKey = "assetRegistry"
)

// WithStorageManager 将 Manager 存储到 context 中.
func WithStorageManager(ctx context.Context, mgr *storage.Manager) context.Context {
	return context.WithValue(ctx, StorageManagerKey, mgr)
}

// GetManager 从 context 中获取 Manager.
func GetManager(ctx context.Context) *storage.Manager {
	if mgr, ok := ctx.Value(StorageManagerKey).(*storage.Manager); ok {
		return mgr
	}

	return nil
}

// WithLibrary 将媒体库集合存储到 context 中.
func WithLibrary(ctx context.Context, lib *library.Library) context.Context {
	return context.WithValue(ctx, LibraryKey, lib)
}

// GetLibrary 从 context 中获取媒体库集合.
func GetLibrary(ctx context.Context) *library.Library {
	if lib, ok := ctx.Value(LibraryKey).(*library.Library); ok {
		return lib
	}

	return nil
}

// WithRegistry 将资产注册表存储到 context 中.
func WithRegistry(ctx context.Context, reg *registry.Registry) context.Context {
	return context.WithValue(ctx, RegistryKey, reg)
}

// GetRegistry 从 context 中获取资产注册表.
func GetRegistry(ctx context.Context) *registry.Registry {
	if reg, ok := ctx.Value(RegistryKey).(*registry.Registry); ok {
		return reg
	}

	return nil
}

// GetS3Client 从 context 中获取 S3 客户端.
func GetS3Client(ctx context.Context) *s3c.Client {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.GetS3Client()
	}

	return nil
}

// GetMQClient 从 context 中获取 MQ 客户端.
func GetMQClient(ctx context.Context) *mqc.Client {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.GetMQClient()
	}

	return nil
}

// GetKVClient 从 context 中获取 KV 客户端.
func GetKVClient(ctx context.Context) *kvc.Client {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.GetKVClient()
	}

	return nil
}

// WithTraceContext 创建带有追踪上下文的logger.
func WithTraceContext(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		return logger.With().
			Str("trace_id", span.SpanContext().TraceID().String()).
			Str("span_id", span.SpanContext().SpanID().String()).
			Logger()
	}

	return logger
}
