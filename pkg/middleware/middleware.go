// Package middleware 提供 Gin 中间件：日志、指标、追踪、限流、熔断，
// 以及把存储管理器、媒体库集合、资产注册表注入请求上下文的胶水.
package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "github.com/yeisme/mediavault/pkg/context"
	"github.com/yeisme/mediavault/pkg/internal/library"
	"github.com/yeisme/mediavault/pkg/internal/registry"
	"github.com/yeisme/mediavault/pkg/internal/storage"
)

// StorageMiddleware 将存储管理器注入请求上下文.
func StorageMiddleware(manager *storage.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := appctx.WithStorageManager(c.Request.Context(), manager)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// LibraryMiddleware 将媒体库集合注入请求上下文.
func LibraryMiddleware(lib *library.Library) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := appctx.WithLibrary(c.Request.Context(), lib)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RegistryMiddleware 将资产注册表注入请求上下文.
func RegistryMiddleware(reg *registry.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := appctx.WithRegistry(c.Request.Context(), reg)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
