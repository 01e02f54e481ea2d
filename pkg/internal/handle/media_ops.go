package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/internal/service"
	"github.com/yeisme/mediavault/pkg/internal/types"
)

// Preview 获取记录的预览句柄，首次访问时惰性发布.
func Preview(c *gin.Context) {
	id := c.Param("id")
	svc := service.NewMediaService(c.Request.Context())

	handle, ok, err := svc.Preview(c.Request.Context(), id)
	if err != nil {
		fail(c, "preview failed", err)
		return
	}

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no preview available"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "handle": handle})
}

// ReleasePreview 释放记录的预览资产.
func ReleasePreview(c *gin.Context) {
	id := c.Param("id")
	svc := service.NewMediaService(c.Request.Context())

	if err := svc.ReleasePreview(c.Request.Context(), id); err != nil {
		fail(c, "release preview failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "released": true})
}

// Trash 把记录移入回收站.
func Trash(c *gin.Context) {
	id := c.Param("id")
	svc := service.NewMediaService(c.Request.Context())

	f, err := svc.Trash(c.Request.Context(), id)
	if err != nil {
		fail(c, "trash failed", err)
		return
	}

	c.JSON(http.StatusOK, f)
}

// Restore 把记录移出回收站.
func Restore(c *gin.Context) {
	id := c.Param("id")
	svc := service.NewMediaService(c.Request.Context())

	f, err := svc.Restore(c.Request.Context(), id)
	if err != nil {
		fail(c, "restore failed", err)
		return
	}

	c.JSON(http.StatusOK, f)
}

// Delete 永久删除记录.
func Delete(c *gin.Context) {
	id := c.Param("id")
	svc := service.NewMediaService(c.Request.Context())

	if err := svc.Delete(c.Request.Context(), id); err != nil {
		fail(c, "delete failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "deleted": true})
}

// Optimize 标记记录完成压缩优化.
func Optimize(c *gin.Context) {
	id := c.Param("id")

	var req types.OptimizeRequest

	_ = c.ShouldBindJSON(&req)

	svc := service.NewMediaService(c.Request.Context())

	resp, err := svc.Optimize(c.Request.Context(), id, &req)
	if err != nil {
		fail(c, "optimize failed", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
