package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/internal/service"
	"github.com/yeisme/mediavault/pkg/internal/types"
)

// Scan 批量摄取文件描述，计算指纹并入库.
func Scan(c *gin.Context) {
	var req types.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := service.NewMediaService(c.Request.Context())

	resp, err := svc.Scan(c.Request.Context(), &req)
	if err != nil {
		fail(c, "scan failed", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListMedia 返回全部记录（插入序）.
func ListMedia(c *gin.Context) {
	svc := service.NewMediaService(c.Request.Context())

	files, err := svc.List(c.Request.Context())
	if err != nil {
		fail(c, "list media failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": files, "total": len(files)})
}

// Recluster 触发全库重聚类.
func Recluster(c *gin.Context) {
	var req types.ReclusterRequest

	_ = c.ShouldBindJSON(&req)

	svc := service.NewMediaService(c.Request.Context())

	resp, err := svc.Recluster(c.Request.Context(), &req)
	if err != nil {
		fail(c, "recluster failed", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Stats 返回媒体库统计.
func Stats(c *gin.Context) {
	svc := service.NewMediaService(c.Request.Context())

	stats, err := svc.Stats(c.Request.Context())
	if err != nil {
		fail(c, "stats failed", err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Reset 清空整个库与全部预览资产.
func Reset(c *gin.Context) {
	svc := service.NewMediaService(c.Request.Context())

	if err := svc.Reset(c.Request.Context()); err != nil {
		fail(c, "reset failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "library reset"})
}
