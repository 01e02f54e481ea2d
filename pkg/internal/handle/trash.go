package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/internal/service"
	"github.com/yeisme/mediavault/pkg/internal/types"
)

// ListTrash 列出回收站内容.
func ListTrash(c *gin.Context) {
	svc := service.NewMediaService(c.Request.Context())

	resp, err := svc.ListTrash(c.Request.Context())
	if err != nil {
		fail(c, "trash list failed", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// PurgeTrash 永久清理回收站.
func PurgeTrash(c *gin.Context) {
	var req types.PurgeRequest

	_ = c.ShouldBindJSON(&req)

	svc := service.NewMediaService(c.Request.Context())

	resp, err := svc.Purge(c.Request.Context(), &req)
	if err != nil {
		fail(c, "trash purge failed", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
