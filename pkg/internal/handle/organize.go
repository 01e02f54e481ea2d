package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/internal/service"
	"github.com/yeisme/mediavault/pkg/internal/types"
)

// OrganizePreview 返回全库的归档路径预览.
func OrganizePreview(c *gin.Context) {
	svc := service.NewMediaService(c.Request.Context())

	resp, err := svc.OrganizePreview(c.Request.Context())
	if err != nil {
		fail(c, "organize preview failed", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ApplyDates 把候选恢复日期落实为拍摄日期.
func ApplyDates(c *gin.Context) {
	var req types.ApplyDatesRequest

	_ = c.ShouldBindJSON(&req)

	svc := service.NewMediaService(c.Request.Context())

	resp, err := svc.ApplyDates(c.Request.Context(), &req)
	if err != nil {
		fail(c, "apply dates failed", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// MarkMove 标记记录为待移动/已移动.
func MarkMove(c *gin.Context) {
	var req types.MarkMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := service.NewMediaService(c.Request.Context())

	updated, err := svc.MarkMove(c.Request.Context(), &req)
	if err != nil {
		fail(c, "mark move failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}
