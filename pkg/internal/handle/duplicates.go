package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/internal/service"
	"github.com/yeisme/mediavault/pkg/internal/types"
)

// ListDuplicates 浏览当前的重复聚类.
func ListDuplicates(c *gin.Context) {
	svc := service.NewMediaService(c.Request.Context())

	resp, err := svc.ListDuplicates(c.Request.Context())
	if err != nil {
		fail(c, "list duplicates failed", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// VisualDuplicates 委托外部分类器做视觉查重.
func VisualDuplicates(c *gin.Context) {
	var req types.VisualDuplicatesRequest

	_ = c.ShouldBindJSON(&req)

	svc := service.NewMediaService(c.Request.Context())

	resp, err := svc.VisualDuplicates(c.Request.Context(), &req)
	if err != nil {
		fail(c, "visual duplicates failed", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
