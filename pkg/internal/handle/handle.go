// Package handle 提供 HTTP 请求处理器的实现.
package handle

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/internal/library"
	"github.com/yeisme/mediavault/pkg/log"
)

func DefaultHandler(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"message": "Not Implemented"})
}

// fail 统一的错误响应：记录日志并按错误类型映射状态码.
func fail(c *gin.Context, msg string, err error) {
	log.Logger().Error().Err(err).Msg(msg)

	status := http.StatusInternalServerError
	if errors.Is(err, library.ErrNotFound) {
		status = http.StatusNotFound
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
