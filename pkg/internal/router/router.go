// Package router 管理路由配置，负责把路径绑定到 pkg/internal/handle 的处理器.
package router

import (
	"github.com/gin-gonic/gin"
)

// Register 把全部业务路由绑定到传入的分组（通常是 /api/v1）.
func Register(g *gin.RouterGroup) {
	RegisterMediaRoutes(g)
	RegisterHealthCheckRoute(g)
	RegisterSchedulerRoutes(g)
}
