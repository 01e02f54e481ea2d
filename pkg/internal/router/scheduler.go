package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/internal/handle"
)

// RegisterSchedulerRoutes 注册调度器检视路由.
func RegisterSchedulerRoutes(g *gin.RouterGroup) {
	schedulerRoutes := g.Group("/scheduler")
	{
		schedulerRoutes.GET("/jobs", handle.SchedulerJobs)
		schedulerRoutes.GET("/jobs/:name", handle.SchedulerJobByName)
		schedulerRoutes.DELETE("/jobs/:name", handle.SchedulerRemoveJob)
	}
}
