package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/internal/handle"
)

// RegisterMediaRoutes 注册媒体库相关路由.
func RegisterMediaRoutes(g *gin.RouterGroup) {
	mediaRoutes := g.Group("/media")
	{
		// 批量摄取
		mediaRoutes.POST("/scan", handle.Scan)
		// 全库列表
		mediaRoutes.GET("", handle.ListMedia)
		// 重聚类
		mediaRoutes.POST("/recluster", handle.Recluster)
		// 统计与重置
		mediaRoutes.GET("/stats", handle.Stats)
		mediaRoutes.POST("/reset", handle.Reset)

		// 查重
		dupGroup := mediaRoutes.Group("/duplicates")
		{
			dupGroup.GET("", handle.ListDuplicates)
			dupGroup.POST("/visual", handle.VisualDuplicates)
		}

		// 归档整理
		organizeGroup := mediaRoutes.Group("/organize")
		{
			organizeGroup.GET("/preview", handle.OrganizePreview)
			organizeGroup.POST("/apply-dates", handle.ApplyDates)
			organizeGroup.POST("/mark-move", handle.MarkMove)
		}

		// 回收站
		trashGroup := mediaRoutes.Group("/trash")
		{
			trashGroup.GET("", handle.ListTrash)
			trashGroup.POST("/purge", handle.PurgeTrash)
		}

		// 单条记录操作
		singleGroup := mediaRoutes.Group("/:id")
		{
			singleGroup.GET("/preview", handle.Preview)
			singleGroup.DELETE("/preview", handle.ReleasePreview)
			singleGroup.POST("/trash", handle.Trash)
			singleGroup.POST("/restore", handle.Restore)
			singleGroup.POST("/optimize", handle.Optimize)
			singleGroup.DELETE("", handle.Delete)
		}
	}
}
