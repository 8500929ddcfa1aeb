package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter はAPIのルーティングを設定したginエンジンを返す
func NewRouter(searchAreaHandler *SearchAreaHandler, gridCellHandler *GridCellHandler, pointHandler *PointHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/api/health", healthHandler)

	cells := r.Group("/cells")
	{
		cells.GET("", gridCellHandler.GetCoveringCells)
		cells.GET("/encode", gridCellHandler.EncodeCell)
		cells.GET("/:id", gridCellHandler.GetCell)
	}

	searchAreas := r.Group("/search-areas")
	{
		searchAreas.POST("", searchAreaHandler.PostSearchArea)
		searchAreas.GET("/:id", searchAreaHandler.GetSearchArea)
	}

	r.POST("/points", pointHandler.PostPoint)

	return r
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "GeoGrid-App",
	})
}
