package http

import "github.com/gin-gonic/gin"

// Register attaches the prospect routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/taxonomy", h.taxonomy)

	prospects := rg.Group("/prospects")
	prospects.GET("", h.list)
	prospects.POST("", h.create)
	prospects.GET("/:id", h.get)
	prospects.PUT("/:id", h.update)
	prospects.DELETE("/:id", h.delete)
	prospects.PATCH("/:id/status", h.setStatus)
	prospects.POST("/:id/notes", h.addNote)

	rg.GET("/stats", h.stats)
	rg.GET("/dashboard", h.dashboard)
	rg.GET("/pipeline", h.board)
	rg.GET("/export.csv", h.exportCSV)

	rg.GET("/selection", h.selected)
	rg.PUT("/selection", h.selectProspect)
	rg.DELETE("/selection", h.clearSelection)
}
