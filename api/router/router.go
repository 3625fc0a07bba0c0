package router

import (
	"github.com/gin-gonic/gin"

	"contractflow/api/handler"
)

func RegisterRoutes(r *gin.Engine, contractH *handler.ContractHandler) {
	api := r.Group("/api/v1")
	{
		contract := api.Group("/contract")
		{
			contract.POST("/upload", contractH.Upload)
			contract.GET("/list", contractH.List)
			contract.GET("/:id", contractH.Get)
			contract.POST("/:id/assign", contractH.Assign)
			contract.POST("/:id/analyze", contractH.Analyze)
			contract.POST("/:id/approve", contractH.Approve)
			contract.POST("/:id/reject", contractH.Reject)
		}
	}
}
