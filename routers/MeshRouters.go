package routers

import (
	"github.com/GrainArc/BuildMesh/views"
	"github.com/gin-gonic/gin"
)

func MeshRouters(r *gin.Engine) {
	UserController := &views.UserController{}
	meshRouter := r.Group("/mesh")
	{
		meshRouter.POST("/BuildPrism", UserController.BuildPrism)
		meshRouter.GET("/Demo", UserController.Demo)
		meshRouter.POST("/AddBuilding", UserController.AddBuilding)
		meshRouter.GET("/ShowBuilding", UserController.ShowBuilding)
		meshRouter.GET("/DelBuilding", UserController.DelBuilding)
		meshRouter.POST("/ChangeBuilding", UserController.ChangeBuilding)
		meshRouter.GET("/Regenerate", UserController.Regenerate)
		meshRouter.GET("/OutObj", UserController.OutObj)
		meshRouter.GET("/OutDXF", UserController.OutDXF)
		meshRouter.POST("/UploadFootprints", UserController.UploadFootprints)
		meshRouter.GET("/Subscribe", UserController.Subscribe)
	}
}
