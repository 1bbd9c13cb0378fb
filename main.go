package main

import (
	"log"

	"github.com/GrainArc/BuildMesh/config"
	"github.com/GrainArc/BuildMesh/models"
	"github.com/GrainArc/BuildMesh/routers"
	"github.com/GrainArc/BuildMesh/services"
	"github.com/gin-gonic/gin"
)

func main() {
	models.InitDB()
	if err := models.InitDatabase(); err != nil {
		log.Printf("网格缓存不可用，每次请求都将重新构建: %v", err)
	} else {
		services.InitMeshCacheService(models.GetDB())
	}

	r := gin.Default()
	routers.MeshRouters(r)

	if err := r.Run(config.MainRouter); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
