package views

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/GrainArc/BuildMesh/Mesh"
	"github.com/GrainArc/BuildMesh/config"
	"github.com/GrainArc/BuildMesh/methods"
	"github.com/GrainArc/BuildMesh/models"
	"github.com/GrainArc/BuildMesh/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 建筑挤出网格接口

// BuildPrism 一次性挤出：前端提交底面要素和高度，直接返回网格缓冲
// 底面在边界处统一转为上视逆时针，保证侧面法向量朝外；挤出核心不做绕序校验
func (uc *UserController) BuildPrism(c *gin.Context) {
	var jsonData PrismData
	if err := c.BindJSON(&jsonData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	footprint, err := methods.FeatureToFootprint(&jsonData.Geojson)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	footprint = Mesh.EnsureCCW(footprint)

	direction := Mesh.Up
	if len(jsonData.Direction) == 3 {
		direction = Mesh.Vector3{X: jsonData.Direction[0], Y: jsonData.Direction[1], Z: jsonData.Direction[2]}
	}

	mesh, err := Mesh.BuildPrismMeshAlong(footprint, jsonData.Height, direction)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mesh.Material = jsonData.Material

	c.JSON(http.StatusOK, makeMeshResponse("", mesh))
}

// Demo 演示接口：以原点为中心生成正多边形底面并挤出
func (uc *UserController) Demo(c *gin.Context) {
	corners, err := strconv.Atoi(c.DefaultQuery("corners", "4"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid corners"})
		return
	}
	radius, err := strconv.ParseFloat(c.DefaultQuery("radius", "10"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid radius"})
		return
	}
	height, err := strconv.ParseFloat(c.DefaultQuery("height", "10"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid height"})
		return
	}

	footprint, err := Mesh.RegularFootprint(Mesh.Point3D{}, radius, corners)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mesh, err := Mesh.BuildPrismMesh(footprint, height)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, makeMeshResponse("", mesh))
}

// AddBuilding 建筑入库：底面校验通过后以WKB十六进制存储
func (uc *UserController) AddBuilding(c *gin.Context) {
	var jsonData BuildingData
	if err := c.BindJSON(&jsonData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if jsonData.Height <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "height must be positive"})
		return
	}

	footprint, err := methods.FeatureToFootprint(&jsonData.Geojson)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	wkbHex, err := methods.FootprintToWKB(footprint)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	building := models.Building{
		Uuid:      strings.ReplaceAll(uuid.New().String(), "-", ""),
		Name:      jsonData.Name,
		Height:    jsonData.Height,
		Footprint: wkbHex,
		Material:  jsonData.Material,
	}
	if jsonData.Attributes != nil {
		if attrData, err := json.Marshal(jsonData.Attributes); err == nil {
			building.Attributes = datatypes.JSON(attrData)
		}
	}

	if err := models.DB.Create(&building).Error; err != nil {
		log.Printf("Failed to create building: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建建筑失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"uuid": building.Uuid})
}

// ShowBuilding 按uuid返回建筑信息和底面GeoJSON
func (uc *UserController) ShowBuilding(c *gin.Context) {
	uid := c.Query("uuid")

	var building models.Building
	if err := models.DB.Where("uuid = ?", uid).First(&building).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "building not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	footprint, err := methods.WKBToFootprint(building.Footprint)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"building": building,
		"geojson":  methods.FootprintToFeature(footprint),
	})
}

// DelBuilding 删除建筑并清掉网格缓存
func (uc *UserController) DelBuilding(c *gin.Context) {
	uid := c.Query("uuid")

	if err := models.DB.Where("uuid = ?", uid).Delete(&models.Building{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if cache := services.GetMeshCacheService(); cache != nil {
		if err := cache.DropCachedMesh(uid); err != nil {
			log.Printf("Failed to drop mesh cache: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"msg": "删除成功"})
}

// ChangeBuilding 修改建筑属性，底面或高度变化时缓存失效
func (uc *UserController) ChangeBuilding(c *gin.Context) {
	var jsonData ChangeData
	if err := c.BindJSON(&jsonData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := make(map[string]interface{})
	if jsonData.Name != "" {
		updates["name"] = jsonData.Name
	}
	if jsonData.Height > 0 {
		updates["height"] = jsonData.Height
	}
	if jsonData.Material != "" {
		updates["material"] = jsonData.Material
	}
	if jsonData.Geojson != nil {
		footprint, err := methods.FeatureToFootprint(jsonData.Geojson)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		wkbHex, err := methods.FootprintToWKB(footprint)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		updates["footprint"] = wkbHex
	}
	if jsonData.Attributes != nil {
		if attrData, err := json.Marshal(jsonData.Attributes); err == nil {
			updates["attributes"] = datatypes.JSON(attrData)
		}
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	result := models.DB.Model(&models.Building{}).Where("uuid = ?", jsonData.Uuid).Updates(updates)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "building not found"})
		return
	}

	if cache := services.GetMeshCacheService(); cache != nil {
		if err := cache.DropCachedMesh(jsonData.Uuid); err != nil {
			log.Printf("Failed to drop mesh cache: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"msg": "修改成功"})
}

// Regenerate 重新生成命令：读取存储的底面和高度重建网格，整条替换缓存并推送更新
func (uc *UserController) Regenerate(c *gin.Context) {
	uid := c.Query("uuid")

	var building models.Building
	if err := models.DB.Where("uuid = ?", uid).First(&building).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "building not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	mesh, err := rebuildMesh(&building)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if cache := services.GetMeshCacheService(); cache != nil {
		if err := cache.SetCachedMesh(uid, building.Height, Mesh.Up, mesh); err != nil {
			log.Printf("Failed to cache mesh: %v", err)
		}
	}
	meshHub.Broadcast(MeshUpdateEvent{
		Uuid:        uid,
		VertexCount: len(mesh.Vertices),
		IndexCount:  len(mesh.Indices),
	})

	c.JSON(http.StatusOK, makeMeshResponse(uid, mesh))
}

// OutObj 导出OBJ：网格写入zip后作为附件下载
func (uc *UserController) OutObj(c *gin.Context) {
	uid := c.Query("uuid")

	mesh, err := meshForBuilding(uid)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name := exportName(uid)
	outDir := filepath.Join(config.Download, "OutFile")
	zipPath, err := methods.SaveOBJZip(mesh, name, outDir)
	if err != nil {
		log.Printf("Failed to export OBJ: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "导出失败"})
		return
	}

	c.FileAttachment(zipPath, name+".zip")
}

// OutDXF 导出DXF线框
func (uc *UserController) OutDXF(c *gin.Context) {
	uid := c.Query("uuid")

	mesh, err := meshForBuilding(uid)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name := exportName(uid)
	outDir := filepath.Join(config.Download, "OutFile")
	if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	dxfPath := filepath.Join(outDir, name+".dxf")
	if err := methods.ConvertMeshToDXF(mesh, dxfPath); err != nil {
		log.Printf("Failed to export DXF: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "导出失败"})
		return
	}

	c.FileAttachment(dxfPath, name+".dxf")
}

// UploadFootprints 批量上传：zip/rar压缩包内的GeoJSON要素逐个入库
// 要素属性里的height作为挤出高度，缺失或非正值的要素跳过
func (uc *UserController) UploadFootprints(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uploadDir := filepath.Join(config.Download, "Upload")
	if err := os.MkdirAll(uploadDir, os.ModePerm); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	savePath := filepath.Join(uploadDir, file.Filename)
	if err := c.SaveUploadedFile(file, savePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	unpath, err := methods.Unzip(savePath)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	files, err := methods.CollectGeoJSONFiles(unpath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	imported := 0
	skipped := 0
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("Failed to read %s: %v", path, err)
			skipped++
			continue
		}
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			log.Printf("Failed to parse %s: %v", path, err)
			skipped++
			continue
		}
		for _, feature := range fc.Features {
			if err := importFeature(feature); err != nil {
				log.Printf("Skipped feature in %s: %v", path, err)
				skipped++
				continue
			}
			imported++
		}
	}

	c.JSON(http.StatusOK, gin.H{"imported": imported, "skipped": skipped})
}

// importFeature 将单个要素转为建筑记录
func importFeature(feature *geojson.Feature) error {
	footprint, err := methods.FeatureToFootprint(feature)
	if err != nil {
		return err
	}
	height, ok := feature.Properties["height"].(float64)
	if !ok || height <= 0 {
		return fmt.Errorf("feature has no positive height property")
	}
	wkbHex, err := methods.FootprintToWKB(footprint)
	if err != nil {
		return err
	}

	name, _ := feature.Properties["name"].(string)
	material, _ := feature.Properties["material"].(string)
	building := models.Building{
		Uuid:      strings.ReplaceAll(uuid.New().String(), "-", ""),
		Name:      name,
		Height:    height,
		Footprint: wkbHex,
		Material:  material,
	}
	return models.DB.Create(&building).Error
}

// rebuildMesh 从存储的底面重建网格（入库时未定向，这里统一转逆时针）
func rebuildMesh(building *models.Building) (*Mesh.PrismMesh, error) {
	footprint, err := methods.WKBToFootprint(building.Footprint)
	if err != nil {
		return nil, err
	}
	footprint = Mesh.EnsureCCW(footprint)
	mesh, err := Mesh.BuildPrismMesh(footprint, building.Height)
	if err != nil {
		return nil, err
	}
	mesh.Material = building.Material
	return mesh, nil
}

// meshForBuilding 取缓存网格，未命中时重建并写缓存
func meshForBuilding(uid string) (*Mesh.PrismMesh, error) {
	var building models.Building
	if err := models.DB.Where("uuid = ?", uid).First(&building).Error; err != nil {
		return nil, fmt.Errorf("building not found: %v", err)
	}

	cache := services.GetMeshCacheService()
	if cache != nil {
		if mesh, found, err := cache.GetCachedMesh(uid, building.Height, Mesh.Up); err == nil && found {
			return mesh, nil
		}
	}

	mesh, err := rebuildMesh(&building)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		if err := cache.SetCachedMesh(uid, building.Height, Mesh.Up, mesh); err != nil {
			log.Printf("Failed to cache mesh: %v", err)
		}
	}
	return mesh, nil
}

func exportName(uid string) string {
	if len(uid) > 8 {
		return "building_" + uid[:8]
	}
	return "building_" + uid
}
