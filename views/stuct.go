package views

import (
	"github.com/GrainArc/BuildMesh/Mesh"
	"github.com/paulmach/orb/geojson"
)

type UserController struct {
}

// PrismData 一次性挤出请求：底面要素 + 高度 + 可选方向与材质
type PrismData struct {
	Geojson   geojson.Feature `json:"geojson"`
	Height    float64         `json:"height"`
	Direction []float64       `json:"direction"`
	Material  string          `json:"material"`
}

// BuildingData 建筑入库请求
type BuildingData struct {
	Name       string                 `json:"name"`
	Height     float64                `json:"height"`
	Material   string                 `json:"material"`
	Geojson    geojson.Feature        `json:"geojson"`
	Attributes map[string]interface{} `json:"attributes"`
}

// ChangeData 建筑修改请求，Geojson为空时保留原底面
type ChangeData struct {
	Uuid       string                 `json:"uuid"`
	Name       string                 `json:"name"`
	Height     float64                `json:"height"`
	Material   string                 `json:"material"`
	Geojson    *geojson.Feature       `json:"geojson"`
	Attributes map[string]interface{} `json:"attributes"`
}

// MeshResponse 网格构建结果
// 顶点和法向量按x,y,z展开为平铺数组，索引每3个构成一个三角形
type MeshResponse struct {
	Uuid        string    `json:"uuid,omitempty"`
	VertexCount int       `json:"vertex_count"`
	IndexCount  int       `json:"index_count"`
	Vertices    []float64 `json:"vertices"`
	Normals     []float64 `json:"normals"`
	Indices     []int     `json:"indices"`
	Material    string    `json:"material,omitempty"`
	SurfaceArea float64   `json:"surface_area"`
}

func makeMeshResponse(uuid string, mesh *Mesh.PrismMesh) MeshResponse {
	vertices := make([]float64, 0, len(mesh.Vertices)*3)
	for _, v := range mesh.Vertices {
		vertices = append(vertices, v.X, v.Y, v.Z)
	}
	normals := make([]float64, 0, len(mesh.Normals)*3)
	for _, n := range mesh.Normals {
		normals = append(normals, n.X, n.Y, n.Z)
	}
	return MeshResponse{
		Uuid:        uuid,
		VertexCount: len(mesh.Vertices),
		IndexCount:  len(mesh.Indices),
		Vertices:    vertices,
		Normals:     normals,
		Indices:     mesh.Indices,
		Material:    mesh.Material,
		SurfaceArea: mesh.SurfaceArea(),
	}
}
