package Mesh

import (
	"errors"
	"fmt"
)

// ErrInvalidPolygon 底面顶点数不足3个，无法构成有效侧面
var ErrInvalidPolygon = errors.New("invalid polygon: at least 3 vertices are required")

// Displace 将顶点序列沿direction方向平移height距离，返回新序列
// 纯函数：输出顺序与输入一一对应（索引i的底面顶点对应索引i的位移顶点）
// height为负时翻转挤出方向，这是有意行为而非错误
func Displace(points []Point3D, height float64, direction Vector3) []Point3D {
	displaced := make([]Point3D, len(points))
	offset := direction.Scale(height)
	for i, p := range points {
		displaced[i] = p.Translate(offset)
	}
	return displaced
}

// SideFaces 生成侧面三角形索引序列
// n为底面环顶点数，位移环顶点j存储在缓冲区偏移j+n处
// 每条边生成两个三角形: (i, next, i+n) 和 (i+n, next, next+n)
// 底面从上方看逆时针排列且沿上方向挤出时，该绕序使侧面朝外
// 输出长度恒为6*n；n==0时返回空序列；n<3由调用方负责拒绝
func SideFaces(n int) []int {
	indices := make([]int, 0, 6*n)
	for i := 0; i < n; i++ {
		next := (i + 1) % n
		indices = append(indices, i, next, i+n)
		indices = append(indices, i+n, next, next+n)
	}
	return indices
}

// FaceNormal 用叉积(b-a)×(c-a)计算三角形面法向量
// 未归一化：模长等于三角形面积的2倍
// 三点共线或重合时返回零向量，由调用方决定忽略还是拒绝
func FaceNormal(a, b, c Point3D) Vector3 {
	return b.Sub(a).Cross(c.Sub(a))
}

// RecomputeNormals 根据最终拓扑重算逐顶点法向量
// 把每个面的原始叉积法向量累加到其三个顶点上再归一化
// 叉积模长即2倍面积，因此累加结果天然按面积加权，大面权重高
// 零面积面贡献零向量，不影响结果也不报错
func RecomputeNormals(vertices []Point3D, indices []int) []Vector3 {
	normals := make([]Vector3, len(vertices))
	for i := 0; i+2 < len(indices); i += 3 {
		ia, ib, ic := indices[i], indices[i+1], indices[i+2]
		faceNormal := FaceNormal(vertices[ia], vertices[ib], vertices[ic])
		normals[ia] = normals[ia].Add(faceNormal)
		normals[ib] = normals[ib].Add(faceNormal)
		normals[ic] = normals[ic].Add(faceNormal)
	}
	for i := range normals {
		normals[i] = normals[i].Normalize()
	}
	return normals
}

// BuildPrismMesh 沿默认上方向挤出底面多边形，生成侧面封闭的棱柱网格
func BuildPrismMesh(polygon *Polygon, height float64) (*PrismMesh, error) {
	return BuildPrismMeshAlong(polygon, height, Up)
}

// BuildPrismMeshAlong 沿指定方向挤出底面多边形
// 顶点缓冲 = 底面环 ++ 位移环（顺序固定），索引缓冲由SideFaces生成
// 不生成顶面和底面（屋顶/地板封盖是独立的三角剖分问题，此处不做）
// 输入校验只在该入口做一次：顶点数不足返回ErrInvalidPolygon
// 退化边（相邻顶点共线或重合）不报错，产生零面积侧面
func BuildPrismMeshAlong(polygon *Polygon, height float64, direction Vector3) (*PrismMesh, error) {
	if polygon == nil || len(polygon.Points) < 3 {
		count := 0
		if polygon != nil {
			count = len(polygon.Points)
		}
		return nil, fmt.Errorf("%w (got %d)", ErrInvalidPolygon, count)
	}

	n := len(polygon.Points)
	displaced := Displace(polygon.Points, height, direction)
	indices := SideFaces(n)

	vertices := make([]Point3D, 0, 2*n)
	vertices = append(vertices, polygon.Points...)
	vertices = append(vertices, displaced...)

	// 法向量重算必须放在索引装配之后，保证光照与最终拓扑一致
	normals := RecomputeNormals(vertices, indices)

	return &PrismMesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}
