package Mesh

import "math"

// Point3D 表示一个三维点（Y轴向上的右手坐标系）
type Point3D struct {
	X, Y, Z float64
}

// Vector3 表示一个三维向量
type Vector3 struct {
	X, Y, Z float64
}

// Up 默认挤出方向（竖直向上）
var Up = Vector3{X: 0, Y: 1, Z: 0}

// Polygon 表示一个有序的建筑底面多边形
// 开环存储：最后一个顶点隐式连接回第一个顶点，首尾不重复
// 从上方(+Y)看逆时针排列时，生成的侧面法向量朝外
type Polygon struct {
	Points []Point3D
}

// PrismMesh 底面多边形沿挤出方向生成的棱柱网格
// Vertices: 底面环顶点在前，位移环顶点在后（该顺序是索引计算依赖的不变量）
// Indices: 每3个索引构成一个三角形，从外侧看为逆时针
// Material: 外观引用，算法不做任何解释，原样传递给调用方
type PrismMesh struct {
	Vertices []Point3D `json:"vertices"`
	Normals  []Vector3 `json:"normals"`
	Indices  []int     `json:"indices"`
	Material string    `json:"material"`
}

// Add 向量加法
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Scale 向量数乘
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Dot 向量点积
func (v Vector3) Dot(o Vector3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross 向量叉积
func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Length 向量模长
func (v Vector3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize 归一化，零向量原样返回
func (v Vector3) Normalize() Vector3 {
	length := v.Length()
	if length == 0 {
		return v
	}
	return Vector3{X: v.X / length, Y: v.Y / length, Z: v.Z / length}
}

// Sub 两点相减得到向量
func (p Point3D) Sub(o Point3D) Vector3 {
	return Vector3{X: p.X - o.X, Y: p.Y - o.Y, Z: p.Z - o.Z}
}

// Translate 点沿向量平移
func (p Point3D) Translate(v Vector3) Point3D {
	return Point3D{X: p.X + v.X, Y: p.Y + v.Y, Z: p.Z + v.Z}
}

// VertexCount 网格顶点数
func (m *PrismMesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount 网格三角形数
func (m *PrismMesh) TriangleCount() int {
	return len(m.Indices) / 3
}
