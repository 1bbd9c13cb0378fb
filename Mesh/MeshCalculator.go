package Mesh

import (
	"fmt"
	"math"
)

// 底面多边形的派生量计算

// SignedAreaXZ 用鞋带公式计算底面在XZ平面上的有符号面积
// 正值表示从上方(+Y)看逆时针排列，负值表示顺时针
func SignedAreaXZ(polygon *Polygon) float64 {
	if polygon == nil || len(polygon.Points) < 3 {
		return 0
	}
	points := polygon.Points
	area := 0.0
	for i := 0; i < len(points); i++ {
		j := (i + 1) % len(points)
		area += points[i].Z * points[j].X
		area -= points[j].Z * points[i].X
	}
	return area / 2.0
}

// IsCounterClockwise 判断底面从上方看是否逆时针排列
func IsCounterClockwise(polygon *Polygon) bool {
	return SignedAreaXZ(polygon) > 0
}

// Reverse 返回顶点顺序反转后的新多边形
func Reverse(polygon *Polygon) *Polygon {
	n := len(polygon.Points)
	reversed := make([]Point3D, n)
	for i, p := range polygon.Points {
		reversed[n-1-i] = p
	}
	return &Polygon{Points: reversed}
}

// EnsureCCW 保证底面从上方看逆时针排列，顺时针时反转顶点顺序
// 挤出算法本身不校验绕序，希望侧面朝外的调用方应先经过该函数
func EnsureCCW(polygon *Polygon) *Polygon {
	if SignedAreaXZ(polygon) < 0 {
		return Reverse(polygon)
	}
	return polygon
}

// Area 底面无符号面积
func (p *Polygon) Area() float64 {
	return math.Abs(SignedAreaXZ(p))
}

// Perimeter 底面周长
func (p *Polygon) Perimeter() float64 {
	n := len(p.Points)
	if n < 2 {
		return 0
	}
	perimeter := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		perimeter += p.Points[i].Sub(p.Points[j]).Length()
	}
	return perimeter
}

// Centroid 底面顶点的几何中心
func (p *Polygon) Centroid() Point3D {
	if len(p.Points) == 0 {
		return Point3D{}
	}
	var cx, cy, cz float64
	for _, pt := range p.Points {
		cx += pt.X
		cy += pt.Y
		cz += pt.Z
	}
	n := float64(len(p.Points))
	return Point3D{X: cx / n, Y: cy / n, Z: cz / n}
}

// SurfaceArea 网格所有三角形的面积之和（叉积模长的一半）
func (m *PrismMesh) SurfaceArea() float64 {
	total := 0.0
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a := m.Vertices[m.Indices[i]]
		b := m.Vertices[m.Indices[i+1]]
		c := m.Vertices[m.Indices[i+2]]
		total += FaceNormal(a, b, c).Length() / 2.0
	}
	return total
}

// Bounds 网格的轴对齐包围盒
func (m *PrismMesh) Bounds() (min, max Point3D) {
	if len(m.Vertices) == 0 {
		return Point3D{}, Point3D{}
	}
	min, max = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		min.X = math.Min(min.X, v.X)
		min.Y = math.Min(min.Y, v.Y)
		min.Z = math.Min(min.Z, v.Z)
		max.X = math.Max(max.X, v.X)
		max.Y = math.Max(max.Y, v.Y)
		max.Z = math.Max(max.Z, v.Z)
	}
	return min, max
}

// RegularFootprint 以center为中心、radius为半径生成corners个等分角点的正多边形底面
// 角点从0°开始按等角间隔排列，Z取负方向保证从上方看逆时针
// 生成的底面满足挤出算法的外法向约定，可直接交给BuildPrismMesh
func RegularFootprint(center Point3D, radius float64, corners int) (*Polygon, error) {
	if corners < 3 {
		return nil, fmt.Errorf("%w (got %d)", ErrInvalidPolygon, corners)
	}
	if radius <= 0 {
		return nil, fmt.Errorf("footprint radius must be positive (got %f)", radius)
	}
	points := make([]Point3D, corners)
	step := 2 * math.Pi / float64(corners)
	for i := 0; i < corners; i++ {
		angle := float64(i) * step
		points[i] = Point3D{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y,
			Z: center.Z - radius*math.Sin(angle),
		}
	}
	return &Polygon{Points: points}, nil
}
