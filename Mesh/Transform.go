package Mesh

import (
	"encoding/json"
	"fmt"
	"math"
)

// GeoJSONGeometry 表示GeoJSON几何对象的结构
type GeoJSONGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// CoordsToFootprint 将坐标数组转换为底面多边形
// 坐标为[x, y]或[x, y, z]：平面坐标映射到XZ平面，第三个分量作为基底高程(Y)
// GeoJSON多边形首尾点通常重复，转换时移除重复的闭合点
func CoordsToFootprint(coords [][]float64) (*Polygon, error) {
	if len(coords) < 3 {
		return nil, fmt.Errorf("%w (got %d coordinates)", ErrInvalidPolygon, len(coords))
	}

	points := make([]Point3D, 0, len(coords))
	for i, coord := range coords {
		if len(coord) < 2 {
			return nil, fmt.Errorf("coordinate at index %d has insufficient dimensions (need at least 2, got %d)", i, len(coord))
		}
		if math.IsNaN(coord[0]) || math.IsInf(coord[0], 0) ||
			math.IsNaN(coord[1]) || math.IsInf(coord[1], 0) {
			return nil, fmt.Errorf("invalid coordinate at index %d: [%f, %f]", i, coord[0], coord[1])
		}

		point := Point3D{X: coord[0], Z: coord[1]}
		// 如果提供了高程，作为基底Y值
		if len(coord) >= 3 {
			point.Y = coord[2]
		}
		points = append(points, point)
	}

	// 检查并移除重复的闭合点
	if len(points) > 1 {
		first := points[0]
		last := points[len(points)-1]
		if math.Abs(first.X-last.X) < 1e-10 && math.Abs(first.Z-last.Z) < 1e-10 {
			points = points[:len(points)-1]
		}
	}

	if len(points) < 3 {
		return nil, fmt.Errorf("%w (only %d distinct points after closing-point removal)", ErrInvalidPolygon, len(points))
	}

	return &Polygon{Points: points}, nil
}

// GeometryStringToFootprint 将GeoJSON Geometry字符串转换为底面多边形
// 支持的几何类型：Polygon, MultiPolygon
// 对于MultiPolygon，返回第一个多边形；对于有洞的多边形，只返回外环
func GeometryStringToFootprint(geometryStr string) (*Polygon, error) {
	var geom GeoJSONGeometry
	if err := json.Unmarshal([]byte(geometryStr), &geom); err != nil {
		return nil, fmt.Errorf("failed to parse geometry JSON: %v", err)
	}

	switch geom.Type {
	case "Polygon":
		return parsePolygonOuterRing(geom.Coordinates)
	case "MultiPolygon":
		return parseMultiPolygonOuterRing(geom.Coordinates)
	default:
		return nil, fmt.Errorf("unsupported geometry type: %s (only Polygon and MultiPolygon are supported)", geom.Type)
	}
}

// parsePolygonOuterRing 解析Polygon类型的外环
// Polygon格式: [[[x1,y1],[x2,y2],...]] (外环 + 可选的内环)
func parsePolygonOuterRing(coordinates json.RawMessage) (*Polygon, error) {
	var rings [][][]float64
	if err := json.Unmarshal(coordinates, &rings); err != nil {
		return nil, fmt.Errorf("failed to parse polygon coordinates: %v", err)
	}

	if len(rings) == 0 {
		return nil, fmt.Errorf("polygon has no rings")
	}

	// 只取外环（第一个环），洞不参与挤出
	return CoordsToFootprint(rings[0])
}

// parseMultiPolygonOuterRing 解析MultiPolygon类型第一个多边形的外环
// MultiPolygon格式: [[[[x1,y1],[x2,y2],...]]] (多个多边形)
func parseMultiPolygonOuterRing(coordinates json.RawMessage) (*Polygon, error) {
	var multiPolygon [][][][]float64
	if err := json.Unmarshal(coordinates, &multiPolygon); err != nil {
		return nil, fmt.Errorf("failed to parse multipolygon coordinates: %v", err)
	}

	if len(multiPolygon) == 0 {
		return nil, fmt.Errorf("multipolygon has no polygons")
	}
	if len(multiPolygon[0]) == 0 {
		return nil, fmt.Errorf("first polygon has no rings")
	}

	return CoordsToFootprint(multiPolygon[0][0])
}

// GeometryStringToFootprints 将GeoJSON Geometry字符串转换为多个独立的底面多边形
// 每个多边形只取外环，适用于MultiPolygon数据批量建模
func GeometryStringToFootprints(geometryStr string) ([]*Polygon, error) {
	var geom GeoJSONGeometry
	if err := json.Unmarshal([]byte(geometryStr), &geom); err != nil {
		return nil, fmt.Errorf("failed to parse geometry JSON: %v", err)
	}

	switch geom.Type {
	case "Polygon":
		footprint, err := parsePolygonOuterRing(geom.Coordinates)
		if err != nil {
			return nil, err
		}
		return []*Polygon{footprint}, nil
	case "MultiPolygon":
		var multiPolygon [][][][]float64
		if err := json.Unmarshal(geom.Coordinates, &multiPolygon); err != nil {
			return nil, fmt.Errorf("failed to parse multipolygon coordinates: %v", err)
		}
		if len(multiPolygon) == 0 {
			return nil, fmt.Errorf("multipolygon has no polygons")
		}
		footprints := make([]*Polygon, 0, len(multiPolygon))
		for i, polygon := range multiPolygon {
			if len(polygon) == 0 {
				return nil, fmt.Errorf("polygon %d has no rings", i)
			}
			footprint, err := CoordsToFootprint(polygon[0])
			if err != nil {
				return nil, fmt.Errorf("failed to parse polygon %d: %v", i, err)
			}
			footprints = append(footprints, footprint)
		}
		return footprints, nil
	default:
		return nil, fmt.Errorf("unsupported geometry type: %s", geom.Type)
	}
}

// FootprintToCoords 将底面多边形转换回闭合的GeoJSON坐标数组（首尾点重复）
func FootprintToCoords(polygon *Polygon) [][]float64 {
	if polygon == nil || len(polygon.Points) == 0 {
		return nil
	}
	coords := make([][]float64, 0, len(polygon.Points)+1)
	for _, p := range polygon.Points {
		coords = append(coords, []float64{p.X, p.Z, p.Y})
	}
	first := polygon.Points[0]
	coords = append(coords, []float64{first.X, first.Z, first.Y})
	return coords
}
