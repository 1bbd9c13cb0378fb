package methods

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/GrainArc/BuildMesh/Mesh"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// GeometryToFootprint 将orb几何对象转换为底面多边形
// Polygon取外环，MultiPolygon取第一个多边形的外环，其余几何类型不支持
// orb的环是闭合存储的，转换时去掉重复的闭合点
func GeometryToFootprint(geometry orb.Geometry) (*Mesh.Polygon, error) {
	var ring orb.Ring
	switch geom := geometry.(type) {
	case orb.Polygon:
		if len(geom) == 0 {
			return nil, fmt.Errorf("polygon has no rings")
		}
		ring = geom[0]
	case orb.MultiPolygon:
		if len(geom) == 0 || len(geom[0]) == 0 {
			return nil, fmt.Errorf("multipolygon has no rings")
		}
		ring = geom[0][0]
	default:
		return nil, fmt.Errorf("unsupported geometry type: %T (only Polygon and MultiPolygon are supported)", geom)
	}

	coords := make([][]float64, 0, len(ring))
	for _, pt := range ring {
		coords = append(coords, []float64{pt[0], pt[1]})
	}
	return Mesh.CoordsToFootprint(coords)
}

// FeatureToFootprint 将GeoJSON要素转换为底面多边形
func FeatureToFootprint(feature *geojson.Feature) (*Mesh.Polygon, error) {
	if feature == nil || feature.Geometry == nil {
		return nil, fmt.Errorf("feature has no geometry")
	}
	return GeometryToFootprint(feature.Geometry)
}

// FootprintToWKB 将底面多边形编码为WKB十六进制字符串用于入库
// 按MultiPolygon统一存储，环按GeoJSON约定闭合（首尾点重复）
// 基底高程(Y)不参与平面存储，读取时以0还原
func FootprintToWKB(footprint *Mesh.Polygon) (string, error) {
	if footprint == nil || len(footprint.Points) < 3 {
		return "", fmt.Errorf("footprint must have at least 3 points")
	}

	ring := make(orb.Ring, 0, len(footprint.Points)+1)
	for _, p := range footprint.Points {
		ring = append(ring, orb.Point{p.X, p.Z})
	}
	ring = append(ring, ring[0])

	//  检查几何类型是否为  Polygon，统一转换为  MultiPolygon
	geom := orb.MultiPolygon{orb.Polygon{ring}}
	TempWkb, err := wkb.Marshal(geom)
	if err != nil {
		return "", fmt.Errorf("failed to marshal footprint to WKB: %v", err)
	}
	return hex.EncodeToString(TempWkb), nil
}

// WKBToFootprint 将WKB十六进制字符串解码为底面多边形
func WKBToFootprint(wkbHex string) (*Mesh.Polygon, error) {
	wkbBytes, err := hex.DecodeString(strings.Trim(wkbHex, "  "))
	if err != nil {
		return nil, fmt.Errorf("invalid WKB hex: %v", err)
	}
	geom, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal WKB: %v", err)
	}
	return GeometryToFootprint(geom)
}

// CalculateFootprintArea 计算要素底面的平面面积
func CalculateFootprintArea(feature *geojson.Feature) float64 {
	if feature == nil || feature.Geometry == nil {
		return 0
	}
	return planar.Area(feature.Geometry)
}

// FootprintToFeature 将底面多边形转换回GeoJSON要素，便于前端回显
func FootprintToFeature(footprint *Mesh.Polygon) *geojson.Feature {
	ring := make(orb.Ring, 0, len(footprint.Points)+1)
	for _, p := range footprint.Points {
		ring = append(ring, orb.Point{p.X, p.Z})
	}
	if len(ring) > 0 {
		ring = append(ring, ring[0])
	}
	return geojson.NewFeature(orb.Polygon{ring})
}
