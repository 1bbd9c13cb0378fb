package methods

import (
	"math"
	"testing"

	"github.com/GrainArc/BuildMesh/Mesh"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func squareFootprint() *Mesh.Polygon {
	return &Mesh.Polygon{Points: []Mesh.Point3D{
		{X: 0, Y: 0, Z: 0},
		{X: 0, Y: 0, Z: 1},
		{X: 1, Y: 0, Z: 1},
		{X: 1, Y: 0, Z: 0},
	}}
}

func TestGeometryToFootprint(t *testing.T) {
	ring := orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}
	footprint, err := GeometryToFootprint(orb.Polygon{ring})
	if err != nil {
		t.Fatal(err)
	}
	if len(footprint.Points) != 4 {
		t.Fatalf("expected 4 points after closing-point removal, got %d", len(footprint.Points))
	}
	if footprint.Points[1] != (Mesh.Point3D{X: 1, Y: 0, Z: 0}) {
		t.Errorf("point 1: %v, want (1,0,0)", footprint.Points[1])
	}

	multi := orb.MultiPolygon{orb.Polygon{ring}}
	footprint, err = GeometryToFootprint(multi)
	if err != nil {
		t.Fatal(err)
	}
	if len(footprint.Points) != 4 {
		t.Fatalf("multipolygon: expected 4 points, got %d", len(footprint.Points))
	}
}

func TestGeometryToFootprintUnsupported(t *testing.T) {
	if _, err := GeometryToFootprint(orb.Point{1, 2}); err == nil {
		t.Error("point geometry should be rejected")
	}
	if _, err := GeometryToFootprint(orb.Polygon{}); err == nil {
		t.Error("polygon without rings should be rejected")
	}
}

func TestFeatureToFootprint(t *testing.T) {
	raw := `{"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[0,0],[2,0],[2,2],[0,2],[0,0]]]},"properties":{"height":12}}`
	feature, err := geojson.UnmarshalFeature([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	footprint, err := FeatureToFootprint(feature)
	if err != nil {
		t.Fatal(err)
	}
	if len(footprint.Points) != 4 {
		t.Fatalf("expected 4 points, got %d", len(footprint.Points))
	}

	if _, err := FeatureToFootprint(nil); err == nil {
		t.Error("nil feature should be rejected")
	}
}

func TestFootprintWKBRoundTrip(t *testing.T) {
	footprint := squareFootprint()
	wkbHex, err := FootprintToWKB(footprint)
	if err != nil {
		t.Fatal(err)
	}
	if wkbHex == "" {
		t.Fatal("empty WKB hex")
	}

	back, err := WKBToFootprint(wkbHex)
	if err != nil {
		t.Fatal(err)
	}
	if len(back.Points) != len(footprint.Points) {
		t.Fatalf("round trip changed point count: %d != %d", len(back.Points), len(footprint.Points))
	}
	for i := range back.Points {
		if back.Points[i].X != footprint.Points[i].X || back.Points[i].Z != footprint.Points[i].Z {
			t.Errorf("point %d changed after round trip: %v != %v", i, back.Points[i], footprint.Points[i])
		}
	}
}

func TestFootprintToWKBInvalid(t *testing.T) {
	if _, err := FootprintToWKB(nil); err == nil {
		t.Error("nil footprint should be rejected")
	}
	short := &Mesh.Polygon{Points: []Mesh.Point3D{{X: 0}, {X: 1}}}
	if _, err := FootprintToWKB(short); err == nil {
		t.Error("2-point footprint should be rejected")
	}
}

func TestWKBToFootprintInvalid(t *testing.T) {
	if _, err := WKBToFootprint("zz"); err == nil {
		t.Error("invalid hex should be rejected")
	}
	if _, err := WKBToFootprint("0102"); err == nil {
		t.Error("truncated WKB should be rejected")
	}
}

func TestCalculateFootprintArea(t *testing.T) {
	feature := geojson.NewFeature(orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}})
	if area := CalculateFootprintArea(feature); math.Abs(area-1) > 1e-9 {
		t.Errorf("area %f, want 1", area)
	}
	if area := CalculateFootprintArea(nil); area != 0 {
		t.Errorf("nil feature area %f, want 0", area)
	}
}

func TestFootprintToFeature(t *testing.T) {
	feature := FootprintToFeature(squareFootprint())
	polygon, ok := feature.Geometry.(orb.Polygon)
	if !ok {
		t.Fatalf("expected Polygon geometry, got %T", feature.Geometry)
	}
	if len(polygon[0]) != 5 {
		t.Fatalf("ring should be re-closed: got %d points", len(polygon[0]))
	}
	if polygon[0][0] != polygon[0][4] {
		t.Error("ring is not closed")
	}
}
