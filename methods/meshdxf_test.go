package methods

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GrainArc/BuildMesh/Mesh"
)

func TestConvertMeshToDXF(t *testing.T) {
	mesh := demoMesh(t)
	outPath := filepath.Join(t.TempDir(), "demo.dxf")

	if err := ConvertMeshToDXF(mesh, outPath); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("dxf file missing: %v", err)
	}
	content := string(data)
	for _, layer := range []string{"Footprint", "Roofline", "Walls"} {
		if !strings.Contains(content, layer) {
			t.Errorf("dxf output missing layer %q", layer)
		}
	}
}

func TestConvertMeshToDXFInvalid(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "bad.dxf")
	if err := ConvertMeshToDXF(nil, outPath); err == nil {
		t.Error("nil mesh should be rejected")
	}
	if err := ConvertMeshToDXF(&Mesh.PrismMesh{}, outPath); err == nil {
		t.Error("empty mesh should be rejected")
	}
	// 顶点数不成对的网格不是棱柱
	odd := &Mesh.PrismMesh{Vertices: make([]Mesh.Point3D, 7)}
	if err := ConvertMeshToDXF(odd, outPath); err == nil {
		t.Error("odd vertex count should be rejected")
	}
}
