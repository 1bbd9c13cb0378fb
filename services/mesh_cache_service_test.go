package services

import (
	"reflect"
	"testing"

	"github.com/GrainArc/BuildMesh/Mesh"
	"github.com/GrainArc/BuildMesh/models"
)

func buildTestMesh(t *testing.T) *Mesh.PrismMesh {
	t.Helper()
	footprint, err := Mesh.RegularFootprint(Mesh.Point3D{}, 10, 4)
	if err != nil {
		t.Fatal(err)
	}
	mesh, err := Mesh.BuildPrismMesh(footprint, 10)
	if err != nil {
		t.Fatal(err)
	}
	mesh.Material = "brick"
	return mesh
}

func TestMeshRecordRoundTrip(t *testing.T) {
	mesh := buildTestMesh(t)
	record := EncodeMeshRecord("abc123", 10, Mesh.Up, mesh)

	if record.VertexCount != 8 || record.IndexCount != 24 {
		t.Fatalf("counts %d/%d, want 8/24", record.VertexCount, record.IndexCount)
	}
	if len(record.VertexData) != 8*24 {
		t.Errorf("vertex buffer %d bytes, want %d", len(record.VertexData), 8*24)
	}
	if len(record.NormalData) != 8*24 {
		t.Errorf("normal buffer %d bytes, want %d", len(record.NormalData), 8*24)
	}
	if len(record.IndexData) != 24*4 {
		t.Errorf("index buffer %d bytes, want %d", len(record.IndexData), 24*4)
	}

	back, err := DecodeMeshRecord(record)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back.Vertices, mesh.Vertices) {
		t.Error("vertices changed after round trip")
	}
	if !reflect.DeepEqual(back.Normals, mesh.Normals) {
		t.Error("normals changed after round trip")
	}
	if !reflect.DeepEqual(back.Indices, mesh.Indices) {
		t.Error("indices changed after round trip")
	}
	if back.Material != "brick" {
		t.Errorf("material %q, want brick", back.Material)
	}
}

func TestDecodeMeshRecordSizeMismatch(t *testing.T) {
	mesh := buildTestMesh(t)
	record := EncodeMeshRecord("abc123", 10, Mesh.Up, mesh)

	truncated := &models.MeshRecord{
		Uuid:        record.Uuid,
		VertexCount: record.VertexCount,
		IndexCount:  record.IndexCount,
		VertexData:  record.VertexData[:len(record.VertexData)-8],
		NormalData:  record.NormalData,
		IndexData:   record.IndexData,
	}
	if _, err := DecodeMeshRecord(truncated); err == nil {
		t.Error("truncated vertex buffer should be rejected")
	}

	badIndex := &models.MeshRecord{
		Uuid:        record.Uuid,
		VertexCount: record.VertexCount,
		IndexCount:  record.IndexCount + 1,
		VertexData:  record.VertexData,
		NormalData:  record.NormalData,
		IndexData:   record.IndexData,
	}
	if _, err := DecodeMeshRecord(badIndex); err == nil {
		t.Error("index count mismatch should be rejected")
	}
}

func TestEncodeMeshRecordKey(t *testing.T) {
	mesh := buildTestMesh(t)
	up := Mesh.Vector3{X: 0.5, Y: 0.5, Z: 0}
	record := EncodeMeshRecord("key-uuid", -3, up, mesh)

	if record.Uuid != "key-uuid" || record.Height != -3 {
		t.Errorf("key fields %s/%f, want key-uuid/-3", record.Uuid, record.Height)
	}
	if record.UpX != 0.5 || record.UpY != 0.5 || record.UpZ != 0 {
		t.Errorf("up vector (%f,%f,%f), want (0.5,0.5,0)", record.UpX, record.UpY, record.UpZ)
	}
}
