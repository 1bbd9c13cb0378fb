// services/mesh_cache_service.go
package services

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/GrainArc/BuildMesh/Mesh"
	"github.com/GrainArc/BuildMesh/models"
	"gorm.io/gorm"
)

// MeshCacheService 网格缓存服务
// 以(建筑uuid, 高度, 挤出方向)为键缓存构建结果，重新生成时整条替换
type MeshCacheService struct {
	db *gorm.DB
	mu sync.RWMutex
}

var (
	meshCacheInstance *MeshCacheService
	meshCacheOnce     sync.Once
)

// InitMeshCacheService 初始化缓存服务（在应用启动时调用）
func InitMeshCacheService(db *gorm.DB) {
	meshCacheOnce.Do(func() {
		meshCacheInstance = &MeshCacheService{
			db: db,
		}
	})
}

// GetMeshCacheService 获取缓存服务单例
func GetMeshCacheService() *MeshCacheService {
	return meshCacheInstance
}

// GetCachedMesh 从缓存获取网格
// 返回: mesh, found, error
func (s *MeshCacheService) GetCachedMesh(uuid string, height float64, up Mesh.Vector3) (*Mesh.PrismMesh, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var record models.MeshRecord
	result := s.db.
		Where("uuid = ? AND height = ? AND up_x = ? AND up_y = ? AND up_z = ?",
			uuid, height, up.X, up.Y, up.Z).
		First(&record)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, false, nil
		}
		return nil, false, result.Error
	}

	mesh, err := DecodeMeshRecord(&record)
	if err != nil {
		return nil, false, err
	}
	return mesh, true, nil
}

// SetCachedMesh 写入缓存，同一建筑的旧记录整条替换
func (s *MeshCacheService) SetCachedMesh(uuid string, height float64, up Mesh.Vector3, mesh *Mesh.PrismMesh) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := EncodeMeshRecord(uuid, height, up, mesh)

	if err := s.db.Where("uuid = ?", uuid).Delete(&models.MeshRecord{}).Error; err != nil {
		return fmt.Errorf("failed to drop stale mesh cache for %s: %w", uuid, err)
	}
	if err := s.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to cache mesh for %s: %w", uuid, err)
	}
	return nil
}

// DropCachedMesh 删除某建筑的全部缓存（建筑删除或底面修改时调用）
func (s *MeshCacheService) DropCachedMesh(uuid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Where("uuid = ?", uuid).Delete(&models.MeshRecord{}).Error; err != nil {
		return fmt.Errorf("failed to drop mesh cache for %s: %w", uuid, err)
	}
	return nil
}

// EncodeMeshRecord 将网格编码为缓存记录
// 顶点/法向量按x,y,z小端float64展开，索引按小端int32存储
func EncodeMeshRecord(uuid string, height float64, up Mesh.Vector3, mesh *Mesh.PrismMesh) *models.MeshRecord {
	return &models.MeshRecord{
		Uuid:        uuid,
		Height:      height,
		UpX:         up.X,
		UpY:         up.Y,
		UpZ:         up.Z,
		VertexCount: len(mesh.Vertices),
		IndexCount:  len(mesh.Indices),
		VertexData:  encodePoints(mesh.Vertices),
		NormalData:  encodeVectors(mesh.Normals),
		IndexData:   encodeIndices(mesh.Indices),
		Material:    mesh.Material,
	}
}

// DecodeMeshRecord 从缓存记录还原网格
func DecodeMeshRecord(record *models.MeshRecord) (*Mesh.PrismMesh, error) {
	vertices, err := decodePoints(record.VertexData, record.VertexCount)
	if err != nil {
		return nil, fmt.Errorf("bad vertex buffer for %s: %w", record.Uuid, err)
	}
	normals, err := decodeVectors(record.NormalData, record.VertexCount)
	if err != nil {
		return nil, fmt.Errorf("bad normal buffer for %s: %w", record.Uuid, err)
	}
	indices, err := decodeIndices(record.IndexData, record.IndexCount)
	if err != nil {
		return nil, fmt.Errorf("bad index buffer for %s: %w", record.Uuid, err)
	}
	return &Mesh.PrismMesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
		Material: record.Material,
	}, nil
}

func encodePoints(points []Mesh.Point3D) []byte {
	buf := make([]byte, 0, len(points)*24)
	for _, p := range points {
		buf = appendFloat64(buf, p.X)
		buf = appendFloat64(buf, p.Y)
		buf = appendFloat64(buf, p.Z)
	}
	return buf
}

func encodeVectors(vectors []Mesh.Vector3) []byte {
	buf := make([]byte, 0, len(vectors)*24)
	for _, v := range vectors {
		buf = appendFloat64(buf, v.X)
		buf = appendFloat64(buf, v.Y)
		buf = appendFloat64(buf, v.Z)
	}
	return buf
}

func encodeIndices(indices []int) []byte {
	buf := make([]byte, 0, len(indices)*4)
	for _, idx := range indices {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(idx))
		buf = append(buf, b[:]...)
	}
	return buf
}

func decodePoints(data []byte, count int) ([]Mesh.Point3D, error) {
	if len(data) != count*24 {
		return nil, fmt.Errorf("vertex buffer size mismatch: want %d bytes, got %d", count*24, len(data))
	}
	points := make([]Mesh.Point3D, count)
	for i := 0; i < count; i++ {
		off := i * 24
		points[i] = Mesh.Point3D{
			X: readFloat64(data[off:]),
			Y: readFloat64(data[off+8:]),
			Z: readFloat64(data[off+16:]),
		}
	}
	return points, nil
}

func decodeVectors(data []byte, count int) ([]Mesh.Vector3, error) {
	if len(data) != count*24 {
		return nil, fmt.Errorf("normal buffer size mismatch: want %d bytes, got %d", count*24, len(data))
	}
	vectors := make([]Mesh.Vector3, count)
	for i := 0; i < count; i++ {
		off := i * 24
		vectors[i] = Mesh.Vector3{
			X: readFloat64(data[off:]),
			Y: readFloat64(data[off+8:]),
			Z: readFloat64(data[off+16:]),
		}
	}
	return vectors, nil
}

func decodeIndices(data []byte, count int) ([]int, error) {
	if len(data) != count*4 {
		return nil, fmt.Errorf("index buffer size mismatch: want %d bytes, got %d", count*4, len(data))
	}
	indices := make([]int, count)
	for i := 0; i < count; i++ {
		indices[i] = int(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return indices, nil
}

func appendFloat64(buf []byte, f float64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(f))
	return append(buf, b[:]...)
}

func readFloat64(data []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(data))
}
