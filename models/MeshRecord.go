package models

// MeshRecord 缓存的网格构建结果
// 顶点/法向量缓冲为小端float64序列，索引缓冲为小端int32序列
// 同一建筑在相同高度和挤出方向下只保留一条记录，重新生成时整条替换
type MeshRecord struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Uuid string `gorm:"index;not null" json:"uuid"`

	Height float64 `gorm:"not null" json:"height"`
	UpX    float64 `json:"up_x"`
	UpY    float64 `json:"up_y"`
	UpZ    float64 `json:"up_z"`

	VertexCount int    `gorm:"not null" json:"vertex_count"`
	IndexCount  int    `gorm:"not null" json:"index_count"`
	VertexData  []byte `gorm:"type:BLOB" json:"-"`
	NormalData  []byte `gorm:"type:BLOB" json:"-"`
	IndexData   []byte `gorm:"type:BLOB" json:"-"`
	Material    string `json:"material"`

	CreatedAt int64 `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt int64 `gorm:"autoUpdateTime" json:"updated_at"`
}

func (MeshRecord) TableName() string {
	return "mesh_records"
}
