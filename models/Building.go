package models

import "gorm.io/datatypes"

// Building 建筑底面记录
// Footprint存储外环的WKB十六进制编码，Height为挤出高度（米）
// Material为外观引用，网格算法不解释，随网格原样返回
type Building struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Uuid       string         `gorm:"uniqueIndex;not null" json:"uuid"`
	Name       string         `gorm:"index" json:"name"`
	Height     float64        `gorm:"not null" json:"height"`
	Footprint  string         `gorm:"type:text;not null" json:"footprint"`
	Material   string         `json:"material"`
	Attributes datatypes.JSON `json:"attributes"`

	CreatedAt int64 `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt int64 `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Building) TableName() string {
	return "buildings"
}
