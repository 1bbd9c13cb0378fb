package models

import (
	"log"
	"os"
	"path/filepath"

	"fmt"

	"github.com/GrainArc/BuildMesh/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var DB *gorm.DB

var CacheDB *gorm.DB

// InitDatabase 初始化网格缓存SQLite数据库
func InitDatabase() error {
	// 确保目录存在
	StoragePath := config.MainConfig.Download + "/MeshCache"
	DBFileName := "mesh.db"
	if err := os.MkdirAll(StoragePath, os.ModePerm); err != nil {
		log.Printf("创建存储目录失败: %v", err)
		return err
	}

	dbPath := filepath.Join(StoragePath, DBFileName)
	log.Printf("网格缓存数据库路径: %s", dbPath)

	var err error
	CacheDB, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Printf("连接数据库失败: %v", err)
		return err
	}

	// 自动迁移，创建表结构
	if err := CacheDB.AutoMigrate(&MeshRecord{}); err != nil {
		log.Printf("数据库迁移失败: %v", err)
		return err
	}
	makeMeshIndex(CacheDB)

	log.Println("网格缓存数据库初始化成功")
	return nil
}

// GetDB 获取网格缓存数据库实例
func GetDB() *gorm.DB {
	return CacheDB
}

func makeMeshIndex(DB *gorm.DB) {
	// 查询索引是否已存在
	var exists bool
	checkIndexSql := `
		SELECT COUNT(*) > 0
		FROM sqlite_master
		WHERE type = 'index' AND name = 'idx_mesh_uuid_height'
	`

	err := DB.Raw(checkIndexSql).Scan(&exists).Error
	if err != nil {
		fmt.Println("Error checking index existence:", err.Error())
		return
	}

	if !exists {
		// 如果索引不存在，则创建索引
		createIndexSql := `CREATE INDEX idx_mesh_uuid_height ON mesh_records (uuid, height);`
		err := DB.Exec(createIndexSql).Error
		if err != nil {
			fmt.Println("Error creating index:", err.Error())
		} else {
			fmt.Println("成功创建索引")
		}
	}
}

// InitDB 初始化主数据库（建筑底面存储）
func InitDB() {
	var err error
	DB, err = gorm.Open(postgres.Open(config.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// 设置命名策略
	DB.NamingStrategy = schema.NamingStrategy{
		SingularTable: true,
	}

	// 批量迁移所有表
	if err := migrateAllTables(DB); err != nil {
		log.Printf("Failed to migrate tables: %v", err)
	}
}

// migrateAllTables 批量迁移所有表
func migrateAllTables(db *gorm.DB) error {
	models := []interface{}{
		&Building{},
	}

	return db.AutoMigrate(models...)
}
