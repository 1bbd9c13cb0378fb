package methods

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/GrainArc/BuildMesh/Mesh"
)

// 网格导出为Wavefront OBJ

// WriteOBJ 将棱柱网格按OBJ格式写出
// OBJ索引从1开始；面引用格式为 v//vn，逐顶点法向量与顶点一一对应
func WriteOBJ(w io.Writer, mesh *Mesh.PrismMesh, name string) error {
	if mesh == nil {
		return fmt.Errorf("mesh is nil")
	}
	if _, err := fmt.Fprintf(w, "o %s\n", name); err != nil {
		return err
	}
	for _, v := range mesh.Vertices {
		if _, err := fmt.Fprintf(w, "v %.6f %.6f %.6f\n", v.X, v.Y, v.Z); err != nil {
			return err
		}
	}
	for _, n := range mesh.Normals {
		if _, err := fmt.Fprintf(w, "vn %.6f %.6f %.6f\n", n.X, n.Y, n.Z); err != nil {
			return err
		}
	}
	if mesh.Material != "" {
		if _, err := fmt.Fprintf(w, "usemtl %s\n", mesh.Material); err != nil {
			return err
		}
	}
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		a := mesh.Indices[i] + 1
		b := mesh.Indices[i+1] + 1
		c := mesh.Indices[i+2] + 1
		if _, err := fmt.Fprintf(w, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c); err != nil {
			return err
		}
	}
	return nil
}

// SaveOBJZip 将网格写为OBJ并打包成zip，返回zip文件路径
// 输出目录不存在时自动创建
func SaveOBJZip(mesh *Mesh.PrismMesh, name string, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
		return "", err
	}

	zipPath := filepath.Join(outDir, name+".zip")
	zipFile, err := os.Create(zipPath)
	if err != nil {
		return "", err
	}
	defer zipFile.Close()

	zipWriter := zip.NewWriter(zipFile)
	entry, err := zipWriter.Create(name + ".obj")
	if err != nil {
		zipWriter.Close()
		return "", err
	}
	if err := WriteOBJ(entry, mesh, name); err != nil {
		zipWriter.Close()
		return "", err
	}
	if err := zipWriter.Close(); err != nil {
		return "", err
	}
	return zipPath, nil
}
