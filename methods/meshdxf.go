package methods

import (
	"fmt"
	"log"

	"github.com/GrainArc/BuildMesh/Mesh"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/entity"
)

// ConvertMeshToDXF 将棱柱网格的线框导出为DXF文件
// 底面环和顶面环各占一个图层，竖向棱边单独成层，便于CAD中分层控制
// 顶点缓冲前一半为底面环、后一半为位移环，依赖该顺序还原两个环
func ConvertMeshToDXF(mesh *Mesh.PrismMesh, outputFilename string) error {
	if mesh == nil || len(mesh.Vertices) == 0 {
		return fmt.Errorf("mesh has no vertices")
	}
	n := len(mesh.Vertices) / 2
	if n < 3 || len(mesh.Vertices) != 2*n {
		return fmt.Errorf("mesh is not a prism (vertex count %d)", len(mesh.Vertices))
	}

	d := dxf.NewDrawing()
	d.Header().LtScale = 1.0 // 调整比例因子，确保正确的比例（如果需要）

	// 底面环：平面多段线
	d.AddLayer("Footprint", color.Red, dxf.DefaultLineType, true)
	d.ChangeLayer("Footprint")
	base := entity.NewLwPolyline(n)
	for i := 0; i < n; i++ {
		base.Vertices[i] = []float64{mesh.Vertices[i].X, mesh.Vertices[i].Z}
	}
	base.Closed = true
	d.AddEntity(base)

	// 顶面环：逐边三维线段（带高程，LwPolyline是平面实体画不了）
	d.AddLayer("Roofline", color.Green, dxf.DefaultLineType, true)
	d.ChangeLayer("Roofline")
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		a := mesh.Vertices[n+i]
		b := mesh.Vertices[n+j]
		if _, err := d.Line(a.X, a.Z, a.Y, b.X, b.Z, b.Y); err != nil {
			return err
		}
	}

	// 竖向棱边
	d.AddLayer("Walls", color.Cyan, dxf.DefaultLineType, true)
	d.ChangeLayer("Walls")
	for i := 0; i < n; i++ {
		a := mesh.Vertices[i]
		b := mesh.Vertices[n+i]
		if _, err := d.Line(a.X, a.Z, a.Y, b.X, b.Z, b.Y); err != nil {
			return err
		}
	}

	// 保存DXF文件
	err := d.SaveAs(outputFilename)
	if err != nil {
		log.Println(err)
		return err
	}
	return nil
}
