package views

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	uc := &UserController{}
	r.POST("/mesh/BuildPrism", uc.BuildPrism)
	r.GET("/mesh/Demo", uc.Demo)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBuildPrismHandler(t *testing.T) {
	r := testRouter()
	body := `{
		"geojson": {
			"type": "Feature",
			"geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,1],[0,0]]]},
			"properties": {}
		},
		"height": 2,
		"material": "glass"
	}`
	w := doRequest(t, r, http.MethodPost, "/mesh/BuildPrism", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}

	var resp MeshResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.VertexCount != 8 || resp.IndexCount != 24 {
		t.Errorf("counts %d/%d, want 8/24", resp.VertexCount, resp.IndexCount)
	}
	if len(resp.Vertices) != 24 || len(resp.Normals) != 24 {
		t.Errorf("flattened buffers %d/%d, want 24/24", len(resp.Vertices), len(resp.Normals))
	}
	if resp.Material != "glass" {
		t.Errorf("material %q, want glass", resp.Material)
	}
	if resp.SurfaceArea <= 0 {
		t.Errorf("surface area %f, want positive", resp.SurfaceArea)
	}
}

func TestBuildPrismHandlerCustomDirection(t *testing.T) {
	r := testRouter()
	body := `{
		"geojson": {
			"type": "Feature",
			"geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,1],[0,0]]]},
			"properties": {}
		},
		"height": 3,
		"direction": [1, 0, 0]
	}`
	w := doRequest(t, r, http.MethodPost, "/mesh/BuildPrism", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}

	var resp MeshResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	// 底面x分量都是0或1，位移点4沿+X移动3后x=3，平铺数组下标12
	if resp.Vertices[12] != 3 {
		t.Errorf("displaced vertex x=%f, want 3", resp.Vertices[12])
	}
}

func TestBuildPrismHandlerBadRequests(t *testing.T) {
	r := testRouter()

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{not json`},
		{"missing geometry", `{"geojson": {"type": "Feature", "properties": {}}, "height": 2}`},
		{"point geometry", `{"geojson": {"type": "Feature", "geometry": {"type": "Point", "coordinates": [0,0]}, "properties": {}}, "height": 2}`},
		{"degenerate ring", `{"geojson": {"type": "Feature", "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,1],[0,0]]]}, "properties": {}}, "height": 2}`},
	}
	for _, tc := range cases {
		w := doRequest(t, r, http.MethodPost, "/mesh/BuildPrism", tc.body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400 (body %s)", tc.name, w.Code, w.Body.String())
		}
	}
}

func TestDemoHandler(t *testing.T) {
	r := testRouter()
	w := doRequest(t, r, http.MethodGet, "/mesh/Demo", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}

	var resp MeshResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	// 默认4角、半径10、高度10
	if resp.VertexCount != 8 || resp.IndexCount != 24 {
		t.Errorf("counts %d/%d, want 8/24", resp.VertexCount, resp.IndexCount)
	}
}

func TestDemoHandlerParams(t *testing.T) {
	r := testRouter()
	w := doRequest(t, r, http.MethodGet, "/mesh/Demo?corners=6&radius=5&height=3", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}

	var resp MeshResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.VertexCount != 12 || resp.IndexCount != 36 {
		t.Errorf("counts %d/%d, want 12/36", resp.VertexCount, resp.IndexCount)
	}
}

func TestDemoHandlerInvalid(t *testing.T) {
	r := testRouter()
	for _, target := range []string{
		"/mesh/Demo?corners=2",
		"/mesh/Demo?corners=abc",
		"/mesh/Demo?radius=0",
		"/mesh/Demo?height=xyz",
	} {
		w := doRequest(t, r, http.MethodGet, target, "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", target, w.Code)
		}
	}
}
