package views

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// 网格更新推送

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 生产环境需要严格检查
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// MeshUpdateEvent 推送给订阅方的网格更新事件
type MeshUpdateEvent struct {
	Uuid        string `json:"uuid"`
	VertexCount int    `json:"vertex_count"`
	IndexCount  int    `json:"index_count"`
	UpdatedAt   int64  `json:"updated_at"`
}

// MeshUpdateHub 订阅连接集合，Regenerate成功后向所有连接广播
type MeshUpdateHub struct {
	mu    sync.RWMutex
	conns map[*websocket.Conn]bool
}

var meshHub = &MeshUpdateHub{
	conns: make(map[*websocket.Conn]bool),
}

func (h *MeshUpdateHub) add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = true
}

func (h *MeshUpdateHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
}

// Broadcast 向所有订阅连接推送事件，写失败的连接直接剔除
func (h *MeshUpdateHub) Broadcast(event MeshUpdateEvent) {
	if event.UpdatedAt == 0 {
		event.UpdatedAt = time.Now().Unix()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteJSON(event); err != nil {
			log.Printf("Failed to push mesh update: %v", err)
			conn.Close()
			delete(h.conns, conn)
		}
	}
}

// Subscribe 升级为WebSocket并加入订阅，连接断开时自动退出
func (uc *UserController) Subscribe(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade to websocket: %v", err)
		return
	}

	meshHub.add(conn)
	defer func() {
		meshHub.remove(conn)
		conn.Close()
	}()

	// 读循环只用于感知断开，客户端消息不做处理
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
