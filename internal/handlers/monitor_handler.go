package handlers

import (
	"etick/pkg/cache"
	"etick/pkg/logger"
	"etick/pkg/response"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// MonitorHandler 售票监控处理器 - 平台管理端实时看板
type MonitorHandler struct {
	cache    *cache.RedisCache
	upgrader websocket.Upgrader
}

// NewMonitorHandler 创建售票监控处理器实例
func NewMonitorHandler(redisCache *cache.RedisCache) *MonitorHandler {
	return &MonitorHandler{
		cache: redisCache,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// StreamSales 通过WebSocket推送售票事件流
// 挂载在平台管理路由组，事件来自Redis发布订阅
func (h *MonitorHandler) StreamSales(c *gin.Context) {
	if h.cache == nil {
		response.ServerError(c, "监控通道不可用")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.GetLogger().Errorf("WebSocket升级失败: %v", err)
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	sub := h.cache.SubscribeSaleEvents(ctx)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				// 客户端断开
				return
			}
		}
	}
}
