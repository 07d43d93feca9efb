package handler

import (
	"net/http"

	"github.com/ak4shii/smart-parking-system/internal/logger"
	"github.com/ak4shii/smart-parking-system/internal/realtime"
	"github.com/ak4shii/smart-parking-system/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type WsHandler struct {
	hub *realtime.Hub
}

func NewWsHandler(hub *realtime.Hub) *WsHandler {
	return &WsHandler{hub: hub}
}

func (h *WsHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/ws/:channel", h.Subscribe)
}

// Subscribe upgrades the connection and streams events for one named
// channel until the client disconnects.
func (h *WsHandler) Subscribe(c *gin.Context) {
	channel := c.Param("channel")
	if !h.hub.KnownChannel(channel) {
		utils.ErrorResponse(c, http.StatusNotFound, "Unknown channel")
		return
	}

	if err := h.hub.Subscribe(channel, c.Writer, c.Request); err != nil {
		logger.Warn("Websocket upgrade failed",
			zap.String("channel", channel),
			zap.Error(err),
		)
	}
}
