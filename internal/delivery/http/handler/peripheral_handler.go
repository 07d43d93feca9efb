package handler

import (
	"net/http"
	"strconv"

	"github.com/ak4shii/smart-parking-system/internal/usecase/peripheral"
	"github.com/ak4shii/smart-parking-system/pkg/utils"

	"github.com/gin-gonic/gin"
)

type LcdCommandRequest struct {
	DisplayText string `json:"displayText" binding:"required,max=512"`
}

type PeripheralHandler struct {
	service *peripheral.Service
}

func NewPeripheralHandler(service *peripheral.Service) *PeripheralHandler {
	return &PeripheralHandler{service: service}
}

func (h *PeripheralHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/lcds/:id/command", h.SendLcdText)
	router.POST("/doors/:id/command", h.SendDoorOpen)
}

// SendLcdText pushes display text to the device owning the LCD. The stored
// text updates when the device confirms over its status subtopic.
func (h *PeripheralHandler) SendLcdText(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid LCD ID")
		return
	}

	var req LcdCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.SendLcdText(c.Request.Context(), id, req.DisplayText); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusAccepted, gin.H{"message": "Command published"})
}

func (h *PeripheralHandler) SendDoorOpen(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid door ID")
		return
	}

	if err := h.service.SendDoorOpen(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusAccepted, gin.H{"message": "Command published"})
}
