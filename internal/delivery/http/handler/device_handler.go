package handler

import (
	"net/http"
	"strconv"

	"github.com/ak4shii/smart-parking-system/internal/usecase/registry"
	"github.com/ak4shii/smart-parking-system/pkg/utils"

	"github.com/gin-gonic/gin"
)

type DeviceHandler struct {
	service *registry.Service
}

func NewDeviceHandler(service *registry.Service) *DeviceHandler {
	return &DeviceHandler{service: service}
}

func (h *DeviceHandler) RegisterRoutes(router *gin.RouterGroup) {
	devices := router.Group("/microcontrollers")
	{
		devices.POST("", h.RegisterDevice)
		devices.GET("", h.ListDevices)
		devices.GET("/:id", h.GetDevice)
		devices.DELETE("/:id", h.DecommissionDevice)
	}
}

// RegisterDevice creates a device and returns its MQTT credentials. The
// password is shown only in this response.
func (h *DeviceHandler) RegisterDevice(c *gin.Context) {
	var req registry.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	device, err := h.service.RegisterDevice(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, device)
}

func (h *DeviceHandler) GetDevice(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid microcontroller ID")
		return
	}

	device, err := h.service.GetDevice(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, device)
}

func (h *DeviceHandler) ListDevices(c *gin.Context) {
	psID, err := strconv.Atoi(c.Query("parkingSpaceId"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "parkingSpaceId query parameter required")
		return
	}

	devices, err := h.service.ListDevices(c.Request.Context(), psID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, devices)
}

func (h *DeviceHandler) DecommissionDevice(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid microcontroller ID")
		return
	}

	if err := h.service.DecommissionDevice(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{"message": "Microcontroller decommissioned"})
}
