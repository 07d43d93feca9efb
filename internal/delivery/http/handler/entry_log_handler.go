package handler

import (
	"encoding/base64"
	"net/http"
	"strconv"

	"github.com/ak4shii/smart-parking-system/internal/usecase/workflow"
	"github.com/ak4shii/smart-parking-system/pkg/utils"

	"github.com/gin-gonic/gin"
)

type EntryLogHandler struct {
	service *workflow.Service
}

func NewEntryLogHandler(service *workflow.Service) *EntryLogHandler {
	return &EntryLogHandler{service: service}
}

func (h *EntryLogHandler) RegisterRoutes(router *gin.RouterGroup) {
	logs := router.Group("/entry-logs")
	{
		logs.POST("/upload-image", h.UploadImage)
		logs.GET("", h.ListEntryLogs)
		logs.GET("/:id", h.GetEntryLog)
	}
}

// UploadImage receives the frame the device camera captured after an entry
// trigger and attaches the recognized plate to the open session.
func (h *EntryLogHandler) UploadImage(c *gin.Context) {
	var req workflow.UploadImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	image, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid image encoding")
		return
	}

	log, err := h.service.ImageUploaded(c.Request.Context(), req.RfidCode, image)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, workflow.ToEntryLogResponse(log))
}

func (h *EntryLogHandler) GetEntryLog(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid entry log ID")
		return
	}

	log, err := h.service.GetEntryLog(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, workflow.ToEntryLogResponse(log))
}

func (h *EntryLogHandler) ListEntryLogs(c *gin.Context) {
	psID, err := strconv.Atoi(c.Query("parkingSpaceId"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "parkingSpaceId query parameter required")
		return
	}

	logs, err := h.service.ListEntryLogs(c.Request.Context(), psID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, workflow.ToEntryLogResponses(logs))
}
