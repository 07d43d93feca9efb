package workflow

import (
	"time"

	domainSession "github.com/ak4shii/smart-parking-system/internal/domain/session"
)

type UploadImageRequest struct {
	RfidCode    string `json:"rfidCode" binding:"required"`
	ImageBase64 string `json:"imageBase64" binding:"required"`
}

type EntryLogResponse struct {
	ID           int        `json:"id"`
	RfidID       int        `json:"rfidId"`
	SlotID       *int       `json:"slotId"`
	LicensePlate *string    `json:"licensePlate"`
	InTime       time.Time  `json:"inTime"`
	OutTime      *time.Time `json:"outTime"`
	Open         bool       `json:"open"`
}

func ToEntryLogResponse(log *domainSession.EntryLog) *EntryLogResponse {
	return &EntryLogResponse{
		ID:           log.ID,
		RfidID:       log.RfidID,
		SlotID:       log.SlotID,
		LicensePlate: log.LicensePlate,
		InTime:       log.InTime,
		OutTime:      log.OutTime,
		Open:         log.Open(),
	}
}

func ToEntryLogResponses(logs []*domainSession.EntryLog) []*EntryLogResponse {
	responses := make([]*EntryLogResponse, len(logs))
	for i, log := range logs {
		responses[i] = ToEntryLogResponse(log)
	}
	return responses
}
