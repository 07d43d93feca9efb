package registry

import (
	"time"

	domainDevice "github.com/ak4shii/smart-parking-system/internal/domain/device"
)

type RegisterDeviceRequest struct {
	Name           *string `json:"name" binding:"omitempty,max=100"`
	ParkingSpaceID int     `json:"parkingSpaceId" binding:"required"`
	OwnerUsername  string  `json:"ownerUsername" binding:"required,min=1,max=100"`
}

// RegisterDeviceResponse carries the MQTT password in plaintext. It is
// returned exactly once, at registration; only the bcrypt hash is stored.
type RegisterDeviceResponse struct {
	ID             int     `json:"id"`
	McCode         string  `json:"mcCode"`
	Name           *string `json:"name"`
	ParkingSpaceID int     `json:"parkingSpaceId"`
	MqttUsername   string  `json:"mqttUsername"`
	MqttPassword   string  `json:"mqttPassword"`
}

type MicrocontrollerResponse struct {
	ID             int        `json:"id"`
	McCode         string     `json:"mcCode"`
	Name           *string    `json:"name"`
	ParkingSpaceID int        `json:"parkingSpaceId"`
	Online         bool       `json:"online"`
	UptimeSec      *int64     `json:"uptimeSec"`
	LastSeen       *time.Time `json:"lastSeen"`
	MqttUsername   *string    `json:"mqttUsername"`
	MqttEnabled    bool       `json:"mqttEnabled"`
}

func ToMicrocontrollerResponse(mc *domainDevice.Microcontroller) *MicrocontrollerResponse {
	return &MicrocontrollerResponse{
		ID:             mc.ID,
		McCode:         mc.McCode,
		Name:           mc.Name,
		ParkingSpaceID: mc.PsID,
		Online:         mc.Online,
		UptimeSec:      mc.UptimeSec,
		LastSeen:       mc.LastSeen,
		MqttUsername:   mc.MqttUsername,
		MqttEnabled:    mc.MqttEnabled,
	}
}
