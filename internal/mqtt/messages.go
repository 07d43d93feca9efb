package mqtt

// Wire formats shared with the device firmware. Field names match the
// firmware's JSON exactly; changing them is a protocol break.

type EntryRequest struct {
	RfidCode string `json:"rfidCode"`
}

type ExitRequest struct {
	RfidCode string `json:"rfidCode"`
}

type StatusReport struct {
	Online    *bool  `json:"online,omitempty"`
	UptimeSec *int64 `json:"uptimeSec,omitempty"`
}

type SensorStatus struct {
	SensorID   int   `json:"sensorId"`
	IsOccupied *bool `json:"isOccupied"`
}

type DoorStatus struct {
	DoorID   int   `json:"doorId"`
	IsOpened *bool `json:"isOpened"`
}

type LcdStatus struct {
	LcdID       int     `json:"lcdId"`
	DisplayText *string `json:"displayText"`
}

type ProvisionComponent struct {
	Name string `json:"name"`
}

type ProvisionSensor struct {
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`
	SlotName string `json:"slotName"`
}

type ProvisionRequest struct {
	Doors   []ProvisionComponent `json:"doors"`
	Lcds    []ProvisionComponent `json:"lcds"`
	Sensors []ProvisionSensor    `json:"sensors"`
}

type ComponentResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type ProvisionResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Doors   []ComponentResponse `json:"doors"`
	Lcds    []ComponentResponse `json:"lcds"`
	Sensors []ComponentResponse `json:"sensors"`
}

// StatusResponse is the generic typed response published on the
// door/lcd/sensor response subtopics.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      *int   `json:"id"`
}

// Outbound commands.

type CameraCommand struct {
	Target   string `json:"target"`
	Command  string `json:"command"`
	RfidCode string `json:"rfidCode"`
}

type DoorControl struct {
	CommandType string `json:"commandType"`
	Command     string `json:"command"`
}

type LcdCommand struct {
	LcdID       int    `json:"lcdId"`
	DisplayText string `json:"displayText"`
}
