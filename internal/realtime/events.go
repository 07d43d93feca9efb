package realtime

import "time"

// Channel names, one per event category. Subscribers pick a channel when
// they connect; there is no wildcard subscription.
const (
	ChannelOverview        = "overview_updates"
	ChannelDoor            = "door_updates"
	ChannelLcd             = "lcd_updates"
	ChannelRfid            = "rfid_updates"
	ChannelEntryLog        = "entrylog_new_events"
	ChannelMicrocontroller = "microcontroller_updates"
)

type SlotChangedEvent struct {
	EventID        int64     `json:"eventId"`
	Timestamp      time.Time `json:"timestamp"`
	SlotID         int       `json:"slotId"`
	IsOccupied     bool      `json:"isOccupied"`
	ParkingSpaceID int       `json:"parkingSpaceId"`
}

type DoorChangedEvent struct {
	EventID           int64     `json:"eventId"`
	Timestamp         time.Time `json:"timestamp"`
	DoorID            int       `json:"doorId"`
	DoorName          string    `json:"doorName"`
	IsOpened          bool      `json:"isOpened"`
	MicrocontrollerID *int      `json:"microcontrollerId"`
}

type LcdChangedEvent struct {
	EventID           int64     `json:"eventId"`
	Timestamp         time.Time `json:"timestamp"`
	LcdID             int       `json:"lcdId"`
	LcdName           string    `json:"lcdName"`
	DisplayText       string    `json:"displayText"`
	MicrocontrollerID *int      `json:"microcontrollerId"`
}

type RfidChangedEvent struct {
	EventID        int64     `json:"eventId"`
	Timestamp      time.Time `json:"timestamp"`
	RfidID         int       `json:"rfidId"`
	RfidCode       string    `json:"rfidCode"`
	CurrentlyUsed  bool      `json:"currentlyUsed"`
	ParkingSpaceID int       `json:"parkingSpaceId"`
}

// Entry log event kinds.
const (
	EntryLogEntered    = "entered"
	EntryLogRecognized = "recognized"
	EntryLogExited     = "exited"
)

type EntryLogEvent struct {
	EventID        int64     `json:"eventId"`
	Timestamp      time.Time `json:"timestamp"`
	Kind           string    `json:"kind"` // entered | recognized | exited
	EntryLogID     int       `json:"entryLogId"`
	LicensePlate   *string   `json:"licensePlate"`
	RfidCode       string    `json:"rfidCode"`
	ParkingSpaceID int       `json:"parkingSpaceId"`
}

type MicrocontrollerChangedEvent struct {
	EventID           int64      `json:"eventId"`
	Timestamp         time.Time  `json:"timestamp"`
	MicrocontrollerID int        `json:"microcontrollerId"`
	McCode            string     `json:"mcCode"`
	Online            bool       `json:"online"`
	LastSeen          *time.Time `json:"lastSeen"`
	ParkingSpaceID    int        `json:"parkingSpaceId"`
}
