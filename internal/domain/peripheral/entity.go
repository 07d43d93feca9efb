package peripheral

// Peripherals declared by a device during provisioning. Component names
// live in a flat namespace across all devices; a name found bound to a
// different microcontroller is a conflict, not a shadowed local name.

type Door struct {
	ID       int
	Name     string
	McID     *int
	IsOpened bool
}

type Lcd struct {
	ID          int
	Name        string
	McID        *int
	DisplayText string
}

// Slot is a physical parking spot owned by a parking space. Occupancy is
// written by the sensor bound to it.
type Slot struct {
	ID         int
	Name       string
	PsID       int
	IsOccupied bool
}

type Sensor struct {
	ID     int
	Name   string
	Type   *string
	McID   *int
	SlotID *int
}
