package peripheral

import "errors"

var (
	ErrDoorNotFound   = errors.New("door not found")
	ErrLcdNotFound    = errors.New("lcd not found")
	ErrSensorNotFound = errors.New("sensor not found")
	ErrSlotNotFound   = errors.New("slot not found")

	// ErrNameTaken means the component name is already bound to a
	// different microcontroller.
	ErrNameTaken = errors.New("component name is assigned to another microcontroller")

	// ErrSensorSlotTaken means the sensor name exists but is bound to a
	// different slot.
	ErrSensorSlotTaken = errors.New("sensor is assigned to another slot")

	ErrNameRequired     = errors.New("component name is required")
	ErrSlotNameRequired = errors.New("sensor slot name is required")
)
