package parking

import "errors"

var (
	ErrParkingSpaceNotFound = errors.New("parking space not found")
)
