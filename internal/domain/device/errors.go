package device

import "errors"

var (
	ErrMicrocontrollerNotFound = errors.New("microcontroller not found")
	ErrCodeAlreadyExists       = errors.New("microcontroller code already exists")
)
