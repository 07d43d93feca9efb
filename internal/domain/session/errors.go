package session

import "errors"

var (
	ErrRfidNotFound     = errors.New("rfid not found")
	ErrRfidInUse        = errors.New("rfid is currently used")
	ErrSessionOpen      = errors.New("rfid already has an open entry log")
	ErrNoOpenSession    = errors.New("no open entry log for this rfid")
	ErrEntryLogNotFound = errors.New("entry log not found")

	// ErrSpaceMismatch means the credential belongs to a different
	// parking space than the device that read it.
	ErrSpaceMismatch = errors.New("rfid not usable in this parking space")
)
