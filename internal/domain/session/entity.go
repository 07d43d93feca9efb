package session

import "time"

// PlateUnknown is stored when the recognition collaborator fails or
// returns nothing. The gate flow must never block on recognition, so the
// sentinel replaces an error.
const PlateUnknown = "UNKNOWN"

// Rfid is a parking-space-scoped access credential. CurrentlyUsed acts as
// a single-holder lock: true if and only if an open EntryLog exists for it.
type Rfid struct {
	ID            int
	RfidCode      string
	PsID          int
	CurrentlyUsed bool
}

// EntryLog is one vehicle parking session. The plate stays nil until an
// image arrives; OutTime stays nil while the session is open. For any
// Rfid at most one EntryLog with nil OutTime exists at a time; a partial
// unique index enforces this in addition to the application checks.
type EntryLog struct {
	ID           int
	RfidID       int
	SlotID       *int
	LicensePlate *string
	InTime       time.Time
	OutTime      *time.Time
}

// Open reports whether the session has not been closed yet.
func (e *EntryLog) Open() bool {
	return e.OutTime == nil
}
