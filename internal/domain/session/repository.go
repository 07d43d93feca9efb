package session

import (
	"context"
	"time"
)

// Repository defines persistence for access credentials and vehicle
// sessions. OpenSession and CloseSession run their read-check-write cycle
// inside a single transaction; the partial unique index on open logs
// backs the application checks under concurrent triggers.
type Repository interface {
	GetRfidByCode(ctx context.Context, rfidCode string) (*Rfid, error)

	// OpenSession creates a new open EntryLog (plate nil) and flips
	// CurrentlyUsed to true. Returns ErrRfidInUse when the flag is
	// already set and ErrSessionOpen when an open log exists, including
	// the case where a concurrent insert hits the unique index.
	OpenSession(ctx context.Context, rfidID int, at time.Time) (*EntryLog, error)

	// CloseSession stamps OutTime on the open EntryLog and clears
	// CurrentlyUsed. Returns ErrNoOpenSession when nothing is open.
	CloseSession(ctx context.Context, rfidID int, at time.Time) (*EntryLog, error)

	FindOpenByRfidID(ctx context.Context, rfidID int) (*EntryLog, error)

	// UpdatePlate overwrites the license plate; repeated image messages
	// for the same session are idempotent overwrites.
	UpdatePlate(ctx context.Context, entryLogID int, plate string) error

	GetEntryLogByID(ctx context.Context, id int) (*EntryLog, error)
	ListByParkingSpace(ctx context.Context, psID int) ([]*EntryLog, error)
}
