package device

import (
	"context"
	"time"
)

// Repository defines the interface for microcontroller persistence.
type Repository interface {
	Create(ctx context.Context, mc *Microcontroller) error
	GetByID(ctx context.Context, id int) (*Microcontroller, error)
	GetByCode(ctx context.Context, mcCode string) (*Microcontroller, error)
	ListByParkingSpace(ctx context.Context, psID int) ([]*Microcontroller, error)
	Delete(ctx context.Context, id int) error

	// RecordStatus upserts the liveness fields from a status report:
	// lastSeen is always refreshed, online defaults to true when the
	// report omits it, uptime is updated only when present.
	RecordStatus(ctx context.Context, mcCode string, report *StatusReport, seenAt time.Time) (*Microcontroller, error)

	// MarkStaleOffline flips online=false for every device with
	// online=true and lastSeen older than the threshold, in a single
	// statement, and returns the devices it flipped.
	MarkStaleOffline(ctx context.Context, olderThan time.Time) ([]*Microcontroller, error)

	SetCredentials(ctx context.Context, id int, mqttUsername, passwordHash string) error
	RevokeCredentials(ctx context.Context, id int) error
}
