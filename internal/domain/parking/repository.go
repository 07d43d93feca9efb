package parking

import "context"

// Repository covers the parking-space lookups this core needs; full CRUD
// lives in the management API outside this subsystem.
type Repository interface {
	GetByID(ctx context.Context, id int) (*ParkingSpace, error)
}
