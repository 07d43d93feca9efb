package peripheral

import "context"

// Repository defines persistence for doors, LCDs, sensors and slots.
// Find* lookups by name return ErrXxxNotFound when absent; Save* creates
// when ID is zero and updates otherwise.
type Repository interface {
	GetDoorByID(ctx context.Context, id int) (*Door, error)
	FindDoorByName(ctx context.Context, name string) (*Door, error)
	SaveDoor(ctx context.Context, door *Door) error
	SetDoorOpened(ctx context.Context, id int, opened bool) (*Door, error)

	GetLcdByID(ctx context.Context, id int) (*Lcd, error)
	FindLcdByName(ctx context.Context, name string) (*Lcd, error)
	SaveLcd(ctx context.Context, lcd *Lcd) error
	SetLcdText(ctx context.Context, id int, text string) (*Lcd, error)

	GetSensorByID(ctx context.Context, id int) (*Sensor, error)
	FindSensorByName(ctx context.Context, name string) (*Sensor, error)
	SaveSensor(ctx context.Context, sensor *Sensor) error

	GetSlotByID(ctx context.Context, id int) (*Slot, error)
	FindSlotByName(ctx context.Context, name string) (*Slot, error)
	SaveSlot(ctx context.Context, slot *Slot) error
	SetSlotOccupied(ctx context.Context, id int, occupied bool) (*Slot, error)
}
