package postgres

import (
	"github.com/ak4shii/smart-parking-system/internal/infrastructure/database/postgres/models"
)

// Migrate creates or updates the schema for every table this core owns,
// including the partial unique index guarding open entry logs.
func (d *DB) Migrate() error {
	return d.DB.AutoMigrate(
		&models.ParkingSpaceModel{},
		&models.MicrocontrollerModel{},
		&models.DoorModel{},
		&models.LcdModel{},
		&models.SlotModel{},
		&models.SensorModel{},
		&models.RfidModel{},
		&models.EntryLogModel{},
	)
}
