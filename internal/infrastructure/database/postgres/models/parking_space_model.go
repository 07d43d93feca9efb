package models

// ParkingSpaceModel represents the database model for parking spaces.
type ParkingSpaceModel struct {
	ID   int    `gorm:"column:ps_id;primaryKey;autoIncrement"`
	Name string `gorm:"type:varchar(255);not null"`
}

func (ParkingSpaceModel) TableName() string {
	return "parking_space"
}
