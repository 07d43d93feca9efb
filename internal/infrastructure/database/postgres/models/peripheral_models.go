package models

// Component names are unique across all devices (flat namespace); the
// unique indexes below are what makes cross-device name conflicts a
// constraint violation rather than a best-effort check.

type DoorModel struct {
	ID       int    `gorm:"column:door_id;primaryKey;autoIncrement"`
	Name     string `gorm:"type:varchar(255);not null;uniqueIndex"`
	McID     *int   `gorm:"column:mc_id;index"`
	IsOpened bool   `gorm:"not null;default:false"`
}

func (DoorModel) TableName() string {
	return "door"
}

type LcdModel struct {
	ID          int    `gorm:"column:lcd_id;primaryKey;autoIncrement"`
	Name        string `gorm:"type:varchar(255);not null;uniqueIndex"`
	McID        *int   `gorm:"column:mc_id;index"`
	DisplayText string `gorm:"type:text;not null;default:''"`
}

func (LcdModel) TableName() string {
	return "lcd"
}

type SlotModel struct {
	ID         int    `gorm:"column:slot_id;primaryKey;autoIncrement"`
	Name       string `gorm:"type:varchar(255);not null;uniqueIndex"`
	PsID       int    `gorm:"column:ps_id;not null;index"`
	IsOccupied bool   `gorm:"not null;default:false"`
}

func (SlotModel) TableName() string {
	return "slot"
}

type SensorModel struct {
	ID     int     `gorm:"column:sensor_id;primaryKey;autoIncrement"`
	Name   string  `gorm:"type:varchar(255);not null;uniqueIndex"`
	Type   *string `gorm:"type:varchar(64)"`
	McID   *int    `gorm:"column:mc_id;index"`
	SlotID *int    `gorm:"column:slot_id;index"`
}

func (SensorModel) TableName() string {
	return "sensor"
}
