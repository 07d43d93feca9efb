package models

import "time"

type RfidModel struct {
	ID            int    `gorm:"column:rfid_id;primaryKey;autoIncrement"`
	RfidCode      string `gorm:"type:varchar(64);not null;uniqueIndex"`
	PsID          int    `gorm:"column:ps_id;not null;index"`
	CurrentlyUsed bool   `gorm:"not null;default:false"`
}

func (RfidModel) TableName() string {
	return "rfid"
}

// EntryLogModel carries a partial unique index on rfid_id for rows with
// out_time IS NULL: the database refuses a second open session per
// credential even when two entry triggers race past the application
// checks.
type EntryLogModel struct {
	ID           int        `gorm:"column:log_id;primaryKey;autoIncrement"`
	RfidID       int        `gorm:"column:rfid_id;not null;index;uniqueIndex:uidx_entry_log_open,where:out_time IS NULL"`
	SlotID       *int       `gorm:"column:slot_id"`
	LicensePlate *string    `gorm:"type:varchar(32)"`
	InTime       time.Time  `gorm:"not null"`
	OutTime      *time.Time `gorm:"type:timestamptz"`
}

func (EntryLogModel) TableName() string {
	return "entry_log"
}
