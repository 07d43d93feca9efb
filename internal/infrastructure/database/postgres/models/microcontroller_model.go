package models

import "time"

// MicrocontrollerModel represents the database model for gate devices.
type MicrocontrollerModel struct {
	ID        int        `gorm:"column:mc_id;primaryKey;autoIncrement"`
	McCode    string     `gorm:"type:varchar(64);not null;uniqueIndex"`
	Name      *string    `gorm:"type:varchar(255)"`
	PsID      int        `gorm:"column:ps_id;not null;index"`
	Online    bool       `gorm:"not null;default:false"`
	UptimeSec *int64     `gorm:"type:bigint"`
	LastSeen  *time.Time `gorm:"type:timestamptz"`

	MqttUsername     *string `gorm:"type:varchar(255);uniqueIndex"`
	MqttPasswordHash *string `gorm:"type:varchar(255)"`
	MqttEnabled      bool    `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (MicrocontrollerModel) TableName() string {
	return "microcontroller"
}
