package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domainPeripheral "github.com/ak4shii/smart-parking-system/internal/domain/peripheral"
	"github.com/ak4shii/smart-parking-system/internal/infrastructure/database/postgres/models"

	"gorm.io/gorm"
)

// PeripheralRepository implements peripheral.Repository on postgres.
type PeripheralRepository struct {
	db *DB
}

func NewPeripheralRepository(db *DB) domainPeripheral.Repository {
	return &PeripheralRepository{db: db}
}

func (r *PeripheralRepository) GetDoorByID(ctx context.Context, id int) (*domainPeripheral.Door, error) {
	var dbModel models.DoorModel
	err := r.db.DB.WithContext(ctx).First(&dbModel, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainPeripheral.ErrDoorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get door: %w", err)
	}
	return toDoorEntity(&dbModel), nil
}

func (r *PeripheralRepository) FindDoorByName(ctx context.Context, name string) (*domainPeripheral.Door, error) {
	var dbModel models.DoorModel
	err := r.db.DB.WithContext(ctx).Where("name = ?", name).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainPeripheral.ErrDoorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find door: %w", err)
	}
	return toDoorEntity(&dbModel), nil
}

func (r *PeripheralRepository) SaveDoor(ctx context.Context, door *domainPeripheral.Door) error {
	dbModel := &models.DoorModel{
		ID:       door.ID,
		Name:     door.Name,
		McID:     door.McID,
		IsOpened: door.IsOpened,
	}
	if err := r.db.DB.WithContext(ctx).Save(dbModel).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key value") {
			return domainPeripheral.ErrNameTaken
		}
		return fmt.Errorf("failed to save door: %w", err)
	}
	door.ID = dbModel.ID
	return nil
}

func (r *PeripheralRepository) SetDoorOpened(ctx context.Context, id int, opened bool) (*domainPeripheral.Door, error) {
	var dbModel models.DoorModel
	err := r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&dbModel, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainPeripheral.ErrDoorNotFound
			}
			return err
		}
		if err := tx.Model(&dbModel).Update("is_opened", opened).Error; err != nil {
			return err
		}
		dbModel.IsOpened = opened
		return nil
	})
	if err != nil {
		if errors.Is(err, domainPeripheral.ErrDoorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update door: %w", err)
	}
	return toDoorEntity(&dbModel), nil
}

func (r *PeripheralRepository) GetLcdByID(ctx context.Context, id int) (*domainPeripheral.Lcd, error) {
	var dbModel models.LcdModel
	err := r.db.DB.WithContext(ctx).First(&dbModel, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainPeripheral.ErrLcdNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lcd: %w", err)
	}
	return toLcdEntity(&dbModel), nil
}

func (r *PeripheralRepository) FindLcdByName(ctx context.Context, name string) (*domainPeripheral.Lcd, error) {
	var dbModel models.LcdModel
	err := r.db.DB.WithContext(ctx).Where("name = ?", name).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainPeripheral.ErrLcdNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find lcd: %w", err)
	}
	return toLcdEntity(&dbModel), nil
}

func (r *PeripheralRepository) SaveLcd(ctx context.Context, lcd *domainPeripheral.Lcd) error {
	dbModel := &models.LcdModel{
		ID:          lcd.ID,
		Name:        lcd.Name,
		McID:        lcd.McID,
		DisplayText: lcd.DisplayText,
	}
	if err := r.db.DB.WithContext(ctx).Save(dbModel).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key value") {
			return domainPeripheral.ErrNameTaken
		}
		return fmt.Errorf("failed to save lcd: %w", err)
	}
	lcd.ID = dbModel.ID
	return nil
}

func (r *PeripheralRepository) SetLcdText(ctx context.Context, id int, text string) (*domainPeripheral.Lcd, error) {
	var dbModel models.LcdModel
	err := r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&dbModel, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainPeripheral.ErrLcdNotFound
			}
			return err
		}
		if err := tx.Model(&dbModel).Update("display_text", text).Error; err != nil {
			return err
		}
		dbModel.DisplayText = text
		return nil
	})
	if err != nil {
		if errors.Is(err, domainPeripheral.ErrLcdNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update lcd: %w", err)
	}
	return toLcdEntity(&dbModel), nil
}

func (r *PeripheralRepository) GetSensorByID(ctx context.Context, id int) (*domainPeripheral.Sensor, error) {
	var dbModel models.SensorModel
	err := r.db.DB.WithContext(ctx).First(&dbModel, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainPeripheral.ErrSensorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sensor: %w", err)
	}
	return toSensorEntity(&dbModel), nil
}

func (r *PeripheralRepository) FindSensorByName(ctx context.Context, name string) (*domainPeripheral.Sensor, error) {
	var dbModel models.SensorModel
	err := r.db.DB.WithContext(ctx).Where("name = ?", name).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainPeripheral.ErrSensorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find sensor: %w", err)
	}
	return toSensorEntity(&dbModel), nil
}

func (r *PeripheralRepository) SaveSensor(ctx context.Context, sensor *domainPeripheral.Sensor) error {
	dbModel := &models.SensorModel{
		ID:     sensor.ID,
		Name:   sensor.Name,
		Type:   sensor.Type,
		McID:   sensor.McID,
		SlotID: sensor.SlotID,
	}
	if err := r.db.DB.WithContext(ctx).Save(dbModel).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key value") {
			return domainPeripheral.ErrNameTaken
		}
		return fmt.Errorf("failed to save sensor: %w", err)
	}
	sensor.ID = dbModel.ID
	return nil
}

func (r *PeripheralRepository) GetSlotByID(ctx context.Context, id int) (*domainPeripheral.Slot, error) {
	var dbModel models.SlotModel
	err := r.db.DB.WithContext(ctx).First(&dbModel, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainPeripheral.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slot: %w", err)
	}
	return toSlotEntity(&dbModel), nil
}

func (r *PeripheralRepository) FindSlotByName(ctx context.Context, name string) (*domainPeripheral.Slot, error) {
	var dbModel models.SlotModel
	err := r.db.DB.WithContext(ctx).Where("name = ?", name).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainPeripheral.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find slot: %w", err)
	}
	return toSlotEntity(&dbModel), nil
}

func (r *PeripheralRepository) SaveSlot(ctx context.Context, slot *domainPeripheral.Slot) error {
	dbModel := &models.SlotModel{
		ID:         slot.ID,
		Name:       slot.Name,
		PsID:       slot.PsID,
		IsOccupied: slot.IsOccupied,
	}
	if err := r.db.DB.WithContext(ctx).Save(dbModel).Error; err != nil {
		return fmt.Errorf("failed to save slot: %w", err)
	}
	slot.ID = dbModel.ID
	return nil
}

func (r *PeripheralRepository) SetSlotOccupied(ctx context.Context, id int, occupied bool) (*domainPeripheral.Slot, error) {
	var dbModel models.SlotModel
	err := r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&dbModel, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainPeripheral.ErrSlotNotFound
			}
			return err
		}
		if err := tx.Model(&dbModel).Update("is_occupied", occupied).Error; err != nil {
			return err
		}
		dbModel.IsOccupied = occupied
		return nil
	})
	if err != nil {
		if errors.Is(err, domainPeripheral.ErrSlotNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update slot: %w", err)
	}
	return toSlotEntity(&dbModel), nil
}

func toDoorEntity(m *models.DoorModel) *domainPeripheral.Door {
	return &domainPeripheral.Door{
		ID:       m.ID,
		Name:     m.Name,
		McID:     m.McID,
		IsOpened: m.IsOpened,
	}
}

func toLcdEntity(m *models.LcdModel) *domainPeripheral.Lcd {
	return &domainPeripheral.Lcd{
		ID:          m.ID,
		Name:        m.Name,
		McID:        m.McID,
		DisplayText: m.DisplayText,
	}
}

func toSensorEntity(m *models.SensorModel) *domainPeripheral.Sensor {
	return &domainPeripheral.Sensor{
		ID:     m.ID,
		Name:   m.Name,
		Type:   m.Type,
		McID:   m.McID,
		SlotID: m.SlotID,
	}
}

func toSlotEntity(m *models.SlotModel) *domainPeripheral.Slot {
	return &domainPeripheral.Slot{
		ID:         m.ID,
		Name:       m.Name,
		PsID:       m.PsID,
		IsOccupied: m.IsOccupied,
	}
}
