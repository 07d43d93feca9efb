package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domainDevice "github.com/ak4shii/smart-parking-system/internal/domain/device"
	"github.com/ak4shii/smart-parking-system/internal/infrastructure/database/postgres/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeviceRepository implements device.Repository on postgres.
type DeviceRepository struct {
	db *DB
}

func NewDeviceRepository(db *DB) domainDevice.Repository {
	return &DeviceRepository{db: db}
}

func (r *DeviceRepository) Create(ctx context.Context, mc *domainDevice.Microcontroller) error {
	now := time.Now()
	mc.CreatedAt = now
	mc.UpdatedAt = now

	dbModel := toMicrocontrollerModel(mc)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key value") {
			return domainDevice.ErrCodeAlreadyExists
		}
		return fmt.Errorf("failed to create microcontroller: %w", err)
	}

	mc.ID = dbModel.ID
	return nil
}

func (r *DeviceRepository) GetByID(ctx context.Context, id int) (*domainDevice.Microcontroller, error) {
	var dbModel models.MicrocontrollerModel
	err := r.db.DB.WithContext(ctx).First(&dbModel, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainDevice.ErrMicrocontrollerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get microcontroller: %w", err)
	}

	return toMicrocontrollerEntity(&dbModel), nil
}

func (r *DeviceRepository) GetByCode(ctx context.Context, mcCode string) (*domainDevice.Microcontroller, error) {
	var dbModel models.MicrocontrollerModel
	err := r.db.DB.WithContext(ctx).
		Where("mc_code = ?", mcCode).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainDevice.ErrMicrocontrollerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get microcontroller: %w", err)
	}

	return toMicrocontrollerEntity(&dbModel), nil
}

func (r *DeviceRepository) ListByParkingSpace(ctx context.Context, psID int) ([]*domainDevice.Microcontroller, error) {
	var dbModels []models.MicrocontrollerModel
	err := r.db.DB.WithContext(ctx).
		Where("ps_id = ?", psID).
		Order("mc_id").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list microcontrollers: %w", err)
	}

	devices := make([]*domainDevice.Microcontroller, len(dbModels))
	for i := range dbModels {
		devices[i] = toMicrocontrollerEntity(&dbModels[i])
	}
	return devices, nil
}

func (r *DeviceRepository) Delete(ctx context.Context, id int) error {
	result := r.db.DB.WithContext(ctx).Delete(&models.MicrocontrollerModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete microcontroller: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainDevice.ErrMicrocontrollerNotFound
	}
	return nil
}

func (r *DeviceRepository) RecordStatus(ctx context.Context, mcCode string, report *domainDevice.StatusReport, seenAt time.Time) (*domainDevice.Microcontroller, error) {
	var updated *domainDevice.Microcontroller

	err := r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dbModel models.MicrocontrollerModel
		err := tx.Where("mc_code = ?", mcCode).First(&dbModel).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainDevice.ErrMicrocontrollerNotFound
		}
		if err != nil {
			return err
		}

		online := true
		if report.Online != nil {
			online = *report.Online
		}

		changes := map[string]interface{}{
			"online":     online,
			"last_seen":  seenAt,
			"updated_at": seenAt,
		}
		if report.UptimeSec != nil {
			changes["uptime_sec"] = *report.UptimeSec
		}

		if err := tx.Model(&dbModel).Updates(changes).Error; err != nil {
			return err
		}

		dbModel.Online = online
		dbModel.LastSeen = &seenAt
		dbModel.UpdatedAt = seenAt
		if report.UptimeSec != nil {
			dbModel.UptimeSec = report.UptimeSec
		}
		updated = toMicrocontrollerEntity(&dbModel)
		return nil
	})
	if err != nil {
		if errors.Is(err, domainDevice.ErrMicrocontrollerNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to record status: %w", err)
	}

	return updated, nil
}

func (r *DeviceRepository) MarkStaleOffline(ctx context.Context, olderThan time.Time) ([]*domainDevice.Microcontroller, error) {
	var flipped []models.MicrocontrollerModel

	result := r.db.DB.WithContext(ctx).
		Model(&flipped).
		Clauses(clause.Returning{}).
		Where("online = ? AND last_seen < ?", true, olderThan).
		Updates(map[string]interface{}{
			"online":     false,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to mark stale devices offline: %w", result.Error)
	}

	devices := make([]*domainDevice.Microcontroller, len(flipped))
	for i := range flipped {
		devices[i] = toMicrocontrollerEntity(&flipped[i])
	}
	return devices, nil
}

func (r *DeviceRepository) SetCredentials(ctx context.Context, id int, mqttUsername, passwordHash string) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.MicrocontrollerModel{}).
		Where("mc_id = ?", id).
		Updates(map[string]interface{}{
			"mqtt_username":      mqttUsername,
			"mqtt_password_hash": passwordHash,
			"mqtt_enabled":       true,
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to set credentials: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainDevice.ErrMicrocontrollerNotFound
	}
	return nil
}

func (r *DeviceRepository) RevokeCredentials(ctx context.Context, id int) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.MicrocontrollerModel{}).
		Where("mc_id = ?", id).
		Updates(map[string]interface{}{
			"mqtt_username":      nil,
			"mqtt_password_hash": nil,
			"mqtt_enabled":       false,
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to revoke credentials: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainDevice.ErrMicrocontrollerNotFound
	}
	return nil
}

func toMicrocontrollerModel(mc *domainDevice.Microcontroller) *models.MicrocontrollerModel {
	return &models.MicrocontrollerModel{
		ID:               mc.ID,
		McCode:           mc.McCode,
		Name:             mc.Name,
		PsID:             mc.PsID,
		Online:           mc.Online,
		UptimeSec:        mc.UptimeSec,
		LastSeen:         mc.LastSeen,
		MqttUsername:     mc.MqttUsername,
		MqttPasswordHash: mc.MqttPasswordHash,
		MqttEnabled:      mc.MqttEnabled,
		CreatedAt:        mc.CreatedAt,
		UpdatedAt:        mc.UpdatedAt,
	}
}

func toMicrocontrollerEntity(m *models.MicrocontrollerModel) *domainDevice.Microcontroller {
	return &domainDevice.Microcontroller{
		ID:               m.ID,
		McCode:           m.McCode,
		Name:             m.Name,
		PsID:             m.PsID,
		Online:           m.Online,
		UptimeSec:        m.UptimeSec,
		LastSeen:         m.LastSeen,
		MqttUsername:     m.MqttUsername,
		MqttPasswordHash: m.MqttPasswordHash,
		MqttEnabled:      m.MqttEnabled,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
