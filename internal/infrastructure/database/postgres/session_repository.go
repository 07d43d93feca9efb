package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domainSession "github.com/ak4shii/smart-parking-system/internal/domain/session"
	"github.com/ak4shii/smart-parking-system/internal/infrastructure/database/postgres/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionRepository implements session.Repository on postgres.
type SessionRepository struct {
	db *DB
}

func NewSessionRepository(db *DB) domainSession.Repository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) GetRfidByCode(ctx context.Context, rfidCode string) (*domainSession.Rfid, error) {
	var dbModel models.RfidModel
	err := r.db.DB.WithContext(ctx).Where("rfid_code = ?", rfidCode).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainSession.ErrRfidNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rfid: %w", err)
	}
	return toRfidEntity(&dbModel), nil
}

// OpenSession performs the whole entry-side read-check-write cycle in one
// transaction: row-lock the credential, re-check the in-use flag and the
// open-log existence, insert the new open log, flip the flag. The partial
// unique index turns a lost race into a duplicate-key error, mapped to
// ErrSessionOpen.
func (r *SessionRepository) OpenSession(ctx context.Context, rfidID int, at time.Time) (*domainSession.EntryLog, error) {
	var created models.EntryLogModel

	err := r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rfid models.RfidModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&rfid, rfidID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainSession.ErrRfidNotFound
		}
		if err != nil {
			return err
		}

		if rfid.CurrentlyUsed {
			return domainSession.ErrRfidInUse
		}

		var openCount int64
		if err := tx.Model(&models.EntryLogModel{}).
			Where("rfid_id = ? AND out_time IS NULL", rfidID).
			Count(&openCount).Error; err != nil {
			return err
		}
		if openCount > 0 {
			return domainSession.ErrSessionOpen
		}

		created = models.EntryLogModel{
			RfidID: rfidID,
			InTime: at,
		}
		if err := tx.Create(&created).Error; err != nil {
			if strings.Contains(err.Error(), "duplicate key value") {
				return domainSession.ErrSessionOpen
			}
			return err
		}

		return tx.Model(&models.RfidModel{}).
			Where("rfid_id = ?", rfidID).
			Update("currently_used", true).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, domainSession.ErrRfidNotFound),
			errors.Is(err, domainSession.ErrRfidInUse),
			errors.Is(err, domainSession.ErrSessionOpen):
			return nil, err
		}
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	return toEntryLogEntity(&created), nil
}

func (r *SessionRepository) CloseSession(ctx context.Context, rfidID int, at time.Time) (*domainSession.EntryLog, error) {
	var closed models.EntryLogModel

	err := r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("rfid_id = ? AND out_time IS NULL", rfidID).
			First(&closed).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainSession.ErrNoOpenSession
		}
		if err != nil {
			return err
		}

		if err := tx.Model(&closed).Update("out_time", at).Error; err != nil {
			return err
		}
		closed.OutTime = &at

		return tx.Model(&models.RfidModel{}).
			Where("rfid_id = ?", rfidID).
			Update("currently_used", false).Error
	})
	if err != nil {
		if errors.Is(err, domainSession.ErrNoOpenSession) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to close session: %w", err)
	}

	return toEntryLogEntity(&closed), nil
}

func (r *SessionRepository) FindOpenByRfidID(ctx context.Context, rfidID int) (*domainSession.EntryLog, error) {
	var dbModel models.EntryLogModel
	err := r.db.DB.WithContext(ctx).
		Where("rfid_id = ? AND out_time IS NULL", rfidID).
		First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainSession.ErrNoOpenSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find open entry log: %w", err)
	}
	return toEntryLogEntity(&dbModel), nil
}

func (r *SessionRepository) UpdatePlate(ctx context.Context, entryLogID int, plate string) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.EntryLogModel{}).
		Where("log_id = ?", entryLogID).
		Update("license_plate", plate)
	if result.Error != nil {
		return fmt.Errorf("failed to update plate: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainSession.ErrEntryLogNotFound
	}
	return nil
}

func (r *SessionRepository) GetEntryLogByID(ctx context.Context, id int) (*domainSession.EntryLog, error) {
	var dbModel models.EntryLogModel
	err := r.db.DB.WithContext(ctx).First(&dbModel, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainSession.ErrEntryLogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry log: %w", err)
	}
	return toEntryLogEntity(&dbModel), nil
}

func (r *SessionRepository) ListByParkingSpace(ctx context.Context, psID int) ([]*domainSession.EntryLog, error) {
	var dbModels []models.EntryLogModel
	err := r.db.DB.WithContext(ctx).
		Joins("JOIN rfid ON rfid.rfid_id = entry_log.rfid_id").
		Where("rfid.ps_id = ?", psID).
		Order("entry_log.in_time DESC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list entry logs: %w", err)
	}

	logs := make([]*domainSession.EntryLog, len(dbModels))
	for i := range dbModels {
		logs[i] = toEntryLogEntity(&dbModels[i])
	}
	return logs, nil
}

func toRfidEntity(m *models.RfidModel) *domainSession.Rfid {
	return &domainSession.Rfid{
		ID:            m.ID,
		RfidCode:      m.RfidCode,
		PsID:          m.PsID,
		CurrentlyUsed: m.CurrentlyUsed,
	}
}

func toEntryLogEntity(m *models.EntryLogModel) *domainSession.EntryLog {
	return &domainSession.EntryLog{
		ID:           m.ID,
		RfidID:       m.RfidID,
		SlotID:       m.SlotID,
		LicensePlate: m.LicensePlate,
		InTime:       m.InTime,
		OutTime:      m.OutTime,
	}
}
