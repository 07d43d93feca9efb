package postgres

import (
	"context"
	"errors"
	"fmt"

	domainParking "github.com/ak4shii/smart-parking-system/internal/domain/parking"
	"github.com/ak4shii/smart-parking-system/internal/infrastructure/database/postgres/models"

	"gorm.io/gorm"
)

// ParkingRepository implements parking.Repository on postgres.
type ParkingRepository struct {
	db *DB
}

func NewParkingRepository(db *DB) domainParking.Repository {
	return &ParkingRepository{db: db}
}

func (r *ParkingRepository) GetByID(ctx context.Context, id int) (*domainParking.ParkingSpace, error) {
	var dbModel models.ParkingSpaceModel
	err := r.db.DB.WithContext(ctx).First(&dbModel, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainParking.ErrParkingSpaceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get parking space: %w", err)
	}
	return &domainParking.ParkingSpace{ID: dbModel.ID, Name: dbModel.Name}, nil
}
