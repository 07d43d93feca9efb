package registry

import (
	"context"
	"errors"
	"strings"
	"time"

	domainDevice "github.com/ak4shii/smart-parking-system/internal/domain/device"
	domainParking "github.com/ak4shii/smart-parking-system/internal/domain/parking"
	"github.com/ak4shii/smart-parking-system/internal/logger"
	"github.com/ak4shii/smart-parking-system/internal/mqtt"
	appErrors "github.com/ak4shii/smart-parking-system/pkg/errors"
	"github.com/ak4shii/smart-parking-system/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Events is the slice of the realtime publisher this service emits on.
type Events interface {
	MicrocontrollerChanged(mc *domainDevice.Microcontroller)
}

// Service implements device registry use cases: registration, liveness
// bookkeeping and decommissioning.
type Service struct {
	deviceRepo  domainDevice.Repository
	parkingRepo domainParking.Repository
	events      Events
}

func NewService(deviceRepo domainDevice.Repository, parkingRepo domainParking.Repository, events Events) *Service {
	return &Service{
		deviceRepo:  deviceRepo,
		parkingRepo: parkingRepo,
		events:      events,
	}
}

// ReportStatus records a device's own status report. LastSeen is always
// refreshed; a report without an online field counts as online.
func (s *Service) ReportStatus(ctx context.Context, mcCode string, report *domainDevice.StatusReport) (*domainDevice.Microcontroller, error) {
	mc, err := s.deviceRepo.RecordStatus(ctx, mcCode, report, time.Now().UTC())
	if errors.Is(err, domainDevice.ErrMicrocontrollerNotFound) {
		return nil, appErrors.NotFound("Microcontroller is not registered", err)
	}
	if err != nil {
		return nil, err
	}

	s.events.MicrocontrollerChanged(mc)

	logger.Debug("Device status recorded",
		zap.String("mc_code", mcCode),
		zap.Bool("online", mc.Online),
	)
	return mc, nil
}

// RegisterDevice creates a microcontroller row and mints its MQTT
// credentials. The plaintext password appears only in the response.
func (s *Service) RegisterDevice(ctx context.Context, req *RegisterDeviceRequest) (*RegisterDeviceResponse, error) {
	owner := utils.SanitizeName(req.OwnerUsername)
	if owner == "" {
		return nil, appErrors.Validation("Owner username is required", nil)
	}

	if _, err := s.parkingRepo.GetByID(ctx, req.ParkingSpaceID); err != nil {
		if errors.Is(err, domainParking.ErrParkingSpaceNotFound) {
			return nil, appErrors.NotFound("Parking space not found", err)
		}
		return nil, err
	}

	mcCode := generateMcCode()
	mqttUsername := mqtt.JoinUsername(owner, mcCode)
	password, err := utils.GeneratePassword()
	if err != nil {
		return nil, appErrors.NewAppError(appErrors.KindInternal, "Failed to generate device password", err)
	}
	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		return nil, appErrors.NewAppError(appErrors.KindInternal, "Failed to hash device password", err)
	}

	mc := &domainDevice.Microcontroller{
		McCode:    mcCode,
		Name:      req.Name,
		PsID:      req.ParkingSpaceID,
		Online:    false,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.deviceRepo.Create(ctx, mc); err != nil {
		if errors.Is(err, domainDevice.ErrCodeAlreadyExists) {
			return nil, appErrors.Conflict("Microcontroller code already exists", err)
		}
		return nil, err
	}
	if err := s.deviceRepo.SetCredentials(ctx, mc.ID, mqttUsername, passwordHash); err != nil {
		return nil, err
	}

	logger.Info("Device registered",
		zap.String("mc_code", mcCode),
		zap.Int("parking_space_id", req.ParkingSpaceID),
		zap.String("mqtt_username", mqttUsername),
	)

	return &RegisterDeviceResponse{
		ID:             mc.ID,
		McCode:         mcCode,
		Name:           req.Name,
		ParkingSpaceID: req.ParkingSpaceID,
		MqttUsername:   mqttUsername,
		MqttPassword:   password,
	}, nil
}

// DecommissionDevice revokes the device's broker credentials before
// removing the row, so a stolen device cannot keep publishing.
func (s *Service) DecommissionDevice(ctx context.Context, id int) error {
	mc, err := s.deviceRepo.GetByID(ctx, id)
	if errors.Is(err, domainDevice.ErrMicrocontrollerNotFound) {
		return appErrors.NotFound("Microcontroller not found", err)
	}
	if err != nil {
		return err
	}

	if err := s.deviceRepo.RevokeCredentials(ctx, mc.ID); err != nil {
		return err
	}
	if err := s.deviceRepo.Delete(ctx, mc.ID); err != nil {
		return err
	}

	logger.Info("Device decommissioned",
		zap.Int("microcontroller_id", mc.ID),
		zap.String("mc_code", mc.McCode),
	)
	return nil
}

func (s *Service) GetDevice(ctx context.Context, id int) (*MicrocontrollerResponse, error) {
	mc, err := s.deviceRepo.GetByID(ctx, id)
	if errors.Is(err, domainDevice.ErrMicrocontrollerNotFound) {
		return nil, appErrors.NotFound("Microcontroller not found", err)
	}
	if err != nil {
		return nil, err
	}
	return ToMicrocontrollerResponse(mc), nil
}

func (s *Service) ListDevices(ctx context.Context, psID int) ([]*MicrocontrollerResponse, error) {
	devices, err := s.deviceRepo.ListByParkingSpace(ctx, psID)
	if err != nil {
		return nil, err
	}
	responses := make([]*MicrocontrollerResponse, len(devices))
	for i, mc := range devices {
		responses[i] = ToMicrocontrollerResponse(mc)
	}
	return responses, nil
}

func generateMcCode() string {
	return "mc" + strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}
