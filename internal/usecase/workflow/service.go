package workflow

import (
	"context"
	"errors"
	"time"

	domainDevice "github.com/ak4shii/smart-parking-system/internal/domain/device"
	domainSession "github.com/ak4shii/smart-parking-system/internal/domain/session"
	"github.com/ak4shii/smart-parking-system/internal/logger"
	"github.com/ak4shii/smart-parking-system/internal/realtime"
	appErrors "github.com/ak4shii/smart-parking-system/pkg/errors"

	"go.uber.org/zap"
)

// Door command types shared with the firmware.
const (
	DoorCommandEntry = "entry"
	DoorCommandExit  = "exit"
)

// Commander issues outbound device commands; *mqtt.Publisher satisfies it.
type Commander interface {
	SendCameraSnap(mqttUsername, rfidCode string)
	SendDoorOpen(mqttUsername, commandType string)
}

// Recognizer resolves a license plate from a captured frame.
type Recognizer interface {
	RecognizePlate(ctx context.Context, image []byte) (string, error)
}

// Events is the slice of the realtime publisher this service emits on.
type Events interface {
	RfidChanged(rfid *domainSession.Rfid)
	EntryLogChanged(kind string, log *domainSession.EntryLog, rfid *domainSession.Rfid)
}

// Service runs the vehicle entry/exit workflow. Entry and exit are
// triggered by gate devices over MQTT; the image leg arrives over HTTP
// after the camera-snap command fires.
type Service struct {
	sessionRepo domainSession.Repository
	deviceRepo  domainDevice.Repository
	recognizer  Recognizer
	commands    Commander
	events      Events
}

func NewService(
	sessionRepo domainSession.Repository,
	deviceRepo domainDevice.Repository,
	recognizer Recognizer,
	commands Commander,
	events Events,
) *Service {
	return &Service{
		sessionRepo: sessionRepo,
		deviceRepo:  deviceRepo,
		recognizer:  recognizer,
		commands:    commands,
		events:      events,
	}
}

// EntryTrigger opens a parking session for the scanned credential and, on
// success, commands the gate device to snap a frame and open the entry
// barrier. The two commands are independent and fire-and-forget.
func (s *Service) EntryTrigger(ctx context.Context, mqttUsername, mcCode, rfidCode string) error {
	mc, rfid, err := s.resolve(ctx, mcCode, rfidCode)
	if err != nil {
		return err
	}

	log, err := s.sessionRepo.OpenSession(ctx, rfid.ID, time.Now().UTC())
	if errors.Is(err, domainSession.ErrRfidInUse) {
		return appErrors.Conflict("Rfid is already in use", err)
	}
	if errors.Is(err, domainSession.ErrSessionOpen) {
		return appErrors.Conflict("Rfid already has an open session", err)
	}
	if err != nil {
		return err
	}

	rfid.CurrentlyUsed = true
	s.events.RfidChanged(rfid)
	s.events.EntryLogChanged(realtime.EntryLogEntered, log, rfid)

	s.commands.SendCameraSnap(mqttUsername, rfidCode)
	s.commands.SendDoorOpen(mqttUsername, DoorCommandEntry)

	logger.Info("Vehicle entered",
		zap.String("mc_code", mc.McCode),
		zap.String("rfid_code", rfidCode),
		zap.Int("entry_log_id", log.ID),
	)
	return nil
}

// ExitTrigger closes the open session and opens the exit barrier.
func (s *Service) ExitTrigger(ctx context.Context, mqttUsername, mcCode, rfidCode string) error {
	mc, rfid, err := s.resolve(ctx, mcCode, rfidCode)
	if err != nil {
		return err
	}

	log, err := s.sessionRepo.CloseSession(ctx, rfid.ID, time.Now().UTC())
	if errors.Is(err, domainSession.ErrNoOpenSession) {
		return appErrors.NotFound("Rfid has no open session", err)
	}
	if err != nil {
		return err
	}

	rfid.CurrentlyUsed = false
	s.events.RfidChanged(rfid)
	s.events.EntryLogChanged(realtime.EntryLogExited, log, rfid)

	s.commands.SendDoorOpen(mqttUsername, DoorCommandExit)

	logger.Info("Vehicle exited",
		zap.String("mc_code", mc.McCode),
		zap.String("rfid_code", rfidCode),
		zap.Int("entry_log_id", log.ID),
	)
	return nil
}

// ImageUploaded attaches a recognized plate to the open session for the
// credential. Recognition failures degrade to the UNKNOWN sentinel; the
// gate flow must never block on the recognition collaborator. Repeated
// uploads for the same session overwrite the plate.
func (s *Service) ImageUploaded(ctx context.Context, rfidCode string, image []byte) (*domainSession.EntryLog, error) {
	rfid, err := s.sessionRepo.GetRfidByCode(ctx, rfidCode)
	if errors.Is(err, domainSession.ErrRfidNotFound) {
		return nil, appErrors.NotFound("Rfid not found", err)
	}
	if err != nil {
		return nil, err
	}

	log, err := s.sessionRepo.FindOpenByRfidID(ctx, rfid.ID)
	if errors.Is(err, domainSession.ErrNoOpenSession) {
		return nil, appErrors.NotFound("Rfid has no open session", err)
	}
	if err != nil {
		return nil, err
	}

	plate, err := s.recognizer.RecognizePlate(ctx, image)
	if err != nil || plate == "" {
		logger.Warn("Plate recognition degraded",
			zap.String("rfid_code", rfidCode),
			zap.Int("entry_log_id", log.ID),
			zap.Error(err),
		)
		plate = domainSession.PlateUnknown
	}

	if err := s.sessionRepo.UpdatePlate(ctx, log.ID, plate); err != nil {
		if errors.Is(err, domainSession.ErrEntryLogNotFound) {
			return nil, appErrors.NotFound("Entry log not found", err)
		}
		return nil, err
	}
	log.LicensePlate = &plate

	s.events.EntryLogChanged(realtime.EntryLogRecognized, log, rfid)

	logger.Info("Plate recognized",
		zap.String("rfid_code", rfidCode),
		zap.Int("entry_log_id", log.ID),
		zap.String("plate", plate),
	)
	return log, nil
}

func (s *Service) GetEntryLog(ctx context.Context, id int) (*domainSession.EntryLog, error) {
	log, err := s.sessionRepo.GetEntryLogByID(ctx, id)
	if errors.Is(err, domainSession.ErrEntryLogNotFound) {
		return nil, appErrors.NotFound("Entry log not found", err)
	}
	return log, err
}

func (s *Service) ListEntryLogs(ctx context.Context, psID int) ([]*domainSession.EntryLog, error) {
	return s.sessionRepo.ListByParkingSpace(ctx, psID)
}

// resolve loads the device and credential and enforces that the credential
// belongs to the device's parking space.
func (s *Service) resolve(ctx context.Context, mcCode, rfidCode string) (*domainDevice.Microcontroller, *domainSession.Rfid, error) {
	mc, err := s.deviceRepo.GetByCode(ctx, mcCode)
	if errors.Is(err, domainDevice.ErrMicrocontrollerNotFound) {
		return nil, nil, appErrors.NotFound("Microcontroller is not registered", err)
	}
	if err != nil {
		return nil, nil, err
	}

	rfid, err := s.sessionRepo.GetRfidByCode(ctx, rfidCode)
	if errors.Is(err, domainSession.ErrRfidNotFound) {
		return nil, nil, appErrors.NotFound("Rfid not found", err)
	}
	if err != nil {
		return nil, nil, err
	}

	if rfid.PsID != mc.PsID {
		return nil, nil, appErrors.Conflict("Rfid belongs to another parking space", domainSession.ErrSpaceMismatch)
	}
	return mc, rfid, nil
}
