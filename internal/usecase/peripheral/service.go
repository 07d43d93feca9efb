package peripheral

import (
	"context"
	"errors"

	domainDevice "github.com/ak4shii/smart-parking-system/internal/domain/device"
	domainPeripheral "github.com/ak4shii/smart-parking-system/internal/domain/peripheral"
	"github.com/ak4shii/smart-parking-system/internal/logger"
	appErrors "github.com/ak4shii/smart-parking-system/pkg/errors"

	"go.uber.org/zap"
)

// DoorCommandManual marks operator-initiated barrier opens, as opposed to
// the entry/exit commands the workflow issues.
const DoorCommandManual = "manual"

// Commander issues outbound device commands; *mqtt.Publisher satisfies it.
type Commander interface {
	SendDoorOpen(mqttUsername, commandType string)
	SendLcdText(mqttUsername string, lcdID int, displayText string)
}

// Events is the slice of the realtime publisher this service emits on.
type Events interface {
	DoorChanged(door *domainPeripheral.Door)
	LcdChanged(lcd *domainPeripheral.Lcd)
	SlotChanged(slot *domainPeripheral.Slot)
}

// Service applies peripheral status reports and serves operator commands.
// Peripheral state in the database always follows what the device
// reports; operator commands only publish, the device confirms via its
// status subtopic.
type Service struct {
	peripheralRepo domainPeripheral.Repository
	deviceRepo     domainDevice.Repository
	commands       Commander
	events         Events
}

func NewService(
	peripheralRepo domainPeripheral.Repository,
	deviceRepo domainDevice.Repository,
	commands Commander,
	events Events,
) *Service {
	return &Service{
		peripheralRepo: peripheralRepo,
		deviceRepo:     deviceRepo,
		commands:       commands,
		events:         events,
	}
}

// HandleDoorStatus records a barrier position reported by its device.
func (s *Service) HandleDoorStatus(ctx context.Context, mcCode string, doorID int, isOpened *bool) (*domainPeripheral.Door, error) {
	if isOpened == nil {
		return nil, appErrors.Validation("Door status requires isOpened", nil)
	}

	mc, err := s.deviceByCode(ctx, mcCode)
	if err != nil {
		return nil, err
	}

	door, err := s.peripheralRepo.GetDoorByID(ctx, doorID)
	if errors.Is(err, domainPeripheral.ErrDoorNotFound) {
		return nil, appErrors.NotFound("Door not found", err)
	}
	if err != nil {
		return nil, err
	}
	if door.McID == nil || *door.McID != mc.ID {
		return nil, appErrors.Conflict("Door is not assigned to this microcontroller", domainPeripheral.ErrNameTaken)
	}

	door, err = s.peripheralRepo.SetDoorOpened(ctx, doorID, *isOpened)
	if err != nil {
		return nil, err
	}
	s.events.DoorChanged(door)

	logger.Debug("Door status recorded",
		zap.Int("door_id", doorID),
		zap.Bool("is_opened", *isOpened),
	)
	return door, nil
}

// HandleLcdStatus records the text a device's display is showing.
func (s *Service) HandleLcdStatus(ctx context.Context, mcCode string, lcdID int, displayText *string) (*domainPeripheral.Lcd, error) {
	if displayText == nil {
		return nil, appErrors.Validation("Lcd status requires displayText", nil)
	}

	mc, err := s.deviceByCode(ctx, mcCode)
	if err != nil {
		return nil, err
	}

	lcd, err := s.peripheralRepo.GetLcdByID(ctx, lcdID)
	if errors.Is(err, domainPeripheral.ErrLcdNotFound) {
		return nil, appErrors.NotFound("Lcd not found", err)
	}
	if err != nil {
		return nil, err
	}
	if lcd.McID == nil || *lcd.McID != mc.ID {
		return nil, appErrors.Conflict("Lcd is not assigned to this microcontroller", domainPeripheral.ErrNameTaken)
	}

	lcd, err = s.peripheralRepo.SetLcdText(ctx, lcdID, *displayText)
	if err != nil {
		return nil, err
	}
	s.events.LcdChanged(lcd)

	logger.Debug("Lcd status recorded",
		zap.Int("lcd_id", lcdID),
	)
	return lcd, nil
}

// HandleSensorStatus maps an occupancy reading onto the sensor's bound
// slot and emits the overview update.
func (s *Service) HandleSensorStatus(ctx context.Context, mcCode string, sensorID int, isOccupied *bool) (*domainPeripheral.Slot, error) {
	if isOccupied == nil {
		return nil, appErrors.Validation("Sensor status requires isOccupied", nil)
	}

	mc, err := s.deviceByCode(ctx, mcCode)
	if err != nil {
		return nil, err
	}

	sensor, err := s.peripheralRepo.GetSensorByID(ctx, sensorID)
	if errors.Is(err, domainPeripheral.ErrSensorNotFound) {
		return nil, appErrors.NotFound("Sensor not found", err)
	}
	if err != nil {
		return nil, err
	}
	if sensor.McID == nil || *sensor.McID != mc.ID {
		return nil, appErrors.Conflict("Sensor is not assigned to this microcontroller", domainPeripheral.ErrNameTaken)
	}
	if sensor.SlotID == nil {
		return nil, appErrors.Conflict("Sensor is not bound to a slot", domainPeripheral.ErrSlotNotFound)
	}

	slot, err := s.peripheralRepo.SetSlotOccupied(ctx, *sensor.SlotID, *isOccupied)
	if err != nil {
		return nil, err
	}
	s.events.SlotChanged(slot)

	logger.Debug("Slot occupancy recorded",
		zap.Int("sensor_id", sensorID),
		zap.Int("slot_id", slot.ID),
		zap.Bool("is_occupied", *isOccupied),
	)
	return slot, nil
}

// SendLcdText publishes display text to the device owning the LCD. The
// stored text is not touched here; it updates when the device reports
// back on its status subtopic.
func (s *Service) SendLcdText(ctx context.Context, lcdID int, displayText string) error {
	lcd, err := s.peripheralRepo.GetLcdByID(ctx, lcdID)
	if errors.Is(err, domainPeripheral.ErrLcdNotFound) {
		return appErrors.NotFound("Lcd not found", err)
	}
	if err != nil {
		return err
	}

	username, err := s.deviceUsername(ctx, lcd.McID)
	if err != nil {
		return err
	}
	s.commands.SendLcdText(username, lcdID, displayText)
	return nil
}

// SendDoorOpen publishes an operator-initiated open command to the device
// owning the door.
func (s *Service) SendDoorOpen(ctx context.Context, doorID int) error {
	door, err := s.peripheralRepo.GetDoorByID(ctx, doorID)
	if errors.Is(err, domainPeripheral.ErrDoorNotFound) {
		return appErrors.NotFound("Door not found", err)
	}
	if err != nil {
		return err
	}

	username, err := s.deviceUsername(ctx, door.McID)
	if err != nil {
		return err
	}
	s.commands.SendDoorOpen(username, DoorCommandManual)
	return nil
}

func (s *Service) deviceByCode(ctx context.Context, mcCode string) (*domainDevice.Microcontroller, error) {
	mc, err := s.deviceRepo.GetByCode(ctx, mcCode)
	if errors.Is(err, domainDevice.ErrMicrocontrollerNotFound) {
		return nil, appErrors.NotFound("Microcontroller is not registered", err)
	}
	return mc, err
}

// deviceUsername resolves the MQTT identity for a component's owning
// device. A component with no device, or a device without credentials,
// cannot be commanded.
func (s *Service) deviceUsername(ctx context.Context, mcID *int) (string, error) {
	if mcID == nil {
		return "", appErrors.Conflict("Component is not assigned to a microcontroller", nil)
	}
	mc, err := s.deviceRepo.GetByID(ctx, *mcID)
	if errors.Is(err, domainDevice.ErrMicrocontrollerNotFound) {
		return "", appErrors.NotFound("Microcontroller not found", err)
	}
	if err != nil {
		return "", err
	}
	if !mc.MqttEnabled || mc.MqttUsername == nil {
		return "", appErrors.Conflict("Microcontroller has no active MQTT credentials", nil)
	}
	return *mc.MqttUsername, nil
}
