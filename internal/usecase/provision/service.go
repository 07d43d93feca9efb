package provision

import (
	"context"
	"errors"
	"fmt"

	domainDevice "github.com/ak4shii/smart-parking-system/internal/domain/device"
	domainPeripheral "github.com/ak4shii/smart-parking-system/internal/domain/peripheral"
	"github.com/ak4shii/smart-parking-system/internal/logger"
	appErrors "github.com/ak4shii/smart-parking-system/pkg/errors"
	"github.com/ak4shii/smart-parking-system/pkg/utils"

	"go.uber.org/zap"
)

// Service materializes a device's declared peripherals. Every component
// is found-or-created by name; names live in one flat namespace across
// all devices, so a name already bound elsewhere is a conflict rather
// than a shadowed local name.
type Service struct {
	deviceRepo     domainDevice.Repository
	peripheralRepo domainPeripheral.Repository
}

func NewService(deviceRepo domainDevice.Repository, peripheralRepo domainPeripheral.Repository) *Service {
	return &Service{
		deviceRepo:     deviceRepo,
		peripheralRepo: peripheralRepo,
	}
}

// Provision binds every declared door, lcd and sensor to the device.
// Items fail independently: a conflicting or invalid item is skipped and
// reported while the rest of the batch proceeds, so a single stale name
// never blocks a device from materializing its other components. Only an
// unregistered device aborts the whole call.
func (s *Service) Provision(ctx context.Context, mcCode string, req *Request) (*Result, error) {
	mc, err := s.deviceRepo.GetByCode(ctx, mcCode)
	if errors.Is(err, domainDevice.ErrMicrocontrollerNotFound) {
		return nil, appErrors.NotFound("Microcontroller is not registered", err)
	}
	if err != nil {
		return nil, err
	}

	result := &Result{
		Doors:   make([]ProvisionedComponent, 0, len(req.Doors)),
		Lcds:    make([]ProvisionedComponent, 0, len(req.Lcds)),
		Sensors: make([]ProvisionedComponent, 0, len(req.Sensors)),
	}

	for _, spec := range req.Doors {
		door, err := s.provisionDoor(ctx, mc, spec)
		if err != nil {
			result.Failures = append(result.Failures, failureMessage(err))
			continue
		}
		result.Doors = append(result.Doors, ProvisionedComponent{ID: door.ID, Name: door.Name})
	}
	for _, spec := range req.Lcds {
		lcd, err := s.provisionLcd(ctx, mc, spec)
		if err != nil {
			result.Failures = append(result.Failures, failureMessage(err))
			continue
		}
		result.Lcds = append(result.Lcds, ProvisionedComponent{ID: lcd.ID, Name: lcd.Name})
	}
	for _, spec := range req.Sensors {
		sensor, err := s.provisionSensor(ctx, mc, spec)
		if err != nil {
			result.Failures = append(result.Failures, failureMessage(err))
			continue
		}
		result.Sensors = append(result.Sensors, ProvisionedComponent{ID: sensor.ID, Name: sensor.Name})
	}

	logger.Info("Device provisioned",
		zap.String("mc_code", mcCode),
		zap.Int("doors", len(result.Doors)),
		zap.Int("lcds", len(result.Lcds)),
		zap.Int("sensors", len(result.Sensors)),
		zap.Int("failures", len(result.Failures)),
	)
	return result, nil
}

// failureMessage renders one skipped item for the device response.
func failureMessage(err error) string {
	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal error"
}

func (s *Service) provisionDoor(ctx context.Context, mc *domainDevice.Microcontroller, spec DoorSpec) (*domainPeripheral.Door, error) {
	name := utils.SanitizeName(spec.Name)
	if name == "" {
		return nil, appErrors.Validation("Door name is required", domainPeripheral.ErrNameRequired)
	}

	door, err := s.peripheralRepo.FindDoorByName(ctx, name)
	if errors.Is(err, domainPeripheral.ErrDoorNotFound) {
		door = &domainPeripheral.Door{Name: name, McID: &mc.ID}
		if err := s.saveDoor(ctx, door, name); err != nil {
			return nil, err
		}
		return door, nil
	}
	if err != nil {
		return nil, err
	}

	if door.McID != nil && *door.McID != mc.ID {
		return nil, appErrors.Conflict(
			fmt.Sprintf("Door %q is assigned to another microcontroller", name),
			domainPeripheral.ErrNameTaken,
		)
	}
	if door.McID == nil {
		door.McID = &mc.ID
		if err := s.saveDoor(ctx, door, name); err != nil {
			return nil, err
		}
	}
	return door, nil
}

func (s *Service) saveDoor(ctx context.Context, door *domainPeripheral.Door, name string) error {
	err := s.peripheralRepo.SaveDoor(ctx, door)
	if errors.Is(err, domainPeripheral.ErrNameTaken) {
		return appErrors.Conflict(
			fmt.Sprintf("Door %q is assigned to another microcontroller", name), err)
	}
	return err
}

func (s *Service) provisionLcd(ctx context.Context, mc *domainDevice.Microcontroller, spec LcdSpec) (*domainPeripheral.Lcd, error) {
	name := utils.SanitizeName(spec.Name)
	if name == "" {
		return nil, appErrors.Validation("Lcd name is required", domainPeripheral.ErrNameRequired)
	}

	lcd, err := s.peripheralRepo.FindLcdByName(ctx, name)
	if errors.Is(err, domainPeripheral.ErrLcdNotFound) {
		lcd = &domainPeripheral.Lcd{Name: name, McID: &mc.ID}
		if err := s.saveLcd(ctx, lcd, name); err != nil {
			return nil, err
		}
		return lcd, nil
	}
	if err != nil {
		return nil, err
	}

	if lcd.McID != nil && *lcd.McID != mc.ID {
		return nil, appErrors.Conflict(
			fmt.Sprintf("Lcd %q is assigned to another microcontroller", name),
			domainPeripheral.ErrNameTaken,
		)
	}
	if lcd.McID == nil {
		lcd.McID = &mc.ID
		if err := s.saveLcd(ctx, lcd, name); err != nil {
			return nil, err
		}
	}
	return lcd, nil
}

func (s *Service) saveLcd(ctx context.Context, lcd *domainPeripheral.Lcd, name string) error {
	err := s.peripheralRepo.SaveLcd(ctx, lcd)
	if errors.Is(err, domainPeripheral.ErrNameTaken) {
		return appErrors.Conflict(
			fmt.Sprintf("Lcd %q is assigned to another microcontroller", name), err)
	}
	return err
}

// provisionSensor resolves the sensor's slot first. Slots are scoped to
// the device's parking space and created on demand; a sensor that already
// exists must keep pointing at the same slot.
func (s *Service) provisionSensor(ctx context.Context, mc *domainDevice.Microcontroller, spec SensorSpec) (*domainPeripheral.Sensor, error) {
	name := utils.SanitizeName(spec.Name)
	if name == "" {
		return nil, appErrors.Validation("Sensor name is required", domainPeripheral.ErrNameRequired)
	}
	slotName := utils.SanitizeName(spec.SlotName)
	if slotName == "" {
		return nil, appErrors.Validation(
			fmt.Sprintf("Sensor %q declares no slot name", name),
			domainPeripheral.ErrSlotNameRequired,
		)
	}

	slot, err := s.peripheralRepo.FindSlotByName(ctx, slotName)
	if errors.Is(err, domainPeripheral.ErrSlotNotFound) {
		slot = &domainPeripheral.Slot{Name: slotName, PsID: mc.PsID}
		if err := s.peripheralRepo.SaveSlot(ctx, slot); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	if slot.PsID != mc.PsID {
		return nil, appErrors.Conflict(
			fmt.Sprintf("Slot %q belongs to another parking space", slotName), nil)
	}

	sensor, err := s.peripheralRepo.FindSensorByName(ctx, name)
	if errors.Is(err, domainPeripheral.ErrSensorNotFound) {
		sensor = &domainPeripheral.Sensor{Name: name, McID: &mc.ID, SlotID: &slot.ID}
		if spec.Type != "" {
			sensorType := spec.Type
			sensor.Type = &sensorType
		}
		if err := s.saveSensor(ctx, sensor, name); err != nil {
			return nil, err
		}
		return sensor, nil
	}
	if err != nil {
		return nil, err
	}

	if sensor.McID != nil && *sensor.McID != mc.ID {
		return nil, appErrors.Conflict(
			fmt.Sprintf("Sensor %q is assigned to another microcontroller", name),
			domainPeripheral.ErrNameTaken,
		)
	}
	if sensor.SlotID != nil && *sensor.SlotID != slot.ID {
		return nil, appErrors.Conflict(
			fmt.Sprintf("Sensor %q is assigned to another slot", name),
			domainPeripheral.ErrSensorSlotTaken,
		)
	}

	changed := false
	if sensor.McID == nil {
		sensor.McID = &mc.ID
		changed = true
	}
	if sensor.SlotID == nil {
		sensor.SlotID = &slot.ID
		changed = true
	}
	if spec.Type != "" && (sensor.Type == nil || *sensor.Type != spec.Type) {
		sensorType := spec.Type
		sensor.Type = &sensorType
		changed = true
	}
	if changed {
		if err := s.saveSensor(ctx, sensor, name); err != nil {
			return nil, err
		}
	}
	return sensor, nil
}

func (s *Service) saveSensor(ctx context.Context, sensor *domainPeripheral.Sensor, name string) error {
	err := s.peripheralRepo.SaveSensor(ctx, sensor)
	if errors.Is(err, domainPeripheral.ErrNameTaken) {
		return appErrors.Conflict(
			fmt.Sprintf("Sensor %q is assigned to another microcontroller", name), err)
	}
	return err
}
