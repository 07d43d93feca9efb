package peripheral

import (
	"context"
	"os"
	"testing"
	"time"

	domainDevice "github.com/ak4shii/smart-parking-system/internal/domain/device"
	domainPeripheral "github.com/ak4shii/smart-parking-system/internal/domain/peripheral"
	"github.com/ak4shii/smart-parking-system/internal/logger"
	appErrors "github.com/ak4shii/smart-parking-system/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Init("production"); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

type fakePeripheralRepo struct {
	doors   map[int]*domainPeripheral.Door
	lcds    map[int]*domainPeripheral.Lcd
	sensors map[int]*domainPeripheral.Sensor
	slots   map[int]*domainPeripheral.Slot
}

func (f *fakePeripheralRepo) GetDoorByID(ctx context.Context, id int) (*domainPeripheral.Door, error) {
	d, ok := f.doors[id]
	if !ok {
		return nil, domainPeripheral.ErrDoorNotFound
	}
	return d, nil
}

func (f *fakePeripheralRepo) FindDoorByName(ctx context.Context, name string) (*domainPeripheral.Door, error) {
	return nil, domainPeripheral.ErrDoorNotFound
}

func (f *fakePeripheralRepo) SaveDoor(ctx context.Context, door *domainPeripheral.Door) error {
	f.doors[door.ID] = door
	return nil
}

func (f *fakePeripheralRepo) SetDoorOpened(ctx context.Context, id int, opened bool) (*domainPeripheral.Door, error) {
	d, err := f.GetDoorByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d.IsOpened = opened
	return d, nil
}

func (f *fakePeripheralRepo) GetLcdByID(ctx context.Context, id int) (*domainPeripheral.Lcd, error) {
	l, ok := f.lcds[id]
	if !ok {
		return nil, domainPeripheral.ErrLcdNotFound
	}
	return l, nil
}

func (f *fakePeripheralRepo) FindLcdByName(ctx context.Context, name string) (*domainPeripheral.Lcd, error) {
	return nil, domainPeripheral.ErrLcdNotFound
}

func (f *fakePeripheralRepo) SaveLcd(ctx context.Context, lcd *domainPeripheral.Lcd) error {
	f.lcds[lcd.ID] = lcd
	return nil
}

func (f *fakePeripheralRepo) SetLcdText(ctx context.Context, id int, text string) (*domainPeripheral.Lcd, error) {
	l, err := f.GetLcdByID(ctx, id)
	if err != nil {
		return nil, err
	}
	l.DisplayText = text
	return l, nil
}

func (f *fakePeripheralRepo) GetSensorByID(ctx context.Context, id int) (*domainPeripheral.Sensor, error) {
	s, ok := f.sensors[id]
	if !ok {
		return nil, domainPeripheral.ErrSensorNotFound
	}
	return s, nil
}

func (f *fakePeripheralRepo) FindSensorByName(ctx context.Context, name string) (*domainPeripheral.Sensor, error) {
	return nil, domainPeripheral.ErrSensorNotFound
}

func (f *fakePeripheralRepo) SaveSensor(ctx context.Context, sensor *domainPeripheral.Sensor) error {
	f.sensors[sensor.ID] = sensor
	return nil
}

func (f *fakePeripheralRepo) GetSlotByID(ctx context.Context, id int) (*domainPeripheral.Slot, error) {
	s, ok := f.slots[id]
	if !ok {
		return nil, domainPeripheral.ErrSlotNotFound
	}
	return s, nil
}

func (f *fakePeripheralRepo) FindSlotByName(ctx context.Context, name string) (*domainPeripheral.Slot, error) {
	return nil, domainPeripheral.ErrSlotNotFound
}

func (f *fakePeripheralRepo) SaveSlot(ctx context.Context, slot *domainPeripheral.Slot) error {
	f.slots[slot.ID] = slot
	return nil
}

func (f *fakePeripheralRepo) SetSlotOccupied(ctx context.Context, id int, occupied bool) (*domainPeripheral.Slot, error) {
	s, err := f.GetSlotByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.IsOccupied = occupied
	return s, nil
}

type fakeDeviceRepo struct {
	devices map[string]*domainDevice.Microcontroller
}

func (f *fakeDeviceRepo) GetByCode(ctx context.Context, mcCode string) (*domainDevice.Microcontroller, error) {
	mc, ok := f.devices[mcCode]
	if !ok {
		return nil, domainDevice.ErrMicrocontrollerNotFound
	}
	return mc, nil
}

func (f *fakeDeviceRepo) GetByID(ctx context.Context, id int) (*domainDevice.Microcontroller, error) {
	for _, mc := range f.devices {
		if mc.ID == id {
			return mc, nil
		}
	}
	return nil, domainDevice.ErrMicrocontrollerNotFound
}

func (f *fakeDeviceRepo) Create(ctx context.Context, mc *domainDevice.Microcontroller) error {
	return nil
}

func (f *fakeDeviceRepo) ListByParkingSpace(ctx context.Context, psID int) ([]*domainDevice.Microcontroller, error) {
	return nil, nil
}

func (f *fakeDeviceRepo) Delete(ctx context.Context, id int) error { return nil }

func (f *fakeDeviceRepo) RecordStatus(ctx context.Context, mcCode string, report *domainDevice.StatusReport, seenAt time.Time) (*domainDevice.Microcontroller, error) {
	return nil, domainDevice.ErrMicrocontrollerNotFound
}

func (f *fakeDeviceRepo) MarkStaleOffline(ctx context.Context, olderThan time.Time) ([]*domainDevice.Microcontroller, error) {
	return nil, nil
}

func (f *fakeDeviceRepo) SetCredentials(ctx context.Context, id int, mqttUsername, passwordHash string) error {
	return nil
}

func (f *fakeDeviceRepo) RevokeCredentials(ctx context.Context, id int) error { return nil }

type commandCall struct {
	kind        string
	username    string
	commandType string
	lcdID       int
	text        string
}

type fakeCommander struct {
	calls []commandCall
}

func (f *fakeCommander) SendDoorOpen(mqttUsername, commandType string) {
	f.calls = append(f.calls, commandCall{kind: "door", username: mqttUsername, commandType: commandType})
}

func (f *fakeCommander) SendLcdText(mqttUsername string, lcdID int, displayText string) {
	f.calls = append(f.calls, commandCall{kind: "lcd", username: mqttUsername, lcdID: lcdID, text: displayText})
}

type fakeEvents struct {
	doors []bool
	lcds  []string
	slots []bool
}

func (f *fakeEvents) DoorChanged(door *domainPeripheral.Door) {
	f.doors = append(f.doors, door.IsOpened)
}

func (f *fakeEvents) LcdChanged(lcd *domainPeripheral.Lcd) {
	f.lcds = append(f.lcds, lcd.DisplayText)
}

func (f *fakeEvents) SlotChanged(slot *domainPeripheral.Slot) {
	f.slots = append(f.slots, slot.IsOccupied)
}

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func newFixture() (*Service, *fakePeripheralRepo, *fakeCommander, *fakeEvents) {
	username := "john_mc1"
	devices := &fakeDeviceRepo{devices: map[string]*domainDevice.Microcontroller{
		"mc1": {ID: 1, McCode: "mc1", PsID: 10, MqttUsername: &username, MqttEnabled: true},
		"mc2": {ID: 2, McCode: "mc2", PsID: 10},
	}}
	peripherals := &fakePeripheralRepo{
		doors: map[int]*domainPeripheral.Door{
			1: {ID: 1, Name: "gate-main", McID: intPtr(1)},
		},
		lcds: map[int]*domainPeripheral.Lcd{
			2: {ID: 2, Name: "lcd-main", McID: intPtr(1)},
		},
		sensors: map[int]*domainPeripheral.Sensor{
			3: {ID: 3, Name: "sensor-a1", McID: intPtr(1), SlotID: intPtr(4)},
			5: {ID: 5, Name: "sensor-loose", McID: intPtr(1)},
		},
		slots: map[int]*domainPeripheral.Slot{
			4: {ID: 4, Name: "A1", PsID: 10},
		},
	}
	commands := &fakeCommander{}
	events := &fakeEvents{}
	return NewService(peripherals, devices, commands, events), peripherals, commands, events
}

func TestHandleDoorStatus(t *testing.T) {
	service, peripherals, _, events := newFixture()

	door, err := service.HandleDoorStatus(context.Background(), "mc1", 1, boolPtr(true))
	require.NoError(t, err)
	assert.True(t, door.IsOpened)
	assert.True(t, peripherals.doors[1].IsOpened)
	assert.Equal(t, []bool{true}, events.doors)
}

func TestHandleDoorStatusRejectsForeignDevice(t *testing.T) {
	service, _, _, events := newFixture()

	_, err := service.HandleDoorStatus(context.Background(), "mc2", 1, boolPtr(true))
	require.Error(t, err)
	assert.True(t, appErrors.IsConflict(err))
	assert.Empty(t, events.doors)
}

func TestHandleDoorStatusRequiresPayloadField(t *testing.T) {
	service, _, _, _ := newFixture()

	_, err := service.HandleDoorStatus(context.Background(), "mc1", 1, nil)
	require.Error(t, err)
	assert.True(t, appErrors.IsValidation(err))
}

func TestHandleLcdStatus(t *testing.T) {
	service, peripherals, _, events := newFixture()

	lcd, err := service.HandleLcdStatus(context.Background(), "mc1", 2, strPtr("Slots free: 3"))
	require.NoError(t, err)
	assert.Equal(t, "Slots free: 3", lcd.DisplayText)
	assert.Equal(t, "Slots free: 3", peripherals.lcds[2].DisplayText)
	assert.Equal(t, []string{"Slots free: 3"}, events.lcds)
}

func TestHandleSensorStatusUpdatesBoundSlot(t *testing.T) {
	service, peripherals, _, events := newFixture()

	slot, err := service.HandleSensorStatus(context.Background(), "mc1", 3, boolPtr(true))
	require.NoError(t, err)
	assert.Equal(t, 4, slot.ID)
	assert.True(t, peripherals.slots[4].IsOccupied)
	assert.Equal(t, []bool{true}, events.slots)
}

func TestHandleSensorStatusWithoutSlotBinding(t *testing.T) {
	service, _, _, _ := newFixture()

	_, err := service.HandleSensorStatus(context.Background(), "mc1", 5, boolPtr(true))
	require.Error(t, err)
	assert.True(t, appErrors.IsConflict(err))
}

func TestSendLcdTextPublishesToOwningDevice(t *testing.T) {
	service, _, commands, _ := newFixture()

	require.NoError(t, service.SendLcdText(context.Background(), 2, "Welcome"))

	require.Len(t, commands.calls, 1)
	assert.Equal(t, "lcd", commands.calls[0].kind)
	assert.Equal(t, "john_mc1", commands.calls[0].username)
	assert.Equal(t, 2, commands.calls[0].lcdID)
	assert.Equal(t, "Welcome", commands.calls[0].text)
}

func TestSendDoorOpenPublishesManualCommand(t *testing.T) {
	service, _, commands, _ := newFixture()

	require.NoError(t, service.SendDoorOpen(context.Background(), 1))

	require.Len(t, commands.calls, 1)
	assert.Equal(t, "door", commands.calls[0].kind)
	assert.Equal(t, DoorCommandManual, commands.calls[0].commandType)
}

func TestSendLcdTextRequiresCredentials(t *testing.T) {
	service, peripherals, commands, _ := newFixture()
	peripherals.lcds[6] = &domainPeripheral.Lcd{ID: 6, Name: "lcd-orphan", McID: intPtr(2)}

	err := service.SendLcdText(context.Background(), 6, "Hello")
	require.Error(t, err)
	assert.True(t, appErrors.IsConflict(err))
	assert.Empty(t, commands.calls)
}
