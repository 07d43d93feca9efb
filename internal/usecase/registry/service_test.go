package registry

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	domainDevice "github.com/ak4shii/smart-parking-system/internal/domain/device"
	domainParking "github.com/ak4shii/smart-parking-system/internal/domain/parking"
	"github.com/ak4shii/smart-parking-system/internal/logger"
	appErrors "github.com/ak4shii/smart-parking-system/pkg/errors"
	"github.com/ak4shii/smart-parking-system/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Init("production"); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

type fakeDeviceRepo struct {
	devices map[string]*domainDevice.Microcontroller
	nextID  int

	credentials map[int]string
	revoked     []int
	deleted     []int
}

func newFakeDeviceRepo() *fakeDeviceRepo {
	return &fakeDeviceRepo{
		devices:     make(map[string]*domainDevice.Microcontroller),
		nextID:      1,
		credentials: make(map[int]string),
	}
}

func (f *fakeDeviceRepo) Create(ctx context.Context, mc *domainDevice.Microcontroller) error {
	if _, exists := f.devices[mc.McCode]; exists {
		return domainDevice.ErrCodeAlreadyExists
	}
	mc.ID = f.nextID
	f.nextID++
	f.devices[mc.McCode] = mc
	return nil
}

func (f *fakeDeviceRepo) GetByID(ctx context.Context, id int) (*domainDevice.Microcontroller, error) {
	for _, mc := range f.devices {
		if mc.ID == id {
			return mc, nil
		}
	}
	return nil, domainDevice.ErrMicrocontrollerNotFound
}

func (f *fakeDeviceRepo) GetByCode(ctx context.Context, mcCode string) (*domainDevice.Microcontroller, error) {
	mc, ok := f.devices[mcCode]
	if !ok {
		return nil, domainDevice.ErrMicrocontrollerNotFound
	}
	return mc, nil
}

func (f *fakeDeviceRepo) ListByParkingSpace(ctx context.Context, psID int) ([]*domainDevice.Microcontroller, error) {
	var out []*domainDevice.Microcontroller
	for _, mc := range f.devices {
		if mc.PsID == psID {
			out = append(out, mc)
		}
	}
	return out, nil
}

func (f *fakeDeviceRepo) Delete(ctx context.Context, id int) error {
	f.deleted = append(f.deleted, id)
	for code, mc := range f.devices {
		if mc.ID == id {
			delete(f.devices, code)
			return nil
		}
	}
	return domainDevice.ErrMicrocontrollerNotFound
}

func (f *fakeDeviceRepo) RecordStatus(ctx context.Context, mcCode string, report *domainDevice.StatusReport, seenAt time.Time) (*domainDevice.Microcontroller, error) {
	mc, ok := f.devices[mcCode]
	if !ok {
		return nil, domainDevice.ErrMicrocontrollerNotFound
	}
	online := true
	if report.Online != nil {
		online = *report.Online
	}
	mc.Online = online
	mc.LastSeen = &seenAt
	if report.UptimeSec != nil {
		mc.UptimeSec = report.UptimeSec
	}
	return mc, nil
}

func (f *fakeDeviceRepo) MarkStaleOffline(ctx context.Context, olderThan time.Time) ([]*domainDevice.Microcontroller, error) {
	var flipped []*domainDevice.Microcontroller
	for _, mc := range f.devices {
		if mc.Online && mc.LastSeen != nil && mc.LastSeen.Before(olderThan) {
			mc.Online = false
			flipped = append(flipped, mc)
		}
	}
	return flipped, nil
}

func (f *fakeDeviceRepo) SetCredentials(ctx context.Context, id int, mqttUsername, passwordHash string) error {
	f.credentials[id] = passwordHash
	mc, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	mc.MqttUsername = &mqttUsername
	mc.MqttPasswordHash = &passwordHash
	mc.MqttEnabled = true
	return nil
}

func (f *fakeDeviceRepo) RevokeCredentials(ctx context.Context, id int) error {
	f.revoked = append(f.revoked, id)
	return nil
}

type fakeParkingRepo struct {
	spaces map[int]*domainParking.ParkingSpace
}

func (f *fakeParkingRepo) GetByID(ctx context.Context, id int) (*domainParking.ParkingSpace, error) {
	space, ok := f.spaces[id]
	if !ok {
		return nil, domainParking.ErrParkingSpaceNotFound
	}
	return space, nil
}

type fakeEvents struct {
	changed []*domainDevice.Microcontroller
}

func (f *fakeEvents) MicrocontrollerChanged(mc *domainDevice.Microcontroller) {
	f.changed = append(f.changed, mc)
}

func newTestService() (*Service, *fakeDeviceRepo, *fakeEvents) {
	devices := newFakeDeviceRepo()
	parking := &fakeParkingRepo{spaces: map[int]*domainParking.ParkingSpace{
		10: {ID: 10, Name: "Downtown"},
	}}
	events := &fakeEvents{}
	return NewService(devices, parking, events), devices, events
}

func addDevice(devices *fakeDeviceRepo, mcCode string, online bool, lastSeen time.Time) *domainDevice.Microcontroller {
	mc := &domainDevice.Microcontroller{McCode: mcCode, PsID: 10, Online: online, LastSeen: &lastSeen}
	devices.Create(context.Background(), mc)
	return mc
}

func TestReportStatusRefreshesLiveness(t *testing.T) {
	service, devices, events := newTestService()
	addDevice(devices, "mc1", false, time.Now().Add(-time.Hour))

	uptime := int64(3600)
	mc, err := service.ReportStatus(context.Background(), "mc1", &domainDevice.StatusReport{UptimeSec: &uptime})
	require.NoError(t, err)

	assert.True(t, mc.Online)
	require.NotNil(t, mc.LastSeen)
	assert.WithinDuration(t, time.Now(), *mc.LastSeen, 5*time.Second)
	require.NotNil(t, mc.UptimeSec)
	assert.Equal(t, int64(3600), *mc.UptimeSec)
	assert.Len(t, events.changed, 1)
}

func TestReportStatusHonorsExplicitOffline(t *testing.T) {
	service, devices, _ := newTestService()
	addDevice(devices, "mc1", true, time.Now())

	offline := false
	mc, err := service.ReportStatus(context.Background(), "mc1", &domainDevice.StatusReport{Online: &offline})
	require.NoError(t, err)
	assert.False(t, mc.Online)
}

func TestReportStatusUnknownDevice(t *testing.T) {
	service, _, events := newTestService()

	_, err := service.ReportStatus(context.Background(), "mc-missing", &domainDevice.StatusReport{})
	require.Error(t, err)
	assert.True(t, appErrors.IsNotFound(err))
	assert.Empty(t, events.changed)
}

// Devices past the threshold flip offline; fresh devices never do.
func TestSweepOfflineFlipsOnlyStaleDevices(t *testing.T) {
	service, devices, events := newTestService()

	stale := addDevice(devices, "mc-stale", true, time.Now().Add(-time.Minute))
	fresh := addDevice(devices, "mc-fresh", true, time.Now())
	alreadyOff := addDevice(devices, "mc-off", false, time.Now().Add(-time.Hour))

	service.sweepOffline(context.Background(), 10*time.Second)

	assert.False(t, stale.Online)
	assert.True(t, fresh.Online)
	assert.False(t, alreadyOff.Online)

	require.Len(t, events.changed, 1)
	assert.Equal(t, "mc-stale", events.changed[0].McCode)
}

func TestSweepOfflineIsIdempotent(t *testing.T) {
	service, devices, events := newTestService()
	addDevice(devices, "mc-stale", true, time.Now().Add(-time.Minute))

	service.sweepOffline(context.Background(), 10*time.Second)
	service.sweepOffline(context.Background(), 10*time.Second)

	assert.Len(t, events.changed, 1)
}

func TestRegisterDevice(t *testing.T) {
	service, devices, _ := newTestService()

	resp, err := service.RegisterDevice(context.Background(), &RegisterDeviceRequest{
		ParkingSpaceID: 10,
		OwnerUsername:  "john_doe",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.McCode, "mc"))
	assert.Equal(t, "john_doe_"+resp.McCode, resp.MqttUsername)
	assert.NotEmpty(t, resp.MqttPassword)

	hash, ok := devices.credentials[resp.ID]
	require.True(t, ok)
	assert.NotEqual(t, resp.MqttPassword, hash)
	assert.True(t, utils.CheckPassword(hash, resp.MqttPassword))

	mc, err := devices.GetByCode(context.Background(), resp.McCode)
	require.NoError(t, err)
	assert.True(t, mc.MqttEnabled)
}

func TestRegisterDeviceUnknownParkingSpace(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.RegisterDevice(context.Background(), &RegisterDeviceRequest{
		ParkingSpaceID: 404,
		OwnerUsername:  "john",
	})
	require.Error(t, err)
	assert.True(t, appErrors.IsNotFound(err))
}

// Credentials must be revoked before the row disappears.
func TestDecommissionRevokesBeforeDelete(t *testing.T) {
	service, devices, _ := newTestService()
	mc := addDevice(devices, "mc1", true, time.Now())

	require.NoError(t, service.DecommissionDevice(context.Background(), mc.ID))

	require.Len(t, devices.revoked, 1)
	require.Len(t, devices.deleted, 1)
	assert.Equal(t, mc.ID, devices.revoked[0])
	_, err := devices.GetByCode(context.Background(), "mc1")
	assert.Error(t, err)
}

func TestDecommissionUnknownDevice(t *testing.T) {
	service, _, _ := newTestService()

	err := service.DecommissionDevice(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, appErrors.IsNotFound(err))
}
