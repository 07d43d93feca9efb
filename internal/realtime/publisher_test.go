package realtime

import (
	"os"
	"testing"

	"github.com/ak4shii/smart-parking-system/internal/domain/device"
	"github.com/ak4shii/smart-parking-system/internal/domain/peripheral"
	"github.com/ak4shii/smart-parking-system/internal/domain/session"
	"github.com/ak4shii/smart-parking-system/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Init("production"); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

type capturedEvent struct {
	channel string
	event   any
}

type fakeBroadcaster struct {
	events []capturedEvent
}

func (f *fakeBroadcaster) Broadcast(channel string, event any) {
	f.events = append(f.events, capturedEvent{channel: channel, event: event})
}

func TestEventSequenceIsMonotonic(t *testing.T) {
	sink := &fakeBroadcaster{}
	publisher := NewEventPublisher(sink)

	slot := &peripheral.Slot{ID: 1, Name: "A1", PsID: 2, IsOccupied: true}
	door := &peripheral.Door{ID: 3, Name: "gate", IsOpened: true}
	rfid := &session.Rfid{ID: 4, RfidCode: "r1", PsID: 2}

	publisher.SlotChanged(slot)
	publisher.DoorChanged(door)
	publisher.RfidChanged(rfid)

	require.Len(t, sink.events, 3)
	assert.Equal(t, int64(1), sink.events[0].event.(SlotChangedEvent).EventID)
	assert.Equal(t, int64(2), sink.events[1].event.(DoorChangedEvent).EventID)
	assert.Equal(t, int64(3), sink.events[2].event.(RfidChangedEvent).EventID)
}

func TestEventsLandOnTheirChannels(t *testing.T) {
	sink := &fakeBroadcaster{}
	publisher := NewEventPublisher(sink)

	plate := "51A-12345"
	log := &session.EntryLog{ID: 9, RfidID: 4, LicensePlate: &plate}
	rfid := &session.Rfid{ID: 4, RfidCode: "r1", PsID: 2}

	publisher.SlotChanged(&peripheral.Slot{ID: 1, PsID: 2})
	publisher.DoorChanged(&peripheral.Door{ID: 3})
	publisher.LcdChanged(&peripheral.Lcd{ID: 5})
	publisher.RfidChanged(rfid)
	publisher.EntryLogChanged(EntryLogRecognized, log, rfid)
	publisher.MicrocontrollerChanged(&device.Microcontroller{ID: 6, McCode: "mc1", PsID: 2})

	require.Len(t, sink.events, 6)
	assert.Equal(t, ChannelOverview, sink.events[0].channel)
	assert.Equal(t, ChannelDoor, sink.events[1].channel)
	assert.Equal(t, ChannelLcd, sink.events[2].channel)
	assert.Equal(t, ChannelRfid, sink.events[3].channel)
	assert.Equal(t, ChannelEntryLog, sink.events[4].channel)
	assert.Equal(t, ChannelMicrocontroller, sink.events[5].channel)

	entryEvent := sink.events[4].event.(EntryLogEvent)
	assert.Equal(t, EntryLogRecognized, entryEvent.Kind)
	assert.Equal(t, 9, entryEvent.EntryLogID)
	assert.Equal(t, "r1", entryEvent.RfidCode)
	require.NotNil(t, entryEvent.LicensePlate)
	assert.Equal(t, plate, *entryEvent.LicensePlate)
}

func TestKnownChannel(t *testing.T) {
	hub := NewHub()
	assert.True(t, hub.KnownChannel(ChannelOverview))
	assert.True(t, hub.KnownChannel(ChannelEntryLog))
	assert.False(t, hub.KnownChannel("everything"))
}
