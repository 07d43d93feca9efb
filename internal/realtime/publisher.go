package realtime

import (
	"sync/atomic"
	"time"

	"github.com/ak4shii/smart-parking-system/internal/domain/device"
	"github.com/ak4shii/smart-parking-system/internal/domain/peripheral"
	"github.com/ak4shii/smart-parking-system/internal/domain/session"
)

// Broadcaster is the fan-out sink for events; *Hub satisfies it.
type Broadcaster interface {
	Broadcast(channel string, event any)
}

// EventPublisher stamps every event with a process-wide monotonically
// increasing sequence number before handing it to the broadcaster. The
// sequence restarts at 1 on process restart; subscribers use it only to
// order events within a connection's lifetime.
type EventPublisher struct {
	broadcaster Broadcaster
	seq         atomic.Int64
}

func NewEventPublisher(broadcaster Broadcaster) *EventPublisher {
	return &EventPublisher{broadcaster: broadcaster}
}

func (p *EventPublisher) next() int64 {
	return p.seq.Add(1)
}

func (p *EventPublisher) SlotChanged(slot *peripheral.Slot) {
	p.broadcaster.Broadcast(ChannelOverview, SlotChangedEvent{
		EventID:        p.next(),
		Timestamp:      time.Now().UTC(),
		SlotID:         slot.ID,
		IsOccupied:     slot.IsOccupied,
		ParkingSpaceID: slot.PsID,
	})
}

func (p *EventPublisher) DoorChanged(door *peripheral.Door) {
	p.broadcaster.Broadcast(ChannelDoor, DoorChangedEvent{
		EventID:           p.next(),
		Timestamp:         time.Now().UTC(),
		DoorID:            door.ID,
		DoorName:          door.Name,
		IsOpened:          door.IsOpened,
		MicrocontrollerID: door.McID,
	})
}

func (p *EventPublisher) LcdChanged(lcd *peripheral.Lcd) {
	p.broadcaster.Broadcast(ChannelLcd, LcdChangedEvent{
		EventID:           p.next(),
		Timestamp:         time.Now().UTC(),
		LcdID:             lcd.ID,
		LcdName:           lcd.Name,
		DisplayText:       lcd.DisplayText,
		MicrocontrollerID: lcd.McID,
	})
}

func (p *EventPublisher) RfidChanged(rfid *session.Rfid) {
	p.broadcaster.Broadcast(ChannelRfid, RfidChangedEvent{
		EventID:        p.next(),
		Timestamp:      time.Now().UTC(),
		RfidID:         rfid.ID,
		RfidCode:       rfid.RfidCode,
		CurrentlyUsed:  rfid.CurrentlyUsed,
		ParkingSpaceID: rfid.PsID,
	})
}

func (p *EventPublisher) EntryLogChanged(kind string, log *session.EntryLog, rfid *session.Rfid) {
	p.broadcaster.Broadcast(ChannelEntryLog, EntryLogEvent{
		EventID:        p.next(),
		Timestamp:      time.Now().UTC(),
		Kind:           kind,
		EntryLogID:     log.ID,
		LicensePlate:   log.LicensePlate,
		RfidCode:       rfid.RfidCode,
		ParkingSpaceID: rfid.PsID,
	})
}

func (p *EventPublisher) MicrocontrollerChanged(mc *device.Microcontroller) {
	p.broadcaster.Broadcast(ChannelMicrocontroller, MicrocontrollerChangedEvent{
		EventID:           p.next(),
		Timestamp:         time.Now().UTC(),
		MicrocontrollerID: mc.ID,
		McCode:            mc.McCode,
		Online:            mc.Online,
		LastSeen:          mc.LastSeen,
		ParkingSpaceID:    mc.PsID,
	})
}
