package dispatcher

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	domainDevice "github.com/ak4shii/smart-parking-system/internal/domain/device"
	domainPeripheral "github.com/ak4shii/smart-parking-system/internal/domain/peripheral"
	"github.com/ak4shii/smart-parking-system/internal/logger"
	"github.com/ak4shii/smart-parking-system/internal/mqtt"
	"github.com/ak4shii/smart-parking-system/internal/usecase/provision"
	appErrors "github.com/ak4shii/smart-parking-system/pkg/errors"
	pkgmqtt "github.com/ak4shii/smart-parking-system/pkg/mqtt"

	"go.uber.org/zap"
)

const handlerTimeout = 10 * time.Second

// Inbound subtopic suffixes and their response counterparts.
const (
	suffixEntryRequest     = "entry/request"
	suffixExitRequest      = "exit/request"
	suffixStatus           = "status"
	suffixSensorStatus     = "sensor/status"
	suffixDoorStatus       = "door/status"
	suffixLcdStatus        = "lcd/status"
	suffixProvisionRequest = "provision/request"

	suffixProvisionResponse = "provision/response"
	suffixSensorResponse    = "sensor/response"
	suffixDoorResponse      = "door/response"
	suffixLcdResponse       = "lcd/response"
)

// Subscriber is the inbound half of the MQTT client; pkg/mqtt.Client
// satisfies it.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler pkgmqtt.MessageHandler) error
}

// Responder publishes typed responses back to a device subtopic;
// *mqtt.Publisher satisfies it.
type Responder interface {
	Send(mqttUsername, subtopic string, payload any)
}

type Registry interface {
	ReportStatus(ctx context.Context, mcCode string, report *domainDevice.StatusReport) (*domainDevice.Microcontroller, error)
}

type Provisioner interface {
	Provision(ctx context.Context, mcCode string, req *provision.Request) (*provision.Result, error)
}

type Workflow interface {
	EntryTrigger(ctx context.Context, mqttUsername, mcCode, rfidCode string) error
	ExitTrigger(ctx context.Context, mqttUsername, mcCode, rfidCode string) error
}

type Peripherals interface {
	HandleDoorStatus(ctx context.Context, mcCode string, doorID int, isOpened *bool) (*domainPeripheral.Door, error)
	HandleLcdStatus(ctx context.Context, mcCode string, lcdID int, displayText *string) (*domainPeripheral.Lcd, error)
	HandleSensorStatus(ctx context.Context, mcCode string, sensorID int, isOccupied *bool) (*domainPeripheral.Slot, error)
}

// handlerFunc processes one decoded message. The dispatcher has already
// validated the topic shape and split the username.
type handlerFunc func(ctx context.Context, mqttUsername, mcCode string, payload []byte)

// Dispatcher routes inbound device messages to use cases through an
// explicit suffix table. Paho's receive loop drives handlers end to end;
// there is no internal queue, so back-pressure lands on the broker.
type Dispatcher struct {
	subscriber  Subscriber
	responder   Responder
	registry    Registry
	provisioner Provisioner
	workflow    Workflow
	peripherals Peripherals

	baseTopic string
	qos       byte
}

func NewDispatcher(
	subscriber Subscriber,
	responder Responder,
	registry Registry,
	provisioner Provisioner,
	workflow Workflow,
	peripherals Peripherals,
	baseTopic string,
	qos byte,
) *Dispatcher {
	return &Dispatcher{
		subscriber:  subscriber,
		responder:   responder,
		registry:    registry,
		provisioner: provisioner,
		workflow:    workflow,
		peripherals: peripherals,
		baseTopic:   baseTopic,
		qos:         qos,
	}
}

// Start subscribes every route. The wildcard sits on the username segment,
// one subscription per suffix.
func (d *Dispatcher) Start() error {
	routes := map[string]handlerFunc{
		suffixEntryRequest:     d.handleEntryRequest,
		suffixExitRequest:      d.handleExitRequest,
		suffixStatus:           d.handleStatus,
		suffixSensorStatus:     d.handleSensorStatus,
		suffixDoorStatus:       d.handleDoorStatus,
		suffixLcdStatus:        d.handleLcdStatus,
		suffixProvisionRequest: d.handleProvisionRequest,
	}

	for suffix, fn := range routes {
		filter := d.baseTopic + "/+/" + suffix
		if err := d.subscriber.Subscribe(filter, d.qos, d.wrap(fn)); err != nil {
			return err
		}
	}
	return nil
}

// wrap decodes the topic identity once for every route. Messages with a
// malformed topic are dropped here, before any use case runs.
func (d *Dispatcher) wrap(fn handlerFunc) pkgmqtt.MessageHandler {
	return func(topic string, payload []byte) {
		username, ok := mqtt.ParseUsername(topic)
		if !ok {
			logger.Warn("Dropping message with malformed topic",
				zap.String("topic", topic),
			)
			return
		}
		_, mcCode, ok := mqtt.SplitUsername(username)
		if !ok {
			logger.Warn("Dropping message with malformed mqtt username",
				zap.String("topic", topic),
				zap.String("mqtt_username", username),
			)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		defer cancel()
		fn(ctx, username, mcCode, payload)
	}
}

func (d *Dispatcher) handleEntryRequest(ctx context.Context, username, mcCode string, payload []byte) {
	var req mqtt.EntryRequest
	if !d.decode(payload, &req, username, suffixEntryRequest) || req.RfidCode == "" {
		return
	}
	if err := d.workflow.EntryTrigger(ctx, username, mcCode, req.RfidCode); err != nil {
		d.logHandlerError("entry request rejected", username, err)
	}
}

func (d *Dispatcher) handleExitRequest(ctx context.Context, username, mcCode string, payload []byte) {
	var req mqtt.ExitRequest
	if !d.decode(payload, &req, username, suffixExitRequest) || req.RfidCode == "" {
		return
	}
	if err := d.workflow.ExitTrigger(ctx, username, mcCode, req.RfidCode); err != nil {
		d.logHandlerError("exit request rejected", username, err)
	}
}

func (d *Dispatcher) handleStatus(ctx context.Context, username, mcCode string, payload []byte) {
	var report mqtt.StatusReport
	if !d.decode(payload, &report, username, suffixStatus) {
		return
	}
	_, err := d.registry.ReportStatus(ctx, mcCode, &domainDevice.StatusReport{
		Online:    report.Online,
		UptimeSec: report.UptimeSec,
	})
	if err != nil {
		d.logHandlerError("status report rejected", username, err)
	}
}

func (d *Dispatcher) handleSensorStatus(ctx context.Context, username, mcCode string, payload []byte) {
	var status mqtt.SensorStatus
	if !d.decode(payload, &status, username, suffixSensorStatus) {
		return
	}
	slot, err := d.peripherals.HandleSensorStatus(ctx, mcCode, status.SensorID, status.IsOccupied)
	if err != nil {
		d.respondError(username, suffixSensorResponse, err)
		return
	}
	d.responder.Send(username, suffixSensorResponse, mqtt.StatusResponse{
		Success: true,
		Message: "Slot occupancy updated",
		ID:      &slot.ID,
	})
}

func (d *Dispatcher) handleDoorStatus(ctx context.Context, username, mcCode string, payload []byte) {
	var status mqtt.DoorStatus
	if !d.decode(payload, &status, username, suffixDoorStatus) {
		return
	}
	door, err := d.peripherals.HandleDoorStatus(ctx, mcCode, status.DoorID, status.IsOpened)
	if err != nil {
		d.respondError(username, suffixDoorResponse, err)
		return
	}
	d.responder.Send(username, suffixDoorResponse, mqtt.StatusResponse{
		Success: true,
		Message: "Door status updated",
		ID:      &door.ID,
	})
}

func (d *Dispatcher) handleLcdStatus(ctx context.Context, username, mcCode string, payload []byte) {
	var status mqtt.LcdStatus
	if !d.decode(payload, &status, username, suffixLcdStatus) {
		return
	}
	lcd, err := d.peripherals.HandleLcdStatus(ctx, mcCode, status.LcdID, status.DisplayText)
	if err != nil {
		d.respondError(username, suffixLcdResponse, err)
		return
	}
	d.responder.Send(username, suffixLcdResponse, mqtt.StatusResponse{
		Success: true,
		Message: "Lcd status updated",
		ID:      &lcd.ID,
	})
}

// handleProvisionRequest always answers on the response subtopic; the
// firmware blocks on it to learn its component ids.
func (d *Dispatcher) handleProvisionRequest(ctx context.Context, username, mcCode string, payload []byte) {
	var req mqtt.ProvisionRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		d.responder.Send(username, suffixProvisionResponse, mqtt.ProvisionResponse{
			Success: false,
			Message: "Malformed provision request",
		})
		return
	}

	result, err := d.provisioner.Provision(ctx, mcCode, toProvisionRequest(&req))
	if err != nil {
		d.logHandlerError("provision rejected", username, err)
		d.responder.Send(username, suffixProvisionResponse, mqtt.ProvisionResponse{
			Success: false,
			Message: errorMessage(err),
		})
		return
	}

	message := "Provisioned"
	if !result.Success() {
		message = strings.Join(result.Failures, "; ")
	}
	d.responder.Send(username, suffixProvisionResponse, mqtt.ProvisionResponse{
		Success: result.Success(),
		Message: message,
		Doors:   toComponentResponses(result.Doors),
		Lcds:    toComponentResponses(result.Lcds),
		Sensors: toComponentResponses(result.Sensors),
	})
}

// decode drops malformed JSON with a log line; inbound device payloads
// never produce a validation response except on the provision path.
func (d *Dispatcher) decode(payload []byte, v any, username, suffix string) bool {
	if err := json.Unmarshal(payload, v); err != nil {
		logger.Warn("Dropping malformed payload",
			zap.String("mqtt_username", username),
			zap.String("suffix", suffix),
			zap.Error(err),
		)
		return false
	}
	return true
}

func (d *Dispatcher) respondError(username, responseSuffix string, err error) {
	d.logHandlerError("peripheral status rejected", username, err)
	d.responder.Send(username, responseSuffix, mqtt.StatusResponse{
		Success: false,
		Message: errorMessage(err),
	})
}

// logHandlerError keeps expected rejections quiet. NotFound and Conflict
// are normal device behavior (retries, double scans); only unclassified
// errors escalate.
func (d *Dispatcher) logHandlerError(msg, username string, err error) {
	fields := []zap.Field{
		zap.String("mqtt_username", username),
		zap.String("kind", string(appErrors.KindOf(err))),
		zap.Error(err),
	}
	switch appErrors.KindOf(err) {
	case appErrors.KindNotFound, appErrors.KindConflict, appErrors.KindValidation:
		logger.Warn(msg, fields...)
	default:
		logger.Error(msg, fields...)
	}
}

func errorMessage(err error) string {
	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal error"
}

func toProvisionRequest(req *mqtt.ProvisionRequest) *provision.Request {
	out := &provision.Request{
		Doors:   make([]provision.DoorSpec, len(req.Doors)),
		Lcds:    make([]provision.LcdSpec, len(req.Lcds)),
		Sensors: make([]provision.SensorSpec, len(req.Sensors)),
	}
	for i, d := range req.Doors {
		out.Doors[i] = provision.DoorSpec{Name: d.Name}
	}
	for i, l := range req.Lcds {
		out.Lcds[i] = provision.LcdSpec{Name: l.Name}
	}
	for i, s := range req.Sensors {
		out.Sensors[i] = provision.SensorSpec{Name: s.Name, Type: s.Type, SlotName: s.SlotName}
	}
	return out
}

func toComponentResponses(components []provision.ProvisionedComponent) []mqtt.ComponentResponse {
	out := make([]mqtt.ComponentResponse, len(components))
	for i, c := range components {
		out[i] = mqtt.ComponentResponse{ID: c.ID, Name: c.Name}
	}
	return out
}
