package mqtt

import (
	"encoding/json"

	"github.com/ak4shii/smart-parking-system/internal/logger"

	"go.uber.org/zap"
)

// Transport is the outbound half of the MQTT client; pkg/mqtt.Client
// satisfies it.
type Transport interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
}

// Publisher issues outbound device commands and responses. All sends are
// fire-and-forget: beyond the transport's QoS there is no delivery
// acknowledgment, and failures are logged rather than surfaced to the
// workflow that triggered them.
type Publisher struct {
	transport Transport
	baseTopic string
	qos       byte
}

func NewPublisher(transport Transport, baseTopic string, qos byte) *Publisher {
	return &Publisher{
		transport: transport,
		baseTopic: baseTopic,
		qos:       qos,
	}
}

// Send marshals payload and publishes it on {base}/{mqttUsername}/{subtopic}.
func (p *Publisher) Send(mqttUsername, subtopic string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal outbound command",
			zap.String("subtopic", subtopic),
			zap.Error(err),
		)
		return
	}

	topic := BuildTopic(p.baseTopic, mqttUsername, subtopic)
	if err := p.transport.Publish(topic, p.qos, false, body); err != nil {
		logger.Error("Failed to publish command",
			zap.String("topic", topic),
			zap.Error(err),
		)
		return
	}

	logger.Debug("Published command",
		zap.String("topic", topic),
	)
}

// SendCameraSnap asks the device camera to capture a frame for the given
// credential.
func (p *Publisher) SendCameraSnap(mqttUsername, rfidCode string) {
	p.Send(mqttUsername, "camera", CameraCommand{
		Target:   "camera",
		Command:  "snap",
		RfidCode: rfidCode,
	})
}

// SendDoorOpen opens the entry or exit barrier on the device.
func (p *Publisher) SendDoorOpen(mqttUsername, commandType string) {
	p.Send(mqttUsername, "command", DoorControl{
		CommandType: commandType,
		Command:     "open",
	})
}

// SendLcdText pushes display text to one of the device's LCDs.
func (p *Publisher) SendLcdText(mqttUsername string, lcdID int, displayText string) {
	p.Send(mqttUsername, "lcd/command", LcdCommand{
		LcdID:       lcdID,
		DisplayText: displayText,
	})
}
