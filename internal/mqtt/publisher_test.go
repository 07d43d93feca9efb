package mqtt

import (
	"encoding/json"
	"os"
	"testing"

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

type recordedPublish struct {
	topic   string
	qos     byte
	payload []byte
}

type fakeTransport struct {
	published []recordedPublish
	err       error
}

func (f *fakeTransport) Publish(topic string, qos byte, retained bool, payload []byte) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, recordedPublish{topic: topic, qos: qos, payload: payload})
	return nil
}

func TestSendCameraSnap(t *testing.T) {
	transport := &fakeTransport{}
	publisher := NewPublisher(transport, "sps", 1)

	publisher.SendCameraSnap("john_mc1", "rfid-42")

	require.Len(t, transport.published, 1)
	assert.Equal(t, "sps/john_mc1/camera", transport.published[0].topic)
	assert.Equal(t, byte(1), transport.published[0].qos)

	var cmd CameraCommand
	require.NoError(t, json.Unmarshal(transport.published[0].payload, &cmd))
	assert.Equal(t, "camera", cmd.Target)
	assert.Equal(t, "snap", cmd.Command)
	assert.Equal(t, "rfid-42", cmd.RfidCode)
}

func TestSendDoorOpen(t *testing.T) {
	transport := &fakeTransport{}
	publisher := NewPublisher(transport, "sps", 1)

	publisher.SendDoorOpen("john_mc1", "entry")

	require.Len(t, transport.published, 1)
	assert.Equal(t, "sps/john_mc1/command", transport.published[0].topic)

	var cmd DoorControl
	require.NoError(t, json.Unmarshal(transport.published[0].payload, &cmd))
	assert.Equal(t, "entry", cmd.CommandType)
	assert.Equal(t, "open", cmd.Command)
}

func TestSendLcdText(t *testing.T) {
	transport := &fakeTransport{}
	publisher := NewPublisher(transport, "sps", 0)

	publisher.SendLcdText("john_mc1", 7, "Welcome")

	require.Len(t, transport.published, 1)
	assert.Equal(t, "sps/john_mc1/lcd/command", transport.published[0].topic)

	var cmd LcdCommand
	require.NoError(t, json.Unmarshal(transport.published[0].payload, &cmd))
	assert.Equal(t, 7, cmd.LcdID)
	assert.Equal(t, "Welcome", cmd.DisplayText)
}

// A failing transport must never surface an error to the caller.
func TestSendPublishFailureIsSwallowed(t *testing.T) {
	transport := &fakeTransport{err: assert.AnError}
	publisher := NewPublisher(transport, "sps", 1)

	publisher.SendDoorOpen("john_mc1", "exit")

	assert.Empty(t, transport.published)
}
