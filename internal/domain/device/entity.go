package device

import "time"

// Microcontroller represents a gate-control device bound to one parking
// space. McCode is the immutable, globally unique identifier devices use
// on the wire; the MQTT identity fields are derived at registration.
type Microcontroller struct {
	ID        int
	McCode    string
	Name      *string
	PsID      int
	Online    bool
	UptimeSec *int64
	LastSeen  *time.Time

	MqttUsername     *string
	MqttPasswordHash *string
	MqttEnabled      bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StatusReport is a device's own view of its health, published on the
// status subtopic. Online is optional: an absent field means online.
type StatusReport struct {
	Online    *bool
	UptimeSec *int64
}
