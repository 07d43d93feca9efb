package mqtt

import "strings"

// Topic scheme: {base}/{mqttUsername}/{...subtopic}
// where mqttUsername = {ownerUsername}_{mcCode}.
// Example: sps/john_mc12345678/sensor/status
//
// Owner usernames may themselves contain underscores, so the username is
// always split on the LAST underscore. This is a load-bearing convention
// shared with the broker ACLs and the device firmware.

// ParseUsername extracts the mqttUsername segment from an inbound topic.
func ParseUsername(topic string) (string, bool) {
	if topic == "" {
		return "", false
	}
	parts := strings.Split(topic, "/")
	if len(parts) < 2 {
		return "", false
	}
	return parts[1], true
}

// SplitUsername splits a mqttUsername into owner username and device code.
func SplitUsername(mqttUsername string) (owner, mcCode string, ok bool) {
	idx := strings.LastIndex(mqttUsername, "_")
	if idx <= 0 || idx == len(mqttUsername)-1 {
		return "", "", false
	}
	return mqttUsername[:idx], mqttUsername[idx+1:], true
}

// JoinUsername builds the composite mqttUsername for a device.
func JoinUsername(owner, mcCode string) string {
	return owner + "_" + mcCode
}

// BuildTopic builds an outbound topic for a device subtopic.
func BuildTopic(base, mqttUsername, subtopic string) string {
	return base + "/" + mqttUsername + "/" + subtopic
}

// HasMinimumParts reports whether the topic has at least n segments.
func HasMinimumParts(topic string, n int) bool {
	return len(strings.Split(topic, "/")) >= n
}

// TopicEndsWith reports whether the topic ends with the given suffix.
func TopicEndsWith(topic, suffix string) bool {
	return strings.HasSuffix(topic, suffix)
}
